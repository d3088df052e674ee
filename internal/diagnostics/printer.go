package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

// Printer writes diagnostics to a stream, coloured when the stream is a terminal.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a printer for w. mode is one of "auto", "always", "never";
// "auto" colours only when w is a terminal.
func NewPrinter(w io.Writer, mode string) *Printer {
	color := false
	switch mode {
	case "always":
		color = true
	case "never":
		color = false
	default:
		if f, ok := w.(*os.File); ok {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return &Printer{w: w, color: color}
}

func (p *Printer) Print(errs []*DiagnosticError) {
	for _, err := range errs {
		if p.color {
			fmt.Fprintf(p.w, "%s%s%s%s\n", ansiBold, ansiRed, err.Error(), ansiReset)
		} else {
			fmt.Fprintln(p.w, err.Error())
		}
	}
}

// Summary prints the trailing "N error(s)" line.
func (p *Printer) Summary(count int) {
	if count == 0 {
		return
	}
	suffix := "s"
	if count == 1 {
		suffix = ""
	}
	fmt.Fprintf(p.w, "%d error%s\n", count, suffix)
}
