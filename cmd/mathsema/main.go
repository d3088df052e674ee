package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/mathsema/internal/analyzer"
	"github.com/funvibe/mathsema/internal/astio"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/obligations/store"
	"github.com/funvibe/mathsema/internal/pipeline"
)

const usage = `Usage: mathsema [options] <unit.yaml>...
       mathsema runs <obligations.db>
       mathsema list <obligations.db> <run-id>

Options:
  -config <file>   settings file (default: mathsema.yaml if present)
  -db <file>       store typed assertions in this SQLite database
  -prove           attach resolved values to definitions, theorems and proofs
  -notypecheck     do not require assertions to be Boolean
  -color <mode>    auto, always or never
  -debug           re-panic on internal errors
  -v, -verbose     log progress to stderr
`

// options are the command-line settings of one analysis run.
type options struct {
	configPath  string
	db          string
	prove       bool
	noTypeCheck bool
	color       string
	debug       bool
	verbose     bool
	files       []string
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	value := func(i *int, flag string) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%s needs a value", flag)
		}
		*i++
		return args[*i], nil
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var err error
		switch arg {
		case "-config", "--config":
			opts.configPath, err = value(&i, arg)
		case "-db", "--db":
			opts.db, err = value(&i, arg)
		case "-color", "--color":
			opts.color, err = value(&i, arg)
		case "-prove", "--prove":
			opts.prove = true
		case "-notypecheck", "--notypecheck":
			opts.noTypeCheck = true
		case "-debug", "--debug":
			opts.debug = true
		case "-v", "-verbose", "--verbose":
			opts.verbose = true
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option %s", arg)
			}
			if !config.IsSourceFile(arg) {
				return nil, fmt.Errorf("%s is not a unit file (want %s)", arg, strings.Join(config.SourceFileExtensions, " or "))
			}
			opts.files = append(opts.files, arg)
		}
		if err != nil {
			return nil, err
		}
	}
	if len(opts.files) == 0 {
		return nil, fmt.Errorf("no unit files given")
	}
	return opts, nil
}

// loadSettings reads the settings file, applies command-line overrides and
// resolves library paths against the settings file's directory.
func loadSettings(opts *options) (*config.Settings, error) {
	path := opts.configPath
	if path == "" {
		if _, err := os.Stat(config.SettingsFileName); err == nil {
			path = config.SettingsFileName
		}
	}
	settings := config.DefaultSettings()
	if path != "" {
		var err error
		settings, err = config.LoadSettings(path)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(path)
		for i, lib := range settings.Library {
			if !filepath.IsAbs(lib) {
				settings.Library[i] = filepath.Join(dir, lib)
			}
		}
	}
	if opts.db != "" {
		settings.Obligations = opts.db
	}
	if opts.prove {
		settings.Prove = true
	}
	if opts.noTypeCheck {
		settings.TypeCheck = false
	}
	if opts.color != "" {
		settings.Color = opts.color
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// handleStore serves the runs and list commands. It reports false when the
// arguments are not a store command.
func handleStore(args []string) bool {
	if len(args) == 0 || (args[0] != "runs" && args[0] != "list") {
		return false
	}
	ctx := context.Background()
	if (args[0] == "runs" && len(args) != 2) || (args[0] == "list" && len(args) != 3) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	s, err := store.Open(ctx, args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if args[0] == "runs" {
		runs, err := s.Runs(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %d obligations\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Count)
		}
		return true
	}
	items, err := s.List(ctx, args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	for _, o := range items {
		fmt.Printf("%s:%d:%d: %s %s.%s: %s\n", o.File, o.Line, o.Column, o.Kind, o.Module, o.Name, o.Text)
	}
	return true
}

func main() {
	debug := os.Getenv("DEBUG") == "1"
	defer func() {
		if r := recover(); r != nil {
			if debug {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(2)
		}
	}()

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "--help" || args[0] == "help" {
		fmt.Print(usage)
		return
	}
	if handleStore(args) {
		return
	}

	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n%s", err, usage)
		os.Exit(1)
	}
	debug = debug || opts.debug
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
	settings, err := loadSettings(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	files := append(append([]string(nil), settings.Library...), opts.files...)
	ctx := pipeline.NewPipelineContext(context.Background(), settings, files...)
	ctx = pipeline.New(
		&astio.LoaderProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&store.StoreProcessor{},
	).Run(ctx)
	if opts.verbose {
		logRun(ctx)
	}

	printer := diagnostics.NewPrinter(os.Stderr, settings.Color)
	printer.Print(ctx.Errors.Errors())
	printer.Summary(ctx.Errors.Count())

	if ctx.Fault != nil {
		if debug {
			panic(ctx.Fault)
		}
		fmt.Fprintf(os.Stderr, "Fatal: %s\n", ctx.Fault)
		os.Exit(2)
	}
	if ctx.Errors.Count() > 0 {
		os.Exit(1)
	}
	if settings.Obligations != "" {
		fmt.Printf("%d obligations recorded as run %s\n", ctx.Obligations.Len(), ctx.RunID)
	}
}

func logRun(ctx *pipeline.PipelineContext) {
	for _, unit := range ctx.Units {
		log.Printf("loaded module %s", unit.ModuleName())
	}
	log.Printf("analyzed %d units, %d errors", len(ctx.Units), ctx.Errors.Count())
	if ctx.Settings.Obligations != "" && ctx.Fault == nil {
		log.Printf("stored %d obligations (run %s)", ctx.Obligations.Len(), ctx.RunID)
	}
}
