package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/mathsema/internal/token"
)

func TestDiagnosticError_Format(t *testing.T) {
	err := NewError(ErrA002, token.Token{File: "unit.yaml", Line: 3, Column: 7}, "type mismatch: expected B, found N")
	want := "unit.yaml:3:7: [analyzer] error [A002]: type mismatch: expected B, found N"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	noPos := NewError(ErrA011, token.Token{}, "unknown module X")
	if noPos.Error() != "[analyzer] error [A011]: unknown module X" {
		t.Errorf("got %q", noPos.Error())
	}
}

func TestCollector_CheckpointsAndDedup(t *testing.T) {
	c := NewCollector()
	tok := token.Token{Line: 1, Column: 1}
	c.Add(NewError(ErrA001, tok, "unresolved identifier x"))
	cp := c.Checkpoint()
	if c.Since(cp) != 0 {
		t.Fatal("no errors expected since checkpoint")
	}
	c.Add(NewError(ErrA001, tok, "unresolved identifier x"))
	c.Add(NewError(ErrA002, token.Token{Line: 0, Column: 0}, "mismatch"))
	if c.Since(cp) != 2 {
		t.Errorf("Since = %d, want 2", c.Since(cp))
	}
	errs := c.Errors()
	if len(errs) != 2 {
		t.Fatalf("unique errors = %d, want 2", len(errs))
	}
	if errs[0].Code != ErrA002 {
		t.Errorf("position-less error should sort first, got %s", errs[0].Code)
	}
	if c.Count() != len(errs) {
		t.Errorf("Count = %d, want %d", c.Count(), len(errs))
	}
	if !c.HasCode(ErrA001) || c.HasCode(ErrA007) {
		t.Error("HasCode mismatch")
	}
}

func TestPrinter_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "auto")
	p.Print([]*DiagnosticError{NewError(ErrA003, token.Token{Line: 2, Column: 4}, "field Top not found")})
	p.Summary(1)
	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Errorf("unexpected escape codes in %q", out)
	}
	if !strings.HasSuffix(out, "1 error\n") {
		t.Errorf("missing summary in %q", out)
	}

	buf.Reset()
	NewPrinter(&buf, "always").Print([]*DiagnosticError{NewError(ErrA003, token.Token{}, "x")})
	if !strings.Contains(buf.String(), ansiRed) {
		t.Error("expected colour with mode always")
	}
}

func TestCollector_SamePositionAndCodeReportedOnce(t *testing.T) {
	c := NewCollector()
	tok := token.Token{File: "unit.yaml", Line: 4, Column: 2}
	c.Add(NewError(ErrA002, tok, "type mismatch: expected B, found N"))
	c.Add(NewError(ErrA002, tok, "type mismatch: expected B, found Z"))
	c.Add(NewError(ErrA001, tok, "unresolved identifier y"))
	c.Add(NewError(ErrA011, token.Token{}, "unknown module X"))
	c.Add(NewError(ErrA011, token.Token{}, "unknown module Y"))

	errs := c.Errors()
	if c.Count() != 4 || len(errs) != 4 {
		t.Fatalf("Count = %d, Errors = %d, want 4", c.Count(), len(errs))
	}
	for _, err := range errs {
		if err.Code == ErrA002 && !strings.HasSuffix(err.Message, "found N") {
			t.Errorf("first message should win, got %q", err.Message)
		}
	}
	if c.Since(0) != 5 {
		t.Errorf("Since(0) = %d, want 5", c.Since(0))
	}

	var buf bytes.Buffer
	NewPrinter(&buf, "never").Summary(c.Count())
	if !strings.Contains(buf.String(), "4 errors") {
		t.Errorf("summary should count printed errors, got %q", buf.String())
	}
}
