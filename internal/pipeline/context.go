package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/obligations"
	"github.com/funvibe/mathsema/internal/symbols"
)

// PipelineContext carries the state shared by the stages of one run.
type PipelineContext struct {
	Context  context.Context
	Settings *config.Settings

	// Files are the unit files to load, library files first.
	Files []string
	// Units are the decoded compilation units, in load order.
	Units []ast.ModuleDec
	Env   *symbols.Environment

	Errors      *diagnostics.Collector
	Obligations *obligations.Collector

	// RunID identifies this run in the obligation store.
	RunID string
	// Fault is set when a stage hit an internal fault or an I/O failure.
	Fault error
}

// NewPipelineContext creates the context for a run over files. A nil
// settings value means the defaults.
func NewPipelineContext(ctx context.Context, settings *config.Settings, files ...string) *PipelineContext {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &PipelineContext{
		Context:     ctx,
		Settings:    settings,
		Files:       files,
		Env:         symbols.NewEnvironment(),
		Errors:      diagnostics.NewCollector(),
		Obligations: obligations.NewCollector(),
		RunID:       uuid.New().String(),
	}
}

// SetFault records the first fault of the run.
func (c *PipelineContext) SetFault(err error) {
	if c.Fault == nil {
		c.Fault = err
	}
}

// Failed reports whether the run produced any error diagnostic or fault.
func (c *PipelineContext) Failed() bool {
	return c.Fault != nil || c.Errors.Count() > 0
}
