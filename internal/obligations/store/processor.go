package store

import (
	"fmt"

	"github.com/funvibe/mathsema/internal/pipeline"
)

// StoreProcessor persists the obligations of a run when the settings name
// a database. A run that found errors is still recorded.
type StoreProcessor struct{}

func (sp *StoreProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	path := ctx.Settings.Obligations
	if path == "" || ctx.Fault != nil {
		return ctx
	}

	items := ctx.Obligations.Items()
	for i := range items {
		items[i].RunID = ctx.RunID
	}

	s, err := Open(ctx.Context, path)
	if err != nil {
		ctx.SetFault(err)
		return ctx
	}
	defer s.Close()
	if err := s.Record(ctx.Context, ctx.RunID, items); err != nil {
		ctx.SetFault(fmt.Errorf("storing obligations: %w", err))
	}
	return ctx
}
