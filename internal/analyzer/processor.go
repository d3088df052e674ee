package analyzer

import (
	"github.com/funvibe/mathsema/internal/pipeline"
)

// SemanticAnalyzerProcessor runs the semantic pass over every loaded unit.
// Cleanly typed assertions are collected in the context's obligations.
type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Units) == 0 {
		return ctx
	}

	analyzer := New(ctx.Env, *ctx.Settings, ctx.Errors)
	analyzer.SetHandoff(ctx.Obligations)
	for _, unit := range ctx.Units {
		if err := analyzer.Analyze(unit); err != nil {
			ctx.SetFault(err)
		}
	}
	return ctx
}
