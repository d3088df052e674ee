package astio

import (
	"errors"

	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/pipeline"
)

// LoaderProcessor decodes the context's files and registers every unit
// in the environment.
type LoaderProcessor struct{}

func (lp *LoaderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	for _, path := range ctx.Files {
		unit, err := DecodeFile(path)
		if err != nil {
			var diag *diagnostics.DiagnosticError
			if errors.As(err, &diag) {
				ctx.Errors.Add(diag)
			} else {
				ctx.SetFault(err)
			}
			continue
		}
		if err := ctx.Env.Register(unit); err != nil {
			ctx.Errors.Add(diagnostics.NewError(diagnostics.ErrA012, unit.GetToken(), err.Error()))
			continue
		}
		ctx.Units = append(ctx.Units, unit)
	}
	return ctx
}
