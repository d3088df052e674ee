package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/obligations"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// Analyzer types every expression of the units registered in an
// environment and resolves every overloaded reference.
type Analyzer struct {
	env      *symbols.Environment
	settings config.Settings
	errors   *diagnostics.Collector
	handoff  obligations.Handoff
	stats    symbols.Stats
}

// New creates an analyzer over env and installs its naming pass as the
// environment's module builder. A nil collector gets a fresh one.
func New(env *symbols.Environment, settings config.Settings, errs *diagnostics.Collector) *Analyzer {
	if errs == nil {
		errs = diagnostics.NewCollector()
	}
	a := &Analyzer{
		env:      env,
		settings: settings,
		errors:   errs,
		handoff:  obligations.Discard{},
	}
	env.SetBuilder(a.buildModule)
	return a
}

// SetHandoff sets where cleanly typed assertions are sent.
func (a *Analyzer) SetHandoff(h obligations.Handoff) {
	a.handoff = h
}

// Errors returns the collector holding every reported diagnostic.
func (a *Analyzer) Errors() *diagnostics.Collector {
	return a.errors
}

// Stats returns the scope counters accumulated over every analyzed unit.
func (a *Analyzer) Stats() symbols.Stats {
	return a.stats
}

func (a *Analyzer) addStats(s symbols.Stats) {
	a.stats.Lookups += s.Lookups
	a.stats.CorrespondenceQueries += s.CorrespondenceQueries
	a.stats.Begins += s.Begins
	a.stats.Ends += s.Ends
}

// Analyze runs the semantic pass over one unit. Problems in the unit are
// reported to the collector and do not stop the pass; the returned error is
// non-nil only for an internal fault, which is also reported as I001.
func (a *Analyzer) Analyze(unit ast.ModuleDec) (err error) {
	if _, ok := a.env.Dec(unit.ModuleName()); !ok {
		if regErr := a.env.Register(unit); regErr != nil {
			a.errors.Add(diagnostics.NewError(diagnostics.ErrA012, unit.GetToken(), regErr.Error()))
			return nil
		}
	}
	table, modErr := a.env.Module(unit.ModuleName())
	if modErr != nil {
		a.errors.Add(diagnostics.NewError(diagnostics.ErrA011, unit.GetToken(), modErr.Error()))
		return nil
	}

	scope := symbols.NewScope(a.env, table)
	d := &driver{a: a, scope: scope, r: newResolver(a, scope), module: table}

	defer func() {
		a.addStats(scope.Stats())
		if rec := recover(); rec != nil {
			f := asFault(rec)
			diag := diagnostics.NewError(diagnostics.ErrI001, f.Token, f.Error())
			diag.Phase = diagnostics.PhaseInternal
			a.errors.Add(diag)
			err = f
		}
	}()

	d.walkModule(unit)
	return nil
}

// Resolve types e as if it appeared at the top level of module. It is the
// entry point used by tools that type standalone expressions.
func (a *Analyzer) Resolve(module string, e ast.Exp) (typesystem.Type, error) {
	table, err := a.env.Module(module)
	if err != nil {
		return nil, err
	}
	scope := symbols.NewScope(a.env, table)
	defer func() { a.addStats(scope.Stats()) }()
	r := newResolver(a, scope)
	scope.BeginScope(symbols.ScopeModule, module)
	defer scope.EndScope(symbols.ScopeModule)
	t, rerr := r.resolve(e, resolveOpts{})
	if rerr != nil {
		return nil, rerr
	}
	return t, nil
}
