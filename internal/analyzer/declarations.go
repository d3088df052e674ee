package analyzer

import (
	"errors"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/obligations"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// driver walks the declarations of one unit. Every scope it opens is
// closed by a deferred EndScope, so scopes balance even when a fault
// unwinds the walk.
type driver struct {
	a      *Analyzer
	scope  *symbols.Scope
	r      *resolver
	module *symbols.ModuleTable
	// current names the operation or procedure being walked.
	current string
}

func (d *driver) report(err *diagnostics.DiagnosticError) {
	if err != nil {
		d.a.errors.Add(err)
	}
}

func (d *driver) walkModule(unit ast.ModuleDec) {
	d.scope.BeginScope(symbols.ScopeModule, unit.ModuleName())
	defer d.scope.EndScope(symbols.ScopeModule)

	switch u := unit.(type) {
	case *ast.MathModuleDec:
		d.decs(u.Decs)
	case *ast.ConceptDec:
		d.params(u.Params)
		d.site(obligations.KindConstraint, u.Name, u.Constraint, resolveOpts{}, true)
		d.decs(u.Decs)
	case *ast.EnhancementDec:
		d.params(u.Params)
		d.decs(u.Decs)
	case *ast.RealizationDec:
		d.params(u.Params)
		d.decs(u.Decs)
	case *ast.FacilityModuleDec:
		d.decs(u.Decs)
	}
}

func (d *driver) params(params []ast.ModuleParam) {
	for _, p := range params {
		switch p := p.(type) {
		case *ast.DefinitionParam:
			d.definition(p.Def)
		case *ast.OperationParam:
			d.operation(p.Op)
		}
	}
}

func (d *driver) decs(decs []ast.Dec) {
	for _, dec := range decs {
		switch dec := dec.(type) {
		case *ast.DefinitionDec:
			d.definition(dec)
		case *ast.MathAssertionDec:
			d.theorem(dec)
		case *ast.ProofDec:
			d.proof(dec)
		case *ast.TypeFamilyDec:
			d.typeFamily(dec)
		case *ast.RepresentationDec:
			d.representation(dec)
		case *ast.OperationDec:
			d.operation(dec)
		case *ast.ProcedureDec:
			d.procedure(dec)
		case *ast.FacilityDec:
			d.facility(dec)
		}
	}
}

// site types one assertion site. A reported error ends the site and the
// pass moves on. Typing must either succeed with every subexpression filled
// in or fail with a diagnostic; a failure nobody reported, or an untyped
// node left behind, is an internal fault. Clean sites are handed off as
// obligations.
func (d *driver) site(kind obligations.Kind, name string, e ast.Exp, opts resolveOpts, boolean bool) (typesystem.Type, bool) {
	if e == nil {
		return nil, false
	}
	checkpoint := d.a.errors.Checkpoint()
	t, err := d.r.resolve(e, opts)
	if err != nil {
		if d.a.errors.Since(checkpoint) == 0 {
			panic(fault(e.GetToken(), err, "typing %s failed without a diagnostic", ast.Print(e)))
		}
		return nil, false
	}
	if d.a.errors.Since(checkpoint) > 0 {
		return nil, false
	}
	if missing := ast.Unresolved(e); len(missing) > 0 {
		panic(fault(missing[0].GetToken(), nil, "%s in %s was left untyped", ast.Print(missing[0]), ast.Print(e)))
	}

	if boolean && d.a.settings.TypeCheck {
		if err := d.r.expectBoolean(e, t, resolveOpts{}); err != nil {
			return t, false
		}
	}
	tok := e.GetToken()
	d.a.handoff.Submit(obligations.Obligation{
		Module: d.module.Name,
		Kind:   kind,
		Name:   name,
		Text:   ast.Print(e),
		Type:   typesystem.Show(t),
		File:   tok.File,
		Line:   tok.Line,
		Column: tok.Column,
	})
	return t, true
}

// finalizeValue stores a resolved value when proof checking is enabled.
func (d *driver) finalizeValue(ref symbols.ValueRef, value ast.Exp) {
	if !d.a.settings.Prove || value == nil {
		return
	}
	if err := d.scope.FinalizeValue(ref, value); err != nil && !errors.Is(err, symbols.ErrAlreadyFinalized) {
		panic(fault(value.GetToken(), err, "cannot store value of %s", ast.Print(value)))
	}
}

func (d *driver) theorem(dec *ast.MathAssertionDec) {
	kind := obligations.KindTheorem
	if dec.Kind == ast.Axiom {
		kind = obligations.KindAxiom
	}
	if _, ok := d.site(kind, dec.Name, dec.Assertion, resolveOpts{}, true); !ok {
		return
	}
	if thm, found := d.module.Theorem(dec.Name); found {
		d.finalizeValue(thm.Value, dec.Assertion)
	}
}

// definition types the clauses of a module-level definition. Each clause
// is a site of its own.
func (d *driver) definition(dec *ast.DefinitionDec) {
	var def *symbols.Definition
	for _, candidate := range d.module.Definitions(dec.Name) {
		if candidate.Node == dec {
			def = candidate
		}
	}
	if def == nil {
		// rejected by the naming pass
		return
	}
	clean := true
	def = d.r.checkDefinition(def, func(clause ast.Exp, opts resolveOpts, boolean bool) (typesystem.Type, bool) {
		t, ok := d.site(obligations.KindDefinition, dec.Name, clause, opts, boolean)
		clean = clean && ok
		return t, ok
	}, resolveOpts{})
	if !clean {
		return
	}
	value := dec.Definition
	if value == nil {
		value = dec.Hypothesis
	}
	d.finalizeValue(def.Value, value)
}

func (d *driver) proof(dec *ast.ProofDec) {
	thm, ok := d.scope.LookupTheorem("", dec.TheoremName)
	if !ok {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA001, dec.Token, "proof of unknown theorem %s", dec.TheoremName))
		return
	}
	d.scope.BeginScope(symbols.ScopeProof, dec.TheoremName)
	defer d.scope.EndScope(symbols.ScopeProof)
	d.r.hyps = make(map[string]bool)
	defer func() { d.r.hyps = nil }()

	clean := true
	var last ast.Exp
	for _, step := range dec.Body {
		_, isDef := step.(*ast.ProofDefinitionExp)
		_, ok := d.site(obligations.KindProof, dec.TheoremName, step, resolveOpts{}, !isDef)
		clean = clean && ok
		last = step
	}
	if clean && thm.Module == d.module.Name {
		d.finalizeValue(thm.Proof, last)
	}
}

func (d *driver) typeFamily(dec *ast.TypeFamilyDec) {
	d.scope.BeginScope(symbols.ScopeType, dec.Name)
	defer d.scope.EndScope(symbols.ScopeType)

	if entry, ok := d.module.Type(dec.Name); ok && dec.Exemplar != "" {
		d.scope.BindVariable(&symbols.Variable{Name: dec.Exemplar, Type: entry.Type, Mode: ast.ModeLocal, Node: dec})
	}
	d.site(obligations.KindConstraint, dec.Name, dec.Constraint, resolveOpts{}, true)
	d.site(obligations.KindInitialization, dec.Name, dec.InitEnsures, resolveOpts{}, true)
}

// representation checks a realization's type representation. The family's
// exemplar names a value of the representation inside the convention and
// correspondence.
func (d *driver) representation(dec *ast.RepresentationDec) {
	d.scope.BeginScope(symbols.ScopeType, dec.Name)
	defer d.scope.EndScope(symbols.ScopeType)

	if entry, ok := d.module.Type(dec.Name); ok {
		if exemplar := d.exemplarOf(dec.Name); exemplar != "" {
			d.scope.BindVariable(&symbols.Variable{Name: exemplar, Type: entry.Type, Mode: ast.ModeLocal, Node: dec})
		}
	}
	d.site(obligations.KindConvention, dec.Name, dec.Convention, resolveOpts{}, true)
	d.site(obligations.KindCorrespondence, dec.Name, dec.Correspondence, resolveOpts{}, true)
	d.site(obligations.KindInitialization, dec.Name, dec.InitEnsures, resolveOpts{}, true)
}

func (d *driver) exemplarOf(family string) string {
	for _, m := range d.module.Visible() {
		if entry, ok := m.Type(family); ok && entry.Exemplar != "" {
			return entry.Exemplar
		}
	}
	return ""
}
