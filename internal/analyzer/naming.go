package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/token"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// buildModule is the naming pass. It creates the module's table, makes the
// modules it depends on visible and declares every entry the semantic pass
// looks up. Problems are reported and the table is still returned, so one
// bad declaration does not hide the rest of the module.
func (a *Analyzer) buildModule(env *symbols.Environment, dec ast.ModuleDec) (*symbols.ModuleTable, error) {
	n := &namer{a: a, env: env}
	n.table = symbols.NewModuleTable(dec.ModuleName(), moduleKind(dec), dec)
	n.scope = symbols.NewScope(env, n.table)

	n.resolveVisibility(dec)

	switch dec := dec.(type) {
	case *ast.ConceptDec:
		n.declareParams(dec.Params)
	case *ast.EnhancementDec:
		n.declareParams(dec.Params)
	case *ast.RealizationDec:
		n.declareParams(dec.Params)
	}

	// Types first so that signatures can mention types declared later.
	for _, d := range dec.ModuleDecs() {
		n.declareType(d)
	}
	for _, d := range dec.ModuleDecs() {
		n.declare(d)
	}
	a.addStats(n.scope.Stats())
	return n.table, nil
}

type namer struct {
	a     *Analyzer
	env   *symbols.Environment
	table *symbols.ModuleTable
	scope *symbols.Scope
}

func moduleKind(dec ast.ModuleDec) symbols.ModuleKind {
	switch dec.(type) {
	case *ast.ConceptDec:
		return symbols.ConceptModule
	case *ast.EnhancementDec:
		return symbols.EnhancementModule
	case *ast.RealizationDec:
		return symbols.RealizationModule
	case *ast.FacilityModuleDec:
		return symbols.FacilityModule
	default:
		return symbols.TheoryModule
	}
}

func (n *namer) report(err *diagnostics.DiagnosticError) {
	if err != nil {
		n.a.errors.Add(err)
	}
}

func (n *namer) reportAll(errs []*diagnostics.DiagnosticError) {
	for _, err := range errs {
		n.report(err)
	}
}

func (n *namer) duplicate(tok ast.Node, what, name string) {
	n.report(diagnostics.NewErrorf(diagnostics.ErrA012, tok.GetToken(), "%s %s is already declared in %s", what, name, n.table.Name))
}

// resolveVisibility collects the modules visible from dec: the modules it
// uses together with everything they make visible, and the concept or
// enhancement it is built on.
func (n *namer) resolveVisibility(dec ast.ModuleDec) {
	var visible []*symbols.ModuleTable
	seen := map[string]bool{n.table.Name: true}
	add := func(m *symbols.ModuleTable) {
		if seen[m.Name] {
			return
		}
		seen[m.Name] = true
		visible = append(visible, m)
	}
	use := func(name string, tok ast.Node) {
		m, err := n.env.Module(name)
		if err != nil {
			n.report(diagnostics.NewError(diagnostics.ErrA011, tok.GetToken(), err.Error()))
			return
		}
		add(m)
		for _, v := range m.Visible() {
			add(v)
		}
	}

	switch dec := dec.(type) {
	case *ast.EnhancementDec:
		use(dec.ConceptName, dec)
	case *ast.RealizationDec:
		use(dec.ConceptName, dec)
		if dec.EnhancementName != "" {
			use(dec.EnhancementName, dec)
		}
	}
	for _, u := range dec.ModuleUses() {
		use(u.Name, usesNode{u})
	}
	n.table.SetVisible(visible)
}

// usesNode adapts a uses item for error positions.
type usesNode struct{ u *ast.UsesItem }

func (u usesNode) GetToken() token.Token { return u.u.Token }
func (u usesNode) String() string        { return "uses " + u.u.Name }

func (n *namer) declareParams(params []ast.ModuleParam) {
	for _, p := range params {
		switch p := p.(type) {
		case *ast.ConstantParam:
			t, err := BuildType(p.Ty, n.scope)
			n.report(err)
			if !n.table.DefineVariable(&symbols.Variable{Name: p.Name, Type: t, Mode: ast.ModeEvaluates, Node: p}) {
				n.duplicate(p, "parameter", p.Name)
			}
		case *ast.TypeParam:
			if !n.table.DefineType(&symbols.TypeEntry{Name: p.Name, Type: typesystem.TCon{Name: p.Name}, Node: p}) {
				n.duplicate(p, "type parameter", p.Name)
			}
		case *ast.OperationParam:
			op, errs := buildOperation(p.Op.Name, p.Op, p.Op.Params, p.Op.ReturnTy, p.Op.Requires, p.Op.Ensures, n.scope)
			n.reportAll(errs)
			if !n.table.DefineOperation(op) {
				n.duplicate(p, "operation", p.Op.Name)
			}
		case *ast.DefinitionParam:
			n.declareDefinition(p.Def)
		}
	}
}

func (n *namer) declareType(d ast.Dec) {
	switch d := d.(type) {
	case *ast.MathTypeDec:
		var t typesystem.Type = typesystem.TCon{Qualifier: n.table.Name, Name: d.Name}
		if d.Ty != nil {
			underlying, err := BuildType(d.Ty, n.scope)
			n.report(err)
			t = typesystem.TIndirect{Qualifier: n.table.Name, Name: d.Name, Underlying: underlying}
		}
		if !n.table.DefineType(&symbols.TypeEntry{Name: d.Name, Type: t, Node: d}) {
			n.duplicate(d, "type", d.Name)
		}
	case *ast.TypeFamilyDec:
		model, err := BuildType(d.Model, n.scope)
		n.report(err)
		t := typesystem.TConcept{Qualifier: n.table.Name, Name: d.Name, Exemplar: d.Exemplar, Model: model}
		if !n.table.DefineType(&symbols.TypeEntry{Name: d.Name, Type: t, Exemplar: d.Exemplar, Node: d}) {
			n.duplicate(d, "type family", d.Name)
			return
		}
		if d.Exemplar != "" {
			n.table.DefineConceptual(&symbols.Variable{Name: d.Exemplar, Type: t, Mode: ast.ModeLocal, Node: d})
		}
	case *ast.RepresentationDec:
		rep, err := BuildType(d.Representation, n.scope)
		n.report(err)
		family, ok := n.scope.LookupType("", d.Name)
		t := typesystem.TIndirect{Qualifier: n.table.Name, Name: d.Name, Underlying: rep}
		if !n.table.DefineType(&symbols.TypeEntry{Name: d.Name, Type: t, Node: d}) {
			n.duplicate(d, "type", d.Name)
			return
		}
		if !ok {
			n.report(diagnostics.NewErrorf(diagnostics.ErrA001, d.Token, "%s does not declare a type family %s", n.realized(), d.Name))
			return
		}
		if _, isFamily := family.Type.(typesystem.TConcept); isFamily {
			if family.Exemplar != "" {
				n.table.DefineConceptual(&symbols.Variable{Name: family.Exemplar, Type: family.Type, Mode: ast.ModeLocal, Node: d})
			}
		}
		n.table.AddCorrespondence(t, family.Type)
	}
}

func (n *namer) realized() string {
	if r, ok := n.table.Dec.(*ast.RealizationDec); ok {
		return "concept " + r.ConceptName
	}
	return "module " + n.table.Name
}

func (n *namer) declare(d ast.Dec) {
	switch d := d.(type) {
	case *ast.TypeTheoremDec:
		sub, err := BuildType(d.Sub, n.scope)
		n.report(err)
		super, err := BuildType(d.Super, n.scope)
		n.report(err)
		if sub != nil && super != nil {
			n.table.AddCorrespondence(sub, super)
		}
	case *ast.DefinitionDec:
		n.declareDefinition(d)
	case *ast.MathAssertionDec:
		thm := &symbols.Theorem{
			Name:      d.Name,
			Kind:      d.Kind,
			Assertion: d.Assertion,
			Value:     n.env.Arena().Alloc(),
			Proof:     n.env.Arena().Alloc(),
		}
		if !n.table.DefineTheorem(thm) {
			n.duplicate(d, d.Kind.String(), d.Name)
		}
	case *ast.ConceptVarDec:
		t, err := BuildType(d.Var.Ty, n.scope)
		n.report(err)
		if !n.table.DefineConceptual(&symbols.Variable{Name: d.Var.Name, Type: t, Mode: ast.ModeLocal, Node: d}) {
			n.duplicate(d, "conceptual variable", d.Var.Name)
		}
	case *ast.OperationDec:
		op, errs := buildOperation(d.Name, d, d.Params, d.ReturnTy, d.Requires, d.Ensures, n.scope)
		n.reportAll(errs)
		if !n.table.DefineOperation(op) {
			n.duplicate(d, "operation", d.Name)
		}
	case *ast.ProcedureDec:
		op, errs := buildOperation(d.Name, d, d.Params, d.ReturnTy, d.Requires, d.Ensures, n.scope)
		n.reportAll(errs)
		if _, specified := n.table.Operation(d.Name); specified && n.table.Kind == symbols.FacilityModule {
			return
		}
		if !n.table.DefineOperation(op) {
			n.duplicate(d, "procedure", d.Name)
		}
	case *ast.VarDec:
		t, err := BuildType(d.Ty, n.scope)
		n.report(err)
		if !n.table.DefineVariable(&symbols.Variable{Name: d.Name, Type: t, Mode: ast.ModeLocal, Node: d}) {
			n.duplicate(d, "variable", d.Name)
		}
	case *ast.FacilityDec:
		n.declareFacility(d)
	}
}

func (n *namer) declareDefinition(d *ast.DefinitionDec) {
	def, errs := buildDefinition(d, n.scope)
	n.reportAll(errs)
	if !n.table.DefineDefinition(def) {
		n.duplicate(d, "definition", d.Name)
	}
}

func (n *namer) declareFacility(d *ast.FacilityDec) {
	f := &symbols.Facility{Name: d.Name, Concept: d.ConceptName, Realization: d.RealizationName, Node: d}
	concept, err := n.env.Module(d.ConceptName)
	if err != nil {
		n.report(diagnostics.NewError(diagnostics.ErrA011, d.Token, err.Error()))
	} else {
		f.Modules = append(f.Modules, concept)
	}
	for _, e := range d.Enhancements {
		m, err := n.env.Module(e.Name)
		if err != nil {
			n.report(diagnostics.NewError(diagnostics.ErrA011, e.Token, err.Error()))
			continue
		}
		f.Modules = append(f.Modules, m)
	}
	if !n.table.DefineFacility(f) {
		n.duplicate(d, "facility", d.Name)
	}
}
