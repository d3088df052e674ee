package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/obligations"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

func (d *driver) operation(dec *ast.OperationDec) {
	d.scope.BeginScope(symbols.ScopeOperation, dec.Name)
	defer d.scope.EndScope(symbols.ScopeOperation)
	prev := d.current
	d.current = dec.Name
	defer func() { d.current = prev }()

	d.bindParams(dec.Params)
	d.site(obligations.KindRequires, dec.Name, dec.Requires, resolveOpts{}, true)
	d.site(obligations.KindEnsures, dec.Name, dec.Ensures, resolveOpts{}, true)
}

func (d *driver) bindParams(params []*ast.ParameterVarDec) {
	ps, errs := buildParams(params, d.scope)
	for _, err := range errs {
		d.report(err)
	}
	for i, p := range ps {
		if !d.scope.BindVariable(&symbols.Variable{Name: p.Name, Type: p.Type, Mode: p.Mode, Node: params[i]}) {
			d.report(diagnostics.NewErrorf(diagnostics.ErrA012, params[i].Token, "duplicate parameter %s", p.Name))
		}
	}
}

func (d *driver) procedure(dec *ast.ProcedureDec) {
	d.conformance(dec)

	d.scope.BeginScope(symbols.ScopeProcedure, dec.Name)
	defer d.scope.EndScope(symbols.ScopeProcedure)
	prev := d.current
	d.current = dec.Name
	defer func() { d.current = prev }()

	d.bindParams(dec.Params)
	for _, v := range dec.Variables {
		t, err := BuildType(v.Ty, d.scope)
		d.report(err)
		if !d.scope.BindVariable(&symbols.Variable{Name: v.Name, Type: t, Mode: ast.ModeLocal, Node: v}) {
			d.report(diagnostics.NewErrorf(diagnostics.ErrA012, v.Token, "duplicate variable %s", v.Name))
		}
	}
	d.site(obligations.KindRequires, dec.Name, dec.Requires, resolveOpts{}, true)
	d.site(obligations.KindEnsures, dec.Name, dec.Ensures, resolveOpts{}, true)
	d.site(obligations.KindProgress, dec.Name, dec.Decreasing, resolveOpts{}, false)
	d.statements(dec.Statements)
}

func (d *driver) statements(stmts []ast.Stmt) {
	for _, s := range stmts {
		d.statement(s)
	}
}

func (d *driver) statement(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		d.pair(s.Var, s.Exp)
	case *ast.SwapStmt:
		d.pair(s.Left, s.Right)
	case *ast.CallStmt:
		d.program(s.Call)
	case *ast.IfStmt:
		d.condition(s.Test)
		d.statements(s.Then)
		d.statements(s.Else)
	case *ast.WhileStmt:
		d.condition(s.Test)
		for _, c := range s.Changing {
			d.program(c)
		}
		d.site(obligations.KindInvariant, d.current, s.Maintaining, resolveOpts{}, true)
		d.site(obligations.KindProgress, d.current, s.Decreasing, resolveOpts{}, false)
		d.statements(s.Body)
	case *ast.ConfirmStmt:
		d.site(obligations.KindConfirm, d.current, s.Assertion, resolveOpts{}, true)
	case *ast.AssumeStmt:
		d.site(obligations.KindAssume, d.current, s.Assertion, resolveOpts{}, true)
	}
}

// program types a program expression. Errors are reported and the walk
// goes on.
func (d *driver) program(e ast.Exp) (typesystem.Type, bool) {
	if e == nil {
		return nil, false
	}
	checkpoint := d.a.errors.Checkpoint()
	t, err := d.r.resolve(e, resolveOpts{})
	if err != nil || d.a.errors.Since(checkpoint) > 0 {
		return nil, false
	}
	return t, true
}

// pair types both sides of an assignment or swap; the right side must
// fit the left.
func (d *driver) pair(left, right ast.Exp) {
	lt, lok := d.program(left)
	rt, rok := d.program(right)
	if lok && rok {
		d.r.expect(right, lt, rt, false, resolveOpts{})
	}
}

func (d *driver) condition(test ast.Exp) {
	if t, ok := d.program(test); ok {
		d.r.expectBoolean(test, t, resolveOpts{})
	}
}

// conformance checks a procedure against the operation it implements:
// the operation of the same name in the concept or enhancement being
// realized, or an operation declared earlier in the same facility module.
func (d *driver) conformance(dec *ast.ProcedureDec) {
	var target *symbols.ModuleTable
	switch unit := d.module.Dec.(type) {
	case *ast.RealizationDec:
		m, err := d.a.env.Module(unit.ImplementedModule())
		if err != nil {
			// reported while naming the module
			return
		}
		target = m
	case *ast.FacilityModuleDec:
		target = d.module
	default:
		return
	}

	op, ok := target.Operation(dec.Name)
	if !ok {
		if target != d.module {
			d.report(diagnostics.NewErrorf(diagnostics.ErrA009, dec.Token,
				"procedure %s does not correspond to any operation of %s", dec.Name, target.Name))
		}
		return
	}
	if op.Node == ast.Node(dec) {
		return
	}

	params, _ := buildParams(dec.Params, d.scope)
	if len(params) != len(op.Params) {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA009, dec.Token,
			"procedure %s has %d parameters, but operation %s.%s has %d",
			dec.Name, len(params), target.Name, op.Name, len(op.Params)))
		return
	}
	for i, p := range params {
		want := op.Params[i]
		tok := dec.Params[i].Token
		if p.Mode != want.Mode {
			d.report(diagnostics.NewErrorf(diagnostics.ErrA009, tok,
				"parameter %s of procedure %s is %s, but operation %s.%s declares it %s",
				p.Name, dec.Name, p.Mode, target.Name, op.Name, want.Mode))
			continue
		}
		if p.TypeName != want.TypeName && !d.r.matches(want.Type, p.Type, false) {
			d.report(diagnostics.NewErrorf(diagnostics.ErrA009, tok,
				"parameter %s of procedure %s has type %s, but operation %s.%s expects %s",
				p.Name, dec.Name, typesystem.Show(p.Type), target.Name, op.Name, typesystem.Show(want.Type)))
		}
	}

	var ret typesystem.Type
	if dec.ReturnTy != nil {
		ret, _ = BuildType(dec.ReturnTy, d.scope)
	}
	if (ret == nil) != (op.Return == nil) || !d.r.matches(op.Return, ret, false) {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA009, dec.Token,
			"procedure %s returns %s, but operation %s.%s returns %s",
			dec.Name, showReturn(ret), target.Name, op.Name, showReturn(op.Return)))
	}
}

func showReturn(t typesystem.Type) string {
	if t == nil {
		return "nothing"
	}
	return typesystem.Show(t)
}
