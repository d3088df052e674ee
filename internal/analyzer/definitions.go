package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// clauseTyper types one clause of a definition. boolean is set when the
// clause is an assertion. It returns false when the clause failed; the
// failure has already been dealt with.
type clauseTyper func(clause ast.Exp, opts resolveOpts, boolean bool) (typesystem.Type, bool)

// checkDefinition types the clauses of def inside a definition scope
// holding its parameters. A definition declared without a range gets the
// range inferred from its defining clause; the finalized entry is returned.
func (r *resolver) checkDefinition(def *symbols.Definition, typeClause clauseTyper, opts resolveOpts) *symbols.Definition {
	def, inferred, ok := r.typeDefinitionClauses(def, typeClause, opts)
	if !ok || def.Range != nil {
		return def
	}
	if inferred == nil {
		if !def.Implicit {
			r.fail(opts, diagnostics.ErrA002, def.Node, "cannot infer the range of %s from its definition", def.Name)
		}
		return def
	}
	return r.scope.FinalizeDefinition(def, inferred)
}

// typeDefinitionClauses returns the entry, finalized early when an inductive
// base clause fixes the range, and the type inferred for the definition.
func (r *resolver) typeDefinitionClauses(def *symbols.Definition, typeClause clauseTyper, opts resolveOpts) (*symbols.Definition, typesystem.Type, bool) {
	r.scope.BeginScope(symbols.ScopeDefinition, def.Name)
	defer r.scope.EndScope(symbols.ScopeDefinition)

	for _, p := range def.Params {
		r.scope.BindVariable(&symbols.Variable{Name: p.Name, Type: p.Type, Mode: p.Mode})
	}
	special := resolveOpts{equalsCase: true, definedName: def.Name}

	switch {
	case def.Implicit:
		if def.Body == nil {
			return def, nil, true
		}
		_, ok := typeClause(def.Body, resolveOpts{definedName: def.Name}, true)
		return def, nil, ok
	case def.IsInductive():
		var inferred typesystem.Type
		ok := true
		for _, clause := range []ast.Exp{def.Base, def.Hypothesis} {
			if clause == nil {
				continue
			}
			t, clauseOK := typeClause(clause, special, false)
			if !clauseOK {
				ok = false
				continue
			}
			if !selfReferential(clause, def.Name) {
				r.fail(opts, diagnostics.ErrA007, clause,
					"definition of %s is not self-referential: every branch must equate %s to a value", def.Name, def.Name)
				ok = false
				continue
			}
			if _, isEq := clause.(*ast.EqualsExp); isEq && inferred == nil {
				inferred = t
				if def.Range == nil {
					def = r.scope.FinalizeDefinition(def, t)
				}
			}
		}
		return def, inferred, ok
	case def.Body != nil:
		if isDefiningEquation(def.Body, def.Name) {
			t, ok := typeClause(def.Body, special, false)
			return def, t, ok
		}
		if eq, isEq := def.Body.(*ast.EqualsExp); isEq && eq.Op == ast.Equal && def.Range == nil {
			r.fail(opts, diagnostics.ErrA007, def.Body,
				"definition of %s is not self-referential: its defining equation must have %s on the left", def.Name, def.Name)
			return def, nil, false
		}
		t, ok := typeClause(def.Body, resolveOpts{definedName: def.Name}, false)
		if !ok {
			return def, nil, false
		}
		if def.Range != nil {
			if err := r.expect(def.Body, def.Range, t, false, opts); err != nil {
				return def, nil, false
			}
		}
		return def, t, true
	}
	return def, nil, true
}

// isDefiningEquation reports whether e has the shape name = body or
// name(params) = body.
func isDefiningEquation(e ast.Exp, name string) bool {
	eq, ok := e.(*ast.EqualsExp)
	if !ok || eq.Op != ast.Equal {
		return false
	}
	switch left := eq.Left.(type) {
	case *ast.VarExp:
		return left.Name == name
	case *ast.FunctionExp:
		return left.Name == name
	}
	return false
}

// selfReferential reports whether every branch of an inductive clause is
// an equation whose left side mentions name.
func selfReferential(e ast.Exp, name string) bool {
	switch e := e.(type) {
	case *ast.EqualsExp:
		return e.Op == ast.Equal && mentions(e.Left, name)
	case *ast.InfixExp:
		switch e.Op {
		case config.AndOperator, config.OrOperator, config.IffOperator:
			return selfReferential(e.Left, name) && selfReferential(e.Right, name)
		case config.ImpliesOp:
			return selfReferential(e.Right, name)
		}
		return false
	case *ast.IfExp:
		if !selfReferential(e.Then, name) {
			return false
		}
		return e.Else == nil || selfReferential(e.Else, name)
	case *ast.AltExp:
		for _, alt := range e.Alternatives {
			if !selfReferential(alt.Assignment, name) {
				return false
			}
		}
		return len(e.Alternatives) > 0
	case *ast.QuantExp:
		return selfReferential(e.Body, name)
	}
	return false
}

// mentions reports whether name is referenced anywhere in e.
func mentions(e ast.Exp, name string) bool {
	found := false
	ast.Inspect(e, func(x ast.Exp) bool {
		switch x := x.(type) {
		case *ast.VarExp:
			found = found || x.Name == name
		case *ast.FunctionExp:
			found = found || x.Name == name
		}
		return !found
	})
	return found
}
