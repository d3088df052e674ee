package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// inferEquals types both sides and yields B. In the equals case, used for
// the defining equation of a definition, the equation takes the type of its
// left side; a left side that names the definition being inferred takes the
// type of the right side.
func (r *resolver) inferEquals(e *ast.EqualsExp, opts resolveOpts) (typesystem.Type, error) {
	sub := opts.child()
	if opts.equalsCase && e.Op == ast.Equal && r.namesUninferred(e.Left, opts.definedName) {
		if call, ok := e.Left.(*ast.FunctionExp); ok {
			if _, err := r.resolveAll(call.Args, sub); err != nil {
				return nil, err
			}
		}
		rt, err := r.resolve(e.Right, sub)
		if err != nil {
			return nil, err
		}
		e.Left.SetResolvedType(rt)
		return rt, nil
	}

	lt, err := r.resolve(e.Left, sub)
	if err != nil {
		return nil, err
	}
	rt, err := r.resolve(e.Right, sub)
	if err != nil {
		return nil, err
	}
	if err := r.expect(e, lt, rt, false, opts); err != nil {
		return nil, err
	}
	if opts.equalsCase && e.Op == ast.Equal {
		return lt, nil
	}
	return typesystem.Boolean, nil
}

// namesUninferred reports whether e applies or names the definition being
// typed while its range is still unknown.
func (r *resolver) namesUninferred(e ast.Exp, name string) bool {
	if name == "" {
		return false
	}
	switch x := e.(type) {
	case *ast.VarExp:
		if x.Qualifier != "" || x.Name != name {
			return false
		}
	case *ast.FunctionExp:
		if x.Qualifier != "" || x.Name != name {
			return false
		}
	default:
		return false
	}
	defs := r.scope.LookupDefinitions("", name)
	return len(defs) > 0 && defs[0].Range == nil
}

func (r *resolver) inferBetween(e *ast.BetweenExp, opts resolveOpts) (typesystem.Type, error) {
	for _, low := range e.Lows {
		t, err := r.resolve(low, opts.child())
		if err != nil {
			return nil, err
		}
		if err := r.expectBoolean(low, t, opts); err != nil {
			return nil, err
		}
	}
	return typesystem.Boolean, nil
}

// inferIf requires a Boolean test and branches of matching types. The
// result is the then-branch's type.
func (r *resolver) inferIf(e *ast.IfExp, opts resolveOpts) (typesystem.Type, error) {
	sub := opts.child()
	tt, err := r.resolve(e.Test, sub)
	if err != nil {
		return nil, err
	}
	if err := r.expectBoolean(e.Test, tt, opts); err != nil {
		return nil, err
	}
	then, err := r.resolve(e.Then, sub)
	if err != nil {
		return nil, err
	}
	if e.Else == nil {
		return then, nil
	}
	els, err := r.resolve(e.Else, sub)
	if err != nil {
		return nil, err
	}
	if err := r.expect(e.Else, then, els, false, opts); err != nil {
		return nil, err
	}
	return then, nil
}

func (r *resolver) inferAlt(e *ast.AltExp, opts resolveOpts) (typesystem.Type, error) {
	sub := opts.child()
	var result typesystem.Type
	for _, alt := range e.Alternatives {
		if alt.Test != nil {
			tt, err := r.resolve(alt.Test, sub)
			if err != nil {
				return nil, err
			}
			if err := r.expectBoolean(alt.Test, tt, opts); err != nil {
				return nil, err
			}
		}
		t, err := r.resolve(alt.Assignment, sub)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = t
			continue
		}
		if err := r.expect(alt.Assignment, result, t, false, opts); err != nil {
			return nil, err
		}
	}
	if result == nil {
		return nil, r.fail(opts, diagnostics.ErrA002, e, "alternative expression has no branches")
	}
	return result, nil
}

// inferQuant types a quantified expression in a scope holding its bound
// variables. The where clause must be Boolean and is otherwise discarded.
func (r *resolver) inferQuant(e *ast.QuantExp, opts resolveOpts) (typesystem.Type, error) {
	r.scope.BeginScope(symbols.ScopeExpression, e.Quantifier.String())
	defer r.scope.EndScope(symbols.ScopeExpression)

	sub := opts.child()
	if _, err := r.bindVars(e.Vars, ast.ModeLocal, sub); err != nil {
		return nil, err
	}
	if err := r.where(e.Where, sub); err != nil {
		return nil, err
	}
	return r.resolve(e.Body, sub)
}

func (r *resolver) where(w ast.Exp, opts resolveOpts) error {
	if w == nil {
		return nil
	}
	t, err := r.resolve(w, opts)
	if err != nil {
		return err
	}
	return r.expectBoolean(w, t, opts)
}

// inferSetBuilder yields Set(T) for {x: T | P(x)}, or Set(U) when the body
// is a U-valued term rather than a predicate.
func (r *resolver) inferSetBuilder(e *ast.SetExp, opts resolveOpts) (typesystem.Type, error) {
	r.scope.BeginScope(symbols.ScopeExpression, "set")
	defer r.scope.EndScope(symbols.ScopeExpression)

	sub := opts.child()
	types, err := r.bindVars([]*ast.MathVarDec{e.Var}, ast.ModeLocal, sub)
	if err != nil {
		return nil, err
	}
	if err := r.where(e.Where, sub); err != nil {
		return nil, err
	}
	body, err := r.resolve(e.Body, sub)
	if err != nil {
		return nil, err
	}
	if _, isBool := typesystem.Unwrap(body).(typesystem.TBoolean); isBool {
		return typesystem.SetOf(types[0]), nil
	}
	return typesystem.SetOf(body), nil
}

func (r *resolver) inferSetCollection(e *ast.SetCollectionExp, opts resolveOpts) (typesystem.Type, error) {
	types, err := r.resolveAll(e.Elems, opts.child())
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return typesystem.SetOf(nil), nil
	}
	for i := 1; i < len(types); i++ {
		if err := r.expect(e.Elems[i], types[0], types[i], false, opts); err != nil {
			return nil, err
		}
	}
	return typesystem.SetOf(types[0]), nil
}

func (r *resolver) inferTuple(e *ast.TupleExp, opts resolveOpts) (typesystem.Type, error) {
	types, err := r.resolveAll(e.Fields, opts.child())
	if err != nil {
		return nil, err
	}
	if len(types) == 1 {
		return types[0], nil
	}
	fields := make([]typesystem.Field, len(types))
	for i, t := range types {
		fields[i] = typesystem.Field{Type: t}
	}
	return typesystem.TTuple{Fields: fields}, nil
}

func (r *resolver) inferLambda(e *ast.LambdaExp, opts resolveOpts) (typesystem.Type, error) {
	r.scope.BeginScope(symbols.ScopeExpression, "lambda")
	defer r.scope.EndScope(symbols.ScopeExpression)

	sub := opts.child()
	params, err := r.bindVars(e.Params, ast.ModeLocal, sub)
	if err != nil {
		return nil, err
	}
	body, err := r.resolve(e.Body, sub)
	if err != nil {
		return nil, err
	}
	return typesystem.FuncOf(params, body), nil
}

// inferIterative types Sum, Product, Concatenation and the like: the body
// type is the result type.
func (r *resolver) inferIterative(e *ast.IterativeExp, opts resolveOpts) (typesystem.Type, error) {
	r.scope.BeginScope(symbols.ScopeExpression, e.Operator)
	defer r.scope.EndScope(symbols.ScopeExpression)

	sub := opts.child()
	if _, err := r.bindVars([]*ast.MathVarDec{e.Var}, ast.ModeLocal, sub); err != nil {
		return nil, err
	}
	if err := r.where(e.Where, sub); err != nil {
		return nil, err
	}
	return r.resolve(e.Body, sub)
}

func (r *resolver) inferTypeAssertion(e *ast.TypeAssertionExp, opts resolveOpts) (typesystem.Type, error) {
	t, diag := BuildType(e.Ty, r.scope)
	if diag != nil {
		return nil, r.reject(opts, diag)
	}
	inner, err := r.resolve(e.Exp, opts.child())
	if err != nil {
		return nil, err
	}
	if err := r.expect(e, t, inner, false, opts); err != nil {
		return nil, err
	}
	return t, nil
}
