package analyzer

import (
	"strings"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/typesystem"
)

func (r *resolver) inferFunction(e *ast.FunctionExp, opts resolveOpts) (typesystem.Type, error) {
	args, err := r.resolveAll(e.Args, opts.child())
	if err != nil {
		return nil, err
	}
	return r.call(e, e.Qualifier, e.Name, args, opts)
}

// call resolves an overloaded application and returns its range.
func (r *resolver) call(e ast.Exp, qual, name string, args []typesystem.Type, opts resolveOpts) (typesystem.Type, error) {
	rng, c, ok := r.resolveOverload(qual, name, args)
	if !ok {
		if !r.hasCallable(qual, name) {
			return nil, r.fail(opts, diagnostics.ErrA001, e, "unresolved identifier %s", qualifiedName(qual, name))
		}
		return nil, r.fail(opts, diagnostics.ErrA008, e, "no definition of %s matches %s%s",
			qualifiedName(qual, name), showArgs(args), r.describeCandidates(qual, name))
	}
	if rng == nil {
		return nil, r.fail(opts, diagnostics.ErrA002, e, "type of %s is not known before its definition is typed", c.describe(name))
	}
	return rng, nil
}

func (c *Candidate) describe(name string) string {
	if c.Definition != nil {
		return c.Definition.Name
	}
	return name
}

func showArgs(args []typesystem.Type) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = typesystem.Show(a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func isConnective(op string) bool {
	switch op {
	case config.AndOperator, config.OrOperator, config.ImpliesOp, config.IffOperator:
		return true
	}
	return false
}

func (r *resolver) inferInfix(e *ast.InfixExp, opts resolveOpts) (typesystem.Type, error) {
	lt, err := r.resolve(e.Left, opts.child())
	if err != nil {
		return nil, err
	}
	rt, err := r.resolve(e.Right, opts.child())
	if err != nil {
		return nil, err
	}
	if isConnective(e.Op) {
		if err := r.expectBoolean(e.Left, lt, opts); err != nil {
			return nil, err
		}
		if err := r.expectBoolean(e.Right, rt, opts); err != nil {
			return nil, err
		}
		return typesystem.Boolean, nil
	}
	return r.call(e, "", e.Op, []typesystem.Type{lt, rt}, opts)
}

// inferPrefix types logical negation, unary minus and user prefix
// operators. Unary minus keeps a real argument real and otherwise yields
// an integer.
func (r *resolver) inferPrefix(e *ast.PrefixExp, opts resolveOpts) (typesystem.Type, error) {
	t, err := r.resolve(e.Arg, opts.child())
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case config.NotOperator:
		if err := r.expectBoolean(e.Arg, t, opts); err != nil {
			return nil, err
		}
		return typesystem.Boolean, nil
	case config.MinusOperator:
		if realT, ok := r.theoryType(config.RealTheory, config.RealTypeName); ok && r.matches(realT, t, true) {
			return realT, nil
		}
		integer, ok := r.theoryType(config.IntegerTheory, config.IntegerTypeName)
		if !ok {
			return nil, r.fail(opts, diagnostics.ErrA010, e, "unary minus needs %s or %s", config.IntegerTheory, config.RealTheory)
		}
		if err := r.expect(e.Arg, integer, t, false, opts); err != nil {
			return nil, err
		}
		return integer, nil
	}
	return r.call(e, "", e.Op, []typesystem.Type{t}, opts)
}

func (r *resolver) inferOutfix(e *ast.OutfixExp, opts resolveOpts) (typesystem.Type, error) {
	t, err := r.resolve(e.Arg, opts.child())
	if err != nil {
		return nil, err
	}
	return r.call(e, "", e.DefinitionName(), []typesystem.Type{t}, opts)
}

// unitType is the type of a call to an operation without a result.
var unitType = typesystem.TTuple{}

// inferOperationCall types a program-level call. Arguments must match the
// operation's parameters; a name with no operation is a mathematical call.
func (r *resolver) inferOperationCall(e *ast.OperationCallExp, opts resolveOpts) (typesystem.Type, error) {
	args, err := r.resolveAll(e.Args, opts.child())
	if err != nil {
		return nil, err
	}
	op, ok := r.scope.LookupOperation(e.Qualifier, e.Name)
	if !ok {
		return r.call(e, e.Qualifier, e.Name, args, opts)
	}
	if len(op.Params) != len(args) {
		return nil, r.fail(opts, diagnostics.ErrA004, e, "operation %s expects %d arguments, found %d",
			qualifiedName(e.Qualifier, e.Name), len(op.Params), len(args))
	}
	for i, p := range op.Params {
		if err := r.expect(e.Args[i], p.Type, args[i], false, opts); err != nil {
			return nil, err
		}
	}
	if op.Return == nil {
		return unitType, nil
	}
	return op.Return, nil
}
