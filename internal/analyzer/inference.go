package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// resolveOpts carries the transient resolution flags. It is passed by value
// so a flag set for one node never outlives the call that set it.
type resolveOpts struct {
	// quiet suppresses diagnostics; failures are still returned.
	quiet bool
	// equalsCase types the next equation as its left side instead of B.
	// It applies to one node only.
	equalsCase bool
	// definedName is the definition whose defining clause is being typed.
	definedName string
}

// child returns the options for subexpressions: one-shot flags are cleared.
func (o resolveOpts) child() resolveOpts {
	o.equalsCase = false
	return o
}

// resolver types expressions in one scope.
type resolver struct {
	a     *Analyzer
	scope *symbols.Scope
	// hyps holds the hypothesis names designated in the proof being checked.
	hyps map[string]bool
}

func newResolver(a *Analyzer, scope *symbols.Scope) *resolver {
	return &resolver{a: a, scope: scope}
}

// fail builds a resolution error for node and reports it unless quiet.
func (r *resolver) fail(opts resolveOpts, code diagnostics.ErrorCode, node ast.Node, format string, args ...interface{}) error {
	return r.reject(opts, diagnostics.NewErrorf(code, node.GetToken(), format, args...))
}

// reject turns a diagnostic into a resolution error, reporting it unless
// quiet.
func (r *resolver) reject(opts resolveOpts, diag *diagnostics.DiagnosticError) error {
	if opts.quiet {
		return &ResolutionError{Diag: diag}
	}
	r.a.errors.Add(diag)
	return &ResolutionError{Diag: diag, Reported: true}
}

// resolve returns the type of e, typing it on first use. A node whose slot
// is filled is answered without any further scope query.
func (r *resolver) resolve(e ast.Exp, opts resolveOpts) (typesystem.Type, error) {
	if t := e.ResolvedType(); t != nil {
		return t, nil
	}
	t, err := r.infer(e, opts)
	if err != nil {
		return nil, err
	}
	if t == nil {
		panic(fault(e.GetToken(), nil, "%T %s resolved without a type", e, ast.Print(e)))
	}
	e.SetResolvedType(t)
	return t, nil
}

// resolveAll types a list of expressions, stopping at the first failure.
func (r *resolver) resolveAll(exps []ast.Exp, opts resolveOpts) ([]typesystem.Type, error) {
	out := make([]typesystem.Type, len(exps))
	for i, e := range exps {
		t, err := r.resolve(e, opts)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (r *resolver) infer(e ast.Exp, opts resolveOpts) (typesystem.Type, error) {
	switch e := e.(type) {
	case *ast.VarExp:
		return r.inferVar(e, opts)
	case *ast.IntegerExp:
		return r.inferInteger(e, opts)
	case *ast.RealExp:
		return r.inferReal(e, opts)
	case *ast.CharExp:
		return symbols.CharacterModel, nil
	case *ast.StringExp:
		return symbols.CharStrModel, nil
	case *ast.BooleanExp:
		return typesystem.Boolean, nil
	case *ast.FunctionExp:
		return r.inferFunction(e, opts)
	case *ast.InfixExp:
		return r.inferInfix(e, opts)
	case *ast.PrefixExp:
		return r.inferPrefix(e, opts)
	case *ast.OutfixExp:
		return r.inferOutfix(e, opts)
	case *ast.OperationCallExp:
		return r.inferOperationCall(e, opts)
	case *ast.EqualsExp:
		return r.inferEquals(e, opts)
	case *ast.BetweenExp:
		return r.inferBetween(e, opts)
	case *ast.IfExp:
		return r.inferIf(e, opts)
	case *ast.AltExp:
		return r.inferAlt(e, opts)
	case *ast.QuantExp:
		return r.inferQuant(e, opts)
	case *ast.SetExp:
		return r.inferSetBuilder(e, opts)
	case *ast.SetCollectionExp:
		return r.inferSetCollection(e, opts)
	case *ast.TupleExp:
		return r.inferTuple(e, opts)
	case *ast.LambdaExp:
		return r.inferLambda(e, opts)
	case *ast.IterativeExp:
		return r.inferIterative(e, opts)
	case *ast.TypeAssertionExp:
		return r.inferTypeAssertion(e, opts)
	case *ast.DotExp:
		return r.inferDot(e, opts)
	case *ast.FieldExp:
		return r.inferField(e, opts)
	case *ast.OldExp:
		return r.resolve(e.Exp, opts.child())
	case *ast.GoalExp:
		return r.inferGoal(e, opts)
	case *ast.SuppositionExp:
		return r.inferSupposition(e, opts)
	case *ast.DeductionExp:
		return r.resolve(e.Exp, opts.child())
	case *ast.JustifiedExp:
		return r.inferJustified(e, opts)
	case *ast.HypDesigExp:
		return r.inferHypDesig(e, opts)
	case *ast.ProofDefinitionExp:
		return r.inferProofDefinition(e, opts)
	default:
		panic(fault(e.GetToken(), nil, "no typing rule for %T", e))
	}
}

// bindVars binds bound variables in the innermost frame.
func (r *resolver) bindVars(vars []*ast.MathVarDec, mode ast.Mode, opts resolveOpts) ([]typesystem.Type, error) {
	types := make([]typesystem.Type, len(vars))
	for i, v := range vars {
		t, diag := BuildType(v.Ty, r.scope)
		if diag != nil {
			return nil, r.reject(opts, diag)
		}
		types[i] = t
		r.scope.BindVariable(&symbols.Variable{Name: v.Name, Type: t, Mode: mode, Node: v})
	}
	return types, nil
}

// theoryType returns a numeric type if its theory is visible.
func (r *resolver) theoryType(theory, name string) (typesystem.Type, bool) {
	if !r.scope.IsVisible(theory) {
		return nil, false
	}
	if entry, ok := r.scope.LookupType(theory, name); ok {
		return entry.Type, true
	}
	return typesystem.TCon{Qualifier: theory, Name: name}, true
}
