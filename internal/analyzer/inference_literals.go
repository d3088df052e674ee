package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// inferInteger types a literal as N when it is non-negative and natural
// numbers are visible, otherwise as Z.
func (r *resolver) inferInteger(e *ast.IntegerExp, opts resolveOpts) (typesystem.Type, error) {
	if e.Value >= 0 {
		if t, ok := r.theoryType(config.NaturalTheory, config.NaturalTypeName); ok {
			return t, nil
		}
	}
	if t, ok := r.theoryType(config.IntegerTheory, config.IntegerTypeName); ok {
		return t, nil
	}
	return nil, r.fail(opts, diagnostics.ErrA010, e,
		"cannot type literal %d: neither %s nor %s is visible", e.Value, config.NaturalTheory, config.IntegerTheory)
}

func (r *resolver) inferReal(e *ast.RealExp, opts resolveOpts) (typesystem.Type, error) {
	if t, ok := r.theoryType(config.RealTheory, config.RealTypeName); ok {
		return t, nil
	}
	return nil, r.fail(opts, diagnostics.ErrA010, e, "cannot type literal %s: %s is not visible", ast.Print(e), config.RealTheory)
}

// inferVar resolves a name. In order it may denote the result of the
// operation being specified, a variable, an operation, a definition, or a
// type used as the set of its values.
func (r *resolver) inferVar(e *ast.VarExp, opts resolveOpts) (typesystem.Type, error) {
	return r.resolveName(e, e.Qualifier, e.Name, opts)
}

func (r *resolver) resolveName(node ast.Node, qual, name string, opts resolveOpts) (typesystem.Type, error) {
	if qual == "" {
		if op, ok := r.scope.CurrentOperation(); ok && op.Name == name && op.Return != nil {
			return op.Return, nil
		}
	}
	if v, ok := r.scope.LookupVariable(qual, name); ok {
		if v.Type == nil {
			return nil, r.fail(opts, diagnostics.ErrA002, node, "type of %s is unknown", name)
		}
		return v.Type, nil
	}
	if op, ok := r.scope.LookupOperation(qual, name); ok {
		return op.Type(), nil
	}
	if d, ok := r.scope.LookupDefinition(qual, name, nil); ok {
		if d.Range == nil {
			return nil, r.fail(opts, diagnostics.ErrA002, node, "type of %s is not known before its definition is typed", name)
		}
		return d.Range, nil
	}
	if defs := r.scope.LookupDefinitions(qual, name); len(defs) > 0 {
		if len(defs) > 1 {
			return nil, r.fail(opts, diagnostics.ErrA008, node,
				"%s is overloaded and cannot be used without arguments%s", name, r.describeCandidates(qual, name))
		}
		if defs[0].Range == nil {
			return nil, r.fail(opts, diagnostics.ErrA002, node, "type of %s is not known before its definition is typed", name)
		}
		return defs[0].Type(), nil
	}
	if entry, ok := r.scope.LookupType(qual, name); ok {
		return typesystem.SetOf(entry.Type), nil
	}
	if qual != "" && !r.scope.IsQualifier(qual) {
		return nil, r.fail(opts, diagnostics.ErrA001, node, "unknown module or facility %s", qual)
	}
	return nil, r.fail(opts, diagnostics.ErrA001, node, "unresolved identifier %s", qualifiedName(qual, name))
}

func qualifiedName(qual, name string) string {
	if qual == "" {
		return name
	}
	return qual + "." + name
}
