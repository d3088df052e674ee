package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// matches decides whether t1 and t2 are the same type up to
// correspondence. An unknown type matches anything. Under strict matching
// only t1 is expanded.
func (r *resolver) matches(t1, t2 typesystem.Type, strict bool) bool {
	if t1 == nil || t2 == nil {
		return true
	}
	left := r.scope.Correspondences(t1)
	right := []typesystem.Type{t2}
	if !strict {
		right = r.scope.Correspondences(t2)
	}
	for _, a := range left {
		for _, b := range right {
			if typesystem.Equal(a, b) {
				return true
			}
		}
	}
	// Set(?) against a family modelled as Set(Entry) only meets after expansion.
	for _, a := range left {
		for _, b := range right {
			if r.matchStructure(a, b, strict) {
				return true
			}
		}
	}
	return false
}

// matchStructure compares two types of the same shape component-wise.
func (r *resolver) matchStructure(t1, t2 typesystem.Type, strict bool) bool {
	switch a := t1.(type) {
	case typesystem.TCon:
		b, ok := t2.(typesystem.TCon)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		if a.Qualifier != "" && b.Qualifier != "" && a.Qualifier != b.Qualifier {
			return false
		}
		for i := range a.Args {
			if !r.matches(a.Args[i], b.Args[i], strict) {
				return false
			}
		}
		return true
	case typesystem.TFunc:
		b, ok := t2.(typesystem.TFunc)
		return ok && r.matches(a.Domain, b.Domain, strict) && r.matches(a.Range, b.Range, strict)
	case typesystem.TTuple:
		b, ok := t2.(typesystem.TTuple)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !r.matches(a.Fields[i].Type, b.Fields[i].Type, strict) {
				return false
			}
		}
		return true
	}
	return false
}

// expect requires found to match expected. The mismatch is reported at e
// unless opts is quiet.
func (r *resolver) expect(e ast.Node, expected, found typesystem.Type, strict bool, opts resolveOpts) error {
	if r.matches(expected, found, strict) {
		return nil
	}
	return r.fail(opts, diagnostics.ErrA002, e,
		"type mismatch: expected %s, found %s", typesystem.Show(expected), typesystem.Show(found))
}

// expectBoolean requires a Boolean-valued expression.
func (r *resolver) expectBoolean(e ast.Exp, found typesystem.Type, opts resolveOpts) error {
	return r.expect(e, typesystem.Boolean, found, false, opts)
}
