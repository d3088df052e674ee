package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// inferDot types a dotted chain. The first segment is Conc, which
// redirects the next name to the conceptual variables; a module or facility
// qualifier; or a record value. Remaining segments select fields.
func (r *resolver) inferDot(e *ast.DotExp, opts resolveOpts) (typesystem.Type, error) {
	sub := opts.child()
	if len(e.Segments) == 0 {
		return nil, r.fail(opts, diagnostics.ErrA003, e, "empty dotted expression")
	}
	rest := e.Segments[1:]
	var t typesystem.Type
	var err error

	first, isName := e.Segments[0].(*ast.VarExp)
	switch {
	case isName && first.Qualifier == "" && first.Name == config.ConcKeyword && len(rest) > 0:
		t, err = r.conceptual(rest[0], sub)
		if err != nil {
			return nil, err
		}
		first.SetResolvedType(t)
		rest = rest[1:]
	case isName && first.Qualifier == "" && len(rest) > 0 && r.isModuleQualifier(first.Name):
		t, err = r.qualifiedSegment(first.Name, rest[0], sub)
		if err != nil {
			return nil, err
		}
		first.SetResolvedType(t)
		rest = rest[1:]
	default:
		t, err = r.resolve(e.Segments[0], sub)
		if err != nil {
			return nil, err
		}
	}

	for _, seg := range rest {
		t, err = r.selectField(seg, t, opts)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// isModuleQualifier reports whether name is a qualifier and not a value.
func (r *resolver) isModuleQualifier(name string) bool {
	if _, ok := r.scope.LookupVariable("", name); ok {
		return false
	}
	return r.scope.IsQualifier(name)
}

// conceptual resolves the segment following Conc.
func (r *resolver) conceptual(seg ast.Exp, opts resolveOpts) (typesystem.Type, error) {
	name, ok := seg.(*ast.VarExp)
	if !ok {
		return nil, r.fail(opts, diagnostics.ErrA003, seg, "expected a conceptual variable after %s, found %s", config.ConcKeyword, ast.Print(seg))
	}
	v, found := r.scope.LookupConceptual(name.Name)
	if !found {
		return nil, r.fail(opts, diagnostics.ErrA001, seg, "no conceptual variable %s.%s", config.ConcKeyword, name.Name)
	}
	if v.Type == nil {
		return nil, r.fail(opts, diagnostics.ErrA002, seg, "type of %s.%s is unknown", config.ConcKeyword, name.Name)
	}
	name.SetResolvedType(v.Type)
	return v.Type, nil
}

// qualifiedSegment resolves Q.x or Q.f(args).
func (r *resolver) qualifiedSegment(qual string, seg ast.Exp, opts resolveOpts) (typesystem.Type, error) {
	switch s := seg.(type) {
	case *ast.VarExp:
		if s.ResolvedType() != nil {
			return s.ResolvedType(), nil
		}
		t, err := r.resolveName(s, qual, s.Name, opts)
		if err != nil {
			return nil, err
		}
		s.SetResolvedType(t)
		return t, nil
	case *ast.FunctionExp:
		if s.ResolvedType() != nil {
			return s.ResolvedType(), nil
		}
		args, err := r.resolveAll(s.Args, opts)
		if err != nil {
			return nil, err
		}
		t, err := r.call(s, qual, s.Name, args, opts)
		if err != nil {
			return nil, err
		}
		s.SetResolvedType(t)
		return t, nil
	}
	return nil, r.fail(opts, diagnostics.ErrA003, seg, "expected a name after %s, found %s", qual, ast.Print(seg))
}

func (r *resolver) inferField(e *ast.FieldExp, opts resolveOpts) (typesystem.Type, error) {
	t, err := r.resolve(e.Structure, opts.child())
	if err != nil {
		return nil, err
	}
	return r.selectField(e.Field, t, opts)
}

// selectField descends into a tuple or record type by field name.
func (r *resolver) selectField(seg ast.Exp, structure typesystem.Type, opts resolveOpts) (typesystem.Type, error) {
	name, ok := seg.(*ast.VarExp)
	if !ok || name == nil {
		return nil, r.fail(opts, diagnostics.ErrA003, seg, "expected a field name, found %s", ast.Print(seg))
	}
	tuple, ok := typesystem.Unwrap(structure).(typesystem.TTuple)
	if !ok {
		return nil, r.fail(opts, diagnostics.ErrA003, seg, "field %s not found: %s has no fields", name.Name, typesystem.Show(structure))
	}
	f, ok := tuple.FieldByName(name.Name)
	if !ok {
		return nil, r.fail(opts, diagnostics.ErrA003, seg, "field %s not found in %s", name.Name, typesystem.Show(structure))
	}
	name.SetResolvedType(f.Type)
	return f.Type, nil
}
