package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// BuildType converts a written type into a typesystem.Type using the names
// visible from scope. Named types resolve to the type their entry denotes;
// applied names such as Set(N) become constructed types.
func BuildType(ty ast.Ty, scope *symbols.Scope) (typesystem.Type, *diagnostics.DiagnosticError) {
	switch ty := ty.(type) {
	case nil:
		return nil, nil
	case *ast.NameTy:
		if ty == nil {
			return nil, nil
		}
		entry, ok := scope.LookupType(ty.Qualifier, ty.Name)
		if !ok {
			return nil, diagnostics.NewErrorf(diagnostics.ErrA001, ty.Token, "unknown type %s", ast.Print(ty))
		}
		if len(ty.Args) == 0 {
			return entry.Type, nil
		}
		args := make([]typesystem.Type, len(ty.Args))
		for i, a := range ty.Args {
			t, err := BuildType(a, scope)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		con := typesystem.TCon{Name: ty.Name, Args: args}
		if base, ok := entry.Type.(typesystem.TCon); ok {
			con.Qualifier = base.Qualifier
			con.Name = base.Name
		}
		return con, nil
	case *ast.FunctionTy:
		params := make([]typesystem.Type, len(ty.Params))
		for i, p := range ty.Params {
			t, err := BuildType(p, scope)
			if err != nil {
				return nil, err
			}
			params[i] = t
		}
		rng, err := BuildType(ty.Range, scope)
		if err != nil {
			return nil, err
		}
		return typesystem.FuncOf(params, rng), nil
	case *ast.TupleTy:
		fields := make([]typesystem.Field, len(ty.Fields))
		for i, f := range ty.Fields {
			t, err := BuildType(f.Ty, scope)
			if err != nil {
				return nil, err
			}
			fields[i] = typesystem.Field{Name: f.Name, Type: t}
		}
		return typesystem.TTuple{Fields: fields}, nil
	default:
		return nil, diagnostics.NewErrorf(diagnostics.ErrA001, ty.GetToken(), "unsupported type expression %s", ast.Print(ty))
	}
}

// typeName returns the name a type is written with, for comparisons that
// go by program type name.
func typeName(t typesystem.Type) string {
	switch t := t.(type) {
	case typesystem.TCon:
		return t.Name
	case typesystem.TIndirect:
		return t.Name
	case typesystem.TConcept:
		return t.Name
	case typesystem.TBoolean:
		return t.String()
	default:
		return typesystem.Show(t)
	}
}

// buildParams converts operation or procedure parameters.
func buildParams(params []*ast.ParameterVarDec, scope *symbols.Scope) ([]symbols.Param, []*diagnostics.DiagnosticError) {
	var errs []*diagnostics.DiagnosticError
	out := make([]symbols.Param, len(params))
	for i, p := range params {
		t, err := BuildType(p.Ty, scope)
		if err != nil {
			errs = append(errs, err)
		}
		name := ""
		if p.Ty != nil {
			name = p.Ty.Name
		}
		out[i] = symbols.Param{Name: p.Name, Type: t, Mode: p.Mode, TypeName: name}
	}
	return out, errs
}

// buildMathParams converts definition parameters. They all carry the
// definition mode, so a function-typed parameter can be applied in the body.
func buildMathParams(params []*ast.MathVarDec, scope *symbols.Scope) ([]symbols.Param, []*diagnostics.DiagnosticError) {
	var errs []*diagnostics.DiagnosticError
	out := make([]symbols.Param, len(params))
	for i, p := range params {
		t, err := BuildType(p.Ty, scope)
		if err != nil {
			errs = append(errs, err)
		}
		out[i] = symbols.Param{Name: p.Name, Type: t, Mode: ast.ModeDefinition}
	}
	return out, errs
}

// buildDefinition creates the symbol-table entry for a definition.
func buildDefinition(dec *ast.DefinitionDec, scope *symbols.Scope) (*symbols.Definition, []*diagnostics.DiagnosticError) {
	params, errs := buildMathParams(dec.Params, scope)
	rng, err := BuildType(dec.ReturnTy, scope)
	if err != nil {
		errs = append(errs, err)
	}
	return &symbols.Definition{
		Name:       dec.Name,
		Params:     params,
		Range:      rng,
		Body:       dec.Definition,
		Base:       dec.Base,
		Hypothesis: dec.Hypothesis,
		Implicit:   dec.Implicit,
		Node:       dec,
		Value:      scope.Environment().Arena().Alloc(),
	}, errs
}

// buildOperation creates the entry for an operation or procedure signature.
func buildOperation(name string, node ast.Node, params []*ast.ParameterVarDec, ret *ast.NameTy, requires, ensures ast.Exp, scope *symbols.Scope) (*symbols.Operation, []*diagnostics.DiagnosticError) {
	ps, errs := buildParams(params, scope)
	var rt typesystem.Type
	if ret != nil {
		t, err := BuildType(ret, scope)
		if err != nil {
			errs = append(errs, err)
		}
		rt = t
	}
	return &symbols.Operation{
		Name:     name,
		Params:   ps,
		Return:   rt,
		Requires: requires,
		Ensures:  ensures,
		Node:     node,
	}, errs
}
