package analyzer

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/token"
)

// compatibleModes lists, for each formal mode of an operation parameter,
// the modes an actual operation may declare in that position.
var compatibleModes = map[ast.Mode][]ast.Mode{
	ast.ModeAlters:    {ast.ModeAlters, ast.ModeUpdates, ast.ModeClears, ast.ModeReplaces, ast.ModeRestores, ast.ModePreserves},
	ast.ModeUpdates:   {ast.ModeUpdates},
	ast.ModeClears:    {ast.ModeClears},
	ast.ModeReplaces:  {ast.ModeReplaces},
	ast.ModeRestores:  {ast.ModeRestores, ast.ModePreserves},
	ast.ModePreserves: {ast.ModePreserves},
	ast.ModeEvaluates: {ast.ModeEvaluates, ast.ModeRestores, ast.ModePreserves},
}

func modeCompatible(formal, actual ast.Mode) bool {
	for _, m := range compatibleModes[formal] {
		if m == actual {
			return true
		}
	}
	return false
}

// facility checks a facility declaration: the realization and the
// enhancements must fit the concept, and every argument list must fit the
// parameters of the module it instantiates.
func (d *driver) facility(dec *ast.FacilityDec) {
	if concept, ok := d.moduleDec(dec.ConceptName).(*ast.ConceptDec); ok {
		d.checkArgs(dec.Name, "concept "+dec.ConceptName, dec.Token, concept.Params, dec.ConceptArgs)
	}
	if dec.RealizationName != "" {
		d.realizationArgs(dec, dec.RealizationName, "", dec.RealizationArgs, dec.Token)
	}
	for _, item := range dec.Enhancements {
		enh, ok := d.moduleDec(item.Name).(*ast.EnhancementDec)
		if !ok {
			// reported while naming the module
			continue
		}
		if enh.ConceptName != dec.ConceptName {
			d.report(diagnostics.NewErrorf(diagnostics.ErrA006, item.Token,
				"enhancement %s extends %s, not %s", item.Name, enh.ConceptName, dec.ConceptName))
			continue
		}
		d.checkArgs(dec.Name, "enhancement "+item.Name, item.Token, enh.Params, item.Args)
		if item.RealizationName != "" {
			d.realizationArgs(dec, item.RealizationName, item.Name, item.RealizationArgs, item.Token)
		}
	}
}

func (d *driver) moduleDec(name string) ast.ModuleDec {
	dec, _ := d.a.env.Dec(name)
	return dec
}

// realizationArgs checks that name realizes the concept, or the named
// enhancement of it, and that args fit its parameters.
func (d *driver) realizationArgs(dec *ast.FacilityDec, name, enhancement string, args []*ast.ModuleArg, tok token.Token) {
	impl, ok := d.moduleDec(name).(*ast.RealizationDec)
	if !ok {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA011, tok, "unknown realization %s", name))
		return
	}
	want := dec.ConceptName
	if enhancement != "" {
		want = enhancement
	}
	if impl.ConceptName != dec.ConceptName || impl.EnhancementName != enhancement {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA006, tok,
			"realization %s realizes %s, not %s", name, impl.ImplementedModule(), want))
		return
	}
	d.checkArgs(dec.Name, "realization "+name, tok, impl.Params, args)
}

func (d *driver) checkArgs(facility, owner string, tok token.Token, params []ast.ModuleParam, args []*ast.ModuleArg) {
	if len(params) != len(args) {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA004, tok,
			"facility %s: %s expects %d arguments, found %d", facility, owner, len(params), len(args)))
		return
	}
	for i, p := range params {
		arg := args[i]
		switch p := p.(type) {
		case *ast.ConstantParam:
			d.constantArg(p, arg)
		case *ast.TypeParam:
			if _, ok := d.scope.LookupType(arg.Qualifier, arg.Name); !ok || arg.Exp != nil {
				d.report(diagnostics.NewErrorf(diagnostics.ErrA006, arg.Token,
					"argument %s for type parameter %s is not a type", arg, p.Name))
			}
		case *ast.OperationParam:
			d.operationArg(p, arg)
		case *ast.DefinitionParam:
			d.definitionArg(p, arg)
		}
	}
}

func (d *driver) constantArg(p *ast.ConstantParam, arg *ast.ModuleArg) {
	if arg.Exp != nil {
		found, ok := d.program(arg.Exp)
		if !ok {
			return
		}
		formal, err := BuildType(p.Ty, d.scope)
		if err != nil {
			// the formal type is local to the instantiated module
			return
		}
		if !d.r.matches(formal, found, false) {
			d.report(diagnostics.NewErrorf(diagnostics.ErrA006, arg.Token,
				"argument %s has type %s, but parameter %s requires %s", arg, typeName(found), p.Name, p.Ty.Name))
		}
		return
	}
	v, ok := d.scope.LookupVariable(arg.Qualifier, arg.Name)
	if !ok {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA006, arg.Token,
			"argument %s for parameter %s is not a variable", arg, p.Name))
		return
	}
	if got := typeName(v.Type); p.Ty != nil && got != p.Ty.Name {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA006, arg.Token,
			"argument %s has type %s, but parameter %s requires %s", arg, got, p.Name, p.Ty.Name))
	}
}

func (d *driver) operationArg(p *ast.OperationParam, arg *ast.ModuleArg) {
	actual, ok := d.scope.LookupOperation(arg.Qualifier, arg.Name)
	if !ok || arg.Exp != nil {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA006, arg.Token,
			"argument %s for operation parameter %s is not an operation", arg, p.Op.Name))
		return
	}
	formal := p.Op.Params
	if len(actual.Params) != len(formal) {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA004, arg.Token,
			"operation %s has %d parameters, but %s requires %d", arg, len(actual.Params), p.Op.Name, len(formal)))
		return
	}
	for j, f := range formal {
		a := actual.Params[j]
		if !modeCompatible(f.Mode, a.Mode) {
			d.report(diagnostics.NewErrorf(diagnostics.ErrA005, arg.Token,
				"parameter %s of operation %s is %s, which does not fit %s parameter %s of %s",
				a.Name, arg, a.Mode, f.Mode, f.Name, p.Op.Name))
			continue
		}
		want := ""
		if f.Ty != nil {
			want = f.Ty.Name
		}
		if want != a.TypeName && want != config.EntryTypeName && a.TypeName != config.EntryTypeName {
			d.report(diagnostics.NewErrorf(diagnostics.ErrA006, arg.Token,
				"parameter %s of operation %s has type %s, but %s requires %s", a.Name, arg, a.TypeName, p.Op.Name, want))
		}
	}
}

func (d *driver) definitionArg(p *ast.DefinitionParam, arg *ast.ModuleArg) {
	defs := d.scope.LookupDefinitions(arg.Qualifier, arg.Name)
	if len(defs) == 0 || arg.Exp != nil {
		d.report(diagnostics.NewErrorf(diagnostics.ErrA006, arg.Token,
			"argument %s for definition parameter %s is not a definition", arg, p.Def.Name))
		return
	}
	for _, def := range defs {
		if len(def.Params) == len(p.Def.Params) {
			return
		}
	}
	d.report(diagnostics.NewErrorf(diagnostics.ErrA004, arg.Token,
		"definition %s does not take %d arguments as %s requires", arg, len(p.Def.Params), p.Def.Name))
}
