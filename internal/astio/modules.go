package astio

import (
	"gopkg.in/yaml.v3"

	"github.com/funvibe/mathsema/internal/ast"
)

var unitKinds = []string{"theory", "concept", "enhancement", "realization", "facility"}

func (d *decoder) unit(n *yaml.Node) ast.ModuleDec {
	if n.Kind != yaml.MappingNode {
		d.failf(n, "a unit must be a mapping, found %s", describe(n))
	}
	kind := ""
	for i := 0; i+1 < len(n.Content); i += 2 {
		if contains(unitKinds, n.Content[i].Value) {
			kind = n.Content[i].Value
			break
		}
	}
	switch kind {
	case "theory":
		f := d.fields(n, "theory", "uses", "decs")
		return &ast.MathModuleDec{
			Token: d.tok(f.get("theory")),
			Name:  d.name(f.get("theory")),
			Uses:  d.uses(f.get("uses")),
			Decs:  d.decs(f.get("decs")),
		}
	case "concept":
		f := d.fields(n, "concept", "params", "uses", "constraint", "decs")
		return &ast.ConceptDec{
			Token:      d.tok(f.get("concept")),
			Name:       d.name(f.get("concept")),
			Params:     d.moduleParams(f.get("params")),
			Uses:       d.uses(f.get("uses")),
			Constraint: d.optExp(f.get("constraint")),
			Decs:       d.decs(f.get("decs")),
		}
	case "enhancement":
		f := d.fields(n, "enhancement", "for", "params", "uses", "decs")
		return &ast.EnhancementDec{
			Token:       d.tok(f.get("enhancement")),
			Name:        d.name(f.get("enhancement")),
			ConceptName: d.name(d.require(f, "for")),
			Params:      d.moduleParams(f.get("params")),
			Uses:        d.uses(f.get("uses")),
			Decs:        d.decs(f.get("decs")),
		}
	case "realization":
		f := d.fields(n, "realization", "for", "enhancement", "params", "uses", "decs")
		return &ast.RealizationDec{
			Token:           d.tok(f.get("realization")),
			Name:            d.name(f.get("realization")),
			ConceptName:     d.name(d.require(f, "for")),
			EnhancementName: d.str(f.get("enhancement")),
			Params:          d.moduleParams(f.get("params")),
			Uses:            d.uses(f.get("uses")),
			Decs:            d.decs(f.get("decs")),
		}
	case "facility":
		f := d.fields(n, "facility", "uses", "decs")
		return &ast.FacilityModuleDec{
			Token: d.tok(f.get("facility")),
			Name:  d.name(f.get("facility")),
			Uses:  d.uses(f.get("uses")),
			Decs:  d.decs(f.get("decs")),
		}
	}
	d.failf(n, "unit kind missing: expected one of theory, concept, enhancement, realization, facility")
	return nil
}

func (d *decoder) uses(n *yaml.Node) []*ast.UsesItem {
	var out []*ast.UsesItem
	for _, item := range d.list(n) {
		out = append(out, &ast.UsesItem{Token: d.tok(item), Name: d.name(item)})
	}
	return out
}

func (d *decoder) moduleParams(n *yaml.Node) []ast.ModuleParam {
	var out []ast.ModuleParam
	for _, item := range d.list(n) {
		key, value := d.single(item)
		switch key.Value {
		case "constant":
			name, ty := d.single(value)
			out = append(out, &ast.ConstantParam{Token: d.tok(key), Name: d.name(name), Ty: d.nameTy(ty)})
		case "type":
			out = append(out, &ast.TypeParam{Token: d.tok(key), Name: d.name(value)})
		case "operation":
			out = append(out, &ast.OperationParam{Token: d.tok(key), Op: d.operation(key, value)})
		case "definition":
			out = append(out, &ast.DefinitionParam{Token: d.tok(key), Def: d.definition(key, value)})
		default:
			d.failf(key, "unknown parameter kind %q", key.Value)
		}
	}
	return out
}

func (d *decoder) decs(n *yaml.Node) []ast.Dec {
	var out []ast.Dec
	for _, item := range d.list(n) {
		out = append(out, d.dec(item))
	}
	return out
}

var assertionKinds = map[string]ast.AssertionKind{
	"axiom":     ast.Axiom,
	"theorem":   ast.Theorem,
	"lemma":     ast.Lemma,
	"corollary": ast.Corollary,
	"property":  ast.Property,
}

func (d *decoder) dec(n *yaml.Node) ast.Dec {
	key, value := d.single(n)
	tok := d.tok(key)
	if kind, ok := assertionKinds[key.Value]; ok {
		f := d.fields(value, "name", "assert")
		return &ast.MathAssertionDec{Token: tok, Kind: kind, Name: d.name(d.require(f, "name")), Assertion: d.exp(d.require(f, "assert"))}
	}

	switch key.Value {
	case "type":
		if value.Kind == yaml.ScalarNode {
			return &ast.MathTypeDec{Token: tok, Name: d.name(value)}
		}
		f := d.fields(value, "name", "is")
		return &ast.MathTypeDec{Token: tok, Name: d.name(d.require(f, "name")), Ty: d.ty(d.require(f, "is"))}
	case "subtype":
		f := d.fields(value, "name", "sub", "super")
		return &ast.TypeTheoremDec{Token: tok, Name: d.str(f.get("name")), Sub: d.ty(d.require(f, "sub")), Super: d.ty(d.require(f, "super"))}
	case "definition":
		return d.definition(key, value)
	case "proof":
		f := d.fields(value, "of", "steps")
		var steps []ast.Exp
		for _, step := range d.list(d.require(f, "steps")) {
			steps = append(steps, d.exp(step))
		}
		return &ast.ProofDec{Token: tok, TheoremName: d.name(d.require(f, "of")), Body: steps}
	case "family":
		f := d.fields(value, "name", "model", "exemplar", "constraint", "init")
		return &ast.TypeFamilyDec{
			Token:       tok,
			Name:        d.name(d.require(f, "name")),
			Model:       d.ty(d.require(f, "model")),
			Exemplar:    d.str(f.get("exemplar")),
			Constraint:  d.optExp(f.get("constraint")),
			InitEnsures: d.optExp(f.get("init")),
		}
	case "conceptual":
		return &ast.ConceptVarDec{Token: tok, Var: d.mathVar(value)}
	case "var":
		name, ty := d.single(value)
		return &ast.VarDec{Token: tok, Name: d.name(name), Ty: d.nameTy(ty)}
	case "operation":
		return d.operation(key, value)
	case "procedure":
		return d.procedure(key, value)
	case "representation":
		f := d.fields(value, "name", "as", "convention", "correspondence", "init")
		return &ast.RepresentationDec{
			Token:          tok,
			Name:           d.name(d.require(f, "name")),
			Representation: d.ty(d.require(f, "as")),
			Convention:     d.optExp(f.get("convention")),
			Correspondence: d.optExp(f.get("correspondence")),
			InitEnsures:    d.optExp(f.get("init")),
		}
	case "facility":
		return d.facility(key, value)
	}
	d.failf(key, "unknown declaration kind %q", key.Value)
	return nil
}

func (d *decoder) definition(key, n *yaml.Node) *ast.DefinitionDec {
	f := d.fields(n, "name", "params", "returns", "body", "base", "hypothesis", "implicit")
	dec := &ast.DefinitionDec{
		Token:      d.tok(key),
		Name:       d.name(d.require(f, "name")),
		Params:     d.mathVars(f.get("params")),
		Definition: d.optExp(f.get("body")),
		Base:       d.optExp(f.get("base")),
		Hypothesis: d.optExp(f.get("hypothesis")),
		Implicit:   d.boolean(f.get("implicit")),
	}
	if ret := f.get("returns"); ret != nil {
		dec.ReturnTy = d.ty(ret)
	}
	if dec.Implicit && dec.Definition == nil {
		d.failf(key, "implicit definition %s has no body", dec.Name)
	}
	if dec.Definition != nil && (dec.Base != nil || dec.Hypothesis != nil) {
		d.failf(key, "definition %s has both a body and inductive clauses", dec.Name)
	}
	return dec
}

func (d *decoder) operation(key, n *yaml.Node) *ast.OperationDec {
	f := d.fields(n, "name", "params", "returns", "requires", "ensures")
	op := &ast.OperationDec{
		Token:    d.tok(key),
		Name:     d.name(d.require(f, "name")),
		Params:   d.params(f.get("params")),
		Requires: d.optExp(f.get("requires")),
		Ensures:  d.optExp(f.get("ensures")),
	}
	if ret := f.get("returns"); ret != nil {
		op.ReturnTy = d.nameTy(ret)
	}
	return op
}

func (d *decoder) procedure(key, n *yaml.Node) *ast.ProcedureDec {
	f := d.fields(n, "name", "params", "returns", "recursive", "requires", "ensures", "decreasing", "vars", "body")
	proc := &ast.ProcedureDec{
		Token:      d.tok(key),
		Name:       d.name(d.require(f, "name")),
		Params:     d.params(f.get("params")),
		Recursive:  d.boolean(f.get("recursive")),
		Requires:   d.optExp(f.get("requires")),
		Ensures:    d.optExp(f.get("ensures")),
		Decreasing: d.optExp(f.get("decreasing")),
		Statements: d.stmts(f.get("body")),
	}
	if ret := f.get("returns"); ret != nil {
		proc.ReturnTy = d.nameTy(ret)
	}
	for _, v := range d.list(f.get("vars")) {
		name, ty := d.single(v)
		proc.Variables = append(proc.Variables, &ast.VarDec{Token: d.tok(name), Name: d.name(name), Ty: d.nameTy(ty)})
	}
	if proc.Recursive && proc.Decreasing == nil {
		d.failf(key, "recursive procedure %s needs a decreasing clause", proc.Name)
	}
	return proc
}

// params decodes operation parameters written as mode: {name: type}.
func (d *decoder) params(n *yaml.Node) []*ast.ParameterVarDec {
	var out []*ast.ParameterVarDec
	for _, item := range d.list(n) {
		modeKey, decl := d.single(item)
		mode, ok := ast.ParseMode(modeKey.Value)
		if !ok {
			d.failf(modeKey, "unknown parameter mode %q", modeKey.Value)
		}
		name, ty := d.single(decl)
		out = append(out, &ast.ParameterVarDec{Token: d.tok(name), Mode: mode, Name: d.name(name), Ty: d.nameTy(ty)})
	}
	return out
}

func (d *decoder) facility(key, n *yaml.Node) *ast.FacilityDec {
	f := d.fields(n, "name", "concept", "args", "realization", "realization_args", "enhancements")
	dec := &ast.FacilityDec{
		Token:           d.tok(key),
		Name:            d.name(d.require(f, "name")),
		ConceptName:     d.name(d.require(f, "concept")),
		ConceptArgs:     d.moduleArgs(f.get("args")),
		RealizationName: d.str(f.get("realization")),
		RealizationArgs: d.moduleArgs(f.get("realization_args")),
	}
	for _, item := range d.list(f.get("enhancements")) {
		ef := d.fields(item, "name", "args", "realization", "realization_args")
		dec.Enhancements = append(dec.Enhancements, &ast.EnhancementItem{
			Token:           d.tok(item),
			Name:            d.name(d.require(ef, "name")),
			Args:            d.moduleArgs(ef.get("args")),
			RealizationName: d.str(ef.get("realization")),
			RealizationArgs: d.moduleArgs(ef.get("realization_args")),
		})
	}
	return dec
}

// moduleArgs decodes facility arguments. A plain name stands for the
// variable, type, operation or definition it names; anything else is an
// expression.
func (d *decoder) moduleArgs(n *yaml.Node) []*ast.ModuleArg {
	var out []*ast.ModuleArg
	for _, item := range d.list(n) {
		if item.Kind == yaml.ScalarNode && item.ShortTag() == "!!str" {
			qual, name := splitQualified(item.Value)
			out = append(out, &ast.ModuleArg{Token: d.tok(item), Qualifier: qual, Name: name})
			continue
		}
		out = append(out, &ast.ModuleArg{Token: d.tok(item), Exp: d.exp(item)})
	}
	return out
}

func (d *decoder) mathVars(n *yaml.Node) []*ast.MathVarDec {
	var out []*ast.MathVarDec
	for _, item := range d.list(n) {
		out = append(out, d.mathVar(item))
	}
	return out
}

// mathVar decodes name: type.
func (d *decoder) mathVar(n *yaml.Node) *ast.MathVarDec {
	name, ty := d.single(n)
	return &ast.MathVarDec{Token: d.tok(name), Name: d.name(name), Ty: d.ty(ty)}
}
