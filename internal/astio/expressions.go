package astio

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/mathsema/internal/ast"
)

func (d *decoder) optExp(n *yaml.Node) ast.Exp {
	if n == nil {
		return nil
	}
	return d.exp(n)
}

func (d *decoder) exps(n *yaml.Node) []ast.Exp {
	var out []ast.Exp
	for _, item := range d.list(n) {
		out = append(out, d.exp(item))
	}
	return out
}

func (d *decoder) exp(n *yaml.Node) ast.Exp {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalarExp(n)
	case yaml.MappingNode:
		key, value := d.single(n)
		if form, ok := expForms[key.Value]; ok {
			return form(d, key, value)
		}
		d.failf(key, "unknown expression form %q", key.Value)
	default:
		d.failf(n, "expected an expression, found %s", describe(n))
	}
	return nil
}

func (d *decoder) scalarExp(n *yaml.Node) ast.Exp {
	tok := d.tok(n)
	switch n.ShortTag() {
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			d.failf(n, "bad integer %q", n.Value)
		}
		return &ast.IntegerExp{Token: tok, Value: v}
	case "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			d.failf(n, "bad real %q", n.Value)
		}
		return &ast.RealExp{Token: tok, Value: v}
	case "!!bool":
		return &ast.BooleanExp{Token: tok, Value: d.boolean(n)}
	case "!!str":
		return d.nameExp(n)
	}
	d.failf(n, "expected an expression, found %s", describe(n))
	return nil
}

// nameExp decodes x, or a dotted chain such as Conc.S or Q.x.
func (d *decoder) nameExp(n *yaml.Node) ast.Exp {
	if n.Value == "" {
		d.failf(n, "expected a name")
	}
	tok := d.tok(n)
	parts := strings.Split(n.Value, ".")
	if len(parts) == 1 {
		return &ast.VarExp{Token: tok, Name: n.Value}
	}
	dot := &ast.DotExp{Token: tok}
	for _, p := range parts {
		if p == "" {
			d.failf(n, "bad dotted name %q", n.Value)
		}
		dot.Segments = append(dot.Segments, &ast.VarExp{Token: tok, Name: p})
	}
	return dot
}

type expForm func(d *decoder, key, value *yaml.Node) ast.Exp

var expForms map[string]expForm

func init() {
	expForms = map[string]expForm{
		"call":    (*decoder).callExp,
		"op":      (*decoder).opCallExp,
		"infix":   (*decoder).infixExp,
		"prefix":  (*decoder).prefixExp,
		"outfix":  (*decoder).outfixExp,
		"eq":      (*decoder).equalsExp,
		"neq":     (*decoder).equalsExp,
		"between": (*decoder).betweenExp,
		"if":      (*decoder).ifExp,
		"alt":     (*decoder).altExp,
		"forall":  (*decoder).quantExp,
		"exists":  (*decoder).quantExp,
		"unique":  (*decoder).quantExp,
		"set":     (*decoder).setExp,
		"setof":   (*decoder).setCollectionExp,
		"tuple":   (*decoder).tupleExp,
		"lambda":  (*decoder).lambdaExp,
		"dot":     (*decoder).dotExp,
		"field":   (*decoder).fieldExp,
		"old":     (*decoder).oldExp,
		"iterate": (*decoder).iterativeExp,
		"is":      (*decoder).typeAssertionExp,
		"real":    (*decoder).realExp,
		"char":    (*decoder).charExp,
		"string":  (*decoder).stringExp,
		"goal":    (*decoder).goalExp,
		"suppose": (*decoder).suppositionExp,
		"deduce":  (*decoder).deductionExp,
		"justify": (*decoder).justifiedExp,
		"hyp":     (*decoder).hypDesigExp,
		"define":  (*decoder).proofDefinitionExp,
	}
}

// callee splits the head of a call list into qualifier and name.
func (d *decoder) callee(n *yaml.Node) (string, string) {
	return splitQualified(d.name(n))
}

// call: [f, a, b]
func (d *decoder) callExp(key, value *yaml.Node) ast.Exp {
	items := d.list(value)
	if len(items) == 0 {
		d.failf(value, "call needs a function name")
	}
	qual, name := d.callee(items[0])
	e := &ast.FunctionExp{Token: d.tok(key), Qualifier: qual, Name: name}
	for _, a := range items[1:] {
		e.Args = append(e.Args, d.exp(a))
	}
	return e
}

// op: [Push, E, S]
func (d *decoder) opCallExp(key, value *yaml.Node) ast.Exp {
	return d.operationCall(key, value)
}

func (d *decoder) operationCall(key, value *yaml.Node) *ast.OperationCallExp {
	items := d.list(value)
	if len(items) == 0 {
		d.failf(value, "operation call needs an operation name")
	}
	qual, name := d.callee(items[0])
	e := &ast.OperationCallExp{Token: d.tok(key), Qualifier: qual, Name: name}
	for _, a := range items[1:] {
		e.Args = append(e.Args, d.exp(a))
	}
	return e
}

// infix: [a, "+", b]
func (d *decoder) infixExp(key, value *yaml.Node) ast.Exp {
	items := d.tuple(value, 3)
	return &ast.InfixExp{Token: d.tok(key), Left: d.exp(items[0]), Op: d.name(items[1]), Right: d.exp(items[2])}
}

// prefix: ["-", a]
func (d *decoder) prefixExp(key, value *yaml.Node) ast.Exp {
	items := d.tuple(value, 2)
	return &ast.PrefixExp{Token: d.tok(key), Op: d.name(items[0]), Arg: d.exp(items[1])}
}

// outfix: ["|", a, "|"]
func (d *decoder) outfixExp(key, value *yaml.Node) ast.Exp {
	items := d.tuple(value, 3)
	return &ast.OutfixExp{Token: d.tok(key), LeftOp: d.name(items[0]), Arg: d.exp(items[1]), RightOp: d.name(items[2])}
}

// eq: [a, b] and neq: [a, b]
func (d *decoder) equalsExp(key, value *yaml.Node) ast.Exp {
	items := d.tuple(value, 2)
	op := ast.Equal
	if key.Value == "neq" {
		op = ast.NotEqual
	}
	return &ast.EqualsExp{Token: d.tok(key), Op: op, Left: d.exp(items[0]), Right: d.exp(items[1])}
}

// between: [relation, relation, ...]
func (d *decoder) betweenExp(key, value *yaml.Node) ast.Exp {
	lows := d.exps(value)
	if len(lows) < 2 {
		d.failf(value, "between needs at least two relations")
	}
	return &ast.BetweenExp{Token: d.tok(key), Lows: lows}
}

func (d *decoder) ifExp(key, value *yaml.Node) ast.Exp {
	f := d.fields(value, "test", "then", "else")
	return &ast.IfExp{
		Token: d.tok(key),
		Test:  d.exp(d.require(f, "test")),
		Then:  d.exp(d.require(f, "then")),
		Else:  d.optExp(f.get("else")),
	}
}

// alt: [{when: test, then: v}, {otherwise: v}]
func (d *decoder) altExp(key, value *yaml.Node) ast.Exp {
	e := &ast.AltExp{Token: d.tok(key)}
	for _, item := range d.list(value) {
		f := d.fields(item, "when", "then", "otherwise")
		if other := f.get("otherwise"); other != nil {
			e.Alternatives = append(e.Alternatives, &ast.AltItem{Token: d.tok(item), Assignment: d.exp(other)})
			continue
		}
		e.Alternatives = append(e.Alternatives, &ast.AltItem{
			Token:      d.tok(item),
			Test:       d.exp(d.require(f, "when")),
			Assignment: d.exp(d.require(f, "then")),
		})
	}
	if len(e.Alternatives) == 0 {
		d.failf(value, "alternative expression has no alternatives")
	}
	return e
}

var quantifiers = map[string]ast.Quantifier{"forall": ast.ForAll, "exists": ast.Exists, "unique": ast.Unique}

// forall: {vars: [{x: N}], where: w, body: b}
func (d *decoder) quantExp(key, value *yaml.Node) ast.Exp {
	f := d.fields(value, "vars", "where", "body")
	return &ast.QuantExp{
		Token:      d.tok(key),
		Quantifier: quantifiers[key.Value],
		Vars:       d.mathVars(d.require(f, "vars")),
		Where:      d.optExp(f.get("where")),
		Body:       d.exp(d.require(f, "body")),
	}
}

// set: {var: {x: N}, where: w, body: b}
func (d *decoder) setExp(key, value *yaml.Node) ast.Exp {
	f := d.fields(value, "var", "where", "body")
	return &ast.SetExp{
		Token: d.tok(key),
		Var:   d.mathVar(d.require(f, "var")),
		Where: d.optExp(f.get("where")),
		Body:  d.exp(d.require(f, "body")),
	}
}

func (d *decoder) setCollectionExp(key, value *yaml.Node) ast.Exp {
	return &ast.SetCollectionExp{Token: d.tok(key), Elems: d.exps(value)}
}

func (d *decoder) tupleExp(key, value *yaml.Node) ast.Exp {
	return &ast.TupleExp{Token: d.tok(key), Fields: d.exps(value)}
}

// lambda: {params: [{x: N}], body: b}
func (d *decoder) lambdaExp(key, value *yaml.Node) ast.Exp {
	f := d.fields(value, "params", "body")
	return &ast.LambdaExp{Token: d.tok(key), Params: d.mathVars(d.require(f, "params")), Body: d.exp(d.require(f, "body"))}
}

// dot: [Q, {call: [f, x]}] for chains whose segments are not plain names.
func (d *decoder) dotExp(key, value *yaml.Node) ast.Exp {
	segs := d.exps(value)
	if len(segs) < 2 {
		d.failf(value, "dotted expression needs at least two segments")
	}
	return &ast.DotExp{Token: d.tok(key), Segments: segs}
}

// field: [structure, name]
func (d *decoder) fieldExp(key, value *yaml.Node) ast.Exp {
	items := d.tuple(value, 2)
	return &ast.FieldExp{
		Token:     d.tok(key),
		Structure: d.exp(items[0]),
		Field:     &ast.VarExp{Token: d.tok(items[1]), Name: d.name(items[1])},
	}
}

func (d *decoder) oldExp(key, value *yaml.Node) ast.Exp {
	return &ast.OldExp{Token: d.tok(key), Exp: d.exp(value)}
}

// iterate: {op: Sum, var: {i: N}, where: w, body: b}
func (d *decoder) iterativeExp(key, value *yaml.Node) ast.Exp {
	f := d.fields(value, "op", "var", "where", "body")
	return &ast.IterativeExp{
		Token:    d.tok(key),
		Operator: d.name(d.require(f, "op")),
		Var:      d.mathVar(d.require(f, "var")),
		Where:    d.optExp(f.get("where")),
		Body:     d.exp(d.require(f, "body")),
	}
}

// is: [exp, type]
func (d *decoder) typeAssertionExp(key, value *yaml.Node) ast.Exp {
	items := d.tuple(value, 2)
	return &ast.TypeAssertionExp{Token: d.tok(key), Exp: d.exp(items[0]), Ty: d.ty(items[1])}
}

func (d *decoder) realExp(key, value *yaml.Node) ast.Exp {
	v, err := strconv.ParseFloat(d.str(value), 64)
	if err != nil {
		d.failf(value, "bad real %q", value.Value)
	}
	return &ast.RealExp{Token: d.tok(key), Value: v}
}

func (d *decoder) charExp(key, value *yaml.Node) ast.Exp {
	s := d.str(value)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		d.failf(value, "character literal must be one character, found %q", s)
	}
	return &ast.CharExp{Token: d.tok(key), Value: r}
}

func (d *decoder) stringExp(key, value *yaml.Node) ast.Exp {
	return &ast.StringExp{Token: d.tok(key), Value: d.str(value)}
}

func (d *decoder) goalExp(key, value *yaml.Node) ast.Exp {
	return &ast.GoalExp{Token: d.tok(key), Exp: d.exp(value)}
}

// suppose: {vars: [{x: N}], assume: a}
func (d *decoder) suppositionExp(key, value *yaml.Node) ast.Exp {
	f := d.fields(value, "vars", "assume")
	return &ast.SuppositionExp{Token: d.tok(key), Vars: d.mathVars(f.get("vars")), Assumption: d.optExp(f.get("assume"))}
}

func (d *decoder) deductionExp(key, value *yaml.Node) ast.Exp {
	return &ast.DeductionExp{Token: d.tok(key), Exp: d.exp(value)}
}

// justify: {exp: e, hyps: [H1], theorem: T, rule: modus_ponens}
func (d *decoder) justifiedExp(key, value *yaml.Node) ast.Exp {
	f := d.fields(value, "exp", "hyps", "theorem", "rule")
	j := &ast.Justification{Token: d.tok(key), Rule: d.str(f.get("rule"))}
	for _, h := range d.list(f.get("hyps")) {
		j.Hypotheses = append(j.Hypotheses, d.name(h))
	}
	if thm := f.get("theorem"); thm != nil {
		qual, name := splitQualified(d.name(thm))
		j.Theorem = &ast.VarExp{Token: d.tok(thm), Qualifier: qual, Name: name}
	}
	return &ast.JustifiedExp{Token: d.tok(key), Exp: d.exp(d.require(f, "exp")), Justification: j}
}

// hyp: {name: H1, exp: e}
func (d *decoder) hypDesigExp(key, value *yaml.Node) ast.Exp {
	f := d.fields(value, "name", "exp")
	return &ast.HypDesigExp{Token: d.tok(key), Name: d.name(d.require(f, "name")), Exp: d.exp(d.require(f, "exp"))}
}

func (d *decoder) proofDefinitionExp(key, value *yaml.Node) ast.Exp {
	return &ast.ProofDefinitionExp{Token: d.tok(key), Def: d.definition(key, value)}
}

// ty decodes a type: N, Q.N, {apply: [Set, N]}, {func: {from: [N], to: B}}
// or {tuple: [{x: N}, Z]}.
func (d *decoder) ty(n *yaml.Node) ast.Ty {
	if n.Kind == yaml.ScalarNode {
		return d.nameTy(n)
	}
	key, value := d.single(n)
	switch key.Value {
	case "apply":
		return d.nameTy(n)
	case "func":
		f := d.fields(value, "from", "to")
		t := &ast.FunctionTy{Token: d.tok(key), Range: d.ty(d.require(f, "to"))}
		for _, p := range d.list(d.require(f, "from")) {
			t.Params = append(t.Params, d.ty(p))
		}
		return t
	case "tuple":
		t := &ast.TupleTy{Token: d.tok(key)}
		for _, item := range d.list(value) {
			if item.Kind == yaml.MappingNode {
				name, fty := d.single(item)
				t.Fields = append(t.Fields, &ast.TyField{Token: d.tok(name), Name: d.name(name), Ty: d.ty(fty)})
				continue
			}
			t.Fields = append(t.Fields, &ast.TyField{Token: d.tok(item), Ty: d.ty(item)})
		}
		return t
	}
	d.failf(key, "unknown type form %q", key.Value)
	return nil
}

// nameTy decodes a named type, possibly applied to arguments.
func (d *decoder) nameTy(n *yaml.Node) *ast.NameTy {
	if n.Kind == yaml.ScalarNode {
		qual, name := splitQualified(d.name(n))
		return &ast.NameTy{Token: d.tok(n), Qualifier: qual, Name: name}
	}
	key, value := d.single(n)
	if key.Value != "apply" {
		d.failf(key, "expected a named type, found %q", key.Value)
	}
	items := d.list(value)
	if len(items) < 2 {
		d.failf(value, "apply needs a type name and at least one argument")
	}
	t := d.nameTy(items[0])
	t.Token = d.tok(key)
	for _, a := range items[1:] {
		t.Args = append(t.Args, d.ty(a))
	}
	return t
}

func (d *decoder) stmts(n *yaml.Node) []ast.Stmt {
	var out []ast.Stmt
	for _, item := range d.list(n) {
		out = append(out, d.stmt(item))
	}
	return out
}

func (d *decoder) stmt(n *yaml.Node) ast.Stmt {
	key, value := d.single(n)
	tok := d.tok(key)
	switch key.Value {
	case "assign":
		items := d.tuple(value, 2)
		return &ast.AssignStmt{Token: tok, Var: d.exp(items[0]), Exp: d.exp(items[1])}
	case "swap":
		items := d.tuple(value, 2)
		return &ast.SwapStmt{Token: tok, Left: d.exp(items[0]), Right: d.exp(items[1])}
	case "call":
		return &ast.CallStmt{Token: tok, Call: d.operationCall(key, value)}
	case "if":
		f := d.fields(value, "test", "then", "else")
		return &ast.IfStmt{Token: tok, Test: d.exp(d.require(f, "test")), Then: d.stmts(f.get("then")), Else: d.stmts(f.get("else"))}
	case "while":
		f := d.fields(value, "test", "changing", "maintaining", "decreasing", "do")
		return &ast.WhileStmt{
			Token:       tok,
			Test:        d.exp(d.require(f, "test")),
			Changing:    d.exps(f.get("changing")),
			Maintaining: d.optExp(f.get("maintaining")),
			Decreasing:  d.optExp(f.get("decreasing")),
			Body:        d.stmts(f.get("do")),
		}
	case "confirm":
		return &ast.ConfirmStmt{Token: tok, Assertion: d.exp(value)}
	case "assume":
		return &ast.AssumeStmt{Token: tok, Assertion: d.exp(value)}
	}
	d.failf(key, "unknown statement kind %q", key.Value)
	return nil
}
