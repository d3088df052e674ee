package analyzer

import (
	"testing"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

func testResolver(t *testing.T, a *Analyzer, module string) *resolver {
	t.Helper()
	table, err := a.env.Module(module)
	if err != nil {
		t.Fatalf("module %s: %v", module, err)
	}
	return newResolver(a, symbols.NewScope(a.env, table))
}

func lookupType(t *testing.T, r *resolver, name string) typesystem.Type {
	t.Helper()
	entry, ok := r.scope.LookupType("", name)
	if !ok {
		t.Fatalf("type %s not visible", name)
	}
	return entry.Type
}

func TestMatcher(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	r := testResolver(t, a, "Real_Test")
	n, z, realT := lookupType(t, r, "N"), lookupType(t, r, "Z"), lookupType(t, r, "R")
	integer := lookupType(t, r, "Integer")

	tests := []struct {
		name   string
		t1, t2 typesystem.Type
		strict bool
		want   bool
	}{
		{"identical", z, z, true, true},
		{"subtype expands strictly", n, z, true, true},
		{"supertype does not narrow", z, n, true, false},
		{"non-strict either way", z, n, false, true},
		{"transitive", n, realT, true, true},
		{"program type to model", integer, z, false, true},
		{"program type meets natural", integer, n, false, true},
		{"unknown left", nil, z, true, true},
		{"unknown right", z, nil, true, true},
		{"boolean vs number", typesystem.Boolean, n, false, false},
		{"set elements", typesystem.SetOf(n), typesystem.SetOf(z), false, true},
		{"empty set", typesystem.SetOf(z), typesystem.SetOf(nil), true, true},
		{"functions", typesystem.FuncOf([]typesystem.Type{z}, n), typesystem.FuncOf([]typesystem.Type{n}, z), false, true},
		{"tuple arity", typesystem.TTuple{Fields: []typesystem.Field{{Type: z}}}, typesystem.TTuple{Fields: []typesystem.Field{{Type: z}, {Type: z}}}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.matches(tt.t1, tt.t2, tt.strict); got != tt.want {
				t.Errorf("matches(%s, %s, %v) = %v, want %v",
					typesystem.Show(tt.t1), typesystem.Show(tt.t2), tt.strict, got, tt.want)
			}
		})
	}
}

func TestNonStrictMatchingIsSymmetric(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	r := testResolver(t, a, "Real_Test")
	types := []typesystem.Type{
		lookupType(t, r, "N"),
		lookupType(t, r, "Z"),
		lookupType(t, r, "R"),
		lookupType(t, r, "Integer"),
		typesystem.Boolean,
		typesystem.SetOf(lookupType(t, r, "N")),
	}
	for _, x := range types {
		for _, y := range types {
			if r.matches(x, y, false) != r.matches(y, x, false) {
				t.Errorf("matches(%s, %s) is not symmetric", typesystem.Show(x), typesystem.Show(y))
			}
		}
	}
}

func TestOverloadResolution(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	r := testResolver(t, a, "Test")
	n, z := lookupType(t, r, "N"), lookupType(t, r, "Z")

	rng, c, ok := r.resolveOverload("", "+", []typesystem.Type{n, n})
	if !ok || typesystem.Show(rng) != "N" || c.Definition.Module != config.NaturalTheory {
		t.Fatalf("N + N should use the natural number definition, got %s from %+v", typesystem.Show(rng), c)
	}

	rng, c, ok = r.resolveOverload("", "+", []typesystem.Type{n, z})
	if !ok || typesystem.Show(rng) != "Z" {
		t.Fatalf("N + Z should resolve to Z, got %s", typesystem.Show(rng))
	}
	if c.Kind != CandidateDefinition || c.Definition.Module != config.IntegerTheory {
		t.Errorf("unexpected candidate %+v", c)
	}
	if typesystem.Show(c.Args[0]) != "Z" {
		t.Errorf("N should have been substituted by Z, got %s", showArgs(c.Args))
	}

	if _, _, ok := r.resolveOverload("", "+", []typesystem.Type{n, typesystem.Boolean}); ok {
		t.Error("N + B should not resolve")
	}
	if _, _, ok := r.resolveOverload("", "Nope", []typesystem.Type{n}); ok {
		t.Error("unknown name should not resolve")
	}
}

func TestOverloadResolutionIsDeterministic(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	r := testResolver(t, a, "Test")
	n := lookupType(t, r, "N")

	_, first, ok := r.resolveOverload("", "Max", []typesystem.Type{n, n})
	if !ok {
		t.Fatal("Max(N, N) should resolve")
	}
	for i := 0; i < 5; i++ {
		_, again, _ := r.resolveOverload("", "Max", []typesystem.Type{n, n})
		if again.Definition != first.Definition {
			t.Fatalf("resolution %d picked a different definition", i)
		}
	}
}

func TestCorrespondenceOrder(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	r := testResolver(t, a, "Real_Test")
	var shown []string
	for _, c := range r.scope.Correspondences(lookupType(t, r, "N")) {
		shown = append(shown, typesystem.Show(c))
	}
	want := []string{"N", "Z", "R"}
	if len(shown) != len(want) {
		t.Fatalf("Corr(N) = %v, want %v", shown, want)
	}
	for i := range want {
		if shown[i] != want[i] {
			t.Fatalf("Corr(N) = %v, want %v", shown, want)
		}
	}
}

func TestResolutionIsMemoized(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	r := testResolver(t, a, "Test")
	e := decodeExp(t, `{call: [Max, {infix: [1, "+", 2]}, 5]}`)

	first, err := r.resolve(e, resolveOpts{})
	if err != nil {
		t.Fatal(err)
	}
	before := r.scope.Stats()
	second, err := r.resolve(e, resolveOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if after := r.scope.Stats(); after != before {
		t.Errorf("second resolution queried the scope: %+v -> %+v", before, after)
	}
	if !typesystem.Equal(first, second) {
		t.Errorf("types differ: %s vs %s", typesystem.Show(first), typesystem.Show(second))
	}
}

func TestQuietResolutionReportsNothing(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	r := testResolver(t, a, "Test")
	e := decodeExp(t, `{infix: [1, and, true]}`)
	if _, err := r.resolve(e, resolveOpts{quiet: true}); err == nil {
		t.Fatal("expected a failure")
	}
	if a.Errors().Count() != 0 {
		t.Errorf("quiet resolution reported:\n%s", errorList(a))
	}
	if e.ResolvedType() != nil {
		t.Error("failed node should stay unresolved")
	}
}

const callableTheory = `
theory: Callables
uses: [Integer_Theory]
decs:
  - type: {name: Is_Initial, is: {func: {from: [N], to: B}}}
  - definition:
      name: Apply
      params: [{g: {func: {from: [B, B], to: B}}}, {x: B}, {y: B}]
      returns: B
      body: {call: [g, x, y]}
`

func TestCallableLookupRules(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings(), callableTheory)
	r := testResolver(t, a, "Callables")
	n, z := lookupType(t, r, "N"), lookupType(t, r, "Z")
	b := typesystem.Boolean

	r.scope.BeginScope(symbols.ScopeDefinition, "Apply")
	defer r.scope.EndScope(symbols.ScopeDefinition)
	r.scope.BindVariable(&symbols.Variable{Name: "g", Type: typesystem.FuncOf([]typesystem.Type{b, b}, b), Mode: ast.ModeDefinition})
	step := typesystem.TIndirect{Qualifier: "Callables", Name: "Step", Underlying: typesystem.FuncOf([]typesystem.Type{z}, z)}
	r.scope.BindVariable(&symbols.Variable{Name: "h", Type: step, Mode: ast.ModeLocal})

	tests := []struct {
		name string
		args []typesystem.Type
		kind CandidateKind
		rng  string
	}{
		{"g", []typesystem.Type{b, b}, CandidateDefinitionParam, "B"},
		{"Max", []typesystem.Type{z, z}, CandidateDefinition, "Z"},
		{"h", []typesystem.Type{z}, CandidateFunctionVariable, "Z"},
		{"h", []typesystem.Type{n}, CandidateFunctionVariable, "Z"},
		{"Is_Initial", []typesystem.Type{n}, CandidateCallableType, "B"},
	}
	for _, tt := range tests {
		rng, c, ok := r.resolveOverload("", tt.name, tt.args)
		if !ok {
			t.Errorf("%s%s did not resolve", tt.name, showArgs(tt.args))
			continue
		}
		if c.Kind != tt.kind {
			t.Errorf("%s%s: candidate kind %d, want %d", tt.name, showArgs(tt.args), c.Kind, tt.kind)
		}
		if typesystem.Show(rng) != tt.rng {
			t.Errorf("%s%s: range %s, want %s", tt.name, showArgs(tt.args), typesystem.Show(rng), tt.rng)
		}
	}

	if _, _, ok := r.resolveOverload("", "g", []typesystem.Type{b}); ok {
		t.Error("g(B) should not fit a two-argument parameter")
	}
	if _, _, ok := r.resolveOverload("", "Is_Initial", []typesystem.Type{b}); ok {
		t.Error("Is_Initial(B) should not resolve")
	}
}

func TestCallableLookupPrecedence(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings(), callableTheory)
	r := testResolver(t, a, "Callables")
	z := lookupType(t, r, "Z")
	zz := []typesystem.Type{z, z}

	r.scope.BeginScope(symbols.ScopeDefinition, "Outer")
	r.scope.BindVariable(&symbols.Variable{Name: "Max", Type: typesystem.FuncOf(zz, z), Mode: ast.ModeLocal})
	_, c, ok := r.resolveOverload("", "Max", zz)
	if !ok || c.Kind != CandidateDefinition {
		t.Fatalf("a named definition should win over a function variable, got %+v", c)
	}

	r.scope.BeginScope(symbols.ScopeDefinition, "Inner")
	r.scope.BindVariable(&symbols.Variable{Name: "Max", Type: typesystem.FuncOf(zz, typesystem.Boolean), Mode: ast.ModeDefinition})
	rng, c, ok := r.resolveOverload("", "Max", zz)
	if !ok || c.Kind != CandidateDefinitionParam || typesystem.Show(rng) != "B" {
		t.Errorf("a definition parameter should shadow the definition, got %s from %+v", typesystem.Show(rng), c)
	}
	r.scope.EndScope(symbols.ScopeDefinition)
	r.scope.EndScope(symbols.ScopeDefinition)

	if stats := r.scope.Stats(); stats.Begins != stats.Ends {
		t.Errorf("unbalanced scopes: %+v", stats)
	}
}
