package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/astio"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/obligations"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

const naturalTheory = `
theory: Natural_Number_Theory
decs:
  - type: N
  - definition: {name: "+", params: [{i: N}, {j: N}], returns: N}
  - definition: {name: "<=", params: [{i: N}, {j: N}], returns: B}
`

const integerTheory = `
theory: Integer_Theory
uses: [Natural_Number_Theory]
decs:
  - type: Z
  - subtype: {name: N_Within_Z, sub: N, super: Z}
  - definition: {name: "+", params: [{i: Z}, {j: Z}], returns: Z}
  - definition: {name: "-", params: [{i: Z}, {j: Z}], returns: Z}
  - definition: {name: "<", params: [{i: Z}, {j: Z}], returns: B}
  - definition: {name: "<=", params: [{i: Z}, {j: Z}], returns: B}
  - definition: {name: ">", params: [{i: Z}, {j: Z}], returns: B}
  - definition: {name: Max, params: [{x: Z}, {y: Z}], returns: Z}
`

const realTheory = `
theory: Real_Number_Theory
uses: [Integer_Theory]
decs:
  - type: R
  - subtype: {name: Z_Within_R, sub: Z, super: R}
`

const testTheory = `
theory: Test
uses: [Integer_Theory]
decs:
  - definition: {name: Origin, returns: {tuple: [{X: Z}, {Y: Z}]}}
`

const realTestTheory = `
theory: Real_Test
uses: [Real_Number_Theory]
`

const bareTheory = `
theory: Bare
`

const stackTemplate = `
concept: Stack_Template
params:
  - type: Entry
  - constant: {Max_Depth: Integer}
uses: [Integer_Theory]
constraint: {infix: [Max_Depth, ">", 0]}
decs:
  - family:
      name: Stack
      model: {apply: [Set, Entry]}
      exemplar: S
      init: {eq: [S, {setof: []}]}
  - operation:
      name: Push
      params:
        - alters: {E: Entry}
        - updates: {S: Stack}
      requires: {infix: [Max_Depth, ">", 0]}
  - operation:
      name: Depth_of
      params:
        - restores: {S: Stack}
      returns: Integer
      ensures: {eq: [Depth_of, 0]}
`

const arrayRealiz = `
realization: Array_Realiz
for: Stack_Template
uses: [Integer_Theory]
decs:
  - representation:
      name: Stack
      as: {tuple: [{Top: Integer}]}
      convention: {infix: [0, "<=", {field: [S, Top]}]}
  - procedure:
      name: Push
      params:
        - alters: {E: Entry}
        - updates: {S: Stack}
      body:
        - assign: [{field: [S, Top]}, {infix: [{field: [S, Top]}, "+", 1]}]
  - procedure:
      name: Depth_of
      params:
        - restores: {S: Stack}
      returns: Integer
      body:
        - assign: [Depth_of, {field: [S, Top]}]
`

const recognizer = `
concept: Recognizer
uses: [Integer_Theory]
decs:
  - conceptual: {Accepting: B}
  - operation:
      name: Step
      params: [{updates: {I: Integer}}]
      ensures: {eq: [Conc.Accepting, true]}
`

const tableRecognizer = `
realization: Table_Recognizer
for: Recognizer
decs:
  - procedure:
      name: Step
      params: [{updates: {I: Integer}}]
      ensures: {eq: [Conc.Accepting, true]}
      body:
        - assign: [I, {infix: [I, "+", 1]}]
`

// library returns the theories every test environment starts from.
func library() []string {
	return []string{naturalTheory, integerTheory, realTheory, testTheory, realTestTheory, bareTheory}
}

func decodeUnit(t *testing.T, src, file string) ast.ModuleDec {
	t.Helper()
	unit, err := astio.Decode([]byte(src), file)
	if err != nil {
		t.Fatalf("decoding %s: %v\n%s", file, err, src)
	}
	return unit
}

// newTestAnalyzer registers the library and units in a fresh environment.
func newTestAnalyzer(t *testing.T, settings config.Settings, units ...string) (*Analyzer, []ast.ModuleDec) {
	t.Helper()
	env := symbols.NewEnvironment()
	a := New(env, settings, nil)
	var decoded []ast.ModuleDec
	for i, src := range append(library(), units...) {
		unit := decodeUnit(t, src, fmt.Sprintf("unit%d.yaml", i))
		if err := env.Register(unit); err != nil {
			t.Fatalf("register: %v", err)
		}
		if i >= len(library()) {
			decoded = append(decoded, unit)
		}
	}
	return a, decoded
}

// analyzeUnits analyzes every given unit and returns the analyzer and the
// obligations it produced.
func analyzeUnits(t *testing.T, units ...string) (*Analyzer, *obligations.Collector) {
	t.Helper()
	a, decoded := newTestAnalyzer(t, *config.DefaultSettings(), units...)
	sink := obligations.NewCollector()
	a.SetHandoff(sink)
	for _, unit := range decoded {
		if err := a.Analyze(unit); err != nil {
			t.Fatalf("internal fault analyzing %s: %v", unit.ModuleName(), err)
		}
	}
	return a, sink
}

func errorList(a *Analyzer) string {
	var msgs []string
	for _, e := range a.Errors().Errors() {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// expectAnalyzerError asserts that analysis reports code and returns the
// first such diagnostic.
func expectAnalyzerError(t *testing.T, code diagnostics.ErrorCode, units ...string) *diagnostics.DiagnosticError {
	t.Helper()
	a, _ := analyzeUnits(t, units...)
	for _, e := range a.Errors().Errors() {
		if e.Code == code {
			return e
		}
	}
	t.Fatalf("expected error %s, got:\n%s", code, errorList(a))
	return nil
}

func expectAnalyzerErrorContains(t *testing.T, code diagnostics.ErrorCode, substr string, units ...string) {
	t.Helper()
	e := expectAnalyzerError(t, code, units...)
	if !strings.Contains(e.Error(), substr) {
		t.Errorf("expected error message to contain %q, got: %s", substr, e.Error())
	}
}

func expectNoAnalyzerErrors(t *testing.T, units ...string) (*Analyzer, *obligations.Collector) {
	t.Helper()
	a, sink := analyzeUnits(t, units...)
	if a.Errors().Count() > 0 {
		t.Fatalf("expected no errors, got:\n%s", errorList(a))
	}
	return a, sink
}

// resolveIn types a standalone expression at the top of module.
func resolveIn(t *testing.T, a *Analyzer, module, src string) (typesystem.Type, error) {
	t.Helper()
	return a.Resolve(module, decodeExp(t, src))
}

func decodeExp(t *testing.T, src string) ast.Exp {
	t.Helper()
	e, err := astio.DecodeExp([]byte(src), "exp.yaml")
	if err != nil {
		t.Fatalf("decoding %s: %v", src, err)
	}
	return e
}

func expectType(t *testing.T, a *Analyzer, module, src, want string) {
	t.Helper()
	got, err := resolveIn(t, a, module, src)
	if err != nil {
		t.Fatalf("%s: %v", src, err)
	}
	if typesystem.Show(got) != want {
		t.Errorf("%s: type %s, want %s", src, typesystem.Show(got), want)
	}
}

func expectResolveError(t *testing.T, a *Analyzer, module, src string, code diagnostics.ErrorCode) {
	t.Helper()
	if _, err := resolveIn(t, a, module, src); err == nil {
		t.Fatalf("%s: expected error %s", src, code)
	}
	if !a.Errors().HasCode(code) {
		t.Fatalf("%s: expected error %s, got:\n%s", src, code, errorList(a))
	}
}

func TestMaxOfNaturalsIsInteger(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectType(t, a, "Test", `{call: [Max, 3, 5]}`, "Z")
}

func TestLiterals(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectType(t, a, "Test", `3`, "N")
	expectType(t, a, "Test", `true`, "B")
	expectType(t, a, "Real_Test", `2.5`, "R")
	expectType(t, a, "Test", `{char: a}`, "Character")
	expectType(t, a, "Test", `{string: ab}`, "Str(Character)")
}

func TestIntegerLiteralNeedsNumberTheory(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectResolveError(t, a, "Bare", `3`, diagnostics.ErrA010)
}

func TestUnaryMinus(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectType(t, a, "Test", `{prefix: ["-", 3]}`, "Z")
	expectType(t, a, "Real_Test", `{prefix: ["-", 3]}`, "Z")
	expectType(t, a, "Real_Test", `{prefix: ["-", 2.5]}`, "R")
	expectResolveError(t, a, "Bare", `{prefix: ["-", true]}`, diagnostics.ErrA010)
}

func TestUnaryMinusRejectsBoolean(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectResolveError(t, a, "Test", `{prefix: ["-", true]}`, diagnostics.ErrA002)
}

func TestConnectivesAndComparisons(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectType(t, a, "Test", `{infix: [{infix: [1, "<=", 2]}, and, {infix: [2, "<", 3]}]}`, "B")
	expectType(t, a, "Test", `{prefix: [not, true]}`, "B")
	expectType(t, a, "Test", `{between: [{infix: [1, "<=", 2]}, {infix: [2, "<=", 3]}]}`, "B")
	expectResolveError(t, a, "Test", `{infix: [1, and, true]}`, diagnostics.ErrA002)
}

func TestFieldAccess(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectType(t, a, "Test", `{field: [Origin, X]}`, "Z")
	expectType(t, a, "Test", `Origin.Y`, "Z")
	expectResolveError(t, a, "Test", `{field: [Origin, W]}`, diagnostics.ErrA003)
}

func TestNameResolution(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectType(t, a, "Test", `Z`, "Set(Z)")
	expectType(t, a, "Test", `Integer_Theory.Z`, "Set(Z)")
	expectResolveError(t, a, "Test", `nowhere`, diagnostics.ErrA001)
}

func TestOverloadFailures(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectResolveError(t, a, "Test", `{call: [Nope, 1]}`, diagnostics.ErrA001)
	expectResolveError(t, a, "Test", `{call: [Max, true, 1]}`, diagnostics.ErrA008)
	for _, e := range a.Errors().Errors() {
		if e.Code == diagnostics.ErrA008 && !strings.Contains(e.Message, "available: (Z * Z) -> Z") {
			t.Errorf("A008 should list the candidates, got %q", e.Message)
		}
	}
}

func TestCompoundExpressions(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	expectType(t, a, "Test", `{forall: {vars: [{x: N}], where: {infix: [x, "<=", 3]}, body: {eq: [x, x]}}}`, "B")
	expectType(t, a, "Test", `{set: {var: {x: Z}, where: {infix: [x, "<", 3]}, body: x}}`, "Set(Z)")
	expectType(t, a, "Test", `{setof: [1, 2]}`, "Set(N)")
	expectType(t, a, "Test", `{setof: []}`, "Set(?)")
	expectType(t, a, "Test", `{tuple: [1, true]}`, "(N * B)")
	expectType(t, a, "Test", `{lambda: {params: [{x: Z}], body: {infix: [x, "+", 1]}}}`, "Z -> Z")
	expectType(t, a, "Test", `{if: {test: true, then: 1, else: 2}}`, "N")
	expectType(t, a, "Test", `{alt: [{when: true, then: 1}, {otherwise: 2}]}`, "N")
	expectType(t, a, "Test", `{is: [3, Z]}`, "Z")
	expectType(t, a, "Test", `{iterate: {op: Sum, var: {i: N}, where: {infix: [i, "<=", 3]}, body: i}}`, "N")
}

func TestConcRedirectInRealization(t *testing.T) {
	_, sink := expectNoAnalyzerErrors(t, recognizer, tableRecognizer)
	var found bool
	for _, o := range sink.ByModule("Table_Recognizer") {
		if o.Kind == obligations.KindEnsures && o.Name == "Step" {
			found = true
			if o.Type != "B" {
				t.Errorf("ensures typed %s, want B", o.Type)
			}
		}
	}
	if !found {
		t.Fatalf("no ensures obligation for Step: %v", sink.Items())
	}
}

func TestConcRedirectResolvesConceptualVariable(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings(), recognizer, tableRecognizer)
	expectType(t, a, "Table_Recognizer", `Conc.Accepting`, "B")
	expectResolveError(t, a, "Table_Recognizer", `Conc.Rejecting`, diagnostics.ErrA001)
}

func TestCallableExpressions(t *testing.T) {
	a, _ := expectNoAnalyzerErrors(t, callableTheory)
	expectType(t, a, "Callables", "{call: [Is_Initial, 3]}", "B")
	expectType(t, a, "Callables", "{forall: {vars: [{f: {func: {from: [Z], to: Z}}}], body: {call: [f, 1]}}}", "Z")
	expectResolveError(t, a, "Callables", "{call: [Is_Initial, true]}", diagnostics.ErrA008)
}
