package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/obligations"
	"github.com/funvibe/mathsema/internal/symbols"
)

func stackClient(args string) string {
	return `
facility: Stack_Client
uses: [Integer_Theory]
decs:
  - facility:
      name: Stack_Fac
      concept: Stack_Template
      args: ` + args + `
      realization: Array_Realiz
  - var: {Main_Stack: Stack_Fac.Stack}
  - procedure:
      name: Main
      vars: [{D: Integer}]
      body:
        - call: [Stack_Fac.Depth_of, Main_Stack]
        - assign: [D, {op: [Stack_Fac.Depth_of, Main_Stack]}]
`
}

const sortingTemplate = `
concept: Sorting_Template
params:
  - type: Entry
  - operation:
      name: Are_Ordered
      params: [{restores: {x: Entry}}, {restores: {y: Entry}}]
      returns: Boolean
uses: [Integer_Theory]
`

func sortClient(mode string) string {
	return `
facility: Sort_Client
uses: [Integer_Theory]
decs:
  - operation:
      name: Less
      params: [{` + mode + `: {x: Integer}}, {restores: {y: Integer}}]
      returns: Boolean
  - facility:
      name: Sorter
      concept: Sorting_Template
      args: [Integer, Less]
`
}

func TestStackFacilityAnalyzesCleanly(t *testing.T) {
	a, sink := expectNoAnalyzerErrors(t, stackTemplate, arrayRealiz, stackClient("[Integer, 10]"))

	var kinds []string
	for _, o := range sink.ByModule("Stack_Template") {
		kinds = append(kinds, string(o.Kind)+" "+o.Name)
	}
	want := []string{"constraint Stack_Template", "initialization Stack", "requires Push", "ensures Depth_of"}
	if strings.Join(kinds, ", ") != strings.Join(want, ", ") {
		t.Errorf("obligations: got %v, want %v", kinds, want)
	}
	for _, o := range sink.Items() {
		if o.Type != "B" {
			t.Errorf("%s %s typed %s", o.Kind, o.Name, o.Type)
		}
		if o.Line == 0 || o.Text == "" {
			t.Errorf("%s %s has no position or text: %+v", o.Kind, o.Name, o)
		}
	}

	stats := a.Stats()
	if stats.Begins == 0 || stats.Begins != stats.Ends {
		t.Errorf("unbalanced scopes: %+v", stats)
	}
}

func TestFacilityArgumentCount(t *testing.T) {
	expectAnalyzerErrorContains(t, diagnostics.ErrA004, "expects 2 arguments, found 1",
		stackTemplate, arrayRealiz, stackClient("[Integer]"))

	a, _ := analyzeUnits(t, stackTemplate, arrayRealiz, stackClient("[Integer]"))
	if a.Errors().HasCode(diagnostics.ErrA006) {
		t.Errorf("count mismatch should stop the per-argument checks:\n%s", errorList(a))
	}
}

func TestFacilityTypeArgument(t *testing.T) {
	expectAnalyzerErrorContains(t, diagnostics.ErrA006, "is not a type",
		stackTemplate, arrayRealiz, stackClient("[Main_Stack, 10]"))
}

func TestFacilityConstantArgument(t *testing.T) {
	expectAnalyzerErrorContains(t, diagnostics.ErrA006, "parameter Max_Depth requires Integer",
		stackTemplate, arrayRealiz, stackClient("[Integer, true]"))
}

func TestFacilityRealizationMustRealizeConcept(t *testing.T) {
	client := strings.Replace(stackClient("[Integer, 10]"), "realization: Array_Realiz", "realization: Table_Recognizer", 1)
	expectAnalyzerErrorContains(t, diagnostics.ErrA006, "realizes Recognizer, not Stack_Template",
		recognizer, tableRecognizer, stackTemplate, arrayRealiz, client)
}

func TestFacilityUnknownRealization(t *testing.T) {
	client := strings.Replace(stackClient("[Integer, 10]"), "realization: Array_Realiz", "realization: Linked_Realiz", 1)
	expectAnalyzerErrorContains(t, diagnostics.ErrA011, "unknown realization Linked_Realiz",
		stackTemplate, arrayRealiz, client)
}

func TestFacilityOperationArgumentModes(t *testing.T) {
	expectNoAnalyzerErrors(t, sortingTemplate, sortClient("restores"))
	expectNoAnalyzerErrors(t, sortingTemplate, sortClient("preserves"))
	expectAnalyzerErrorContains(t, diagnostics.ErrA005, "is updates, which does not fit restores parameter x",
		sortingTemplate, sortClient("updates"))
}

func TestModeCompatibility(t *testing.T) {
	tests := []struct {
		formal, actual ast.Mode
		want           bool
	}{
		{ast.ModeAlters, ast.ModeClears, true},
		{ast.ModeAlters, ast.ModePreserves, true},
		{ast.ModeUpdates, ast.ModeUpdates, true},
		{ast.ModeUpdates, ast.ModeAlters, false},
		{ast.ModeRestores, ast.ModePreserves, true},
		{ast.ModeRestores, ast.ModeUpdates, false},
		{ast.ModePreserves, ast.ModeRestores, false},
		{ast.ModeEvaluates, ast.ModeRestores, true},
		{ast.ModeEvaluates, ast.ModeReplaces, false},
		{ast.ModeClears, ast.ModeReplaces, false},
	}
	for _, tt := range tests {
		if got := modeCompatible(tt.formal, tt.actual); got != tt.want {
			t.Errorf("modeCompatible(%s, %s) = %v, want %v", tt.formal, tt.actual, got, tt.want)
		}
	}
}

const badRecognizer = `
realization: Bad_Recognizer
for: Recognizer
decs:
  - procedure:
      name: Step
      params: [{alters: {I: Integer}}]
  - procedure:
      name: Reset
      params: []
`

func TestProcedureConformance(t *testing.T) {
	a, _ := analyzeUnits(t, recognizer, badRecognizer)
	var mode, missing bool
	for _, e := range a.Errors().Errors() {
		if e.Code != diagnostics.ErrA009 {
			continue
		}
		switch {
		case strings.Contains(e.Message, "Step"):
			mode = true
		case strings.Contains(e.Message, "does not correspond to any operation of"):
			missing = true
		}
	}
	if !mode || !missing {
		t.Fatalf("expected A009 for the mode of Step and for Reset, got:\n%s", errorList(a))
	}
}

func TestProcedureReturnConformance(t *testing.T) {
	realiz := strings.Replace(arrayRealiz, "      returns: Integer\n      body:", "      body:", 1)
	expectAnalyzerErrorContains(t, diagnostics.ErrA009, "nothing", stackTemplate, realiz)
}

const definitions = `
theory: Defs
uses: [Integer_Theory]
decs:
  - definition: {name: Double, params: [{x: Z}], body: {eq: [{call: [Double, x]}, {infix: [x, "+", x]}]}}
  - definition: {name: Two, body: {eq: [Two, {infix: [1, "+", 1]}]}}
  - definition:
      name: Fact
      params: [{n: N}]
      returns: N
      base: {eq: [{call: [Fact, 0]}, 1]}
      hypothesis: {eq: [{call: [Fact, {infix: [n, "+", 1]}]}, {infix: [{call: [Fact, n]}, "+", n]}]}
`

func TestDefinitionRangeInference(t *testing.T) {
	a, _ := expectNoAnalyzerErrors(t, definitions)
	expectType(t, a, "Defs", `{call: [Double, 3]}`, "Z")
	expectType(t, a, "Defs", `Two`, "N")
	expectType(t, a, "Defs", `{call: [Fact, 3]}`, "N")
}

func TestDefiningEquationMustNameDefinition(t *testing.T) {
	bad := `
theory: Bad_Defs
uses: [Integer_Theory]
decs:
  - definition: {name: Bad, params: [{x: Z}], body: {eq: [x, x]}}
`
	expectAnalyzerError(t, diagnostics.ErrA007, bad)
}

func TestInductiveDefinitionMustRecurse(t *testing.T) {
	bad := `
theory: Bad_Fact
uses: [Integer_Theory]
decs:
  - definition:
      name: Fact
      params: [{n: N}]
      returns: N
      base: {eq: [{call: [Fact, 0]}, 1]}
      hypothesis: {eq: [n, n]}
`
	expectAnalyzerError(t, diagnostics.ErrA007, bad)
}

func proofTheory(hyp string) string {
	return `
theory: Proofs
uses: [Integer_Theory]
decs:
  - theorem:
      name: Plus_Comm
      assert: {forall: {vars: [{a: N}, {b: N}], body: {eq: [{infix: [a, "+", b]}, {infix: [b, "+", a]}]}}}
  - proof:
      of: Plus_Comm
      steps:
        - {goal: {eq: [{infix: [1, "+", 2]}, {infix: [2, "+", 1]}]}}
        - {hyp: {name: H1, exp: {eq: [1, 1]}}}
        - {justify: {exp: {eq: [2, 2]}, hyps: [` + hyp + `], rule: reflexivity}}
        - {justify: {exp: {eq: [3, 3]}, theorem: Plus_Comm}}
`
}

func TestProofStoresValues(t *testing.T) {
	settings := *config.DefaultSettings()
	settings.Prove = true
	a, units := newTestAnalyzer(t, settings, proofTheory("H1"))
	sink := obligations.NewCollector()
	a.SetHandoff(sink)
	if err := a.Analyze(units[0]); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.Errors().Count() > 0 {
		t.Fatalf("unexpected errors:\n%s", errorList(a))
	}

	table, err := a.env.Module("Proofs")
	if err != nil {
		t.Fatal(err)
	}
	thm, ok := table.Theorem("Plus_Comm")
	if !ok {
		t.Fatal("theorem Plus_Comm not declared")
	}
	if _, ok := a.env.Arena().Get(thm.Value); !ok {
		t.Error("theorem value not stored")
	}
	proof, ok := a.env.Arena().Get(thm.Proof)
	if !ok {
		t.Fatal("proof not stored")
	}
	if _, isJustified := proof.(*ast.JustifiedExp); !isJustified {
		t.Errorf("proof stored %T, want the last step", proof)
	}
	if n := len(sink.ByModule("Proofs")); n != 5 {
		t.Errorf("got %d obligations, want 5", n)
	}
}

func TestProofUnknownHypothesis(t *testing.T) {
	expectAnalyzerErrorContains(t, diagnostics.ErrA001, "unknown hypothesis H9", proofTheory("H9"))
}

func TestProofOfUnknownTheorem(t *testing.T) {
	src := `
theory: Orphan_Proof
uses: [Integer_Theory]
decs:
  - proof: {of: Missing, steps: [true]}
`
	expectAnalyzerErrorContains(t, diagnostics.ErrA001, "proof of unknown theorem Missing", src)
}

func TestAssertionMustBeBoolean(t *testing.T) {
	src := `
theory: Not_Boolean
uses: [Integer_Theory]
decs:
  - axiom: {name: Three, assert: {infix: [1, "+", 2]}}
`
	expectAnalyzerErrorContains(t, diagnostics.ErrA002, "expected B, found N", src)
}

func TestBadSiteDoesNotHideLaterSites(t *testing.T) {
	src := `
theory: Mixed
uses: [Integer_Theory]
decs:
  - axiom: {name: Broken, assert: {infix: [1, and, true]}}
  - axiom: {name: Fine, assert: {infix: [1, "<=", 2]}}
`
	a, sink := analyzeUnits(t, src)
	if !a.Errors().HasCode(diagnostics.ErrA002) {
		t.Fatalf("expected A002, got:\n%s", errorList(a))
	}
	items := sink.ByModule("Mixed")
	if len(items) != 1 || items[0].Name != "Fine" {
		t.Errorf("only the clean axiom should be handed off, got %+v", items)
	}
}

func TestDuplicateLocalVariable(t *testing.T) {
	realiz := strings.Replace(arrayRealiz, "      returns: Integer\n      body:", "      returns: Integer\n      vars: [{S: Integer}]\n      body:", 1)
	expectAnalyzerError(t, diagnostics.ErrA012, stackTemplate, realiz)
}

func TestProgramStatementsTypeCheck(t *testing.T) {
	realiz := strings.Replace(arrayRealiz, "- assign: [Depth_of, {field: [S, Top]}]", "- assign: [Depth_of, true]", 1)
	expectAnalyzerErrorContains(t, diagnostics.ErrA002, "expected Integer, found B", stackTemplate, realiz)
}

func TestWhileLoop(t *testing.T) {
	loop := `
realization: Counting_Recognizer
for: Recognizer
decs:
  - procedure:
      name: Step
      params: [{updates: {I: Integer}}]
      vars: [{K: Integer}]
      body:
        - assign: [K, 0]
        - while:
            test: {infix: [K, "<", I]}
            changing: [K]
            maintaining: {infix: [K, "<=", I]}
            decreasing: {infix: [I, "-", K]}
            do:
              - assign: [K, {infix: [K, "+", 1]}]
        - confirm: {infix: [K, "<=", I]}
`
	_, sink := expectNoAnalyzerErrors(t, recognizer, loop)
	var kinds []string
	for _, o := range sink.ByModule("Counting_Recognizer") {
		kinds = append(kinds, string(o.Kind))
	}
	want := "maintaining decreasing confirm"
	if strings.Join(kinds, " ") != want {
		t.Errorf("obligations %v, want %s", kinds, want)
	}
}

// strangeExp is an expression no typing rule knows about.
type strangeExp struct {
	*ast.VarExp
}

func TestInternalFaultIsRecovered(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	unit := &ast.MathModuleDec{
		Name: "Broken",
		Decs: []ast.Dec{
			&ast.MathAssertionDec{Name: "Odd", Kind: ast.Axiom, Assertion: strangeExp{&ast.VarExp{Name: "x"}}},
		},
	}
	err := a.Analyze(unit)
	var f *InternalFault
	if !errors.As(err, &f) {
		t.Fatalf("expected an internal fault, got %v", err)
	}
	if !a.Errors().HasCode(diagnostics.ErrI001) {
		t.Errorf("fault not reported:\n%s", errorList(a))
	}
	if stats := a.Stats(); stats.Begins != stats.Ends {
		t.Errorf("scopes left open after a fault: %+v", stats)
	}
}

func TestAnalyzeReportsUnknownUses(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	unit := &ast.MathModuleDec{Name: "Lonely", Uses: []*ast.UsesItem{{Name: "Nowhere_Theory"}}}
	if err := a.Analyze(unit); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !a.Errors().HasCode(diagnostics.ErrA011) {
		t.Errorf("expected A011, got:\n%s", errorList(a))
	}
}

func TestScopeKindsBalancePerUnit(t *testing.T) {
	a, _ := expectNoAnalyzerErrors(t, recognizer, tableRecognizer, definitions)
	stats := a.Stats()
	if stats.Begins != stats.Ends {
		t.Errorf("unbalanced scopes: %+v", stats)
	}
}

func testDriver(t *testing.T, a *Analyzer, module string) *driver {
	t.Helper()
	table, err := a.env.Module(module)
	if err != nil {
		t.Fatalf("module %s: %v", module, err)
	}
	scope := symbols.NewScope(a.env, table)
	return &driver{a: a, scope: scope, r: newResolver(a, scope), module: table}
}

func TestSiteFailureMustBeReported(t *testing.T) {
	a, _ := newTestAnalyzer(t, *config.DefaultSettings())
	a.SetHandoff(obligations.Discard{})
	d := testDriver(t, a, "Test")
	d.scope.BeginScope(symbols.ScopeModule, "Test")
	defer d.scope.EndScope(symbols.ScopeModule)

	if _, ok := d.site(obligations.KindAxiom, "Lost", decodeExp(t, "nowhere"), resolveOpts{}, true); ok {
		t.Error("a site with an unresolved name should not be clean")
	}
	if !a.Errors().HasCode(diagnostics.ErrA001) {
		t.Fatalf("expected A001, got:\n%s", errorList(a))
	}

	if typ, ok := d.site(obligations.KindAxiom, "Fine", decodeExp(t, `{infix: [1, "<=", 2]}`), resolveOpts{}, true); !ok || typ == nil {
		t.Errorf("clean site rejected: %v", typ)
	}

	var f *InternalFault
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				f, _ = rec.(*InternalFault)
			}
		}()
		d.site(obligations.KindAxiom, "Hidden", decodeExp(t, "elsewhere"), resolveOpts{quiet: true}, true)
	}()
	if f == nil {
		t.Fatal("a failure without a diagnostic should escalate to an internal fault")
	}
	if !strings.Contains(f.Error(), "failed without a diagnostic") {
		t.Errorf("unexpected fault %q", f.Error())
	}
	var rerr *ResolutionError
	if !errors.As(f, &rerr) || rerr.Reported {
		t.Errorf("fault should wrap the unreported resolution error, got %v", f.Cause)
	}
}
