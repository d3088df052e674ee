package ast

import (
	"testing"

	"github.com/funvibe/mathsema/internal/typesystem"
)

func num(v int64) *IntegerExp { return &IntegerExp{Value: v} }
func ref(name string) *VarExp  { return &VarExp{Name: name} }

func TestTypeSlotWriteOnce(t *testing.T) {
	e := ref("x")
	if e.ResolvedType() != nil {
		t.Fatalf("new slot should be empty")
	}
	if e.SetResolvedType(nil) {
		t.Errorf("nil must not fill the slot")
	}
	if !e.SetResolvedType(typesystem.Boolean) {
		t.Fatalf("first set should succeed")
	}
	if e.SetResolvedType(typesystem.TCon{Name: "Z"}) {
		t.Errorf("second set should be ignored")
	}
	if !typesystem.Equal(e.ResolvedType(), typesystem.Boolean) {
		t.Errorf("slot changed to %s", typesystem.Show(e.ResolvedType()))
	}
}

func TestPrint(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"call", &FunctionExp{Name: "Max", Args: []Exp{num(3), num(5)}}, "Max(3, 5)"},
		{"infix", &InfixExp{Op: "+", Left: ref("i"), Right: num(1)}, "(i + 1)"},
		{"minus", &PrefixExp{Op: "-", Arg: num(1)}, "-1"},
		{"not", &PrefixExp{Op: "not", Arg: ref("p")}, "not p"},
		{"outfix", &OutfixExp{LeftOp: "|", RightOp: "|", Arg: ref("S")}, "|S|"},
		{"neq", &EqualsExp{Op: NotEqual, Left: ref("a"), Right: ref("b")}, "a /= b"},
		{"dot", &DotExp{Segments: []Exp{ref("Conc"), ref("Accepting")}}, "Conc.Accepting"},
		{"old", &OldExp{Exp: ref("S")}, "#S"},
		{"set type", &NameTy{Name: "Set", Args: []Ty{&NameTy{Name: "N"}}}, "Set(N)"},
		{"func type", &FunctionTy{Params: []Ty{&NameTy{Name: "N"}, &NameTy{Name: "N"}}, Range: &NameTy{Name: "B"}}, "(N * N) -> B"},
		{
			"forall",
			&QuantExp{
				Vars: []*MathVarDec{{Name: "x", Ty: &NameTy{Name: "N"}}},
				Body: &EqualsExp{Left: ref("x"), Right: ref("x")},
			},
			"For all x: N, x = x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(tt.node); got != tt.want {
				t.Errorf("Print() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnresolved(t *testing.T) {
	left := num(1)
	right := ref("x")
	e := &InfixExp{Op: "+", Left: left, Right: right}
	left.SetResolvedType(typesystem.TCon{Name: "N"})

	got := Unresolved(e)
	if len(got) != 2 {
		t.Fatalf("expected 2 unresolved nodes, got %d", len(got))
	}
	if got[0] != Exp(e) || got[1] != Exp(right) {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	inner := &FunctionExp{Name: "f", Args: []Exp{ref("a")}}
	e := &IfExp{Test: ref("p"), Then: inner, Else: num(0)}
	var seen []string
	Inspect(e, func(x Exp) bool {
		seen = append(seen, Print(x))
		return x != Exp(inner)
	})
	if len(seen) != 4 {
		t.Errorf("visited %v", seen)
	}
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("restores")
	if !ok || m != ModeRestores {
		t.Errorf("ParseMode(restores) = %v, %v", m, ok)
	}
	if _, ok := ParseMode("definition"); ok {
		t.Errorf("definition is not a parameter mode")
	}
}
