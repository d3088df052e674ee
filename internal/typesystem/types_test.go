package typesystem

import "testing"

var (
	natural = TCon{Qualifier: "Natural_Number_Theory", Name: "N"}
	integer = TCon{Qualifier: "Integer_Theory", Name: "Z"}
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"boolean", Boolean, TBoolean{}, true},
		{"same con", natural, natural, true},
		{"unqualified reference", TCon{Name: "N"}, natural, true},
		{"different qualifier", natural, TCon{Qualifier: "Other", Name: "N"}, false},
		{"different con", natural, integer, false},
		{"set args", SetOf(natural), SetOf(TCon{Name: "N"}), true},
		{"set arity", SetOf(natural), TCon{Name: "Set"}, false},
		{"func", FuncOf([]Type{natural, natural}, Boolean), FuncOf([]Type{natural, natural}, Boolean), true},
		{"func range", FuncOf([]Type{natural}, Boolean), FuncOf([]Type{natural}, natural), false},
		{"tuple ignores names", TTuple{Fields: []Field{{Name: "a", Type: natural}}}, TTuple{Fields: []Field{{Type: natural}}}, true},
		{"indirect by name", TIndirect{Name: "Integer", Underlying: integer}, TIndirect{Name: "Integer"}, true},
		{"indirect vs underlying", TIndirect{Name: "Integer", Underlying: integer}, integer, false},
		{"nil", nil, natural, false},
		{"both nil", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", Show(tt.a), Show(tt.b), got, tt.want)
			}
		})
	}
}

func TestDomainAndParams(t *testing.T) {
	single := DomainOf([]Type{natural})
	if !Equal(single, natural) {
		t.Errorf("single domain = %s", single)
	}
	pair := DomainOf([]Type{natural, integer})
	params := ParamsOf(pair)
	if len(params) != 2 || !Equal(params[1], integer) {
		t.Errorf("ParamsOf = %v", params)
	}
}

func TestUnwrap(t *testing.T) {
	stack := TConcept{Name: "Stack", Exemplar: "S", Model: TIndirect{Name: "Str_N", Underlying: TCon{Name: "Str", Args: []Type{natural}}}}
	got := Unwrap(stack)
	if con, ok := got.(TCon); !ok || con.Name != "Str" {
		t.Errorf("Unwrap = %s", Show(got))
	}

	fn := TIndirect{Name: "Pred", Underlying: FuncOf([]Type{natural}, Boolean)}
	if _, ok := AsFunc(fn); !ok {
		t.Error("indirect function type should unwrap to TFunc")
	}

	cyclic := TIndirect{Name: "Loop"}
	cyclic.Underlying = TIndirect{Name: "Loop"}
	if _, ok := Unwrap(cyclic).(TIndirect); !ok {
		t.Error("cyclic alias should stop unwrapping")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{SetOf(natural), "Set(N)"},
		{FuncOf([]Type{natural, integer}, Boolean), "(N * Z) -> B"},
		{TTuple{Fields: []Field{{Name: "x", Type: natural}}}, "(x: N)"},
		{TCon{Name: "Set", Args: []Type{nil}}, "Set(?)"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	if Key(natural) == Key(TCon{Qualifier: "Other", Name: "N"}) {
		t.Error("keys should include qualifiers")
	}
	if Key(SetOf(natural)) != "Set(Natural_Number_Theory.N)" {
		t.Errorf("Key = %q", Key(SetOf(natural)))
	}
}
