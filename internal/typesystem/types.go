package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all mathematical and program types.
// The set of variants is closed; see the concrete types below.
type Type interface {
	String() string
	typeNode()
}

// TBoolean is the built-in Boolean type (B).
type TBoolean struct{}

func (TBoolean) typeNode()      {}
func (TBoolean) String() string { return "B" }

// TCon is a constructed type: a named type with optional qualifier and type
// arguments, e.g. N, Integer_Theory.Z or Set(N).
type TCon struct {
	Qualifier string
	Name      string
	Args      []Type
}

func (TCon) typeNode() {}

func (t TCon) String() string {
	name := t.Name
	if len(t.Args) == 0 {
		return name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = typeString(a)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}

// TFunc is a function type. Multi-argument functions have a TTuple domain.
type TFunc struct {
	Domain Type
	Range  Type
}

func (TFunc) typeNode() {}

func (t TFunc) String() string {
	dom := typeString(t.Domain)
	if _, ok := t.Domain.(TFunc); ok {
		dom = "(" + dom + ")"
	}
	return fmt.Sprintf("%s -> %s", dom, typeString(t.Range))
}

// Field is one element of a tuple or record type. Name is empty for
// positional tuple elements.
type Field struct {
	Name string
	Type Type
}

// TTuple is a tuple or record type.
type TTuple struct {
	Fields []Field
}

func (TTuple) typeNode() {}

func (t TTuple) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		if f.Name != "" {
			parts[i] = f.Name + ": " + typeString(f.Type)
		} else {
			parts[i] = typeString(f.Type)
		}
	}
	return "(" + strings.Join(parts, " * ") + ")"
}

// FieldByName returns the named field, if present.
func (t TTuple) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// TIndirect is a named type defined in terms of another type: a math type
// alias, a program type with a mathematical model, or a representation type.
type TIndirect struct {
	Qualifier  string
	Name       string
	Underlying Type
}

func (TIndirect) typeNode() {}

func (t TIndirect) String() string { return t.Name }

// TConcept is a concept's type family. Exemplar names the conceptual variable
// used in the concept's specifications and Model is its mathematical model,
// reached from realizations through Conc.
type TConcept struct {
	Qualifier string
	Name      string
	Exemplar  string
	Model     Type
}

func (TConcept) typeNode() {}

func (t TConcept) String() string { return t.Name }

func typeString(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// Show formats a possibly nil type for diagnostics.
func Show(t Type) string {
	return typeString(t)
}

// Boolean is the shared Boolean type value.
var Boolean Type = TBoolean{}

// SetOf builds the constructed type Set(elem).
func SetOf(elem Type) TCon {
	return TCon{Name: "Set", Args: []Type{elem}}
}

// DomainOf builds the domain of a function over params: the single parameter
// type itself, or a tuple of them.
func DomainOf(params []Type) Type {
	if len(params) == 1 {
		return params[0]
	}
	fields := make([]Field, len(params))
	for i, p := range params {
		fields[i] = Field{Type: p}
	}
	return TTuple{Fields: fields}
}

// FuncOf builds params -> rng.
func FuncOf(params []Type, rng Type) TFunc {
	return TFunc{Domain: DomainOf(params), Range: rng}
}

// ParamsOf splits a function domain back into parameter types.
func ParamsOf(domain Type) []Type {
	if tuple, ok := domain.(TTuple); ok {
		params := make([]Type, len(tuple.Fields))
		for i, f := range tuple.Fields {
			params[i] = f.Type
		}
		return params
	}
	return []Type{domain}
}

// Unwrap peels Indirect and Concept layers until reaching a structural type.
// Cycles stop at the first repeated name.
func Unwrap(t Type) Type {
	seen := map[string]bool{}
	for {
		switch tt := t.(type) {
		case TIndirect:
			if tt.Underlying == nil || seen["i:"+tt.Name] {
				return t
			}
			seen["i:"+tt.Name] = true
			t = tt.Underlying
		case TConcept:
			if tt.Model == nil || seen["c:"+tt.Name] {
				return t
			}
			seen["c:"+tt.Name] = true
			t = tt.Model
		default:
			return t
		}
	}
}

// AsFunc unwraps t and reports whether it is function shaped.
func AsFunc(t Type) (TFunc, bool) {
	f, ok := Unwrap(t).(TFunc)
	return f, ok
}
