package symbols

import (
	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// Param is a named, typed parameter of a definition or operation.
type Param struct {
	Name string
	Type typesystem.Type
	Mode ast.Mode
	// TypeName is the program type name as written, for operation
	// parameters.
	TypeName string
}

// ParamTypes returns the parameter types in order.
func ParamTypes(params []Param) []typesystem.Type {
	out := make([]typesystem.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// Variable is a mathematical or program variable: a bound variable, a
// parameter, a conceptual variable or a module constant.
type Variable struct {
	Name   string
	Module string
	Type   typesystem.Type
	Mode   ast.Mode
	Node   ast.Node
}

// Definition is a named mathematical function or constant. Entries are not
// modified after binding; use Scope.FinalizeDefinition to attach an
// inferred range.
type Definition struct {
	Name       string
	Module     string
	Params     []Param
	Range      typesystem.Type
	Body       ast.Exp
	Base       ast.Exp
	Hypothesis ast.Exp
	Implicit   bool
	Node       *ast.DefinitionDec
	Value      ValueRef

	owner defTable
}

// IsInductive reports whether the definition is given by base and
// hypothesis clauses.
func (d *Definition) IsInductive() bool {
	return d.Base != nil || d.Hypothesis != nil
}

// Type returns the definition's type: its range for a constant, or the
// function type from its parameters to its range.
func (d *Definition) Type() typesystem.Type {
	if len(d.Params) == 0 {
		return d.Range
	}
	return typesystem.FuncOf(ParamTypes(d.Params), d.Range)
}

// Operation is a specified program operation.
type Operation struct {
	Name     string
	Module   string
	Params   []Param
	Return   typesystem.Type
	Requires ast.Exp
	Ensures  ast.Exp
	Node     ast.Node
}

// Type returns the mathematical view of a function operation. Procedural
// operations have a nil range.
func (o *Operation) Type() typesystem.Type {
	return typesystem.FuncOf(ParamTypes(o.Params), o.Return)
}

// TypeEntry is a named type. Type is the type a reference to Name denotes;
// Exemplar is set for concept type families.
type TypeEntry struct {
	Name     string
	Module   string
	Type     typesystem.Type
	Exemplar string
	Node     ast.Node
}

// Underlying returns the structural type behind the entry.
func (e *TypeEntry) Underlying() typesystem.Type {
	return typesystem.Unwrap(e.Type)
}

// Theorem is an axiom, theorem, lemma or corollary.
type Theorem struct {
	Name      string
	Module    string
	Kind      ast.AssertionKind
	Assertion ast.Exp
	Value     ValueRef
	Proof     ValueRef
}

// Facility is an instantiated concept. Modules holds the concept table
// followed by every enhancement table; they answer lookups qualified by the
// facility name.
type Facility struct {
	Name        string
	Module      string
	Concept     string
	Realization string
	Modules     []*ModuleTable
	Node        *ast.FacilityDec
}

// defTable holds overloaded definitions by name.
type defTable map[string][]*Definition

func (t defTable) add(d *Definition) {
	d.owner = t
	t[d.Name] = append(t[d.Name], d)
}

func (t defTable) replace(old, updated *Definition) bool {
	list := t[old.Name]
	for i, d := range list {
		if d == old {
			updated.owner = t
			list[i] = updated
			return true
		}
	}
	return false
}
