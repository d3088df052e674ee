package symbols

import (
	"sort"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/typesystem"
)

type ModuleKind int

const (
	PreludeModule ModuleKind = iota
	TheoryModule
	ConceptModule
	EnhancementModule
	RealizationModule
	FacilityModule
)

func (k ModuleKind) String() string {
	switch k {
	case TheoryModule:
		return "theory"
	case ConceptModule:
		return "concept"
	case EnhancementModule:
		return "enhancement"
	case RealizationModule:
		return "realization"
	case FacilityModule:
		return "facility"
	default:
		return "prelude"
	}
}

// Correspondence links a type to a type it may be used as: a declared
// supertype, or the concept type a representation stands for.
type Correspondence struct {
	From typesystem.Type
	To   typesystem.Type
}

// ModuleTable holds the entries a module declares.
type ModuleTable struct {
	Name string
	Kind ModuleKind
	Dec  ast.ModuleDec

	variables   map[string]*Variable
	conceptual  map[string]*Variable
	definitions defTable
	operations  map[string]*Operation
	types       map[string]*TypeEntry
	theorems    map[string]*Theorem
	facilities  map[string]*Facility
	links       []Correspondence
	visible     []*ModuleTable
}

func NewModuleTable(name string, kind ModuleKind, dec ast.ModuleDec) *ModuleTable {
	return &ModuleTable{
		Name:        name,
		Kind:        kind,
		Dec:         dec,
		variables:   make(map[string]*Variable),
		conceptual:  make(map[string]*Variable),
		definitions: make(defTable),
		operations:  make(map[string]*Operation),
		types:       make(map[string]*TypeEntry),
		theorems:    make(map[string]*Theorem),
		facilities:  make(map[string]*Facility),
	}
}

// SetVisible records the modules whose entries are visible from this one,
// in lookup order.
func (m *ModuleTable) SetVisible(mods []*ModuleTable) {
	m.visible = mods
}

// Visible returns the modules visible from this one, excluding itself.
func (m *ModuleTable) Visible() []*ModuleTable {
	return m.visible
}

// DefineVariable binds a module-level variable. It reports false if the
// name is already bound.
func (m *ModuleTable) DefineVariable(v *Variable) bool {
	if _, ok := m.variables[v.Name]; ok {
		return false
	}
	v.Module = m.Name
	m.variables[v.Name] = v
	return true
}

// DefineConceptual binds a conceptual variable, reached through Conc.
func (m *ModuleTable) DefineConceptual(v *Variable) bool {
	if _, ok := m.conceptual[v.Name]; ok {
		return false
	}
	v.Module = m.Name
	m.conceptual[v.Name] = v
	return true
}

// DefineDefinition adds an overload. It reports false if a definition with
// the same name and parameter types exists.
func (m *ModuleTable) DefineDefinition(d *Definition) bool {
	for _, existing := range m.definitions[d.Name] {
		if sameSignature(existing.Params, d.Params) {
			return false
		}
	}
	d.Module = m.Name
	m.definitions.add(d)
	return true
}

func (m *ModuleTable) DefineOperation(op *Operation) bool {
	if _, ok := m.operations[op.Name]; ok {
		return false
	}
	op.Module = m.Name
	m.operations[op.Name] = op
	return true
}

func (m *ModuleTable) DefineType(t *TypeEntry) bool {
	if _, ok := m.types[t.Name]; ok {
		return false
	}
	t.Module = m.Name
	m.types[t.Name] = t
	return true
}

func (m *ModuleTable) DefineTheorem(t *Theorem) bool {
	if _, ok := m.theorems[t.Name]; ok {
		return false
	}
	t.Module = m.Name
	m.theorems[t.Name] = t
	return true
}

func (m *ModuleTable) DefineFacility(f *Facility) bool {
	if _, ok := m.facilities[f.Name]; ok {
		return false
	}
	f.Module = m.Name
	m.facilities[f.Name] = f
	return true
}

// AddCorrespondence records that from may be used where to is expected.
func (m *ModuleTable) AddCorrespondence(from, to typesystem.Type) {
	m.links = append(m.links, Correspondence{From: from, To: to})
}

func (m *ModuleTable) Variable(name string) (*Variable, bool) {
	v, ok := m.variables[name]
	return v, ok
}

func (m *ModuleTable) Conceptual(name string) (*Variable, bool) {
	v, ok := m.conceptual[name]
	return v, ok
}

func (m *ModuleTable) Definitions(name string) []*Definition {
	return m.definitions[name]
}

func (m *ModuleTable) Operation(name string) (*Operation, bool) {
	op, ok := m.operations[name]
	return op, ok
}

// Operations returns the module's operations sorted by declaration order of
// their nodes' positions.
func (m *ModuleTable) Operations() []*Operation {
	out := make([]*Operation, 0, len(m.operations))
	for _, op := range m.operations {
		out = append(out, op)
	}
	sortOperations(out)
	return out
}

func (m *ModuleTable) Type(name string) (*TypeEntry, bool) {
	t, ok := m.types[name]
	return t, ok
}

func (m *ModuleTable) Theorem(name string) (*Theorem, bool) {
	t, ok := m.theorems[name]
	return t, ok
}

func (m *ModuleTable) Facility(name string) (*Facility, bool) {
	f, ok := m.facilities[name]
	return f, ok
}

// Links returns the correspondences declared by this module.
func (m *ModuleTable) Links() []Correspondence {
	return m.links
}

func sameSignature(a, b []Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !typesystem.Equal(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

func signatureMatches(params []Param, args []typesystem.Type) bool {
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		if !typesystem.Equal(params[i].Type, args[i]) {
			return false
		}
	}
	return true
}

func sortOperations(ops []*Operation) {
	sort.Slice(ops, func(i, j int) bool {
		a, b := position(ops[i].Node), position(ops[j].Node)
		if a != b {
			return a < b
		}
		return ops[i].Name < ops[j].Name
	})
}

func position(n ast.Node) int {
	if n == nil {
		return 0
	}
	tok := n.GetToken()
	return tok.Line*10000 + tok.Column
}
