package symbols

import (
	"fmt"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// ScopeKind identifies the construct a lexical frame belongs to.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeOperation
	ScopeProcedure
	ScopeExpression
	ScopeDefinition
	ScopeProof
	ScopeType
)

var scopeKindNames = [...]string{"module", "operation", "procedure", "expression", "definition", "proof", "type"}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return fmt.Sprintf("scope(%d)", int(k))
}

// ScopeMismatchError is the panic value raised when a scope is closed out
// of order. It indicates a defect in the caller.
type ScopeMismatchError struct {
	Want ScopeKind
	Got  ScopeKind
	Open bool
}

func (e *ScopeMismatchError) Error() string {
	if !e.Open {
		return fmt.Sprintf("end of %s scope with no scope open", e.Want)
	}
	return fmt.Sprintf("end of %s scope while %s scope is innermost", e.Want, e.Got)
}

// Stats counts scope traffic. Tests use it to observe memoization and
// scope balance.
type Stats struct {
	Lookups               int
	CorrespondenceQueries int
	Begins                int
	Ends                  int
}

// Frame is one lexical level of bindings.
type Frame struct {
	Kind ScopeKind
	Name string

	variables   map[string]*Variable
	definitions defTable
	types       map[string]*TypeEntry
	outer       *Frame
}

// Scope answers lookups for one module: lexical frames first, then the
// module's own table, then the modules visible from it, then the prelude.
type Scope struct {
	env    *Environment
	module *ModuleTable
	top    *Frame
	depth  int
	stats  Stats
}

func NewScope(env *Environment, module *ModuleTable) *Scope {
	return &Scope{env: env, module: module}
}

func (s *Scope) Module() *ModuleTable       { return s.module }
func (s *Scope) Environment() *Environment { return s.env }

// Stats returns a snapshot of the counters.
func (s *Scope) Stats() Stats { return s.stats }

// Depth is the number of open frames.
func (s *Scope) Depth() int { return s.depth }

// BeginScope opens a frame. Every BeginScope must be matched by an
// EndScope of the same kind.
func (s *Scope) BeginScope(kind ScopeKind, name string) {
	s.stats.Begins++
	s.depth++
	s.top = &Frame{
		Kind:        kind,
		Name:        name,
		variables:   make(map[string]*Variable),
		definitions: make(defTable),
		types:       make(map[string]*TypeEntry),
		outer:       s.top,
	}
}

// EndScope closes the innermost frame, which must be of the given kind.
// A mismatch panics with *ScopeMismatchError.
func (s *Scope) EndScope(kind ScopeKind) {
	if s.top == nil {
		panic(&ScopeMismatchError{Want: kind})
	}
	if s.top.Kind != kind {
		panic(&ScopeMismatchError{Want: kind, Got: s.top.Kind, Open: true})
	}
	s.stats.Ends++
	s.depth--
	s.top = s.top.outer
}

// CurrentScope returns the kind of the innermost frame, or ScopeModule
// when none is open.
func (s *Scope) CurrentScope() ScopeKind {
	if s.top == nil {
		return ScopeModule
	}
	return s.top.Kind
}

// CurrentOperation returns the operation whose body or specification is
// being analyzed, if any.
func (s *Scope) CurrentOperation() (*Operation, bool) {
	for f := s.top; f != nil; f = f.outer {
		if f.Kind == ScopeOperation || f.Kind == ScopeProcedure {
			if op, ok := s.module.Operation(f.Name); ok {
				return op, true
			}
			return s.LookupOperation("", f.Name)
		}
	}
	return nil, false
}

// BindVariable binds v in the innermost frame. It reports false if the
// frame already binds the name or no frame is open.
func (s *Scope) BindVariable(v *Variable) bool {
	if s.top == nil {
		return false
	}
	if _, exists := s.top.variables[v.Name]; exists {
		return false
	}
	s.top.variables[v.Name] = v
	return true
}

// BindDefinition adds a definition local to the innermost frame.
func (s *Scope) BindDefinition(d *Definition) bool {
	if s.top == nil {
		return false
	}
	for _, existing := range s.top.definitions[d.Name] {
		if sameSignature(existing.Params, d.Params) {
			return false
		}
	}
	s.top.definitions.add(d)
	return true
}

// BindType binds a type name in the innermost frame.
func (s *Scope) BindType(t *TypeEntry) bool {
	if s.top == nil {
		return false
	}
	if _, exists := s.top.types[t.Name]; exists {
		return false
	}
	s.top.types[t.Name] = t
	return true
}

// tables returns the module tables searched for unqualified names.
func (s *Scope) tables() []*ModuleTable {
	out := make([]*ModuleTable, 0, len(s.module.visible)+2)
	out = append(out, s.module)
	prelude := GetPrelude()
	seenPrelude := s.module == prelude
	for _, m := range s.module.visible {
		if m == prelude {
			seenPrelude = true
		}
		out = append(out, m)
	}
	if !seenPrelude {
		out = append(out, prelude)
	}
	return out
}

// qualifiedTables resolves a qualifier to the tables it names: a visible
// module, or a facility whose concept and enhancements answer the lookup.
func (s *Scope) qualifiedTables(qual string) []*ModuleTable {
	tables := s.tables()
	for _, m := range tables {
		if m.Name == qual {
			return []*ModuleTable{m}
		}
	}
	for _, m := range tables {
		if f, ok := m.facilities[qual]; ok {
			return f.Modules
		}
	}
	return nil
}

// IsVisible reports whether a module's entries are visible from this scope.
func (s *Scope) IsVisible(module string) bool {
	for _, m := range s.tables() {
		if m.Name == module {
			return true
		}
	}
	return false
}

// IsQualifier reports whether name can qualify a reference.
func (s *Scope) IsQualifier(name string) bool {
	return len(s.qualifiedTables(name)) > 0
}

func (s *Scope) LookupVariable(qual, name string) (*Variable, bool) {
	s.stats.Lookups++
	if qual == "" {
		for f := s.top; f != nil; f = f.outer {
			if v, ok := f.variables[name]; ok {
				return v, true
			}
		}
		for _, m := range s.tables() {
			if v, ok := m.variables[name]; ok {
				return v, true
			}
		}
		return nil, false
	}
	for _, m := range s.qualifiedTables(qual) {
		if v, ok := m.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupDefinitions returns every visible overload of name, innermost first.
func (s *Scope) LookupDefinitions(qual, name string) []*Definition {
	s.stats.Lookups++
	var out []*Definition
	if qual == "" {
		for f := s.top; f != nil; f = f.outer {
			out = append(out, f.definitions[name]...)
		}
		for _, m := range s.tables() {
			out = append(out, m.definitions[name]...)
		}
		return out
	}
	for _, m := range s.qualifiedTables(qual) {
		out = append(out, m.definitions[name]...)
	}
	return out
}

// LookupDefinition returns the first visible definition of name whose
// parameter types are structurally equal to argTypes.
func (s *Scope) LookupDefinition(qual, name string, argTypes []typesystem.Type) (*Definition, bool) {
	for _, d := range s.LookupDefinitions(qual, name) {
		if signatureMatches(d.Params, argTypes) {
			return d, true
		}
	}
	return nil, false
}

func (s *Scope) LookupOperation(qual, name string) (*Operation, bool) {
	s.stats.Lookups++
	tables := s.tables()
	if qual != "" {
		tables = s.qualifiedTables(qual)
	}
	for _, m := range tables {
		if op, ok := m.operations[name]; ok {
			return op, true
		}
	}
	return nil, false
}

func (s *Scope) LookupType(qual, name string) (*TypeEntry, bool) {
	s.stats.Lookups++
	if qual == "" {
		for f := s.top; f != nil; f = f.outer {
			if t, ok := f.types[name]; ok {
				return t, true
			}
		}
	}
	tables := s.tables()
	if qual != "" {
		tables = s.qualifiedTables(qual)
	}
	for _, m := range tables {
		if t, ok := m.types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *Scope) LookupTheorem(qual, name string) (*Theorem, bool) {
	s.stats.Lookups++
	tables := s.tables()
	if qual != "" {
		tables = s.qualifiedTables(qual)
	}
	for _, m := range tables {
		if t, ok := m.theorems[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *Scope) LookupFacility(name string) (*Facility, bool) {
	s.stats.Lookups++
	for _, m := range s.tables() {
		if f, ok := m.facilities[name]; ok {
			return f, true
		}
	}
	return nil, false
}

// LookupConceptual finds a conceptual variable: one declared by the module
// itself, or by the concept or enhancement it is built on.
func (s *Scope) LookupConceptual(name string) (*Variable, bool) {
	s.stats.Lookups++
	for _, m := range s.tables() {
		if m != s.module && m.Kind != ConceptModule && m.Kind != EnhancementModule {
			continue
		}
		if v, ok := m.conceptual[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// FinalizeDefinition attaches an inferred range to a definition that was
// declared without one. The stored entry is replaced by a new one, which
// is returned; entries that already carry a range are returned unchanged.
func (s *Scope) FinalizeDefinition(d *Definition, rng typesystem.Type) *Definition {
	if d.Range != nil || rng == nil {
		return d
	}
	updated := *d
	updated.Range = rng
	if d.owner != nil {
		d.owner.replace(d, &updated)
	}
	return &updated
}

// FinalizeValue stores the resolved value of a definition, theorem or
// proof. Each slot accepts one write.
func (s *Scope) FinalizeValue(ref ValueRef, value ast.Exp) error {
	return s.env.arena.Set(ref, value)
}

// Value returns the value stored for ref.
func (s *Scope) Value(ref ValueRef) (ast.Exp, bool) {
	return s.env.arena.Get(ref)
}
