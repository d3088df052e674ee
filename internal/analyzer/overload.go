package analyzer

import (
	"strings"

	"github.com/funvibe/mathsema/internal/ast"
	"github.com/funvibe/mathsema/internal/symbols"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// CandidateKind says which lookup rule produced an overload match.
type CandidateKind int

const (
	CandidateDefinitionParam CandidateKind = iota
	CandidateDefinition
	CandidateFunctionVariable
	CandidateCallableType
)

// Candidate is the entry an overloaded call resolved to, with the argument
// types under which it matched.
type Candidate struct {
	Kind       CandidateKind
	Definition *symbols.Definition
	Variable   *symbols.Variable
	Type       *symbols.TypeEntry
	Args       []typesystem.Type
	Range      typesystem.Type
}

// overloadSearch holds the state of one resolution of a call.
type overloadSearch struct {
	r     *resolver
	qual  string
	name  string
	alts  [][]typesystem.Type
	tried map[string]bool
}

// resolveOverload finds the entry named qual.name that accepts args. It
// tries the argument types as given, then substitutes correspondences
// position by position, leftmost first and depth first, and returns the
// first configuration that matches. Failure is silent.
func (r *resolver) resolveOverload(qual, name string, args []typesystem.Type) (typesystem.Type, *Candidate, bool) {
	if !r.hasCallable(qual, name) {
		return nil, nil, false
	}
	s := &overloadSearch{
		r:     r,
		qual:  qual,
		name:  name,
		alts:  make([][]typesystem.Type, len(args)),
		tried: make(map[string]bool),
	}
	config := append([]typesystem.Type(nil), args...)
	if c, ok := s.try(config); ok {
		return c.Range, c, true
	}
	c, ok := s.search(config, 0)
	if !ok {
		return nil, nil, false
	}
	return c.Range, c, true
}

func (s *overloadSearch) search(config []typesystem.Type, pos int) (*Candidate, bool) {
	if pos == len(config) {
		return s.try(config)
	}
	for _, alt := range s.alternatives(config, pos) {
		next := append([]typesystem.Type(nil), config...)
		next[pos] = alt
		if c, ok := s.search(next, pos+1); ok {
			return c, true
		}
	}
	return nil, false
}

// alternatives returns the correspondence set of the original argument at
// pos, computed once per search.
func (s *overloadSearch) alternatives(config []typesystem.Type, pos int) []typesystem.Type {
	if s.alts[pos] == nil {
		if config[pos] == nil {
			s.alts[pos] = []typesystem.Type{nil}
		} else {
			s.alts[pos] = s.r.scope.Correspondences(config[pos])
		}
	}
	return s.alts[pos]
}

func (s *overloadSearch) try(config []typesystem.Type) (*Candidate, bool) {
	key := configKey(config)
	if s.tried[key] {
		return nil, false
	}
	s.tried[key] = true
	return s.r.lookupCallable(s.qual, s.name, config)
}

func configKey(config []typesystem.Type) string {
	parts := make([]string, len(config))
	for i, t := range config {
		if t == nil {
			parts[i] = "?"
		} else {
			parts[i] = typesystem.Key(t)
		}
	}
	return strings.Join(parts, ",")
}

// hasCallable reports whether anything named qual.name could be called.
func (r *resolver) hasCallable(qual, name string) bool {
	if len(r.scope.LookupDefinitions(qual, name)) > 0 {
		return true
	}
	if _, ok := r.scope.LookupVariable(qual, name); ok {
		return true
	}
	_, ok := r.scope.LookupType(qual, name)
	return ok
}

// lookupCallable tries one argument configuration: a function-valued
// definition parameter, then a definition with exactly these parameter
// types, then a variable of function type, then a type whose underlying
// type is a function.
func (r *resolver) lookupCallable(qual, name string, config []typesystem.Type) (*Candidate, bool) {
	v, hasVar := r.scope.LookupVariable(qual, name)
	if hasVar && v.Mode == ast.ModeDefinition {
		if f, ok := typesystem.AsFunc(v.Type); ok && domainFits(f.Domain, config) {
			return &Candidate{Kind: CandidateDefinitionParam, Variable: v, Args: config, Range: f.Range}, true
		}
	}
	for _, d := range r.scope.LookupDefinitions(qual, name) {
		if paramsFit(symbols.ParamTypes(d.Params), config) {
			return &Candidate{Kind: CandidateDefinition, Definition: d, Args: config, Range: d.Range}, true
		}
	}
	if hasVar {
		if f, ok := typesystem.AsFunc(v.Type); ok && domainFits(f.Domain, config) {
			return &Candidate{Kind: CandidateFunctionVariable, Variable: v, Args: config, Range: f.Range}, true
		}
	}
	if entry, ok := r.scope.LookupType(qual, name); ok {
		if f, ok := typesystem.AsFunc(entry.Type); ok && domainFits(f.Domain, config) {
			return &Candidate{Kind: CandidateCallableType, Type: entry, Args: config, Range: f.Range}, true
		}
	}
	return nil, false
}

func domainFits(domain typesystem.Type, config []typesystem.Type) bool {
	if len(config) == 1 && typesystem.Equal(domain, config[0]) {
		return true
	}
	return paramsFit(typesystem.ParamsOf(domain), config)
}

// paramsFit compares parameter types with an argument configuration by
// structural equality. An unknown argument type fits any parameter.
func paramsFit(params, config []typesystem.Type) bool {
	if len(params) != len(config) {
		return false
	}
	for i := range params {
		if config[i] != nil && !typesystem.Equal(params[i], config[i]) {
			return false
		}
	}
	return true
}

// describeCandidates lists the visible overloads of a name for diagnostics.
func (r *resolver) describeCandidates(qual, name string) string {
	defs := r.scope.LookupDefinitions(qual, name)
	if len(defs) == 0 {
		return ""
	}
	sigs := make([]string, len(defs))
	for i, d := range defs {
		sigs[i] = typesystem.Show(d.Type())
	}
	return "; available: " + strings.Join(sigs, ", ")
}
