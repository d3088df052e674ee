package symbols

import "github.com/funvibe/mathsema/internal/typesystem"

// Correspondences returns t followed by every type t may be used as:
// the type behind an alias or program type, the model of a concept type,
// and declared supertypes, expanded breadth-first. The order is stable for
// a fixed scope.
func (s *Scope) Correspondences(t typesystem.Type) []typesystem.Type {
	s.stats.CorrespondenceQueries++
	if t == nil {
		return nil
	}
	links := s.links()
	out := []typesystem.Type{t}
	for i := 0; i < len(out); i++ {
		for _, next := range step(out[i], links) {
			if !containsType(out, next) {
				out = append(out, next)
			}
		}
	}
	return out
}

func (s *Scope) links() []Correspondence {
	var out []Correspondence
	for _, m := range s.tables() {
		out = append(out, m.links...)
	}
	return out
}

func step(t typesystem.Type, links []Correspondence) []typesystem.Type {
	var out []typesystem.Type
	switch tt := t.(type) {
	case typesystem.TIndirect:
		if tt.Underlying != nil {
			out = append(out, tt.Underlying)
		}
	case typesystem.TConcept:
		if tt.Model != nil {
			out = append(out, tt.Model)
		}
	}
	for _, l := range links {
		if typesystem.Equal(l.From, t) {
			out = append(out, l.To)
		}
	}
	return out
}

func containsType(list []typesystem.Type, t typesystem.Type) bool {
	for _, x := range list {
		if typesystem.Equal(x, t) {
			return true
		}
	}
	return false
}
