package typesystem

// Equal reports structural equality of two types. Qualifiers are compared
// only when both sides carry one, so an unqualified reference written in a
// unit equals the qualified type its theory declared. A nil type equals only nil.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case TBoolean:
		_, ok := b.(TBoolean)
		return ok
	case TCon:
		y, ok := b.(TCon)
		if !ok || x.Name != y.Name || !qualifiersAgree(x.Qualifier, y.Qualifier) {
			return false
		}
		return equalList(x.Args, y.Args)
	case TFunc:
		y, ok := b.(TFunc)
		return ok && Equal(x.Domain, y.Domain) && Equal(x.Range, y.Range)
	case TTuple:
		y, ok := b.(TTuple)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if !Equal(x.Fields[i].Type, y.Fields[i].Type) {
				return false
			}
		}
		return true
	case TIndirect:
		y, ok := b.(TIndirect)
		return ok && x.Name == y.Name && qualifiersAgree(x.Qualifier, y.Qualifier)
	case TConcept:
		y, ok := b.(TConcept)
		return ok && x.Name == y.Name && qualifiersAgree(x.Qualifier, y.Qualifier)
	}
	return false
}

func qualifiersAgree(a, b string) bool {
	return a == "" || b == "" || a == b
}

func equalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Key returns a canonical string for t, used to deduplicate type sets.
// Qualifiers are included so distinct theories never collide.
func Key(t Type) string {
	switch x := t.(type) {
	case nil:
		return "?"
	case TCon:
		s := x.Name
		if x.Qualifier != "" {
			s = x.Qualifier + "." + s
		}
		if len(x.Args) > 0 {
			s += "("
			for i, a := range x.Args {
				if i > 0 {
					s += ","
				}
				s += Key(a)
			}
			s += ")"
		}
		return s
	case TIndirect:
		return "indirect:" + x.Qualifier + "." + x.Name
	case TConcept:
		return "concept:" + x.Qualifier + "." + x.Name
	case TFunc:
		return "(" + Key(x.Domain) + "->" + Key(x.Range) + ")"
	case TTuple:
		s := "("
		for i, f := range x.Fields {
			if i > 0 {
				s += "*"
			}
			s += Key(f.Type)
		}
		return s + ")"
	}
	return t.String()
}
