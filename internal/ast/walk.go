package ast

// Children returns the direct subexpressions of e in source order.
// Bound-variable declarations and type expressions are not included.
func Children(e Exp) []Exp {
	var out []Exp
	add := func(xs ...Exp) {
		for _, x := range xs {
			if x != nil {
				out = append(out, x)
			}
		}
	}
	switch e := e.(type) {
	case *FunctionExp:
		add(e.Args...)
	case *OperationCallExp:
		add(e.Args...)
	case *InfixExp:
		add(e.Left, e.Right)
	case *PrefixExp:
		add(e.Arg)
	case *OutfixExp:
		add(e.Arg)
	case *EqualsExp:
		add(e.Left, e.Right)
	case *BetweenExp:
		add(e.Lows...)
	case *IfExp:
		add(e.Test, e.Then, e.Else)
	case *AltExp:
		for _, a := range e.Alternatives {
			add(a.Test, a.Assignment)
		}
	case *QuantExp:
		add(e.Where, e.Body)
	case *SetExp:
		add(e.Where, e.Body)
	case *SetCollectionExp:
		add(e.Elems...)
	case *TupleExp:
		add(e.Fields...)
	case *LambdaExp:
		add(e.Body)
	case *DotExp:
		add(e.Segments...)
	case *FieldExp:
		add(e.Structure)
		if e.Field != nil {
			add(e.Field)
		}
	case *OldExp:
		add(e.Exp)
	case *IterativeExp:
		add(e.Where, e.Body)
	case *TypeAssertionExp:
		add(e.Exp)
	case *GoalExp:
		add(e.Exp)
	case *SuppositionExp:
		add(e.Assumption)
	case *DeductionExp:
		add(e.Exp)
	case *JustifiedExp:
		add(e.Exp)
		if e.Justification != nil && e.Justification.Theorem != nil {
			add(e.Justification.Theorem)
		}
	case *HypDesigExp:
		add(e.Exp)
	}
	return out
}

// Inspect traverses e depth-first, calling fn for every expression. If fn
// returns false the children of that expression are skipped.
func Inspect(e Exp, fn func(Exp) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Inspect(c, fn)
	}
}

// Unresolved returns every expression under e whose type slot is still empty.
func Unresolved(e Exp) []Exp {
	var out []Exp
	Inspect(e, func(x Exp) bool {
		if x.ResolvedType() == nil {
			out = append(out, x)
		}
		return true
	})
	return out
}
