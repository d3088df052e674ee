package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a node in the mathematical surface syntax.
// It is used for diagnostics and obligation text, so it favours readability
// over round-tripping.
func Print(n Node) string {
	var b strings.Builder
	p := &printer{b: &b}
	p.node(n)
	return b.String()
}

type printer struct {
	b *strings.Builder
}

func (p *printer) write(s ...string) {
	for _, x := range s {
		p.b.WriteString(x)
	}
}

func (p *printer) qualified(q, name string) {
	if q != "" {
		p.write(q, ".")
	}
	p.write(name)
}

func (p *printer) list(items []Exp, sep string) {
	for i, e := range items {
		if i > 0 {
			p.write(sep)
		}
		p.node(e)
	}
}

func (p *printer) vars(vs []*MathVarDec) {
	for i, v := range vs {
		if i > 0 {
			p.write(", ")
		}
		p.write(v.Name, ": ")
		p.node(v.Ty)
	}
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.write("<nil>")
	case *NameTy:
		if n == nil {
			p.write("<nil>")
			return
		}
		p.qualified(n.Qualifier, n.Name)
		if len(n.Args) > 0 {
			p.write("(")
			for i, a := range n.Args {
				if i > 0 {
					p.write(", ")
				}
				p.node(a)
			}
			p.write(")")
		}
	case *FunctionTy:
		p.write("(")
		for i, a := range n.Params {
			if i > 0 {
				p.write(" * ")
			}
			p.node(a)
		}
		p.write(") -> ")
		p.node(n.Range)
	case *TupleTy:
		p.write("(")
		for i, f := range n.Fields {
			if i > 0 {
				p.write(" * ")
			}
			if f.Name != "" {
				p.write(f.Name, ": ")
			}
			p.node(f.Ty)
		}
		p.write(")")
	case *VarExp:
		p.qualified(n.Qualifier, n.Name)
	case *IntegerExp:
		p.write(strconv.FormatInt(n.Value, 10))
	case *RealExp:
		p.write(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *CharExp:
		p.write(strconv.QuoteRune(n.Value))
	case *StringExp:
		p.write(strconv.Quote(n.Value))
	case *BooleanExp:
		p.write(strconv.FormatBool(n.Value))
	case *FunctionExp:
		p.qualified(n.Qualifier, n.Name)
		p.write("(")
		p.list(n.Args, ", ")
		p.write(")")
	case *OperationCallExp:
		p.qualified(n.Qualifier, n.Name)
		p.write("(")
		p.list(n.Args, ", ")
		p.write(")")
	case *InfixExp:
		p.write("(")
		p.node(n.Left)
		p.write(" ", n.Op, " ")
		p.node(n.Right)
		p.write(")")
	case *PrefixExp:
		p.write(n.Op)
		if n.Op != "-" {
			p.write(" ")
		}
		p.node(n.Arg)
	case *OutfixExp:
		p.write(n.LeftOp)
		p.node(n.Arg)
		p.write(n.RightOp)
	case *EqualsExp:
		op := " = "
		if n.Op == NotEqual {
			op = " /= "
		}
		p.node(n.Left)
		p.write(op)
		p.node(n.Right)
	case *BetweenExp:
		p.list(n.Lows, " and ")
	case *IfExp:
		p.write("if ")
		p.node(n.Test)
		p.write(" then ")
		p.node(n.Then)
		if n.Else != nil {
			p.write(" else ")
			p.node(n.Else)
		}
	case *AltExp:
		p.write("{{")
		for i, a := range n.Alternatives {
			if i > 0 {
				p.write("; ")
			}
			p.node(a.Assignment)
			if a.Test != nil {
				p.write(" if ")
				p.node(a.Test)
			} else {
				p.write(" otherwise")
			}
		}
		p.write("}}")
	case *QuantExp:
		p.write(n.Quantifier.String(), " ")
		p.vars(n.Vars)
		if n.Where != nil {
			p.write(" where ")
			p.node(n.Where)
		}
		p.write(", ")
		p.node(n.Body)
	case *SetExp:
		p.write("{", n.Var.Name, ": ")
		p.node(n.Var.Ty)
		if n.Where != nil {
			p.write(" where ")
			p.node(n.Where)
		}
		p.write(" | ")
		p.node(n.Body)
		p.write("}")
	case *SetCollectionExp:
		p.write("{")
		p.list(n.Elems, ", ")
		p.write("}")
	case *TupleExp:
		p.write("(")
		p.list(n.Fields, ", ")
		p.write(")")
	case *LambdaExp:
		p.write("lambda ")
		p.vars(n.Params)
		p.write(".(")
		p.node(n.Body)
		p.write(")")
	case *DotExp:
		p.list(n.Segments, ".")
	case *FieldExp:
		p.node(n.Structure)
		p.write(".")
		p.node(n.Field)
	case *OldExp:
		p.write("#")
		p.node(n.Exp)
	case *IterativeExp:
		p.write(n.Operator, " ", n.Var.Name, ": ")
		p.node(n.Var.Ty)
		if n.Where != nil {
			p.write(" where ")
			p.node(n.Where)
		}
		p.write(", ")
		p.node(n.Body)
	case *TypeAssertionExp:
		p.node(n.Exp)
		p.write(" : ")
		p.node(n.Ty)
	case *GoalExp:
		p.write("Goal ")
		p.node(n.Exp)
	case *SuppositionExp:
		p.write("Suppose ")
		if len(n.Vars) > 0 {
			p.vars(n.Vars)
			p.write(" ")
		}
		p.node(n.Assumption)
	case *DeductionExp:
		p.write("Deduction ")
		p.node(n.Exp)
	case *JustifiedExp:
		p.node(n.Exp)
		if j := n.Justification; j != nil {
			p.write(" by ")
			var parts []string
			parts = append(parts, j.Hypotheses...)
			if j.Theorem != nil {
				parts = append(parts, Print(j.Theorem))
			}
			if j.Rule != "" {
				parts = append(parts, j.Rule)
			}
			p.write(strings.Join(parts, ", "))
		}
	case *HypDesigExp:
		p.write(n.Name, ": ")
		p.node(n.Exp)
	case *ProofDefinitionExp:
		p.write("Definition ", n.Def.Name)
	default:
		p.write(fmt.Sprintf("%v", n))
	}
}
