package ast

import (
	"github.com/funvibe/mathsema/internal/token"
)

// VarExp is a reference to a variable, nullary definition, operation or type.
type VarExp struct {
	Token     token.Token
	Qualifier string
	Name      string
	TypeSlot
}

func (e *VarExp) expNode()               {}
func (e *VarExp) GetToken() token.Token { return e.Token }
func (e *VarExp) String() string        { return Print(e) }

// IntegerExp is an integer literal.
type IntegerExp struct {
	Token token.Token
	Value int64
	TypeSlot
}

func (e *IntegerExp) expNode()               {}
func (e *IntegerExp) GetToken() token.Token { return e.Token }
func (e *IntegerExp) String() string        { return Print(e) }

// RealExp is a real literal.
type RealExp struct {
	Token token.Token
	Value float64
	TypeSlot
}

func (e *RealExp) expNode()               {}
func (e *RealExp) GetToken() token.Token { return e.Token }
func (e *RealExp) String() string        { return Print(e) }

type CharExp struct {
	Token token.Token
	Value rune
	TypeSlot
}

func (e *CharExp) expNode()               {}
func (e *CharExp) GetToken() token.Token { return e.Token }
func (e *CharExp) String() string        { return Print(e) }

type StringExp struct {
	Token token.Token
	Value string
	TypeSlot
}

func (e *StringExp) expNode()               {}
func (e *StringExp) GetToken() token.Token { return e.Token }
func (e *StringExp) String() string        { return Print(e) }

// BooleanExp is the literal true or false.
type BooleanExp struct {
	Token token.Token
	Value bool
	TypeSlot
}

func (e *BooleanExp) expNode()               {}
func (e *BooleanExp) GetToken() token.Token { return e.Token }
func (e *BooleanExp) String() string        { return Print(e) }

// FunctionExp applies a named definition (or function-typed variable) to arguments.
type FunctionExp struct {
	Token     token.Token
	Qualifier string
	Name      string
	Args      []Exp
	TypeSlot
}

func (e *FunctionExp) expNode()               {}
func (e *FunctionExp) GetToken() token.Token { return e.Token }
func (e *FunctionExp) String() string        { return Print(e) }

// InfixExp is a binary operator application. Boolean connectives are built in;
// every other operator names an overloaded definition.
type InfixExp struct {
	Token token.Token
	Op    string
	Left  Exp
	Right Exp
	TypeSlot
}

func (e *InfixExp) expNode()               {}
func (e *InfixExp) GetToken() token.Token { return e.Token }
func (e *InfixExp) String() string        { return Print(e) }

type PrefixExp struct {
	Token token.Token
	Op    string
	Arg   Exp
	TypeSlot
}

func (e *PrefixExp) expNode()               {}
func (e *PrefixExp) GetToken() token.Token { return e.Token }
func (e *PrefixExp) String() string        { return Print(e) }

// OutfixExp is a bracketing operator such as |S| or <x>.
// It resolves to the definition named LeftOp + "_" + RightOp.
type OutfixExp struct {
	Token   token.Token
	LeftOp  string
	RightOp string
	Arg     Exp
	TypeSlot
}

func (e *OutfixExp) expNode()               {}
func (e *OutfixExp) GetToken() token.Token { return e.Token }
func (e *OutfixExp) String() string        { return Print(e) }

// DefinitionName is the symbol-table name of the outfix operator.
func (e *OutfixExp) DefinitionName() string {
	return e.LeftOp + "_" + e.RightOp
}

type EqualsOp int

const (
	Equal EqualsOp = iota
	NotEqual
)

type EqualsExp struct {
	Token token.Token
	Op    EqualsOp
	Left  Exp
	Right Exp
	TypeSlot
}

func (e *EqualsExp) expNode()               {}
func (e *EqualsExp) GetToken() token.Token { return e.Token }
func (e *EqualsExp) String() string        { return Print(e) }

// BetweenExp is a chained relation such as 1 <= i <= n, kept as the list of
// its Boolean conjuncts.
type BetweenExp struct {
	Token token.Token
	Lows  []Exp
	TypeSlot
}

func (e *BetweenExp) expNode()               {}
func (e *BetweenExp) GetToken() token.Token { return e.Token }
func (e *BetweenExp) String() string        { return Print(e) }

type IfExp struct {
	Token token.Token
	Test  Exp
	Then  Exp
	Else  Exp
	TypeSlot
}

func (e *IfExp) expNode()               {}
func (e *IfExp) GetToken() token.Token { return e.Token }
func (e *IfExp) String() string        { return Print(e) }

// AltItem is one branch of an alternative expression. A nil Test marks the
// "otherwise" branch.
type AltItem struct {
	Token      token.Token
	Test       Exp
	Assignment Exp
}

type AltExp struct {
	Token        token.Token
	Alternatives []*AltItem
	TypeSlot
}

func (e *AltExp) expNode()               {}
func (e *AltExp) GetToken() token.Token { return e.Token }
func (e *AltExp) String() string        { return Print(e) }

type Quantifier int

const (
	ForAll Quantifier = iota
	Exists
	Unique
)

func (q Quantifier) String() string {
	switch q {
	case Exists:
		return "There exists"
	case Unique:
		return "There exists unique"
	default:
		return "For all"
	}
}

type QuantExp struct {
	Token      token.Token
	Quantifier Quantifier
	Vars       []*MathVarDec
	Where      Exp
	Body       Exp
	TypeSlot
}

func (e *QuantExp) expNode()               {}
func (e *QuantExp) GetToken() token.Token { return e.Token }
func (e *QuantExp) String() string        { return Print(e) }

// SetExp is a set builder {x: T | where, body}.
type SetExp struct {
	Token token.Token
	Var   *MathVarDec
	Where Exp
	Body  Exp
	TypeSlot
}

func (e *SetExp) expNode()               {}
func (e *SetExp) GetToken() token.Token { return e.Token }
func (e *SetExp) String() string        { return Print(e) }

// SetCollectionExp is an enumerated set {a, b, c}.
type SetCollectionExp struct {
	Token token.Token
	Elems []Exp
	TypeSlot
}

func (e *SetCollectionExp) expNode()               {}
func (e *SetCollectionExp) GetToken() token.Token { return e.Token }
func (e *SetCollectionExp) String() string        { return Print(e) }

type TupleExp struct {
	Token  token.Token
	Fields []Exp
	TypeSlot
}

func (e *TupleExp) expNode()               {}
func (e *TupleExp) GetToken() token.Token { return e.Token }
func (e *TupleExp) String() string        { return Print(e) }

type LambdaExp struct {
	Token  token.Token
	Params []*MathVarDec
	Body   Exp
	TypeSlot
}

func (e *LambdaExp) expNode()               {}
func (e *LambdaExp) GetToken() token.Token { return e.Token }
func (e *LambdaExp) String() string        { return Print(e) }

// DotExp is a dotted chain a.b.c: a module qualifier, a record value followed
// by field names, or Conc followed by a conceptual name.
type DotExp struct {
	Token    token.Token
	Segments []Exp
	TypeSlot
}

func (e *DotExp) expNode()               {}
func (e *DotExp) GetToken() token.Token { return e.Token }
func (e *DotExp) String() string        { return Print(e) }

// FieldExp selects a field from a record-valued expression.
type FieldExp struct {
	Token     token.Token
	Structure Exp
	Field     *VarExp
	TypeSlot
}

func (e *FieldExp) expNode()               {}
func (e *FieldExp) GetToken() token.Token { return e.Token }
func (e *FieldExp) String() string        { return Print(e) }

// OldExp refers to the incoming value of a parameter (#x).
type OldExp struct {
	Token token.Token
	Exp   Exp
	TypeSlot
}

func (e *OldExp) expNode()               {}
func (e *OldExp) GetToken() token.Token { return e.Token }
func (e *OldExp) String() string        { return Print(e) }

// IterativeExp folds Operator over Body for every Var satisfying Where,
// e.g. Sum i: N where 1 <= i <= n, f(i).
type IterativeExp struct {
	Token    token.Token
	Operator string
	Var      *MathVarDec
	Where    Exp
	Body     Exp
	TypeSlot
}

func (e *IterativeExp) expNode()               {}
func (e *IterativeExp) GetToken() token.Token { return e.Token }
func (e *IterativeExp) String() string        { return Print(e) }

// TypeAssertionExp asserts that Exp is of type Ty (x : T).
type TypeAssertionExp struct {
	Token token.Token
	Exp   Exp
	Ty    Ty
	TypeSlot
}

func (e *TypeAssertionExp) expNode()               {}
func (e *TypeAssertionExp) GetToken() token.Token { return e.Token }
func (e *TypeAssertionExp) String() string        { return Print(e) }

// OperationCallExp is a program-level call of a function operation.
type OperationCallExp struct {
	Token     token.Token
	Qualifier string
	Name      string
	Args      []Exp
	TypeSlot
}

func (e *OperationCallExp) expNode()               {}
func (e *OperationCallExp) GetToken() token.Token { return e.Token }
func (e *OperationCallExp) String() string        { return Print(e) }
