package ast

import (
	"github.com/funvibe/mathsema/internal/token"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// Node is the base interface for all AST nodes.
type Node interface {
	GetToken() token.Token
	String() string
}

// Exp is a mathematical or program expression. Every expression carries a
// type slot that the analyzer fills exactly once.
type Exp interface {
	Node
	expNode()
	ResolvedType() typesystem.Type
	SetResolvedType(typesystem.Type) bool
}

// Ty is a type expression as written in a unit.
type Ty interface {
	Node
	tyNode()
}

// Dec is a declaration inside a module.
type Dec interface {
	Node
	decNode()
}

// Stmt is a program statement inside a procedure body.
type Stmt interface {
	Node
	stmtNode()
}

// TypeSlot holds the resolved type of an expression.
type TypeSlot struct {
	mathType typesystem.Type
}

// ResolvedType returns the type set by the analyzer, or nil while unresolved.
func (s *TypeSlot) ResolvedType() typesystem.Type {
	return s.mathType
}

// SetResolvedType fills the slot if it is still empty. It reports whether the
// value was stored; a filled slot is never overwritten.
func (s *TypeSlot) SetResolvedType(t typesystem.Type) bool {
	if s.mathType != nil || t == nil {
		return false
	}
	s.mathType = t
	return true
}

// NameTy is a named type, optionally qualified and applied to arguments:
// N, Integer_Theory.Z, Set(N), Stack_Fac.Stack.
type NameTy struct {
	Token     token.Token
	Qualifier string
	Name      string
	Args      []Ty
}

func (t *NameTy) tyNode()                {}
func (t *NameTy) GetToken() token.Token { return t.Token }
func (t *NameTy) String() string        { return Print(t) }

// FunctionTy is a function type: (N * N) -> B.
type FunctionTy struct {
	Token  token.Token
	Params []Ty
	Range  Ty
}

func (t *FunctionTy) tyNode()                {}
func (t *FunctionTy) GetToken() token.Token { return t.Token }
func (t *FunctionTy) String() string        { return Print(t) }

// TyField is one component of a tuple or record type.
type TyField struct {
	Token token.Token
	Name  string
	Ty    Ty
}

// TupleTy is a cartesian product or record type.
type TupleTy struct {
	Token  token.Token
	Fields []*TyField
}

func (t *TupleTy) tyNode()                {}
func (t *TupleTy) GetToken() token.Token { return t.Token }
func (t *TupleTy) String() string        { return Print(t) }

// MathVarDec declares a mathematical variable: a bound variable, a definition
// parameter or a conceptual variable.
type MathVarDec struct {
	Token token.Token
	Name  string
	Ty    Ty
}

func (d *MathVarDec) GetToken() token.Token { return d.Token }
func (d *MathVarDec) String() string        { return d.Name + ": " + Print(d.Ty) }
