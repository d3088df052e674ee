package ast

import "github.com/funvibe/mathsema/internal/token"

type AssignStmt struct {
	Token token.Token
	Var   Exp
	Exp   Exp
}

func (s *AssignStmt) stmtNode()              {}
func (s *AssignStmt) GetToken() token.Token { return s.Token }
func (s *AssignStmt) String() string        { return Print(s.Var) + " := " + Print(s.Exp) }

type SwapStmt struct {
	Token token.Token
	Left  Exp
	Right Exp
}

func (s *SwapStmt) stmtNode()              {}
func (s *SwapStmt) GetToken() token.Token { return s.Token }
func (s *SwapStmt) String() string        { return Print(s.Left) + " :=: " + Print(s.Right) }

// CallStmt invokes a procedural operation.
type CallStmt struct {
	Token token.Token
	Call  *OperationCallExp
}

func (s *CallStmt) stmtNode()              {}
func (s *CallStmt) GetToken() token.Token { return s.Token }
func (s *CallStmt) String() string        { return Print(s.Call) }

type IfStmt struct {
	Token token.Token
	Test  Exp
	Then  []Stmt
	Else  []Stmt
}

func (s *IfStmt) stmtNode()              {}
func (s *IfStmt) GetToken() token.Token { return s.Token }
func (s *IfStmt) String() string        { return "If " + Print(s.Test) }

type WhileStmt struct {
	Token       token.Token
	Test        Exp
	Changing    []Exp
	Maintaining Exp
	Decreasing  Exp
	Body        []Stmt
}

func (s *WhileStmt) stmtNode()              {}
func (s *WhileStmt) GetToken() token.Token { return s.Token }
func (s *WhileStmt) String() string        { return "While " + Print(s.Test) }

// ConfirmStmt asks the verifier to establish an assertion.
type ConfirmStmt struct {
	Token     token.Token
	Assertion Exp
}

func (s *ConfirmStmt) stmtNode()              {}
func (s *ConfirmStmt) GetToken() token.Token { return s.Token }
func (s *ConfirmStmt) String() string        { return "Confirm " + Print(s.Assertion) }

// AssumeStmt lets the verifier take an assertion as given.
type AssumeStmt struct {
	Token     token.Token
	Assertion Exp
}

func (s *AssumeStmt) stmtNode()              {}
func (s *AssumeStmt) GetToken() token.Token { return s.Token }
func (s *AssumeStmt) String() string        { return "Assume " + Print(s.Assertion) }
