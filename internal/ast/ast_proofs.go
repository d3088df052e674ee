package ast

import "github.com/funvibe/mathsema/internal/token"

// GoalExp states the goal of a proof.
type GoalExp struct {
	Token token.Token
	Exp   Exp
	TypeSlot
}

func (e *GoalExp) expNode()               {}
func (e *GoalExp) GetToken() token.Token { return e.Token }
func (e *GoalExp) String() string        { return Print(e) }

// SuppositionExp introduces variables and an assumption for the rest of the proof.
type SuppositionExp struct {
	Token      token.Token
	Vars       []*MathVarDec
	Assumption Exp
	TypeSlot
}

func (e *SuppositionExp) expNode()               {}
func (e *SuppositionExp) GetToken() token.Token { return e.Token }
func (e *SuppositionExp) String() string        { return Print(e) }

// DeductionExp discharges the innermost supposition.
type DeductionExp struct {
	Token token.Token
	Exp   Exp
	TypeSlot
}

func (e *DeductionExp) expNode()               {}
func (e *DeductionExp) GetToken() token.Token { return e.Token }
func (e *DeductionExp) String() string        { return Print(e) }

// Justification cites the facts a proof step follows from.
type Justification struct {
	Token      token.Token
	Hypotheses []string
	Theorem    *VarExp
	Rule       string
}

// JustifiedExp is a proof step with its justification.
type JustifiedExp struct {
	Token         token.Token
	Exp           Exp
	Justification *Justification
	TypeSlot
}

func (e *JustifiedExp) expNode()               {}
func (e *JustifiedExp) GetToken() token.Token { return e.Token }
func (e *JustifiedExp) String() string        { return Print(e) }

// HypDesigExp names a proof line so later steps can cite it.
type HypDesigExp struct {
	Token token.Token
	Name  string
	Exp   Exp
	TypeSlot
}

func (e *HypDesigExp) expNode()               {}
func (e *HypDesigExp) GetToken() token.Token { return e.Token }
func (e *HypDesigExp) String() string        { return Print(e) }

// ProofDefinitionExp is a definition local to a proof.
type ProofDefinitionExp struct {
	Token token.Token
	Def   *DefinitionDec
	TypeSlot
}

func (e *ProofDefinitionExp) expNode()               {}
func (e *ProofDefinitionExp) GetToken() token.Token { return e.Token }
func (e *ProofDefinitionExp) String() string        { return Print(e) }
