package ast

import "github.com/funvibe/mathsema/internal/token"

// ModuleDec is a top-level unit: a theory, concept, enhancement,
// realization or facility module.
type ModuleDec interface {
	Dec
	ModuleName() string
	ModuleUses() []*UsesItem
	ModuleDecs() []Dec
}

// UsesItem imports another module into the unit's environment.
type UsesItem struct {
	Token token.Token
	Name  string
}

// MathModuleDec is a mathematical theory.
type MathModuleDec struct {
	Token token.Token
	Name  string
	Uses  []*UsesItem
	Decs  []Dec
}

func (d *MathModuleDec) decNode()                  {}
func (d *MathModuleDec) GetToken() token.Token    { return d.Token }
func (d *MathModuleDec) String() string           { return "Theory " + d.Name }
func (d *MathModuleDec) ModuleName() string       { return d.Name }
func (d *MathModuleDec) ModuleUses() []*UsesItem { return d.Uses }
func (d *MathModuleDec) ModuleDecs() []Dec        { return d.Decs }

// ConceptDec specifies a family of components abstractly.
type ConceptDec struct {
	Token      token.Token
	Name       string
	Params     []ModuleParam
	Uses       []*UsesItem
	Constraint Exp
	Decs       []Dec
}

func (d *ConceptDec) decNode()                  {}
func (d *ConceptDec) GetToken() token.Token    { return d.Token }
func (d *ConceptDec) String() string           { return "Concept " + d.Name }
func (d *ConceptDec) ModuleName() string       { return d.Name }
func (d *ConceptDec) ModuleUses() []*UsesItem { return d.Uses }
func (d *ConceptDec) ModuleDecs() []Dec        { return d.Decs }

// EnhancementDec adds operations to a concept.
type EnhancementDec struct {
	Token       token.Token
	Name        string
	ConceptName string
	Params      []ModuleParam
	Uses        []*UsesItem
	Decs        []Dec
}

func (d *EnhancementDec) decNode()                  {}
func (d *EnhancementDec) GetToken() token.Token    { return d.Token }
func (d *EnhancementDec) String() string           { return "Enhancement " + d.Name }
func (d *EnhancementDec) ModuleName() string       { return d.Name }
func (d *EnhancementDec) ModuleUses() []*UsesItem { return d.Uses }
func (d *EnhancementDec) ModuleDecs() []Dec        { return d.Decs }

// RealizationDec implements a concept, or an enhancement of it when
// EnhancementName is set.
type RealizationDec struct {
	Token           token.Token
	Name            string
	ConceptName     string
	EnhancementName string
	Params          []ModuleParam
	Uses            []*UsesItem
	Decs            []Dec
}

func (d *RealizationDec) decNode()                  {}
func (d *RealizationDec) GetToken() token.Token    { return d.Token }
func (d *RealizationDec) String() string           { return "Realization " + d.Name }
func (d *RealizationDec) ModuleName() string       { return d.Name }
func (d *RealizationDec) ModuleUses() []*UsesItem { return d.Uses }
func (d *RealizationDec) ModuleDecs() []Dec        { return d.Decs }

// ImplementedModule names the concept or enhancement whose operations the
// realization's procedures must match.
func (d *RealizationDec) ImplementedModule() string {
	if d.EnhancementName != "" {
		return d.EnhancementName
	}
	return d.ConceptName
}

// FacilityModuleDec is a stand-alone module of operations and facilities.
type FacilityModuleDec struct {
	Token token.Token
	Name  string
	Uses  []*UsesItem
	Decs  []Dec
}

func (d *FacilityModuleDec) decNode()                  {}
func (d *FacilityModuleDec) GetToken() token.Token    { return d.Token }
func (d *FacilityModuleDec) String() string           { return "Facility " + d.Name }
func (d *FacilityModuleDec) ModuleName() string       { return d.Name }
func (d *FacilityModuleDec) ModuleUses() []*UsesItem { return d.Uses }
func (d *FacilityModuleDec) ModuleDecs() []Dec        { return d.Decs }

// MathTypeDec introduces a mathematical type. A nil Ty declares a primitive
// type; otherwise the name abbreviates Ty.
type MathTypeDec struct {
	Token token.Token
	Name  string
	Ty    Ty
}

func (d *MathTypeDec) decNode()               {}
func (d *MathTypeDec) GetToken() token.Token { return d.Token }
func (d *MathTypeDec) String() string        { return "Def math type " + d.Name }

// TypeTheoremDec declares that every value of Sub is also a value of Super.
type TypeTheoremDec struct {
	Token token.Token
	Name  string
	Sub   Ty
	Super Ty
}

func (d *TypeTheoremDec) decNode()               {}
func (d *TypeTheoremDec) GetToken() token.Token { return d.Token }
func (d *TypeTheoremDec) String() string {
	return "Type Theorem " + d.Name + ": " + Print(d.Sub) + " <= " + Print(d.Super)
}

// DefinitionDec is a mathematical definition. Definition may be nil for a
// declared-only symbol; Base and Hypothesis are set for inductive definitions.
type DefinitionDec struct {
	Token      token.Token
	Name       string
	Params     []*MathVarDec
	ReturnTy   Ty
	Definition Exp
	Base       Exp
	Hypothesis Exp
	Implicit   bool
}

func (d *DefinitionDec) decNode()               {}
func (d *DefinitionDec) GetToken() token.Token { return d.Token }
func (d *DefinitionDec) String() string        { return "Definition " + d.Name }

type AssertionKind int

const (
	Axiom AssertionKind = iota
	Theorem
	Lemma
	Corollary
	Property
)

func (k AssertionKind) String() string {
	switch k {
	case Theorem:
		return "Theorem"
	case Lemma:
		return "Lemma"
	case Corollary:
		return "Corollary"
	case Property:
		return "Property"
	default:
		return "Axiom"
	}
}

// MathAssertionDec is an axiom, theorem, lemma or corollary.
type MathAssertionDec struct {
	Token     token.Token
	Kind      AssertionKind
	Name      string
	Assertion Exp
}

func (d *MathAssertionDec) decNode()               {}
func (d *MathAssertionDec) GetToken() token.Token { return d.Token }
func (d *MathAssertionDec) String() string        { return d.Kind.String() + " " + d.Name }

// ProofDec is the proof of a named theorem.
type ProofDec struct {
	Token       token.Token
	TheoremName string
	Body        []Exp
}

func (d *ProofDec) decNode()               {}
func (d *ProofDec) GetToken() token.Token { return d.Token }
func (d *ProofDec) String() string        { return "Proof of " + d.TheoremName }

// TypeFamilyDec declares a program type family in a concept, modelled by a
// mathematical type. Exemplar names a typical value in the constraint.
type TypeFamilyDec struct {
	Token       token.Token
	Name        string
	Model       Ty
	Exemplar    string
	Constraint  Exp
	InitEnsures Exp
}

func (d *TypeFamilyDec) decNode()               {}
func (d *TypeFamilyDec) GetToken() token.Token { return d.Token }
func (d *TypeFamilyDec) String() string        { return "Type family " + d.Name }

// ConceptVarDec declares a conceptual state variable, referenced as Conc.Name.
type ConceptVarDec struct {
	Token token.Token
	Var   *MathVarDec
}

func (d *ConceptVarDec) decNode()               {}
func (d *ConceptVarDec) GetToken() token.Token { return d.Token }
func (d *ConceptVarDec) String() string        { return "Var " + d.Var.String() }

// Mode is a parameter passing mode.
type Mode int

const (
	ModeAlters Mode = iota
	ModeUpdates
	ModeClears
	ModeReplaces
	ModeRestores
	ModePreserves
	ModeEvaluates
	// ModeDefinition marks a definition parameter; it never appears on
	// operation parameters.
	ModeDefinition
	// ModeLocal marks procedure locals and bound mathematical variables.
	ModeLocal
)

var modeNames = map[Mode]string{
	ModeAlters:     "alters",
	ModeUpdates:    "updates",
	ModeClears:     "clears",
	ModeReplaces:   "replaces",
	ModeRestores:   "restores",
	ModePreserves:  "preserves",
	ModeEvaluates:  "evaluates",
	ModeDefinition: "definition",
	ModeLocal:      "local",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode maps a mode keyword to its Mode.
func ParseMode(s string) (Mode, bool) {
	for m, name := range modeNames {
		if name == s && m < ModeDefinition {
			return m, true
		}
	}
	return 0, false
}

// ParameterVarDec is a formal parameter of an operation or procedure.
type ParameterVarDec struct {
	Token token.Token
	Mode  Mode
	Name  string
	Ty    *NameTy
}

func (d *ParameterVarDec) GetToken() token.Token { return d.Token }
func (d *ParameterVarDec) String() string {
	return d.Mode.String() + " " + d.Name + ": " + Print(d.Ty)
}

// OperationDec is a specified operation: a concept operation, an
// enhancement operation or an operation parameter.
type OperationDec struct {
	Token    token.Token
	Name     string
	Params   []*ParameterVarDec
	ReturnTy *NameTy
	Requires Exp
	Ensures  Exp
}

func (d *OperationDec) decNode()               {}
func (d *OperationDec) GetToken() token.Token { return d.Token }
func (d *OperationDec) String() string        { return "Operation " + d.Name }

// VarDec declares a program variable.
type VarDec struct {
	Token token.Token
	Name  string
	Ty    *NameTy
}

func (d *VarDec) decNode()               {}
func (d *VarDec) GetToken() token.Token { return d.Token }
func (d *VarDec) String() string        { return "Var " + d.Name + ": " + Print(d.Ty) }

// ProcedureDec implements an operation. In a facility module a procedure may
// carry its own specification.
type ProcedureDec struct {
	Token      token.Token
	Name       string
	Params     []*ParameterVarDec
	ReturnTy   *NameTy
	Recursive  bool
	Requires   Exp
	Ensures    Exp
	Decreasing Exp
	Variables  []*VarDec
	Statements []Stmt
}

func (d *ProcedureDec) decNode()               {}
func (d *ProcedureDec) GetToken() token.Token { return d.Token }
func (d *ProcedureDec) String() string        { return "Procedure " + d.Name }

// RepresentationDec represents a concept type family in a realization.
type RepresentationDec struct {
	Token          token.Token
	Name           string
	Representation Ty
	Convention     Exp
	Correspondence Exp
	InitEnsures    Exp
}

func (d *RepresentationDec) decNode()               {}
func (d *RepresentationDec) GetToken() token.Token { return d.Token }
func (d *RepresentationDec) String() string        { return "Type " + d.Name + " is represented by " + Print(d.Representation) }

// ModuleArg is an actual argument to a facility. Exp is set for expression
// arguments; otherwise the argument names a type, operation or definition.
type ModuleArg struct {
	Token     token.Token
	Qualifier string
	Name      string
	Exp       Exp
}

func (a *ModuleArg) String() string {
	if a.Exp != nil {
		return Print(a.Exp)
	}
	if a.Qualifier != "" {
		return a.Qualifier + "." + a.Name
	}
	return a.Name
}

// EnhancementItem extends a facility with an enhancement and its realization.
type EnhancementItem struct {
	Token           token.Token
	Name            string
	Args            []*ModuleArg
	RealizationName string
	RealizationArgs []*ModuleArg
}

// FacilityDec instantiates a concept with a realization.
type FacilityDec struct {
	Token           token.Token
	Name            string
	ConceptName     string
	ConceptArgs     []*ModuleArg
	RealizationName string
	RealizationArgs []*ModuleArg
	Enhancements    []*EnhancementItem
}

func (d *FacilityDec) decNode()               {}
func (d *FacilityDec) GetToken() token.Token { return d.Token }
func (d *FacilityDec) String() string        { return "Facility " + d.Name }

// ModuleParam is a formal parameter of a concept, enhancement or realization.
type ModuleParam interface {
	Node
	ParamName() string
	moduleParam()
}

// ConstantParam is a value parameter of a program type.
type ConstantParam struct {
	Token token.Token
	Name  string
	Ty    *NameTy
}

func (p *ConstantParam) moduleParam()           {}
func (p *ConstantParam) GetToken() token.Token { return p.Token }
func (p *ConstantParam) String() string        { return "evaluates " + p.Name + ": " + Print(p.Ty) }
func (p *ConstantParam) ParamName() string     { return p.Name }

// TypeParam is a generic program type parameter.
type TypeParam struct {
	Token token.Token
	Name  string
}

func (p *TypeParam) moduleParam()           {}
func (p *TypeParam) GetToken() token.Token { return p.Token }
func (p *TypeParam) String() string        { return "type " + p.Name }
func (p *TypeParam) ParamName() string     { return p.Name }

// OperationParam passes an operation to a realization.
type OperationParam struct {
	Token token.Token
	Op    *OperationDec
}

func (p *OperationParam) moduleParam()           {}
func (p *OperationParam) GetToken() token.Token { return p.Token }
func (p *OperationParam) String() string        { return p.Op.String() }
func (p *OperationParam) ParamName() string     { return p.Op.Name }

// DefinitionParam passes a mathematical definition to a concept.
type DefinitionParam struct {
	Token token.Token
	Def   *DefinitionDec
}

func (p *DefinitionParam) moduleParam()           {}
func (p *DefinitionParam) GetToken() token.Token { return p.Token }
func (p *DefinitionParam) String() string        { return p.Def.String() }
func (p *DefinitionParam) ParamName() string     { return p.Def.Name }
