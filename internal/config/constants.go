package config

import "strings"

// SourceFileExtensions are the recognized unit file extensions
var SourceFileExtensions = []string{".yaml", ".yml"}

// SettingsFileName is the settings file looked up in the working directory.
const SettingsFileName = "mathsema.yaml"

// IsSourceFile reports whether path has a recognized unit extension.
func IsSourceFile(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Well-known theory modules. Numeric literal typing and unary minus depend on
// which of these are visible from the current module.
const (
	BooleanTheory = "Boolean_Theory"
	NaturalTheory = "Natural_Number_Theory"
	IntegerTheory = "Integer_Theory"
	RealTheory    = "Real_Number_Theory"
	SetTheory     = "Set_Theory"
	StringTheory  = "String_Theory"
)

// Math type names declared by the theories above
const (
	BooleanTypeName   = "B"
	NaturalTypeName   = "N"
	IntegerTypeName   = "Z"
	RealTypeName      = "R"
	SetTypeName       = "Set"
	StrTypeName       = "Str"
	CharacterTypeName = "Character"
	CharStrTypeName   = "Char_Str"
)

// Program type names provided by the prelude
const (
	BooleanProgramType   = "Boolean"
	IntegerProgramType   = "Integer"
	CharacterProgramType = "Character"
	CharStrProgramType   = "Char_Str"

	// EntryTypeName is the wildcard program type accepted for any sub-parameter
	// type when an operation is passed as a facility argument.
	EntryTypeName = "Entry"
)

// Keywords and built-in operator names
const (
	ConcKeyword   = "Conc"
	TrueLiteral   = "true"
	FalseLiteral  = "false"
	MinusOperator = "-"
	NotOperator   = "not"
	AndOperator   = "and"
	OrOperator    = "or"
	ImpliesOp     = "implies"
	IffOperator   = "iff"
	PreludeModule = "prelude"
)
