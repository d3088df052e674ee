package symbols

import (
	"sync"

	"github.com/funvibe/mathsema/internal/config"
	"github.com/funvibe/mathsema/internal/typesystem"
)

// Singleton prelude table containing the built-in types.
var (
	preludeTable *ModuleTable
	preludeOnce  sync.Once
)

// GetPrelude returns the prelude shared by all analyses. It holds the
// Boolean math type, the Set constructor and the built-in program types,
// each linked to the theory type that models it.
func GetPrelude() *ModuleTable {
	preludeOnce.Do(func() {
		preludeTable = NewModuleTable(config.PreludeModule, PreludeModule, nil)
		initBuiltins(preludeTable)
	})
	return preludeTable
}

// ResetPrelude resets the prelude singleton (for testing only).
func ResetPrelude() {
	preludeOnce = sync.Once{}
	preludeTable = nil
}

// Theory types the built-in program types are modelled by.
var (
	IntegerModel   = typesystem.TCon{Qualifier: config.IntegerTheory, Name: config.IntegerTypeName}
	CharacterModel = typesystem.TCon{Qualifier: config.StringTheory, Name: config.CharacterTypeName}
	CharStrModel   = typesystem.TCon{Qualifier: config.StringTheory, Name: config.StrTypeName, Args: []typesystem.Type{CharacterModel}}
)

func initBuiltins(m *ModuleTable) {
	m.DefineType(&TypeEntry{Name: config.BooleanTypeName, Type: typesystem.Boolean})
	m.DefineType(&TypeEntry{Name: config.SetTypeName, Type: typesystem.TCon{Name: config.SetTypeName}})

	program := []struct {
		name  string
		model typesystem.Type
	}{
		{config.BooleanProgramType, typesystem.Boolean},
		{config.IntegerProgramType, IntegerModel},
		{config.CharacterProgramType, CharacterModel},
		{config.CharStrProgramType, CharStrModel},
	}
	for _, p := range program {
		t := typesystem.TIndirect{Qualifier: config.PreludeModule, Name: p.name, Underlying: p.model}
		m.DefineType(&TypeEntry{Name: p.name, Type: t})
	}
}
