package symbols

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/mathsema/internal/ast"
)

// Builder populates the table of one module. It is called at most once per
// module, the first time the module is requested.
type Builder func(env *Environment, dec ast.ModuleDec) (*ModuleTable, error)

// CycleError reports modules that use each other.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cyclic module dependency: " + strings.Join(e.Path, " -> ")
}

// UnknownModuleError reports a reference to a module that was never registered.
type UnknownModuleError struct {
	Name string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module %s", e.Name)
}

// Environment knows every loaded module declaration and builds their
// tables on demand.
type Environment struct {
	decs     map[string]ast.ModuleDec
	tables   map[string]*ModuleTable
	failed   map[string]error
	building []string
	builder  Builder
	arena    *Arena
}

func NewEnvironment() *Environment {
	return &Environment{
		decs:   make(map[string]ast.ModuleDec),
		tables: make(map[string]*ModuleTable),
		failed: make(map[string]error),
		arena:  &Arena{},
	}
}

// SetBuilder installs the function that populates module tables.
func (e *Environment) SetBuilder(b Builder) {
	e.builder = b
}

// Register adds a module declaration. Names must be unique.
func (e *Environment) Register(dec ast.ModuleDec) error {
	name := dec.ModuleName()
	if _, exists := e.decs[name]; exists {
		return fmt.Errorf("module %s declared twice", name)
	}
	e.decs[name] = dec
	return nil
}

// Dec returns the registered declaration of a module.
func (e *Environment) Dec(name string) (ast.ModuleDec, bool) {
	d, ok := e.decs[name]
	return d, ok
}

// Names returns the registered module names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.decs))
	for name := range e.decs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Arena returns the value arena shared by all modules.
func (e *Environment) Arena() *Arena {
	return e.arena
}

// Module returns the table of a module, building it first if needed.
// The prelude is always available under its own name.
func (e *Environment) Module(name string) (*ModuleTable, error) {
	if name == GetPrelude().Name {
		return GetPrelude(), nil
	}
	if t, ok := e.tables[name]; ok {
		return t, nil
	}
	if err, ok := e.failed[name]; ok {
		return nil, err
	}
	dec, ok := e.decs[name]
	if !ok {
		return nil, &UnknownModuleError{Name: name}
	}
	for i, b := range e.building {
		if b == name {
			path := append(append([]string{}, e.building[i:]...), name)
			return nil, &CycleError{Path: path}
		}
	}
	if e.builder == nil {
		return nil, fmt.Errorf("no module builder installed")
	}

	e.building = append(e.building, name)
	defer func() { e.building = e.building[:len(e.building)-1] }()

	table, err := e.builder(e, dec)
	if err != nil {
		e.failed[name] = err
		return nil, err
	}
	e.tables[name] = table
	return table, nil
}
