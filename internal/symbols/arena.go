package symbols

import (
	"errors"

	"github.com/funvibe/mathsema/internal/ast"
)

// ValueRef indexes a slot in an Arena. The zero ValueRef is no slot.
type ValueRef int

var (
	ErrNoSlot           = errors.New("no value slot")
	ErrAlreadyFinalized = errors.New("value already finalized")
)

// Arena stores resolved value expressions for definitions, theorems and
// proofs. Each slot is written at most once.
type Arena struct {
	slots []ast.Exp
}

// Alloc reserves an empty slot.
func (a *Arena) Alloc() ValueRef {
	a.slots = append(a.slots, nil)
	return ValueRef(len(a.slots))
}

// Set fills the slot. A second write fails with ErrAlreadyFinalized.
func (a *Arena) Set(ref ValueRef, value ast.Exp) error {
	if ref <= 0 || int(ref) > len(a.slots) {
		return ErrNoSlot
	}
	if a.slots[ref-1] != nil {
		return ErrAlreadyFinalized
	}
	a.slots[ref-1] = value
	return nil
}

// Get returns the value stored in the slot, if any.
func (a *Arena) Get(ref ValueRef) (ast.Exp, bool) {
	if ref <= 0 || int(ref) > len(a.slots) {
		return nil, false
	}
	v := a.slots[ref-1]
	return v, v != nil
}
