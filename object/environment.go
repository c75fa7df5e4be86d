// ==============================================================================================
// FILE: object/environment.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: Implements the memory environment (symbol table) for the interpreter.
//          It handles name binding, lexical scoping chains, mutability
//          enforcement and shadowing logic.
// ==============================================================================================

package object

import "github.com/samber/oops"

// Environment is a scope record: a mapping of name to Symbol plus an optional
// link to the enclosing scope. Lookup walks the parent chain and returns the
// nearest enclosing definition.
type Environment struct {
	store map[string]*Symbol
	outer *Environment
}

// NewEnvironment creates a fresh scope with no parent.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*Symbol), outer: nil}
}

// NewEnclosedEnvironment creates a new local scope linked to an outer scope.
// Used for blocks, for-loops and function calls to implement lexical scoping.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Define inserts a symbol into the local scope. Within one scope names are
// unique unless redefine is requested.
func (e *Environment) Define(name string, sym *Symbol, redefine bool) error {
	if _, exists := e.store[name]; exists && !redefine {
		return oops.Code("Redefinition").Errorf("name %q is already defined in this scope", name)
	}
	e.store[name] = sym
	return nil
}

// Lookup returns the nearest scope in which name is bound.
func (e *Environment) Lookup(name string) (*Environment, bool) {
	if _, ok := e.store[name]; ok {
		return e, true
	}
	if e.outer != nil {
		return e.outer.Lookup(name)
	}
	return nil, false
}

// Assign locates the binding for name and overwrites its value if the binding
// is mutable. Immutable bindings and unbound names fail.
func (e *Environment) Assign(name string, value Object) error {
	scope, ok := e.Lookup(name)
	if !ok {
		return oops.Code("Undefined").Errorf("undefined variable %q", name)
	}
	sym := scope.store[name]
	if !sym.IsMutable {
		return oops.Code("Immutable").Errorf("cannot assign to immutable binding %q", name)
	}
	sym.Value = value
	return nil
}

// Get returns the bound value, walking the parent chain.
func (e *Environment) Get(name string) (Object, bool) {
	if sym, ok := e.store[name]; ok {
		return sym.Value, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Ref returns the bound Symbol cell itself, walking the parent chain.
func (e *Environment) Ref(name string) (*Symbol, bool) {
	if sym, ok := e.store[name]; ok {
		return sym, true
	}
	if e.outer != nil {
		return e.outer.Ref(name)
	}
	return nil, false
}
