package object

import (
	"maps"
	"slices"
)

// Environment binds names to values. Each function call creates an enclosed
// environment whose outer link is the function's defining environment, so
// lookups walk outward through lexical scopes.
//
// Closures hold their environment by reference: a later let in a shared
// scope is visible to every closure that captured it.
type Environment struct {
	store map[string]Object
	outer *Environment
}

// NewEnvironment returns an empty top-level environment.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewEnclosedEnvironment returns an empty environment nested in outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer

	return env
}

// Get resolves name in this environment or the nearest enclosing one.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}

	return nil, false
}

// Set binds name to val in this environment, replacing any previous binding
// here, and returns val.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val

	return val
}

// Outer returns the enclosing environment, or nil at top level.
func (e *Environment) Outer() *Environment { return e.outer }

// Names returns every name visible from this environment, sorted.
func (e *Environment) Names() []string {
	seen := make(map[string]struct{})

	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
