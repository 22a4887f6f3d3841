package core

import (
	"sort"
	"sync"
)

// Registry holds definitions by kind. It is a convenience for hosts that
// resolve kinds by name (stores, CLIs); the engine itself never consults it.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewRegistry creates a registry holding defs.
func NewRegistry(defs ...*Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]*Definition)}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a definition. A kind can be registered once.
func (r *Registry) Register(d *Definition) error {
	if d == nil {
		return &DefinitionError{Err: ErrInvalidDefinition, Detail: "nil definition"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[d.kind]; ok {
		return defErr(d.kind, "", ErrInvalidDefinition, "kind already registered")
	}
	r.defs[d.kind] = d
	return nil
}

// Lookup returns the definition of kind.
func (r *Registry) Lookup(kind string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[kind]
	return d, ok
}

// Kinds returns the registered kinds in lexical order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.defs))
	for k := range r.defs {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
