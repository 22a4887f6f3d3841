package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Kinds     []string `json:"kinds"`
	StoreType string   `json:"store_type"`
	Watchable bool     `json:"watchable"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	storeType := "unknown"
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}
	_, watchable := s.store.(Watchable)

	return ServiceState{
		Kinds:     s.registry.Kinds(),
		StoreType: storeType,
		Watchable: watchable,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

// RegistryState lists the shape of every registered definition.
type RegistryState struct {
	Definitions []DefinitionState `json:"definitions"`
}

// DefinitionState describes one definition.
type DefinitionState struct {
	Kind      string   `json:"kind"`
	Fields    []string `json:"fields"`
	Derived   []string `json:"derived,omitempty"`
	Behaviors []string `json:"behaviors,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Registry) State() any {
	state := RegistryState{}
	for _, kind := range r.Kinds() {
		d, _ := r.Lookup(kind)
		fields := make([]string, 0, len(d.fields))
		for _, f := range d.fields {
			fields = append(fields, f.Name+":"+string(f.Type))
		}
		state.Definitions = append(state.Definitions, DefinitionState{
			Kind:      kind,
			Fields:    fields,
			Derived:   d.DerivedNames(),
			Behaviors: d.BehaviorNames(),
		})
	}
	return state
}

// ComponentType implements introspection.Component.
func (r *Registry) ComponentType() string {
	return "registry"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
var _ introspection.Introspectable = (*Registry)(nil)
var _ introspection.Component = (*Registry)(nil)
