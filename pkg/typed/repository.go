// Package typed maps entity instances onto Go structs.
//
// Struct fields are matched to entity fields through their json tags.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/humus/pkg/core"
)

// Model is a typed view of an entity instance.
// Data holds the struct form of the fields; Save writes it back.
type Model[T any] struct {
	Data     T
	Instance *core.Instance
	Saver    Saver[T] // Active Record reference
}

// Saver avoids coupling Model to a concrete repository.
type Saver[T any] interface {
	Save(ctx context.Context, m *Model[T]) error
}

// ID returns the identifier of the underlying instance.
func (m *Model[T]) ID() string {
	return m.Instance.ID()
}

// Save persists the model using the attached saver.
func (m *Model[T]) Save(ctx context.Context) error {
	if m.Saver == nil {
		return fmt.Errorf("model is detached (missing Saver)")
	}
	return m.Saver.Save(ctx, m)
}

// Eval evaluates a derived property against the current Data.
func (m *Model[T]) Eval(name string) (core.Value, error) {
	if err := m.sync(); err != nil {
		return core.Value{}, err
	}
	return m.Instance.Eval(name)
}

// Invoke calls a behavior against the current Data.
func (m *Model[T]) Invoke(name string, args ...any) (core.Value, error) {
	if err := m.sync(); err != nil {
		return core.Value{}, err
	}
	return m.Instance.Invoke(name, args...)
}

// sync copies Data into the instance. Declared fields missing from Data are cleared.
// A validation failure leaves the instance untouched.
func (m *Model[T]) sync() error {
	values, err := toMap(m.Data)
	if err != nil {
		return err
	}
	return m.Instance.SetAll(values)
}

func toMap(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to map: %w", err)
	}
	return values, nil
}

func fromInstance[T any](inst *core.Instance, saver Saver[T]) (*Model[T], error) {
	raw, err := json.Marshal(inst.Fields())
	if err != nil {
		return nil, fmt.Errorf("fields marshal failed: %w", err)
	}
	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return &Model[T]{Data: data, Instance: inst, Saver: saver}, nil
}
