package typed

import (
	"context"
	"fmt"

	"github.com/aretw0/humus/pkg/core"
)

// Repository gives type-safe access to the instances of one kind.
type Repository[T any] struct {
	svc  *core.Service
	kind string
}

// NewRepository binds T to kind. The kind must be registered in svc.
func NewRepository[T any](svc *core.Service, kind string) (*Repository[T], error) {
	if _, err := svc.Definition(kind); err != nil {
		return nil, err
	}
	return &Repository[T]{svc: svc, kind: kind}, nil
}

// Kind returns the bound entity kind.
func (r *Repository[T]) Kind() string { return r.kind }

// Create instantiates data and persists it.
func (r *Repository[T]) Create(ctx context.Context, data T) (*Model[T], error) {
	values, err := toMap(data)
	if err != nil {
		return nil, err
	}
	inst, err := r.svc.New(ctx, r.kind, values)
	if err != nil {
		return nil, err
	}
	return fromInstance(inst, r)
}

// Save writes the model's Data through the service.
func (r *Repository[T]) Save(ctx context.Context, m *Model[T]) error {
	if m.Instance == nil || m.Instance.Kind() != r.kind {
		return fmt.Errorf("model does not hold a %s instance", r.kind)
	}
	if m.Saver == nil {
		m.Saver = r
	}
	if err := m.sync(); err != nil {
		return err
	}
	return r.svc.Save(ctx, m.Instance)
}

// FindByID loads a model. A missing instance is (nil, false, nil).
func (r *Repository[T]) FindByID(ctx context.Context, id string) (*Model[T], bool, error) {
	inst, found, err := r.svc.FindByID(ctx, r.kind, id)
	if err != nil || !found {
		return nil, found, err
	}
	m, err := fromInstance(inst, r)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// List returns every stored instance of the kind.
func (r *Repository[T]) List(ctx context.Context) ([]*Model[T], error) {
	insts, err := r.svc.List(ctx, r.kind)
	if err != nil {
		return nil, err
	}
	result := make([]*Model[T], 0, len(insts))
	for _, inst := range insts {
		m, err := fromInstance(inst, r)
		if err != nil {
			return nil, fmt.Errorf("failed to process %s/%s: %w", r.kind, inst.ID(), err)
		}
		result = append(result, m)
	}
	return result, nil
}

// Delete removes an instance by ID.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.svc.Delete(ctx, r.kind, id)
}

// Watch observes changes to instances of the bound kind.
func (r *Repository[T]) Watch(ctx context.Context) (<-chan core.Event, error) {
	return r.svc.Watch(ctx, r.kind+"/*")
}
