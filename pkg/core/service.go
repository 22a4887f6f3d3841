package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Observer receives notifications about service operations (e.g. metrics).
type Observer interface {
	Created(kind string)
	Found(kind string, found bool)
	Rejected(kind string, err error)
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger of the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithObserver attaches an observer to the service.
func WithObserver(o Observer) ServiceOption {
	return func(s *Service) {
		s.observer = o
	}
}

// Service binds entity definitions to a document store.
type Service struct {
	registry *Registry
	store    Store
	logger   *slog.Logger
	observer Observer
}

// NewService creates a new Service.
func NewService(registry *Registry, store Store, opts ...ServiceOption) *Service {
	s := &Service{registry: registry, store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Registry returns the definitions known to the service.
func (s *Service) Registry() *Registry { return s.registry }

// Store returns the underlying document store.
func (s *Service) Store() Store { return s.store }

// Definition resolves kind or fails with ErrUnknownKind.
func (s *Service) Definition(kind string) (*Definition, error) {
	d, ok := s.registry.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return d, nil
}

// New instantiates kind from values and persists the new instance.
func (s *Service) New(ctx context.Context, kind string, values map[string]any) (*Instance, error) {
	d, err := s.Definition(kind)
	if err != nil {
		return nil, err
	}
	inst, err := d.Instantiate(values)
	if err != nil {
		s.reject(kind, err)
		return nil, err
	}
	if _, err := s.Create(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// Create persists a new instance and returns its identifier.
func (s *Service) Create(ctx context.Context, inst *Instance) (string, error) {
	if _, err := s.Definition(inst.Kind()); err != nil {
		return "", err
	}
	id, err := s.store.Create(ctx, inst.Document())
	if err != nil {
		s.reject(inst.Kind(), err)
		return "", fmt.Errorf("create %s: %w", inst.Kind(), err)
	}
	s.logger.Debug("instance created", "kind", inst.Kind(), "id", id)
	if s.observer != nil {
		s.observer.Created(inst.Kind())
	}
	return id, nil
}

// Save persists the current field values of an instance.
func (s *Service) Save(ctx context.Context, inst *Instance) error {
	if _, err := s.Definition(inst.Kind()); err != nil {
		return err
	}
	if err := s.store.Save(ctx, inst.Document()); err != nil {
		return fmt.Errorf("save %s/%s: %w", inst.Kind(), inst.ID(), err)
	}
	s.logger.Debug("instance saved", "kind", inst.Kind(), "id", inst.ID())
	return nil
}

// FindByID loads an instance. A missing document is (nil, false, nil).
func (s *Service) FindByID(ctx context.Context, kind, id string) (*Instance, bool, error) {
	d, err := s.Definition(kind)
	if err != nil {
		return nil, false, err
	}
	if id == "" {
		return nil, false, errors.New("instance ID cannot be empty")
	}

	doc, found, err := s.store.FindByID(ctx, kind, id)
	if err != nil {
		return nil, false, fmt.Errorf("find %s/%s: %w", kind, id, err)
	}
	if s.observer != nil {
		s.observer.Found(kind, found)
	}
	if !found {
		s.logger.Debug("instance not found", "kind", kind, "id", id)
		return nil, false, nil
	}

	inst, err := d.Restore(doc.ID, doc.Fields)
	if err != nil {
		return nil, false, fmt.Errorf("restore %s/%s: %w", kind, id, err)
	}
	return inst, true, nil
}

// List loads every stored instance of kind.
func (s *Service) List(ctx context.Context, kind string) ([]*Instance, error) {
	d, err := s.Definition(kind)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	result := make([]*Instance, 0, len(docs))
	for _, doc := range docs {
		inst, err := d.Restore(doc.ID, doc.Fields)
		if err != nil {
			s.logger.Warn("skipping invalid document", "kind", kind, "id", doc.ID, "error", err)
			continue
		}
		result = append(result, inst)
	}
	return result, nil
}

// Delete removes a stored instance.
func (s *Service) Delete(ctx context.Context, kind, id string) error {
	if id == "" {
		return errors.New("instance ID cannot be empty")
	}
	if err := s.store.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}
	s.logger.Debug("instance deleted", "kind", kind, "id", id)
	return nil
}

// Watch observes changes in the store if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx, pattern)
}

func (s *Service) reject(kind string, err error) {
	s.logger.Debug("instance rejected", "kind", kind, "error", err)
	if s.observer != nil {
		s.observer.Rejected(kind, err)
	}
}
