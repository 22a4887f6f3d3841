package platform

import (
	"github.com/aretw0/humus/pkg/typed"
)

// OpenTyped opens a service and binds T to one of its kinds.
func OpenTyped[T any](uri, kind string, opts ...Option) (*typed.Repository[T], error) {
	svc, err := New(uri, opts...)
	if err != nil {
		return nil, err
	}
	repo, err := typed.NewRepository[T](svc, kind)
	if err != nil {
		_ = Close(svc)
		return nil, err
	}
	return repo, nil
}
