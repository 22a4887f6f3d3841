package platform

import (
	"github.com/aretw0/humus/pkg/catalog"
	"github.com/aretw0/humus/pkg/core"
	"github.com/aretw0/humus/pkg/metrics"
)

// New wires a registry, a store and the optional metrics into a service.
//
//	svc, err := humus.New("./data", humus.WithFormat("yaml"))
func New(uri string, opts ...Option) (*core.Service, error) {
	o := buildOptions(opts)

	registry := o.registry
	if registry == nil {
		var err error
		registry, err = catalog.NewRegistry(o.declareOpts...)
		if err != nil {
			return nil, err
		}
	}

	store, err := initStore(uri, o)
	if err != nil {
		return nil, err
	}

	svcOpts := []core.ServiceOption{core.WithServiceLogger(o.logger)}
	if o.metrics != nil {
		svcOpts = append(svcOpts, core.WithObserver(metrics.New(o.metrics)))
	}
	return core.NewService(registry, store, svcOpts...), nil
}
