package humus

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/humus/internal/platform"
	"github.com/aretw0/humus/pkg/core"
	"github.com/aretw0/humus/pkg/typed"
)

// --- Types ---

// Service binds the registered kinds to a document store.
type Service = core.Service

// Instance is a validated entity.
type Instance = core.Instance

// Value is the result of a field read, a derivation or a behavior.
type Value = core.Value

// Model is a public alias for the typed instance model.
type Model[T any] = typed.Model[T]

// TypedRepository is a public alias for the typed repository.
type TypedRepository[T any] = typed.Repository[T]

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = platform.AdapterFS
	AdapterBolt   = platform.AdapterBolt
	AdapterMemory = platform.AdapterMemory
)

// ConfigFile is the optional configuration file that also marks a root.
const ConfigFile = platform.ConfigFile

// --- Configuration ---

// Option defines a functional option for configuring humus.
type Option = platform.Option

// WithStore injects a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithRegistry replaces the built-in catalog of kinds.
func WithRegistry(reg *core.Registry) Option {
	return platform.WithRegistry(reg)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithMetrics registers the service counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return platform.WithMetrics(reg)
}

// WithClock sets the reference clock used by the built-in kinds.
func WithClock(c core.Clock) Option {
	return platform.WithClock(c)
}

// WithStrictFields rejects undeclared fields on the built-in kinds.
func WithStrictFields(strict bool) Option {
	return platform.WithStrictFields(strict)
}

// WithMustExist ensures the storage location already exists.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the store in read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithFormat sets the document format of the fs adapter ("json" or "yaml").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithStrict preserves JSON numbers as json.Number in the fs adapter.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithSystemDir sets the hidden directory name (e.g. ".humus").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithWatcherErrorHandler receives background errors of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a service over the store at uri.
func New(uri string, opts ...Option) (*core.Service, error) {
	return platform.New(uri, opts...)
}

// Init initializes a store explicitly.
func Init(uri string, opts ...Option) (core.Store, error) {
	return platform.Init(uri, opts...)
}

// Close releases the store of svc.
func Close(svc *core.Service) error {
	return platform.Close(svc)
}

// --- Typed Factories ---

// NewTyped binds T to kind on an existing service.
func NewTyped[T any](svc *core.Service, kind string) (*typed.Repository[T], error) {
	return typed.NewRepository[T](svc, kind)
}

// OpenTyped opens a service at uri and binds T to kind.
func OpenTyped[T any](uri, kind string, opts ...Option) (*typed.Repository[T], error) {
	return platform.OpenTyped[T](uri, kind, opts...)
}

// --- Utils ---

// FindRoot looks upwards from startDir for a humus root.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
