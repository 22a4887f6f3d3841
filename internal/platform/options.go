package platform

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/humus/pkg/core"
)

// Adapter names understood by Init.
const (
	AdapterMemory = "memory"
	AdapterFS     = "fs"
	AdapterBolt   = "bolt"
)

// DefaultSystemDir marks a humus root and holds local state.
const DefaultSystemDir = ".humus"

// options holds the internal configuration for a humus service.
type options struct {
	store       core.Store
	registry    *core.Registry
	logger      *slog.Logger
	adapter     string
	metrics     prometheus.Registerer
	declareOpts []core.DeclareOption
	config      map[string]any
}

// Option defines a functional option for configuring humus.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		config:  make(map[string]any),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithStore injects a storage adapter. The adapter named by WithAdapter is then skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default), "bolt" or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithRegistry replaces the built-in catalog of kinds.
func WithRegistry(reg *core.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics registers service metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.metrics = reg
	}
}

// WithClock sets the reference clock of the built-in kinds.
func WithClock(c core.Clock) Option {
	return func(o *options) {
		o.declareOpts = append(o.declareOpts, core.WithClock(c))
	}
}

// WithStrictFields makes the built-in kinds reject undeclared fields.
func WithStrictFields(strict bool) Option {
	return func(o *options) {
		o.declareOpts = append(o.declareOpts, core.WithStrict(strict))
	}
}

// WithMustExist requires the storage location to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly.
// Initialization never creates directories or files in this mode.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithFormat sets the file format of the fs adapter: "json" (default) or "yaml".
func WithFormat(format string) Option {
	return func(o *options) {
		o.config["format"] = format
	}
}

// WithStrict makes the fs adapter decode JSON numbers as json.Number.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithSystemDir sets the hidden directory name (default ".humus").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithWatcherErrorHandler receives errors raised by the fs watcher in the background.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
