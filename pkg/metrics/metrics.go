// Package metrics counts entity service operations with prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/humus/pkg/core"
)

// Metrics implements core.Observer.
type Metrics struct {
	InstancesCreated *prometheus.CounterVec
	Lookups          *prometheus.CounterVec
	Rejections       *prometheus.CounterVec
}

// New registers the service metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		InstancesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "humus_instances_created_total",
			Help: "Total number of entity instances persisted",
		}, []string{"kind"}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "humus_lookups_total",
			Help: "Total number of lookups by identifier, by result",
		}, []string{"kind", "result"}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "humus_rejections_total",
			Help: "Total number of instances rejected at creation, by reason",
		}, []string{"kind", "reason"}),
	}
}

// Created records a persisted instance.
func (m *Metrics) Created(kind string) {
	m.InstancesCreated.WithLabelValues(kind).Inc()
}

// Found records a lookup and whether it hit.
func (m *Metrics) Found(kind string, found bool) {
	result := "missing"
	if found {
		result = "found"
	}
	m.Lookups.WithLabelValues(kind, result).Inc()
}

// Rejected records a failed creation.
func (m *Metrics) Rejected(kind string, err error) {
	m.Rejections.WithLabelValues(kind, Reason(err)).Inc()
}

// Reason maps an error to a low-cardinality label.
func Reason(err error) string {
	switch {
	case errors.Is(err, core.ErrMissingRequiredField):
		return "missing_field"
	case errors.Is(err, core.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, core.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, core.ErrAlreadyExists):
		return "duplicate"
	case errors.Is(err, core.ErrReadOnly):
		return "read_only"
	default:
		return "other"
	}
}

var _ core.Observer = (*Metrics)(nil)
