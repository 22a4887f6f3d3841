package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/humus/pkg/adapters/memory"
	"github.com/aretw0/humus/pkg/catalog"
	"github.com/aretw0/humus/pkg/core"
	"github.com/aretw0/humus/pkg/metrics"
)

func TestMetrics_ObservesService(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	reg, err := catalog.NewRegistry()
	require.NoError(t, err)
	svc := core.NewService(reg, memory.NewStore(), core.WithObserver(m))

	child, err := svc.New(ctx, catalog.KindChild, map[string]any{"electra": "Yes"})
	require.NoError(t, err)
	_, err = svc.New(ctx, catalog.KindChild, map[string]any{"name": "Ada"})
	require.Error(t, err)

	_, _, err = svc.FindByID(ctx, catalog.KindChild, child.ID())
	require.NoError(t, err)
	_, _, err = svc.FindByID(ctx, catalog.KindChild, "missing")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InstancesCreated.WithLabelValues("child")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("child", "missing_field")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("child", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("child", "missing")))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "type_mismatch", metrics.Reason(&core.FieldError{Err: core.ErrTypeMismatch}))
	assert.Equal(t, "duplicate", metrics.Reason(core.ErrAlreadyExists))
	assert.Equal(t, "other", metrics.Reason(errors.New("boom")))
}
