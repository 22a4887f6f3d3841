package platform_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/humus/internal/platform"
	"github.com/aretw0/humus/pkg/catalog"
	"github.com/aretw0/humus/pkg/core"
)

type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func TestNew_EndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg := prometheus.NewRegistry()

	svc, err := platform.New(dir, platform.WithClock(core.FixedYear(2020)), platform.WithMetrics(reg))
	require.NoError(t, err)
	assert.Contains(t, svc.Registry().Kinds(), catalog.KindProduct)

	p, err := svc.New(ctx, catalog.KindProduct, map[string]any{
		"name":          "Mac Book Pro",
		"marked_price":  460000,
		"selling_price": 458900,
		"buying_price":  430080,
	})
	require.NoError(t, err)

	// A second service over the same directory sees the document.
	other, err := platform.New(dir, platform.WithMustExist(true), platform.WithReadOnly(true))
	require.NoError(t, err)
	got, found, err := other.FindByID(ctx, catalog.KindProduct, p.ID())
	require.NoError(t, err)
	require.True(t, found)

	snap, err := got.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "1100", snap["discount"].String())
	assert.Equal(t, "28820", snap["profit"].String())
	assert.False(t, snap["loss"].IsApplicable())

	_, err = other.New(ctx, catalog.KindProduct, map[string]any{
		"name": "x", "marked_price": 1, "selling_price": 1, "buying_price": 1,
	})
	assert.ErrorIs(t, err, core.ErrReadOnly)

	count, err := testutil.GatherAndCount(reg, "humus_instances_created_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNew_StrictFields(t *testing.T) {
	svc, err := platform.New("", platform.WithAdapter(platform.AdapterMemory), platform.WithStrictFields(true))
	require.NoError(t, err)

	_, err = svc.New(context.Background(), catalog.KindChild, map[string]any{"electra": "x", "pet": "cat"})
	assert.ErrorIs(t, err, core.ErrUnknownField)
}

func TestNew_CustomRegistry(t *testing.T) {
	d, err := core.Declare("note", core.Schema{Fields: []core.Field{core.Required("text", core.TypeString)}})
	require.NoError(t, err)
	reg, err := core.NewRegistry(d)
	require.NoError(t, err)

	svc, err := platform.New("", platform.WithAdapter(platform.AdapterMemory), platform.WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, []string{"note"}, svc.Registry().Kinds())
}

func TestOpenTyped(t *testing.T) {
	ctx := context.Background()
	users, err := platform.OpenTyped[User](t.TempDir(), catalog.KindUser)
	require.NoError(t, err)

	m, err := users.Create(ctx, User{FirstName: "Erick", LastName: "Bret", Email: "erickbret@gmail.com"})
	require.NoError(t, err)

	s, err := m.Invoke("to_string")
	require.NoError(t, err)
	assert.Equal(t, "Name: Erick Bret  email: erickbret@gmail.com", s.String())

	_, err = platform.OpenTyped[User](t.TempDir(), "robot")
	assert.ErrorIs(t, err, core.ErrUnknownKind)
}
