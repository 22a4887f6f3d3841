package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/humus/pkg/core"
)

func constant(v core.Value) func(*core.Scope) (core.Value, error) {
	return func(*core.Scope) (core.Value, error) { return v, nil }
}

func noop(*core.Scope, ...core.Value) (core.Value, error) {
	return core.String("ok"), nil
}

func TestDeclare_Valid(t *testing.T) {
	d, err := core.Declare("gadget", core.Schema{
		Fields: []core.Field{
			core.Required("name", core.TypeString),
			core.Optional("year", core.TypeNumber),
			core.Optional("parts", core.TypeIDs),
		},
		Derived:   []core.Derived{{Name: "label", Uses: []string{"name"}, Compute: constant(core.String("x"))}},
		Behaviors: []core.Behavior{{Name: "ping", Params: []core.Type{core.TypeNumber}, Call: noop}},
	})
	require.NoError(t, err)

	assert.Equal(t, "gadget", d.Kind())
	assert.Len(t, d.Fields(), 3)
	assert.Equal(t, []string{"label"}, d.DerivedNames())
	assert.Equal(t, []string{"ping"}, d.BehaviorNames())

	f, ok := d.Field("year")
	require.True(t, ok)
	assert.True(t, f.Optional)
	assert.Equal(t, core.TypeNumber, f.Type)

	b, ok := d.Behavior("ping")
	require.True(t, ok)
	assert.Equal(t, []core.Type{core.TypeNumber}, b.Params)
}

func TestDeclare_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		schema core.Schema
	}{
		{
			name: "duplicate field",
			kind: "a",
			schema: core.Schema{Fields: []core.Field{
				core.Required("x", core.TypeString),
				core.Optional("x", core.TypeNumber),
			}},
		},
		{
			name:   "unknown type",
			kind:   "a",
			schema: core.Schema{Fields: []core.Field{core.Required("x", core.Type("date"))}},
		},
		{
			name:   "bad kind",
			kind:   "not a kind",
			schema: core.Schema{},
		},
		{
			name: "derived collides with field",
			kind: "a",
			schema: core.Schema{
				Fields:  []core.Field{core.Required("x", core.TypeString)},
				Derived: []core.Derived{{Name: "x", Compute: constant(core.Number(1))}},
			},
		},
		{
			name: "behavior collides with derived",
			kind: "a",
			schema: core.Schema{
				Derived:   []core.Derived{{Name: "x", Compute: constant(core.Number(1))}},
				Behaviors: []core.Behavior{{Name: "x", Call: noop}},
			},
		},
		{
			name:   "nil computation",
			kind:   "a",
			schema: core.Schema{Derived: []core.Derived{{Name: "x"}}},
		},
		{
			name:   "bad parameter type",
			kind:   "a",
			schema: core.Schema{Behaviors: []core.Behavior{{Name: "x", Params: []core.Type{"bool"}, Call: noop}}},
		},
		{
			name:   "lowercase number",
			kind:   "a",
			schema: core.Schema{Fields: []core.Field{{Name: "x", Type: core.TypeNumber, Lowercase: true}}},
		},
		{
			name: "unknown dependency",
			kind: "a",
			schema: core.Schema{
				Derived: []core.Derived{{Name: "x", Uses: []string{"ghost"}, Compute: constant(core.Number(1))}},
			},
		},
		{
			name: "derived uses behavior",
			kind: "a",
			schema: core.Schema{
				Derived:   []core.Derived{{Name: "x", Uses: []string{"b"}, Compute: constant(core.Number(1))}},
				Behaviors: []core.Behavior{{Name: "b", Call: noop}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.Declare(tt.kind, tt.schema)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidDefinition)
			assert.NotErrorIs(t, err, core.ErrCyclicDerivation)
		})
	}
}

func TestDeclare_Cycles(t *testing.T) {
	t.Run("between derived properties", func(t *testing.T) {
		_, err := core.Declare("loop", core.Schema{
			Derived: []core.Derived{
				{Name: "a", Uses: []string{"b"}, Compute: constant(core.Number(1))},
				{Name: "b", Uses: []string{"c"}, Compute: constant(core.Number(1))},
				{Name: "c", Uses: []string{"a"}, Compute: constant(core.Number(1))},
			},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidDefinition)
		assert.ErrorIs(t, err, core.ErrCyclicDerivation)
		assert.Contains(t, err.Error(), "a -> b -> c -> a")
	})

	t.Run("self reference", func(t *testing.T) {
		_, err := core.Declare("loop", core.Schema{
			Derived: []core.Derived{{Name: "a", Uses: []string{"a"}, Compute: constant(core.Number(1))}},
		})
		assert.ErrorIs(t, err, core.ErrCyclicDerivation)
	})

	t.Run("between behaviors", func(t *testing.T) {
		_, err := core.Declare("loop", core.Schema{
			Behaviors: []core.Behavior{
				{Name: "ping", Uses: []string{"pong"}, Call: noop},
				{Name: "pong", Uses: []string{"ping"}, Call: noop},
			},
		})
		assert.ErrorIs(t, err, core.ErrCyclicDerivation)
	})

	t.Run("diamond is not a cycle", func(t *testing.T) {
		_, err := core.Declare("diamond", core.Schema{
			Fields: []core.Field{core.Required("n", core.TypeNumber)},
			Derived: []core.Derived{
				{Name: "top", Uses: []string{"left", "right"}, Compute: constant(core.Number(1))},
				{Name: "left", Uses: []string{"base"}, Compute: constant(core.Number(1))},
				{Name: "right", Uses: []string{"base"}, Compute: constant(core.Number(1))},
				{Name: "base", Uses: []string{"n"}, Compute: constant(core.Number(1))},
			},
		})
		assert.NoError(t, err)
	})
}

func TestRegistry(t *testing.T) {
	a, err := core.Declare("alpha", core.Schema{})
	require.NoError(t, err)
	b, err := core.Declare("beta", core.Schema{})
	require.NoError(t, err)

	reg, err := core.NewRegistry(b, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, reg.Kinds())

	got, ok := reg.Lookup("alpha")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = reg.Lookup("gamma")
	assert.False(t, ok)

	err = reg.Register(a)
	assert.ErrorIs(t, err, core.ErrInvalidDefinition)
	assert.ErrorIs(t, reg.Register(nil), core.ErrInvalidDefinition)
}
