package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/humus/pkg/core"
)

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return fmt.Sprintf("id-%d", c.n)
}

func (c *counter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func declareMachine(t *testing.T, opts ...core.DeclareOption) *core.Definition {
	t.Helper()
	d, err := core.Declare("machine", core.Schema{
		Fields: []core.Field{
			core.Required("maker", core.TypeString),
			core.Required("year", core.TypeNumber),
			core.Optional("nickname", core.TypeString),
			core.Optional("peers", core.TypeIDs),
			{Name: "tag", Type: core.TypeString, Optional: true, Lowercase: true},
		},
		Derived: []core.Derived{
			{Name: "age", Compute: core.YearsSince("year")},
			{Name: "doubleAge", Uses: []string{"age"}, Compute: func(s *core.Scope) (core.Value, error) {
				age, _ := s.Derived("age").Num()
				return core.Number(2 * age), nil
			}},
			{Name: "title", Compute: core.Join(" ", "maker", "nickname")},
			{Name: "sneaky", Compute: func(s *core.Scope) (core.Value, error) {
				return s.Derived("age"), nil
			}},
		},
		Behaviors: []core.Behavior{
			{Name: "ageIn", Params: []core.Type{core.TypeNumber}, Call: func(s *core.Scope, args ...core.Value) (core.Value, error) {
				y, _ := args[0].Num()
				return core.Number(y - s.Number("year")), nil
			}},
			{Name: "describe", Uses: []string{"ageIn", "age"}, Call: func(s *core.Scope, _ ...core.Value) (core.Value, error) {
				return core.String(fmt.Sprintf("%s/%s/%s", s.String("maker"), s.Derived("age"), s.Invoke("ageIn", core.Number(2030)))), nil
			}},
			{Name: "nick", Call: func(s *core.Scope, _ ...core.Value) (core.Value, error) {
				return core.String(s.String("nickname")), nil
			}},
		},
	}, opts...)
	require.NoError(t, err)
	return d
}

func TestInstantiate(t *testing.T) {
	ids := &counter{}
	d := declareMachine(t, core.WithIDGenerator(ids.next), core.WithClock(core.FixedYear(2020)))

	inst, err := d.Instantiate(map[string]any{
		"maker": "Acme",
		"year":  2012,
		"peers": []string{"p1", "p2"},
		"tag":   "MiXeD",
		"extra": "dropped",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", inst.ID())
	assert.Equal(t, "machine", inst.Kind())

	maker, err := inst.Field("maker")
	require.NoError(t, err)
	assert.True(t, maker.Equal(core.String("Acme")))

	year, err := core.ReadField(inst, "year")
	require.NoError(t, err)
	assert.True(t, year.Equal(core.Number(2012)))

	tag, _ := inst.Field("tag")
	assert.Equal(t, "mixed", tag.String())

	nick, err := inst.Field("nickname")
	require.NoError(t, err)
	assert.True(t, nick.IsAbsent())

	_, err = inst.Field("extra")
	assert.ErrorIs(t, err, core.ErrUnknownField)

	assert.Equal(t, core.Metadata{
		"maker": "Acme",
		"year":  float64(2012),
		"peers": []string{"p1", "p2"},
		"tag":   "mixed",
	}, inst.Fields())
}

func TestInstantiate_Failures(t *testing.T) {
	ids := &counter{}
	d := declareMachine(t, core.WithIDGenerator(ids.next))

	tests := []struct {
		name   string
		values map[string]any
		want   error
	}{
		{"missing required", map[string]any{"year": 2012}, core.ErrMissingRequiredField},
		{"nil required", map[string]any{"maker": nil, "year": 2012}, core.ErrMissingRequiredField},
		{"empty required string", map[string]any{"maker": "", "year": 2012}, core.ErrMissingRequiredField},
		{"string for number", map[string]any{"maker": "Acme", "year": "2012"}, core.ErrTypeMismatch},
		{"number for string", map[string]any{"maker": 7, "year": 2012}, core.ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := d.Instantiate(tt.values)
			assert.Nil(t, inst)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, ids.calls(), "no identifier is allocated for a rejected instance")
}

func TestInstantiate_Strict(t *testing.T) {
	d := declareMachine(t, core.WithStrict(true))
	_, err := core.Instantiate(d, map[string]any{"maker": "Acme", "year": 1, "colour": "red"})
	require.ErrorIs(t, err, core.ErrUnknownField)

	var fe *core.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "colour", fe.Field)
}

func TestRestore(t *testing.T) {
	d := declareMachine(t)
	inst, err := d.Restore("known", map[string]any{"maker": "Acme", "year": float64(1999)})
	require.NoError(t, err)
	assert.Equal(t, "known", inst.ID())

	_, err = d.Restore("", map[string]any{"maker": "Acme", "year": 1999})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestInstance_Set(t *testing.T) {
	d := declareMachine(t, core.WithClock(core.FixedYear(2020)))
	inst, err := d.Instantiate(map[string]any{"maker": "Acme", "year": 2012})
	require.NoError(t, err)

	require.NoError(t, inst.Set("year", 2015))
	age, err := inst.Eval("age")
	require.NoError(t, err)
	assert.Equal(t, "5", age.String())

	require.NoError(t, inst.Set("nickname", "Bolt"))
	require.NoError(t, inst.Set("nickname", nil))
	nick, _ := inst.Field("nickname")
	assert.True(t, nick.IsAbsent())

	assert.ErrorIs(t, inst.Set("year", "soon"), core.ErrTypeMismatch)
	assert.ErrorIs(t, inst.Set("maker", nil), core.ErrMissingRequiredField)
	assert.ErrorIs(t, inst.Set("colour", "red"), core.ErrUnknownField)
}

func TestInstance_SetAll(t *testing.T) {
	d := declareMachine(t, core.WithClock(core.FixedYear(2020)))
	inst, err := d.Instantiate(map[string]any{"maker": "Acme", "year": 2012, "nickname": "Bolt"})
	require.NoError(t, err)

	require.NoError(t, inst.SetAll(map[string]any{"maker": "Initech", "year": 2015, "colour": "red"}))
	assert.Equal(t, core.Metadata{"maker": "Initech", "year": 2015.0}, inst.Fields())

	before := inst.Fields()
	err = inst.SetAll(map[string]any{"maker": "Globex", "year": "soon"})
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
	assert.Equal(t, before, inst.Fields(), "a failed update changes nothing")

	err = inst.SetAll(map[string]any{"year": 2001})
	assert.ErrorIs(t, err, core.ErrMissingRequiredField)
	assert.Equal(t, before, inst.Fields())
}

func TestInstance_Eval(t *testing.T) {
	d := declareMachine(t, core.WithClock(core.FixedYear(2020)))
	inst, err := d.Instantiate(map[string]any{"maker": "Acme", "year": 2012})
	require.NoError(t, err)

	age, err := core.Evaluate(inst, "age")
	require.NoError(t, err)
	assert.True(t, age.Equal(core.Number(8)))

	double, err := inst.Eval("doubleAge")
	require.NoError(t, err)
	assert.True(t, double.Equal(core.Number(16)))

	_, err = inst.Eval("title")
	assert.ErrorIs(t, err, core.ErrFieldUnset, "optional nickname is unset")

	_, err = inst.Eval("sneaky")
	assert.ErrorIs(t, err, core.ErrUndeclaredDependency)

	_, err = inst.Eval("ghost")
	assert.ErrorIs(t, err, core.ErrUnknownField)

	require.NoError(t, inst.Set("nickname", "Bolt"))
	title, err := inst.Eval("title")
	require.NoError(t, err)
	assert.Equal(t, "Acme Bolt", title.String())
}

func TestInstance_EvalAgeGrowsWithTime(t *testing.T) {
	for _, year := range []int{2012, 2020, 2045} {
		d := declareMachine(t, core.WithClock(core.FixedYear(year)))
		inst, err := d.Instantiate(map[string]any{"maker": "Acme", "year": 2012})
		require.NoError(t, err)

		age, err := inst.Eval("age")
		require.NoError(t, err)
		n, _ := age.Num()
		assert.Equal(t, float64(year-2012), n)
	}
}

func TestInstance_Invoke(t *testing.T) {
	d := declareMachine(t, core.WithClock(core.FixedYear(2020)))
	inst, err := d.Instantiate(map[string]any{"maker": "Acme", "year": 2012})
	require.NoError(t, err)

	v, err := inst.Invoke("ageIn", 2014)
	require.NoError(t, err)
	assert.True(t, v.Equal(core.Number(2)))

	v, err = core.Invoke(inst, "describe")
	require.NoError(t, err)
	assert.Equal(t, "Acme/8/18", v.String())

	_, err = inst.Invoke("ageIn")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = inst.Invoke("ageIn", "2014")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = inst.Invoke("nick")
	assert.ErrorIs(t, err, core.ErrFieldUnset)

	_, err = inst.Invoke("fly")
	assert.ErrorIs(t, err, core.ErrUnknownField)
}

func TestInstance_Snapshot(t *testing.T) {
	d := declareMachine(t, core.WithClock(core.FixedYear(2020)))
	inst, err := d.Instantiate(map[string]any{"maker": "Acme", "year": 2012})
	require.NoError(t, err)

	_, err = inst.Snapshot()
	assert.Error(t, err, "title needs the nickname")

	require.NoError(t, inst.Set("nickname", "Bolt"))
	_, err = inst.Snapshot()
	assert.ErrorIs(t, err, core.ErrUndeclaredDependency, "sneaky reads age without declaring it")
}

func TestInstance_ConcurrentAccess(t *testing.T) {
	d := declareMachine(t, core.WithClock(core.FixedYear(2020)))
	inst, err := d.Instantiate(map[string]any{"maker": "Acme", "year": 2012})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = inst.Set("year", 2000+i)
		}()
		go func() {
			defer wg.Done()
			_, err := inst.Eval("doubleAge")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
