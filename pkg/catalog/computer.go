package catalog

import "github.com/aretw0/humus/pkg/core"

// Computer declares a computer whose age is counted from the year it was made.
func Computer(opts ...core.DeclareOption) (*core.Definition, error) {
	return core.Declare(KindComputer, core.Schema{
		Fields: []core.Field{
			core.Required("manufacturer", core.TypeString),
			core.Required("model_name", core.TypeString),
			core.Required("model_number", core.TypeString),
			core.Required("serial_number", core.TypeString),
			core.Required("year_made", core.TypeNumber),
		},
		Derived: []core.Derived{
			{Name: "age", Compute: core.YearsSince("year_made")},
		},
		Behaviors: []core.Behavior{
			{
				Name: "getFullName",
				Call: func(s *core.Scope, _ ...core.Value) (core.Value, error) {
					return core.Join(" ", "manufacturer", "model_name", "model_number")(s)
				},
			},
		},
	}, opts...)
}
