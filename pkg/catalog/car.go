package catalog

import "github.com/aretw0/humus/pkg/core"

// Car declares a loosely specified vehicle listing; every field is optional.
func Car(opts ...core.DeclareOption) (*core.Definition, error) {
	return core.Declare(KindCar, core.Schema{
		Fields: []core.Field{
			core.Optional("make", core.TypeString),
			core.Optional("vehicle_model", core.TypeString),
			core.Optional("manufacturer", core.TypeString),
			core.Optional("design", core.TypeString),
			core.Optional("year_sold", core.TypeNumber),
		},
		Derived: []core.Derived{
			{Name: "long_name", Compute: core.Join(" ", "make", "vehicle_model", "year_sold")},
		},
		Behaviors: []core.Behavior{
			{
				Name:   "calculateAge",
				Params: []core.Type{core.TypeNumber},
				Call: func(s *core.Scope, args ...core.Value) (core.Value, error) {
					year, _ := args[0].Num()
					return core.Number(year - s.Number("year_sold")), nil
				},
			},
		},
	}, opts...)
}
