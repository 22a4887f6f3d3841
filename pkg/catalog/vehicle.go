package catalog

import "github.com/aretw0/humus/pkg/core"

// Vehicle declares a vehicle that depreciates from its initial value since the year of sale.
//
// calculateDepreciationRate returns the sentinel when the vehicle was sold in
// the reference year, since there is no elapsed year to spread the loss over.
func Vehicle(opts ...core.DeclareOption) (*core.Definition, error) {
	return core.Declare(KindVehicle, core.Schema{
		Fields: []core.Field{
			core.Required("manufacturer", core.TypeString),
			core.Required("model", core.TypeString),
			core.Required("milage", core.TypeNumber),
			core.Required("chasis_number", core.TypeNumber),
			core.Required("year_of_assembly", core.TypeNumber),
			core.Required("year_of_sale", core.TypeNumber),
			core.Required("initialValue", core.TypeNumber),
		},
		Derived: []core.Derived{
			{Name: "age", Compute: core.YearsSince("year_of_sale")},
		},
		Behaviors: []core.Behavior{
			{
				Name:   "calculateDepreciationRate",
				Params: []core.Type{core.TypeNumber},
				Uses:   []string{"age"},
				Call: func(s *core.Scope, args ...core.Value) (core.Value, error) {
					current, _ := args[0].Num()
					change := s.Number("initialValue") - current
					return core.Ratio(change, s.Derived("age")), nil
				},
			},
		},
	}, opts...)
}
