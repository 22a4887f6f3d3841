package catalog

import (
	"fmt"

	"github.com/aretw0/humus/pkg/core"
)

// Product declares a product with its sales derivations.
//
// profit and loss are the sentinel when they would not be strictly positive;
// discount floors at zero instead.
func Product(opts ...core.DeclareOption) (*core.Definition, error) {
	return core.Declare(KindProduct, core.Schema{
		Fields: []core.Field{
			core.Required("marked_price", core.TypeNumber),
			core.Required("name", core.TypeString),
			core.Required("selling_price", core.TypeNumber),
			core.Required("buying_price", core.TypeNumber),
		},
		Derived: []core.Derived{
			{Name: "profit", Compute: core.PositiveGain("selling_price", "buying_price")},
			{Name: "loss", Compute: core.PositiveGain("buying_price", "selling_price")},
			{
				Name: "discount",
				Compute: func(s *core.Scope) (core.Value, error) {
					return core.FloorZero(s.Number("marked_price") - s.Number("selling_price")), nil
				},
			},
		},
		Behaviors: []core.Behavior{
			{
				Name: "salesData",
				Uses: []string{"profit", "loss", "discount"},
				Call: func(s *core.Scope, _ ...core.Value) (core.Value, error) {
					return core.String(fmt.Sprintf("{ profit: %s, loss: %s, discount: %s }",
						s.Derived("profit"), s.Derived("loss"), s.Derived("discount"))), nil
				},
			},
		},
	}, opts...)
}
