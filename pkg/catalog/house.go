package catalog

import (
	"strings"

	"github.com/aretw0/humus/pkg/core"
)

// House declares a house listing. No field is required.
func House(opts ...core.DeclareOption) (*core.Definition, error) {
	return core.Declare(KindHouse, core.Schema{
		Fields: []core.Field{
			core.Optional("longitude", core.TypeNumber),
			core.Optional("latitude", core.TypeNumber),
			core.Optional("city", core.TypeString),
			core.Optional("bedrooms", core.TypeNumber),
			core.Optional("washrooms", core.TypeNumber),
			core.Optional("bathrooms", core.TypeNumber),
		},
		Behaviors: []core.Behavior{
			{
				// details prints unset fields as empty columns.
				Name: "details",
				Call: func(s *core.Scope, _ ...core.Value) (core.Value, error) {
					cols := []string{"bedrooms", "bathrooms", "washrooms", "latitude", "longitude"}
					parts := make([]string, len(cols))
					for i, c := range cols {
						parts[i] = s.Value(c).String()
					}
					return core.String(strings.Join(parts, " ")), nil
				},
			},
		},
	}, opts...)
}
