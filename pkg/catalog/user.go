package catalog

import "github.com/aretw0/humus/pkg/core"

// User declares a user account with two string-building behaviors.
func User(opts ...core.DeclareOption) (*core.Definition, error) {
	return core.Declare(KindUser, core.Schema{
		Fields: []core.Field{
			core.Required("first_name", core.TypeString),
			core.Required("last_name", core.TypeString),
			core.Required("email", core.TypeString),
		},
		Behaviors: []core.Behavior{
			{
				Name: "full_name",
				Call: func(s *core.Scope, _ ...core.Value) (core.Value, error) {
					return core.Join(" ", "first_name", "last_name")(s)
				},
			},
			{
				Name: "to_string",
				Uses: []string{"full_name"},
				Call: func(s *core.Scope, _ ...core.Value) (core.Value, error) {
					name := s.Invoke("full_name")
					return core.String("Name: " + name.String() + "  email: " + s.String("email")), nil
				},
			},
		},
	}, opts...)
}
