package catalog

import "github.com/aretw0/humus/pkg/core"

// Child declares a child with a list of friend identifiers.
// electra is required and stored in lower case.
func Child(opts ...core.DeclareOption) (*core.Definition, error) {
	return core.Declare(KindChild, core.Schema{
		Fields: []core.Field{
			core.Optional("name", core.TypeString),
			core.Optional("age", core.TypeNumber),
			core.Optional("friends", core.TypeIDs),
			{Name: "electra", Type: core.TypeString, Lowercase: true},
		},
	}, opts...)
}
