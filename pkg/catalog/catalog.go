// Package catalog declares the built-in entity kinds: computers, vehicles,
// cars, houses, children, users and products, with their derived
// properties and behaviors.
package catalog

import (
	"github.com/aretw0/humus/pkg/core"
)

// Kind names of the built-in definitions.
const (
	KindComputer = "computer"
	KindVehicle  = "vehicle"
	KindCar      = "car"
	KindHouse    = "house"
	KindChild    = "child"
	KindUser     = "user"
	KindProduct  = "product"
)

// Declarations lists the constructors of every built-in definition.
var Declarations = []func(opts ...core.DeclareOption) (*core.Definition, error){
	Computer,
	Vehicle,
	Car,
	House,
	Child,
	User,
	Product,
}

// NewRegistry declares every built-in kind with opts and registers it.
func NewRegistry(opts ...core.DeclareOption) (*core.Registry, error) {
	reg, err := core.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, declare := range Declarations {
		d, err := declare(opts...)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
