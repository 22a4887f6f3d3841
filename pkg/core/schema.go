package core

import (
	"regexp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Field declares one typed field of a definition.
type Field struct {
	Name     string
	Type     Type
	Optional bool
	// Lowercase folds string values to lower case when they are set.
	Lowercase bool
}

// Required declares a required field.
func Required(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// Optional declares a field that may be left unset.
func Optional(name string, t Type) Field {
	return Field{Name: name, Type: t, Optional: true}
}

// Derived is a read-only property computed from an instance on every read.
type Derived struct {
	Name string
	// Uses lists the other derived properties read through Scope.Derived.
	Uses    []string
	Compute func(s *Scope) (Value, error)
}

// Behavior is a named operation bound to an instance.
type Behavior struct {
	Name   string
	Params []Type
	// Uses lists the derived properties and behaviors reached through the scope.
	Uses []string
	Call func(s *Scope, args ...Value) (Value, error)
}

// Schema is everything Declare needs to build a definition.
type Schema struct {
	Fields    []Field
	Derived   []Derived
	Behaviors []Behavior
}

// Clock supplies the reference time for time-dependent derivations.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FixedYear returns a clock pinned to January 1st of year.
func FixedYear(year int) Clock {
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return ClockFunc(func() time.Time { return t })
}

type declareOptions struct {
	clock  Clock
	nextID func() string
	strict bool
}

// DeclareOption configures a definition.
type DeclareOption func(*declareOptions)

// WithClock sets the clock used by Scope.Now and Scope.Year.
func WithClock(c Clock) DeclareOption {
	return func(o *declareOptions) {
		o.clock = c
	}
}

// WithIDGenerator replaces the uuid identifier generator.
func WithIDGenerator(fn func() string) DeclareOption {
	return func(o *declareOptions) {
		o.nextID = fn
	}
}

// WithStrict makes Instantiate reject undeclared keys instead of dropping them.
func WithStrict(strict bool) DeclareOption {
	return func(o *declareOptions) {
		o.strict = strict
	}
}

// Definition is a validated, immutable entity shape.
type Definition struct {
	kind      string
	fields    []Field
	index     map[string]int
	derived   map[string]Derived
	behaviors map[string]Behavior
	order     []string // derived then behavior names, declaration order
	opts      declareOptions
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Declare validates schema and returns the definition of kind.
//
// Every failure matches ErrInvalidDefinition. Dependency cycles between
// derived properties and behaviors also match ErrCyclicDerivation.
func Declare(kind string, schema Schema, opts ...DeclareOption) (*Definition, error) {
	o := declareOptions{
		clock:  ClockFunc(time.Now),
		nextID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !namePattern.MatchString(kind) {
		return nil, defErr(kind, "", ErrInvalidDefinition, "kind must be an identifier")
	}

	d := &Definition{
		kind:      kind,
		fields:    slices.Clone(schema.Fields),
		index:     make(map[string]int, len(schema.Fields)),
		derived:   make(map[string]Derived, len(schema.Derived)),
		behaviors: make(map[string]Behavior, len(schema.Behaviors)),
		opts:      o,
	}

	taken := make(map[string]string)
	claim := func(name, what string) error {
		if !namePattern.MatchString(name) {
			return defErr(kind, name, ErrInvalidDefinition, "%s name must be an identifier", what)
		}
		if prev, ok := taken[name]; ok {
			return defErr(kind, name, ErrInvalidDefinition, "%s name already used by a %s", what, prev)
		}
		taken[name] = what
		return nil
	}

	for i, f := range d.fields {
		if err := claim(f.Name, "field"); err != nil {
			return nil, err
		}
		if !f.Type.Valid() {
			return nil, defErr(kind, f.Name, ErrInvalidDefinition, "unrecognized type %q", f.Type)
		}
		if f.Lowercase && f.Type != TypeString {
			return nil, defErr(kind, f.Name, ErrInvalidDefinition, "lowercase applies to string fields only")
		}
		d.index[f.Name] = i
	}

	for _, p := range schema.Derived {
		if err := claim(p.Name, "derived property"); err != nil {
			return nil, err
		}
		if p.Compute == nil {
			return nil, defErr(kind, p.Name, ErrInvalidDefinition, "derived property has no computation")
		}
		p.Uses = slices.Clone(p.Uses)
		d.derived[p.Name] = p
		d.order = append(d.order, p.Name)
	}

	for _, b := range schema.Behaviors {
		if err := claim(b.Name, "behavior"); err != nil {
			return nil, err
		}
		if b.Call == nil {
			return nil, defErr(kind, b.Name, ErrInvalidDefinition, "behavior has no implementation")
		}
		for _, t := range b.Params {
			if !t.Valid() {
				return nil, defErr(kind, b.Name, ErrInvalidDefinition, "unrecognized parameter type %q", t)
			}
		}
		b.Params = slices.Clone(b.Params)
		b.Uses = slices.Clone(b.Uses)
		d.behaviors[b.Name] = b
		d.order = append(d.order, b.Name)
	}

	if err := d.checkDependencies(); err != nil {
		return nil, err
	}
	return d, nil
}

// Kind returns the entity kind name.
func (d *Definition) Kind() string { return d.kind }

// Fields returns the field declarations in declaration order.
func (d *Definition) Fields() []Field { return slices.Clone(d.fields) }

// Field looks up a field declaration by name.
func (d *Definition) Field(name string) (Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// DerivedNames returns the derived property names in declaration order.
func (d *Definition) DerivedNames() []string {
	var names []string
	for _, n := range d.order {
		if _, ok := d.derived[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// BehaviorNames returns the behavior names in declaration order.
func (d *Definition) BehaviorNames() []string {
	var names []string
	for _, n := range d.order {
		if _, ok := d.behaviors[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// Behavior looks up a behavior declaration by name.
func (d *Definition) Behavior(name string) (Behavior, bool) {
	b, ok := d.behaviors[name]
	return b, ok
}

// Now returns the definition clock's current time.
func (d *Definition) Now() time.Time { return d.opts.clock.Now() }
