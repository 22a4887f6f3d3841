package core

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Instance is one entity conforming to a Definition.
//
// Field values are guarded by a per-instance lock; derived properties and
// behaviors run against a snapshot taken when the call starts.
type Instance struct {
	def *Definition
	id  string

	mu     sync.RWMutex
	values map[string]Value
}

// Instantiate validates values and creates an instance with a fresh identifier.
// Missing required fields and type mismatches fail before any identifier is generated.
func (d *Definition) Instantiate(values map[string]any) (*Instance, error) {
	vals, err := d.build(values)
	if err != nil {
		return nil, err
	}
	return &Instance{def: d, id: d.opts.nextID(), values: vals}, nil
}

// Restore rebuilds an instance with a known identifier, e.g. one read back from a store.
func (d *Definition) Restore(id string, values map[string]any) (*Instance, error) {
	if id == "" {
		return nil, fmt.Errorf("restore %s: %w: empty identifier", d.kind, ErrInvalidArgument)
	}
	vals, err := d.build(values)
	if err != nil {
		return nil, err
	}
	return &Instance{def: d, id: id, values: vals}, nil
}

// Instantiate is the function form of Definition.Instantiate.
func Instantiate(d *Definition, values map[string]any) (*Instance, error) {
	return d.Instantiate(values)
}

func (d *Definition) build(values map[string]any) (map[string]Value, error) {
	if d.opts.strict {
		var unknown []string
		for k := range values {
			if _, ok := d.index[k]; !ok {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, &FieldError{Kind: d.kind, Field: unknown[0], Err: ErrUnknownField}
		}
	}

	out := make(map[string]Value, len(d.fields))
	for _, f := range d.fields {
		raw, ok := values[f.Name]
		if !ok || raw == nil {
			if !f.Optional {
				return nil, &FieldError{Kind: d.kind, Field: f.Name, Err: ErrMissingRequiredField}
			}
			continue
		}
		v, err := d.coerce(f, raw)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (d *Definition) coerce(f Field, raw any) (Value, error) {
	v, err := Coerce(f.Type, raw)
	if err != nil {
		return Value{}, &FieldError{Kind: d.kind, Field: f.Name, Err: err}
	}
	if s, ok := v.Str(); ok {
		if f.Lowercase {
			v = String(strings.ToLower(s))
		}
		if s == "" && !f.Optional {
			return Value{}, &FieldError{Kind: d.kind, Field: f.Name, Err: ErrMissingRequiredField, Detail: "empty string"}
		}
	}
	return v, nil
}

// ID returns the opaque identifier assigned at creation.
func (i *Instance) ID() string { return i.id }

// Kind returns the kind of the instance's definition.
func (i *Instance) Kind() string { return i.def.kind }

// Definition returns the definition the instance conforms to.
func (i *Instance) Definition() *Definition { return i.def }

// Field returns the current value of a declared field.
// An optional field that was never set reads as an absent Value.
func (i *Instance) Field(name string) (Value, error) {
	if _, ok := i.def.index[name]; !ok {
		return Value{}, &FieldError{Kind: i.def.kind, Field: name, Err: ErrUnknownField}
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.values[name], nil
}

// ReadField is the function form of Instance.Field.
func ReadField(i *Instance, name string) (Value, error) {
	return i.Field(name)
}

// Set replaces the value of a declared field. A nil raw value clears an optional field.
func (i *Instance) Set(name string, raw any) error {
	f, ok := i.def.Field(name)
	if !ok {
		return &FieldError{Kind: i.def.kind, Field: name, Err: ErrUnknownField}
	}
	if raw == nil {
		if !f.Optional {
			return &FieldError{Kind: i.def.kind, Field: name, Err: ErrMissingRequiredField}
		}
		i.mu.Lock()
		delete(i.values, name)
		i.mu.Unlock()
		return nil
	}
	v, err := i.def.coerce(f, raw)
	if err != nil {
		return err
	}
	i.mu.Lock()
	i.values[name] = v
	i.mu.Unlock()
	return nil
}

// SetAll replaces every declared field with values[name]; a missing or nil entry
// clears an optional field. Keys that are not declared fields are ignored.
// Nothing changes unless every field validates.
func (i *Instance) SetAll(values map[string]any) error {
	next := make(map[string]Value, len(i.def.fields))
	for _, f := range i.def.fields {
		raw := values[f.Name]
		if raw == nil {
			if !f.Optional {
				return &FieldError{Kind: i.def.kind, Field: f.Name, Err: ErrMissingRequiredField}
			}
			continue
		}
		v, err := i.def.coerce(f, raw)
		if err != nil {
			return err
		}
		next[f.Name] = v
	}
	i.mu.Lock()
	i.values = next
	i.mu.Unlock()
	return nil
}

// Fields returns a snapshot of the set fields as plain Go values.
func (i *Instance) Fields() Metadata {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make(Metadata, len(i.values))
	for k, v := range i.values {
		out[k] = v.Any()
	}
	return out
}

// Document returns the persistable form of the instance.
func (i *Instance) Document() Document {
	return Document{Kind: i.def.kind, ID: i.id, Fields: i.Fields()}
}

// Eval computes a derived property against the current field values.
func (i *Instance) Eval(name string) (Value, error) {
	if _, ok := i.def.derived[name]; !ok {
		return Value{}, &FieldError{Kind: i.def.kind, Field: name, Err: ErrUnknownField, Detail: "no such derived property"}
	}
	return i.newRoot().derive(name)
}

// Evaluate is the function form of Instance.Eval.
func Evaluate(i *Instance, name string) (Value, error) {
	return i.Eval(name)
}

// Invoke calls a bound behavior with arguments converted to its declared parameter types.
func (i *Instance) Invoke(name string, args ...any) (Value, error) {
	b, ok := i.def.behaviors[name]
	if !ok {
		return Value{}, &FieldError{Kind: i.def.kind, Field: name, Err: ErrUnknownField, Detail: "no such behavior"}
	}
	if len(args) != len(b.Params) {
		return Value{}, &FieldError{
			Kind:   i.def.kind,
			Field:  name,
			Err:    ErrInvalidArgument,
			Detail: fmt.Sprintf("want %d arguments, got %d", len(b.Params), len(args)),
		}
	}
	vals := make([]Value, len(args))
	for n, arg := range args {
		v, err := Coerce(b.Params[n], arg)
		if err != nil {
			return Value{}, &FieldError{
				Kind:   i.def.kind,
				Field:  name,
				Err:    ErrInvalidArgument,
				Detail: fmt.Sprintf("argument %d: %v", n, err),
			}
		}
		vals[n] = v
	}
	return i.newRoot().call(name, vals)
}

// Invoke is the function form of Instance.Invoke.
func Invoke(i *Instance, name string, args ...any) (Value, error) {
	return i.Invoke(name, args...)
}

// Snapshot evaluates every derived property. The first failure aborts.
func (i *Instance) Snapshot() (map[string]Value, error) {
	root := i.newRoot()
	out := make(map[string]Value)
	for _, name := range i.def.DerivedNames() {
		v, err := root.derive(name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func (i *Instance) snapshot() map[string]Value {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make(map[string]Value, len(i.values))
	for k, v := range i.values {
		if v.kind == KindIDs {
			v.ids = slices.Clone(v.ids)
		}
		out[k] = v
	}
	return out
}
