package core

import (
	"slices"
	"time"
)

// evaluation is shared by every scope of one top-level Eval or Invoke call.
type evaluation struct {
	inst   *Instance
	values map[string]Value
	now    time.Time
}

func (i *Instance) newRoot() *evaluation {
	return &evaluation{inst: i, values: i.snapshot(), now: i.def.opts.clock.Now()}
}

func (e *evaluation) derive(name string) (Value, error) {
	p := e.inst.def.derived[name]
	s := &Scope{eval: e, name: name, uses: p.Uses}
	v, err := p.Compute(s)
	if s.err != nil {
		return Value{}, s.err
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func (e *evaluation) call(name string, args []Value) (Value, error) {
	b := e.inst.def.behaviors[name]
	s := &Scope{eval: e, name: name, uses: b.Uses}
	v, err := b.Call(s, args...)
	if s.err != nil {
		return Value{}, s.err
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// Scope is the read-only view a derived property or behavior gets of its instance.
//
// Accessors never fail loudly: the first problem is recorded and returned by
// Eval or Invoke once the computation returns, and accessors hand back zero values.
type Scope struct {
	eval *evaluation
	name string
	uses []string
	err  error
}

// ID returns the identifier of the instance.
func (s *Scope) ID() string { return s.eval.inst.id }

// Kind returns the kind of the instance.
func (s *Scope) Kind() string { return s.eval.inst.def.kind }

// Now returns the reference time of the current evaluation.
func (s *Scope) Now() time.Time { return s.eval.now }

// Year returns the reference year of the current evaluation.
func (s *Scope) Year() int { return s.eval.now.Year() }

// Err returns the first problem recorded by an accessor.
func (s *Scope) Err() error { return s.err }

func (s *Scope) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Value returns a field value as is, absent included.
func (s *Scope) Value(field string) Value {
	if _, ok := s.eval.inst.def.index[field]; !ok {
		s.fail(&FieldError{Kind: s.Kind(), Field: field, Err: ErrUnknownField, Detail: "read by " + s.name})
		return Value{}
	}
	return s.eval.values[field]
}

func (s *Scope) typed(field string, want ValueKind) (Value, bool) {
	v := s.Value(field)
	if s.err != nil {
		return Value{}, false
	}
	if v.kind == KindAbsent {
		s.fail(&FieldError{Kind: s.Kind(), Field: field, Err: ErrFieldUnset, Detail: "read by " + s.name})
		return Value{}, false
	}
	if v.kind != want {
		s.fail(&FieldError{Kind: s.Kind(), Field: field, Err: ErrTypeMismatch, Detail: "read as " + want.String()})
		return Value{}, false
	}
	return v, true
}

// Number returns a number field. Unset optional fields record ErrFieldUnset.
func (s *Scope) Number(field string) float64 {
	v, _ := s.typed(field, KindNumber)
	return v.num
}

// String returns a string field. Unset optional fields record ErrFieldUnset.
func (s *Scope) String(field string) string {
	v, _ := s.typed(field, KindString)
	return v.str
}

// IDs returns an identifier list field.
func (s *Scope) IDs(field string) []string {
	v, _ := s.typed(field, KindIDs)
	return slices.Clone(v.ids)
}

// Derived evaluates another derived property listed in Uses.
func (s *Scope) Derived(name string) Value {
	if s.err != nil {
		return Value{}
	}
	if _, ok := s.eval.inst.def.derived[name]; !ok {
		s.fail(&FieldError{Kind: s.Kind(), Field: name, Err: ErrUnknownField, Detail: "no such derived property"})
		return Value{}
	}
	if !slices.Contains(s.uses, name) {
		s.fail(&FieldError{Kind: s.Kind(), Field: name, Err: ErrUndeclaredDependency, Detail: "not in Uses of " + s.name})
		return Value{}
	}
	v, err := s.eval.derive(name)
	if err != nil {
		s.fail(err)
		return Value{}
	}
	return v
}

// Invoke calls another behavior listed in Uses.
func (s *Scope) Invoke(name string, args ...Value) Value {
	if s.err != nil {
		return Value{}
	}
	b, ok := s.eval.inst.def.behaviors[name]
	if !ok {
		s.fail(&FieldError{Kind: s.Kind(), Field: name, Err: ErrUnknownField, Detail: "no such behavior"})
		return Value{}
	}
	if !slices.Contains(s.uses, name) {
		s.fail(&FieldError{Kind: s.Kind(), Field: name, Err: ErrUndeclaredDependency, Detail: "not in Uses of " + s.name})
		return Value{}
	}
	if len(args) != len(b.Params) {
		s.fail(&FieldError{Kind: s.Kind(), Field: name, Err: ErrInvalidArgument})
		return Value{}
	}
	for n, a := range args {
		if !a.matches(b.Params[n]) {
			s.fail(&FieldError{Kind: s.Kind(), Field: name, Err: ErrInvalidArgument, Detail: "argument of wrong type"})
			return Value{}
		}
	}
	v, err := s.eval.call(name, args)
	if err != nil {
		s.fail(err)
		return Value{}
	}
	return v
}
