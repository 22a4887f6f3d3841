package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidDefinition    = errors.New("invalid definition")
	ErrCyclicDerivation     = errors.New("cyclic derivation")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrUnknownField         = errors.New("unknown field")
	ErrUndeclaredDependency = errors.New("undeclared dependency")
	ErrFieldUnset           = errors.New("field is unset")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnknownKind          = errors.New("unknown entity kind")
	ErrNotFound             = errors.New("document not found")
	ErrAlreadyExists        = errors.New("document already exists")
	ErrReadOnly             = errors.New("store is in read-only mode")
)

// DefinitionError reports why a definition could not be declared or registered.
// It matches ErrInvalidDefinition and, when set, the more specific Err.
type DefinitionError struct {
	Kind   string
	Name   string
	Err    error
	Detail string
}

func (e *DefinitionError) Error() string {
	msg := "invalid definition " + e.Kind
	if e.Name != "" {
		msg += "." + e.Name
	}
	if e.Err != nil && e.Err != ErrInvalidDefinition {
		msg += ": " + e.Err.Error()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DefinitionError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrInvalidDefinition {
		return []error{ErrInvalidDefinition}
	}
	return []error{ErrInvalidDefinition, e.Err}
}

// FieldError reports a problem with a single named field, property or behavior of an instance.
type FieldError struct {
	Kind   string
	Field  string
	Err    error
	Detail string
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s.%s: %v", e.Kind, e.Field, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func defErr(kind, name string, err error, format string, args ...any) error {
	return &DefinitionError{Kind: kind, Name: name, Err: err, Detail: fmt.Sprintf(format, args...)}
}
