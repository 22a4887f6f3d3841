package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/humus/pkg/core"
)

// parseAssignments turns key=value arguments into field values typed by def.
// Keys the kind does not declare are passed through as strings.
func parseAssignments(def *core.Definition, args []string) (map[string]any, error) {
	values := make(map[string]any, len(args))
	for _, arg := range args {
		key, text, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q is not key=value", core.ErrInvalidArgument, arg)
		}
		f, declared := def.Field(key)
		if !declared {
			values[key] = text
			continue
		}
		v, err := core.Parse(f.Type, text)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		values[key] = v.Any()
	}
	return values, nil
}

// parseArguments converts behavior arguments to the behavior's parameter types.
func parseArguments(def *core.Definition, behavior string, args []string) ([]any, error) {
	b, ok := def.Behavior(behavior)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no behavior %q", core.ErrUnknownField, def.Kind(), behavior)
	}
	if len(args) != len(b.Params) {
		return nil, fmt.Errorf("%w: %s wants %d arguments, got %d",
			core.ErrInvalidArgument, behavior, len(b.Params), len(args))
	}
	out := make([]any, len(args))
	for i, text := range args {
		v, err := core.Parse(b.Params[i], text)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
