package core

import "strings"

// checkDependencies validates every Uses reference and rejects cycles
// between derived properties and behaviors.
func (d *Definition) checkDependencies() error {
	for _, name := range d.order {
		for _, use := range d.uses(name) {
			_, isField := d.index[use]
			_, isDerived := d.derived[use]
			_, isBehavior := d.behaviors[use]

			switch {
			case isField || isDerived:
			case isBehavior:
				if _, fromDerived := d.derived[name]; fromDerived {
					return defErr(d.kind, name, ErrInvalidDefinition, "derived property cannot use behavior %q", use)
				}
			default:
				return defErr(d.kind, name, ErrInvalidDefinition, "uses unknown name %q", use)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(d.order))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, n := range stack {
				if n == name {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), stack[start:]...), name)
			return defErr(d.kind, name, ErrCyclicDerivation, "%s", strings.Join(cycle, " -> "))
		}

		state[name] = visiting
		stack = append(stack, name)
		for _, use := range d.uses(name) {
			if _, isField := d.index[use]; isField {
				continue
			}
			if err := visit(use); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range d.order {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

func (d *Definition) uses(name string) []string {
	if p, ok := d.derived[name]; ok {
		return p.Uses
	}
	if b, ok := d.behaviors[name]; ok {
		return b.Uses
	}
	return nil
}
