package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/humus/pkg/core"
)

// view is the printable form of an instance.
type view struct {
	Kind    string                `json:"kind"`
	ID      string                `json:"id"`
	Fields  core.Metadata         `json:"fields"`
	Derived map[string]core.Value `json:"derived,omitempty"`
	Errors  map[string]string     `json:"errors,omitempty"`
}

// newView evaluates every derived property of inst. Failures are kept per name.
func newView(inst *core.Instance) view {
	v := view{Kind: inst.Kind(), ID: inst.ID(), Fields: inst.Fields()}
	for _, name := range inst.Definition().DerivedNames() {
		val, err := inst.Eval(name)
		if err != nil {
			if v.Errors == nil {
				v.Errors = make(map[string]string)
			}
			v.Errors[name] = err.Error()
			continue
		}
		if v.Derived == nil {
			v.Derived = make(map[string]core.Value)
		}
		v.Derived[name] = val
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeText prints a view as sorted "name: value" lines.
func writeText(w io.Writer, v view) {
	fmt.Fprintf(w, "%s/%s\n", v.Kind, v.ID)
	for _, k := range sortedKeys(v.Fields) {
		fmt.Fprintf(w, "  %s: %v\n", k, v.Fields[k])
	}
	for _, k := range sortedKeys(v.Derived) {
		fmt.Fprintf(w, "  %s = %s\n", k, v.Derived[k])
	}
	for _, k := range sortedKeys(v.Errors) {
		fmt.Fprintf(w, "  %s ! %s\n", k, v.Errors[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
