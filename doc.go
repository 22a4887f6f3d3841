// Package humus is the composition root of the humus entity engine.
//
// It connects the definition engine (pkg/core), the built-in catalog of
// kinds (pkg/catalog) and the storage adapters (pkg/adapters/...) behind a
// small set of factories and functional options.
//
// An entity kind is declared once with its stored fields, its derived
// properties and its bound behaviors. Instances validate their fields at
// construction, compute derived properties against a reference clock on
// every read, and expose behaviors that may answer with the
// "not applicable" sentinel instead of failing.
//
// Usage:
//
//	svc, err := humus.New("./data", humus.WithFormat("yaml"))
//	if err != nil {
//		return err
//	}
//	defer humus.Close(svc)
//
//	p, err := svc.New(ctx, "product", map[string]any{
//		"name": "Laptop", "marked_price": 1200,
//		"selling_price": 1100, "buying_price": 1000,
//	})
//	profit, err := p.Eval("profit") // 100
//
// Lookups are soft: FindByID reports a missing document as (nil, false, nil).
package humus
