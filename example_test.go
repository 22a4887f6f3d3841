package humus_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/humus"
	"github.com/aretw0/humus/pkg/core"
)

// Example_basic creates a product, reads its derived properties and looks it up again.
func Example_basic() {
	svc, err := humus.New("", humus.WithAdapter(humus.AdapterMemory))
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	p, err := svc.New(ctx, "product", map[string]any{
		"name":          "Mac Book Pro",
		"marked_price":  460000,
		"selling_price": 458900,
		"buying_price":  430080,
	})
	if err != nil {
		log.Fatal(err)
	}

	sales, err := p.Invoke("salesData")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(sales)

	_, found, err := svc.FindByID(ctx, "product", "missing")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("found:", found)
	// Output:
	// { profit: 28820, loss: false, discount: 1100 }
	// found: false
}

// Example_clock pins the reference year used by age derivations.
func Example_clock() {
	svc, err := humus.New("",
		humus.WithAdapter(humus.AdapterMemory),
		humus.WithClock(core.FixedYear(2020)),
	)
	if err != nil {
		log.Fatal(err)
	}

	v, err := svc.New(context.Background(), "vehicle", map[string]any{
		"manufacturer":     "Nissan",
		"model":            "Teana",
		"milage":           54359934,
		"chasis_number":    float64(798237587289),
		"year_of_assembly": 2009,
		"year_of_sale":     2012,
		"initialValue":     5689000,
	})
	if err != nil {
		log.Fatal(err)
	}

	rate, err := v.Invoke("calculateDepreciationRate", 4855904)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rate)
	// Output:
	// 104137
}

// ExampleOpenTyped binds a struct to a kind stored on disk.
func ExampleOpenTyped() {
	tmpDir, err := os.MkdirTemp("", "humus-typed-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	type User struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}

	users, err := humus.OpenTyped[User](tmpDir, "user")
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	m, err := users.Create(ctx, User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	if err != nil {
		log.Fatal(err)
	}

	got, found, err := users.FindByID(ctx, m.ID())
	if err != nil || !found {
		log.Fatal("user not found", err)
	}
	s, err := got.Invoke("to_string")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s)
	// Output:
	// Name: Ada Lovelace  email: ada@example.com
}
