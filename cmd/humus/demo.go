package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/humus"
	"github.com/aretw0/humus/pkg/core"
)

var demoYear int

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in kinds against an in-memory store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDemo(context.Background(), cmd.OutOrStdout(), demoYear); err != nil {
			fatal("Error running demo", err)
		}
	},
}

func runDemo(ctx context.Context, out io.Writer, year int) error {
	svc, err := humus.New("", humus.WithAdapter(humus.AdapterMemory), humus.WithClock(core.FixedYear(year)))
	if err != nil {
		return err
	}

	product, err := svc.New(ctx, "product", map[string]any{
		"name":          "Mac Book Pro",
		"marked_price":  460000,
		"selling_price": 458900,
		"buying_price":  430080,
	})
	if err != nil {
		return err
	}
	sales, err := product.Invoke("salesData")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "product salesData: %s\n", sales)

	vehicle, err := svc.New(ctx, "vehicle", map[string]any{
		"manufacturer":     "Nissan",
		"model":            "Teana",
		"milage":           54359934,
		"chasis_number":    float64(798237587289),
		"year_of_assembly": 2009,
		"year_of_sale":     2012,
		"initialValue":     5689000,
	})
	if err != nil {
		return err
	}
	rate, err := vehicle.Invoke("calculateDepreciationRate", 4855904)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "vehicle depreciation in %d: %s\n", year, rate)

	_, err = svc.New(ctx, "computer", map[string]any{
		"model_name":    "ThinkPad",
		"model_number":  "T480",
		"serial_number": "PF1ZX9",
		"year_made":     2018,
	})
	fmt.Fprintf(out, "computer without manufacturer: %v\n", err)

	_, found, err := svc.FindByID(ctx, "product", "no-such-id")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "product no-such-id found: %t\n", found)
	return nil
}

func init() {
	demoCmd.Flags().IntVar(&demoYear, "at", 2020, "Reference year of the demo")
	rootCmd.AddCommand(demoCmd)
}
