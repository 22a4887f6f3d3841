package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/humus"
)

var newCmd = &cobra.Command{
	Use:   "new [kind] [field=value...]",
	Short: "Create and store a new instance",
	Long: `New validates the given fields against the kind and stores the instance.
Numbers are parsed as decimals and id lists are comma separated.`,
	Example: `  humus new product name="Mac Book Pro" marked_price=460000 selling_price=458900 buying_price=430080`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(cmd)
		if err != nil {
			fatal("Error initializing humus", err)
		}
		defer humus.Close(svc)

		def, err := svc.Definition(args[0])
		if err != nil {
			fatal("Error", err)
		}
		values, err := parseAssignments(def, args[1:])
		if err != nil {
			fatal("Error parsing fields", err)
		}

		inst, err := svc.New(context.Background(), def.Kind(), values)
		if err != nil {
			fatal("Error creating instance", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), inst.ID())
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
