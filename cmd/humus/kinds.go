package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/humus/pkg/core"
)

var kindsJSON bool

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the registered kinds and their shape",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(cmd)
		if err != nil {
			fatal("Error initializing humus", err)
		}

		state := svc.Registry().State().(core.RegistryState)
		if kindsJSON {
			if err := writeJSON(cmd.OutOrStdout(), state); err != nil {
				fatal("Error encoding kinds", err)
			}
			return
		}

		out := cmd.OutOrStdout()
		for _, d := range state.Definitions {
			fmt.Fprintln(out, d.Kind)
			fmt.Fprintf(out, "  fields:    %v\n", d.Fields)
			if len(d.Derived) > 0 {
				fmt.Fprintf(out, "  derived:   %v\n", d.Derived)
			}
			if len(d.Behaviors) > 0 {
				fmt.Fprintf(out, "  behaviors: %v\n", d.Behaviors)
			}
		}
	},
}

func init() {
	kindsCmd.Flags().BoolVar(&kindsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(kindsCmd)
}
