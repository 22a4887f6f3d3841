package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/humus"
	"github.com/aretw0/humus/pkg/core"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get [kind] [id]",
	Short: "Show an instance with its derived properties",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		inst := mustFind(cmd, args[0], args[1])
		v := newView(inst)
		if getJSON {
			if err := writeJSON(cmd.OutOrStdout(), v); err != nil {
				fatal("Error encoding instance", err)
			}
			return
		}
		writeText(cmd.OutOrStdout(), v)
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval [kind] [id] [derived]",
	Short: "Compute one derived property of an instance",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		inst := mustFind(cmd, args[0], args[1])
		v, err := inst.Eval(args[2])
		if err != nil {
			fatal("Error evaluating "+args[2], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
	},
}

// mustFind loads kind/id or exits. A missing instance is reported, not treated as a failure of the store.
func mustFind(cmd *cobra.Command, kind, id string) *core.Instance {
	svc, err := openService(cmd)
	if err != nil {
		fatal("Error initializing humus", err)
	}
	defer humus.Close(svc)

	inst, found, err := svc.FindByID(context.Background(), kind, id)
	if err != nil {
		fatal("Error reading instance", err)
	}
	if !found {
		fatal("Error", fmt.Errorf("%s/%s: %w", kind, id, core.ErrNotFound))
	}
	return inst
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(evalCmd)
}
