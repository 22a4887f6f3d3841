package main

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/humus"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List the stored instances of a kind",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if listMatch != "" && !doublestar.ValidatePattern(listMatch) {
			fatal("Error", fmt.Errorf("invalid --match pattern %q", listMatch))
		}

		svc, err := openService(cmd)
		if err != nil {
			fatal("Error initializing humus", err)
		}
		defer humus.Close(svc)

		instances, err := svc.List(context.Background(), args[0])
		if err != nil {
			fatal("Error listing instances", err)
		}

		views := make([]view, 0, len(instances))
		for _, inst := range instances {
			if listMatch != "" {
				if ok, _ := doublestar.Match(listMatch, inst.ID()); !ok {
					continue
				}
			}
			views = append(views, newView(inst))
		}

		if listJSON {
			if err := writeJSON(cmd.OutOrStdout(), views); err != nil {
				fatal("Error encoding instances", err)
			}
			return
		}

		out := cmd.OutOrStdout()
		if len(views) == 0 {
			fmt.Fprintln(out, "No instances found.")
			return
		}
		for _, v := range views {
			writeText(out, v)
		}
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only list IDs matching a glob pattern")
	rootCmd.AddCommand(listCmd)
}
