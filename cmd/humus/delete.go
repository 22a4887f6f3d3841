package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/humus"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [kind] [id]",
	Short: "Delete a stored instance",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(cmd)
		if err != nil {
			fatal("Error initializing humus", err)
		}
		defer humus.Close(svc)

		if err := svc.Delete(context.Background(), args[0], args[1]); err != nil {
			fatal("Error deleting instance", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Instance deleted: %s/%s\n", args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
