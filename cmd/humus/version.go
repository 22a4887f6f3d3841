package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/humus"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of humus",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "humus version %s\n", humus.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
