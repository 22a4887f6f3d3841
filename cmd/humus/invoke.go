package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var invokeCmd = &cobra.Command{
	Use:     "invoke [kind] [id] [behavior] [args...]",
	Short:   "Call a behavior of an instance",
	Example: `  humus invoke vehicle 3f2a... calculateDepreciationRate 4855904`,
	Args:    cobra.MinimumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		inst := mustFind(cmd, args[0], args[1])

		params, err := parseArguments(inst.Definition(), args[2], args[3:])
		if err != nil {
			fatal("Error parsing arguments", err)
		}
		v, err := inst.Invoke(args[2], params...)
		if err != nil {
			fatal("Error invoking "+args[2], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
	},
}

func init() {
	rootCmd.AddCommand(invokeCmd)
}
