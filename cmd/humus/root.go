package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/humus"
)

var (
	verbose    bool
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "humus",
	Short: "Declare, validate and store typed entities with derived properties",
	Long: `Humus stores instances of declared kinds (product, vehicle, user, ...)
and computes their derived properties and behaviors on demand.

Settings come from flags, HUMUS_* environment variables or ` + humus.ConfigFile + `.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configFile, "config", "", "Configuration file (default ./"+humus.ConfigFile+")")
	flags.String("adapter", humus.AdapterFS, "Storage adapter: fs, bolt or memory")
	flags.String("path", "", "Storage location (default: nearest humus root or working directory)")
	flags.String("format", "json", "Document format of the fs adapter: json or yaml")
	flags.Bool("read-only", false, "Reject every write")
	flags.Bool("strict", false, "Reject fields a kind does not declare")
	flags.Int("year", 0, "Reference year for age derivations (default: current year)")
}
