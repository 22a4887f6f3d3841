package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/humus"
	humuslifecycle "github.com/aretw0/humus/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print changes to stored instances until interrupted",
	Long: `Watch follows the store and prints one line per change, such as
"MODIFY product/3f2a...". The optional pattern is a glob over kind/id.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := openService(cmd)
		if err != nil {
			fatal("Error initializing humus", err)
		}
		defer humus.Close(svc)

		events, err := svc.Watch(ctx, pattern)
		if err != nil {
			fatal("Error watching store", err)
		}

		src := humuslifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Error starting event source", err)
		}
		slog.Info("watching", "pattern", pattern)

		out := cmd.OutOrStdout()
		for e := range src.Events() {
			fmt.Fprintln(out, e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
