package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/docpress/core/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the book whenever a source file changes",
	Long: `Watch runs a build, then rebuilds every time a file below the source
directory changes. Changes inside the output directory are ignored.

Examples:
  docpress watch
  docpress watch --builder draft`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addBuildFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := bindBuildFlags(cmd); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rebuild := func() {
		if err := buildOnce(ctx); err != nil {
			// A broken document should not end the watch.
			fmt.Fprintf(os.Stderr, "  ✗ %v\n", err)
		}
	}
	rebuild()

	changes := make(chan struct{}, 1)
	w := watch.New(cfg.SourceDir, cfg.OutputDir)
	errc := make(chan error, 1)
	go func() {
		errc <- w.Watch(ctx, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}()

	fmt.Fprintf(os.Stdout, "Watching %s (Ctrl+C to stop)\n", cfg.SourceDir)
	for {
		select {
		case <-changes:
			slog.Info("Change detected, rebuilding")
			rebuild()
		case err := <-errc:
			return err
		case <-ctx.Done():
			return nil
		}
	}
}
