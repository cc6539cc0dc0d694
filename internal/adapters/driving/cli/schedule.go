package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/objecta-labs/knowsync/internal/core/services"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the sync scheduler in the foreground",
	Long: `Starts the periodic sync scheduler and blocks until interrupted.
Hourly sources are checked every hour; daily and weekly sources are
checked at local midnight. Manual sources are never picked up.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil || sourceStore == nil {
		return errors.New("sync service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")

	scheduler := services.NewScheduler(sourceStore, syncOrchestrator)
	if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler stopped: %w", err)
	}

	cmd.Println("Scheduler stopped.")
	return nil
}
