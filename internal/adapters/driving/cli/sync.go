package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync [source-id]",
	Short: "Synchronise documents from sources",
	Long: `Triggers document synchronisation from configured sources.
If a source ID is provided, only that source is synchronised.
Otherwise, every enabled source in the tenant is synchronised.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()

	if len(args) > 0 {
		sourceID := args[0]
		cmd.Printf("Synchronising source: %s...\n", sourceID)

		result, err := syncOrchestrator.SyncSource(ctx, flagTenant, sourceID)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		printSyncResult(cmd, result)
		return nil
	}

	// Sync all sources in the tenant
	cmd.Println("Synchronising all sources...")

	results, err := syncOrchestrator.SyncAll(ctx, flagTenant)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if len(results) == 0 {
		cmd.Println("No enabled sources to synchronise.")
		return nil
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	failed := 0
	for _, id := range ids {
		cmd.Printf("\nSource %s:\n", id)
		printSyncResult(cmd, results[id])
		if !results[id].Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed to synchronise", failed, len(results))
	}

	cmd.Printf("\nAll %d sources synchronised successfully.\n", len(results))
	return nil
}

func printSyncResult(cmd *cobra.Command, result *domain.SyncResult) {
	cmd.Printf("  Processed: %d  Added: %d  Updated: %d  Deleted: %d\n",
		result.DocumentsProcessed, result.DocumentsAdded,
		result.DocumentsUpdated, result.DocumentsDeleted)
	if len(result.Errors) > 0 {
		cmd.Printf("  Errors (%d):\n", len(result.Errors))
		for _, msg := range result.Errors {
			cmd.Printf("    - %s\n", msg)
		}
	}
	if result.Success {
		cmd.Println("  Status: completed")
	} else {
		cmd.Println("  Status: failed")
	}
}
