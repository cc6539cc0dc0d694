package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var testConnectionCmd = &cobra.Command{
	Use:   "test-connection <source-id>",
	Short: "Test connectivity for a configured source",
	Long: `Checks that the source's stored credentials can reach the remote
system. No documents are fetched and no state is modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runTestConnection,
}

func init() {
	rootCmd.AddCommand(testConnectionCmd)
}

func runTestConnection(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil || sourceStore == nil {
		return errors.New("sync service not configured")
	}

	source, err := sourceStore.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("looking up source: %w", err)
	}

	cmd.Printf("Testing connection for %s (%s)...\n", source.Name, source.Type)

	if !syncOrchestrator.TestConnection(cmd.Context(), source.Type, source.Credentials, source.Config) {
		return fmt.Errorf("connection test failed for source %s", source.ID)
	}

	cmd.Println("Connection OK.")
	return nil
}
