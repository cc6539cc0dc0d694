package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage data sources",
	Long:  `List, add, and manage the external data sources documents are synchronised from.`,
	RunE:  runSourcesList,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE:  runSourcesList,
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new source",
	Long: `Adds a data source for the current tenant.

Connector credentials are passed with repeated --credential key=value
flags and connector settings with repeated --set key=value flags. Run
'knowsync connectors' to see what each connector expects.`,
	RunE: runSourcesAdd,
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove <source-id>",
	Short: "Remove a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesRemove,
}

var sourcesEnableCmd = &cobra.Command{
	Use:   "enable <source-id>",
	Short: "Enable a source",
	Args:  cobra.ExactArgs(1),
	RunE:  setSourceEnabled(true),
}

var sourcesDisableCmd = &cobra.Command{
	Use:   "disable <source-id>",
	Short: "Disable a source",
	Long:  `Disabled sources are skipped by the scheduler and rejected by manual sync.`,
	Args:  cobra.ExactArgs(1),
	RunE:  setSourceEnabled(false),
}

var sourcesHistoryCmd = &cobra.Command{
	Use:   "history <source-id>",
	Short: "Show recent sync runs for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesHistory,
}

var (
	flagSourceName   string
	flagSourceType   string
	flagSourceFreq   string
	flagCredentials  []string
	flagSettings     []string
	flagSyncDeletes  bool
	flagMaxDocuments int
	flagHistoryLimit int
)

func init() {
	sourcesAddCmd.Flags().StringVar(&flagSourceName, "name", "", "human-readable source name")
	sourcesAddCmd.Flags().StringVar(&flagSourceType, "type", "", "connector type (github, notion, gdrive, dropbox)")
	sourcesAddCmd.Flags().StringVar(&flagSourceFreq, "frequency", string(domain.FrequencyManual),
		"sync frequency (manual, hourly, daily, weekly)")
	sourcesAddCmd.Flags().StringArrayVar(&flagCredentials, "credential", nil, "connector credential as key=value")
	sourcesAddCmd.Flags().StringArrayVar(&flagSettings, "set", nil, "connector setting as key=value")
	sourcesAddCmd.Flags().BoolVar(&flagSyncDeletes, "sync-deletes", false, "delete local documents removed from the remote")
	sourcesAddCmd.Flags().IntVar(&flagMaxDocuments, "max-documents", 0, "cap documents fetched per sync (0 = no cap)")
	_ = sourcesAddCmd.MarkFlagRequired("name")
	_ = sourcesAddCmd.MarkFlagRequired("type")

	sourcesHistoryCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "number of runs to show")

	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	sourcesCmd.AddCommand(sourcesEnableCmd)
	sourcesCmd.AddCommand(sourcesDisableCmd)
	sourcesCmd.AddCommand(sourcesHistoryCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSourcesList(cmd *cobra.Command, _ []string) error {
	if sourceStore == nil {
		return errors.New("source store not configured")
	}

	sources, err := sourceStore.List(cmd.Context(), flagTenant)
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}
	if len(sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	for _, source := range sources {
		state := "enabled"
		if !source.Enabled {
			state = "disabled"
		}
		lastSync := "never"
		if source.LastSyncedAt != nil {
			lastSync = source.LastSyncedAt.Local().Format(time.RFC3339)
		}
		cmd.Printf("%s  %-8s %-10s %-8s %s\n", source.ID, source.Type, source.Name, state, source.Status)
		cmd.Printf("  frequency: %s  last sync: %s\n", source.SyncFrequency, lastSync)
		if source.ErrorMessage != "" {
			cmd.Printf("  error: %s\n", source.ErrorMessage)
		}
	}
	return nil
}

func runSourcesAdd(cmd *cobra.Command, _ []string) error {
	if sourceStore == nil || connectorRegistry == nil {
		return errors.New("source store not configured")
	}

	sourceType := domain.SourceType(flagSourceType)
	frequency := domain.SyncFrequency(flagSourceFreq)
	if !frequency.Valid() {
		return fmt.Errorf("unknown frequency %q", flagSourceFreq)
	}

	creds, err := parseKeyValues(flagCredentials)
	if err != nil {
		return fmt.Errorf("parsing --credential: %w", err)
	}
	settings, err := parseKeyValues(flagSettings)
	if err != nil {
		return fmt.Errorf("parsing --set: %w", err)
	}

	cfg := domain.SourceConfig{
		Settings:     settings,
		SyncDeletes:  flagSyncDeletes,
		MaxDocuments: flagMaxDocuments,
	}

	if err := connectorRegistry.ValidateConfig(sourceType, cfg); err != nil {
		return fmt.Errorf("invalid config for %s: %w", sourceType, err)
	}
	if valid, err := connectorRegistry.ValidateCredentials(sourceType, creds); err != nil {
		return fmt.Errorf("validating credentials: %w", err)
	} else if !valid {
		return domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	source := domain.DataSource{
		ID:            uuid.NewString(),
		TenantID:      flagTenant,
		Name:          flagSourceName,
		Type:          sourceType,
		Credentials:   creds,
		Config:        cfg,
		SyncFrequency: frequency,
		Status:        domain.StatusActive,
		Enabled:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := sourceStore.Save(cmd.Context(), source); err != nil {
		return fmt.Errorf("saving source: %w", err)
	}

	cmd.Printf("Source added: %s\n", source.ID)
	return nil
}

func runSourcesRemove(cmd *cobra.Command, args []string) error {
	if sourceStore == nil {
		return errors.New("source store not configured")
	}

	id := args[0]
	if _, err := sourceStore.Get(cmd.Context(), id); err != nil {
		return fmt.Errorf("looking up source: %w", err)
	}
	if err := sourceStore.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("removing source: %w", err)
	}

	cmd.Printf("Source removed: %s\n", id)
	return nil
}

// setSourceEnabled returns a RunE toggling the enabled flag.
func setSourceEnabled(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if sourceStore == nil {
			return errors.New("source store not configured")
		}

		source, err := sourceStore.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("looking up source: %w", err)
		}
		source.Enabled = enabled
		if err := sourceStore.Save(cmd.Context(), *source); err != nil {
			return fmt.Errorf("saving source: %w", err)
		}

		state := "enabled"
		if !enabled {
			state = "disabled"
		}
		cmd.Printf("Source %s %s.\n", source.ID, state)
		return nil
	}
}

func runSourcesHistory(cmd *cobra.Command, args []string) error {
	if syncLogStore == nil {
		return errors.New("sync log not configured")
	}

	results, err := syncLogStore.History(cmd.Context(), args[0], flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(results) == 0 {
		cmd.Println("No sync runs recorded.")
		return nil
	}

	for _, result := range results {
		status := "ok"
		if !result.Success {
			status = "failed"
		}
		cmd.Printf("%s  %-6s processed=%d added=%d updated=%d deleted=%d errors=%d\n",
			result.CompletedAt.Local().Format(time.RFC3339), status,
			result.DocumentsProcessed, result.DocumentsAdded,
			result.DocumentsUpdated, result.DocumentsDeleted, len(result.Errors))
	}
	return nil
}

// parseKeyValues parses repeated key=value flags into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		result[key] = value
	}
	return result, nil
}
