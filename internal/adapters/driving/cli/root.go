// Package cli implements the knowsync command-line interface.
// Commands are wired against the driving ports so the sync engine can
// be exercised without a long-running daemon.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/objecta-labs/knowsync/internal/adapters/driven/config/file"
	"github.com/objecta-labs/knowsync/internal/adapters/driven/storage/sqlite"
	"github.com/objecta-labs/knowsync/internal/connectors/dropbox"
	"github.com/objecta-labs/knowsync/internal/connectors/gdrive"
	"github.com/objecta-labs/knowsync/internal/connectors/github"
	"github.com/objecta-labs/knowsync/internal/connectors/notion"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
	"github.com/objecta-labs/knowsync/internal/core/ports/driving"
	"github.com/objecta-labs/knowsync/internal/core/services"
	"github.com/objecta-labs/knowsync/internal/logger"
	"github.com/objecta-labs/knowsync/internal/pipeline/chunker"
)

// version is set by main via SetVersion.
var version = "dev"

// Services used by commands. Populated by initServices on first run,
// or injected directly by tests.
var (
	configStore       driven.ConfigStore
	store             *sqlite.Store
	sourceStore       driven.SourceStore
	documentStore     driven.DocumentStore
	syncLogStore      driven.SyncLogStore
	connectorRegistry *services.ConnectorRegistry
	syncOrchestrator  driving.SyncOrchestrator
)

// Persistent flag values.
var (
	flagVerbose bool
	flagDataDir string
	flagTenant  string
)

var rootCmd = &cobra.Command{
	Use:   "knowsync",
	Short: "Synchronise documents from external knowledge sources",
	Long: `knowsync pulls documents from configured external sources
(GitHub, Notion, Google Drive, Dropbox), chunks them, and keeps a local
copy in sync with the remote state.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.knowsync/data)")
	rootCmd.PersistentFlags().StringVarP(&flagTenant, "tenant", "t", "", "tenant the command operates on")
}

// SetVersion records the build version shown by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

// initServices builds the service graph. Skipped when a test has
// already injected services.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if syncOrchestrator != nil {
		return nil
	}

	var err error
	configStore, err = file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = configStore.GetString(driven.ConfigKeyDataDir)
	}
	if flagTenant == "" {
		flagTenant = configStore.GetString(driven.ConfigKeyDefaultTenant)
	}
	if !flagVerbose && configStore.GetBool(driven.ConfigKeyVerbose) {
		logger.SetVerbose(true)
	}

	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	sourceStore = store.SourceStore()
	documentStore = store.DocumentStore()
	syncLogStore = store.SyncLogStore()

	connectorRegistry = services.NewConnectorRegistry(
		github.New(),
		notion.New(),
		gdrive.New(),
		dropbox.New(),
	)

	var chunkerOpts []chunker.Option
	if size := configStore.GetInt(driven.ConfigKeyChunkSize); size > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithChunkSize(size))
	}
	if overlap := configStore.GetInt(driven.ConfigKeyChunkOverlap); overlap > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithOverlap(overlap))
	}

	syncOrchestrator = services.NewSyncOrchestrator(
		sourceStore,
		documentStore,
		connectorRegistry,
		chunker.New(chunkerOpts...),
		syncLogStore,
	)

	return nil
}

// shutdown releases resources held by initServices.
func shutdown() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}
}
