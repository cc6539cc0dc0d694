// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Connector: Fetches documents from one external system type
//   - ConnectorRegistry: Resolves source types to connectors
//   - SourceStore: Data source persistence
//   - DocumentStore: Document and chunk persistence
//   - ChunkingPipeline: Splits content into chunks
//
// # Optional Interfaces
//
//   - SyncLogStore: Sync run history. May be nil; runs are then not recorded.
//   - ConfigStore: Application configuration persistence.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
