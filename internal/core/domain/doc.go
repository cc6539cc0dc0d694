// Package domain defines the core business entities for the sync engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DataSource: A configured external connection
//   - Document: A locally stored externally-sourced artifact
//   - Chunk: A searchable unit within a document
//   - ExternalDocument: One artifact as reported by a connector fetch
//   - SyncResult: The outcome of one sync run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
