package driven

import (
	"context"
	"time"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

// FetchRequest carries everything a connector needs for one fetch.
type FetchRequest struct {
	// Settings contains the source's connector-specific configuration.
	Settings map[string]string

	// Since is the last successful sync time. Nil requests a full fetch.
	// Connectors apply the filter server-side when the source API
	// supports it; otherwise they fetch the most recently modified
	// documents up to MaxDocuments and let the orchestrator diff.
	Since *time.Time

	// MaxDocuments caps the number of documents returned.
	MaxDocuments int
}

// Connector fetches documents from one type of external system.
// Implementations are stateless; every invocation is independent.
type Connector interface {
	// Type returns the source type identifier.
	Type() domain.SourceType

	// Metadata returns the connector's descriptive metadata, including
	// required credential fields and the configuration schema.
	Metadata() domain.ConnectorType

	// ValidateCredentials performs a structural presence check on the
	// credential blob. No network calls.
	ValidateCredentials(creds domain.Credentials) bool

	// TestConnection performs one cheap authenticated call against the
	// source system. Returns false on any failure; auth and network
	// failures are expected outcomes, not errors.
	TestConnection(ctx context.Context, creds domain.Credentials, cfg domain.SourceConfig) bool

	// FetchDocuments returns a bounded list of documents changed since
	// req.Since. ExternalIDs are unique within one fetch.
	FetchDocuments(ctx context.Context, creds domain.Credentials, req FetchRequest) ([]domain.ExternalDocument, error)
}

// ConnectorRegistry maps source types to connector instances.
// Populated once at startup; the set never changes at runtime.
type ConnectorRegistry interface {
	// Resolve returns the connector for a source type.
	// Returns domain.ErrConnectorNotFound for unknown types.
	Resolve(sourceType domain.SourceType) (Connector, error)

	// List returns metadata for every registered connector.
	List() []domain.ConnectorType
}
