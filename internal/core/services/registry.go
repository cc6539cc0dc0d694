package services

import (
	"sort"

	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
)

// Ensure ConnectorRegistry implements the interface.
var _ driven.ConnectorRegistry = (*ConnectorRegistry)(nil)

// ConnectorRegistry maps source types to connector instances.
// The table is populated once at construction; unknown source types
// fail with domain.ErrConnectorNotFound.
type ConnectorRegistry struct {
	connectors map[domain.SourceType]driven.Connector
}

// NewConnectorRegistry creates a registry over the given connectors.
func NewConnectorRegistry(connectors ...driven.Connector) *ConnectorRegistry {
	r := &ConnectorRegistry{
		connectors: make(map[domain.SourceType]driven.Connector, len(connectors)),
	}
	for _, c := range connectors {
		r.connectors[c.Type()] = c
	}
	return r
}

// Resolve returns the connector for a source type.
func (r *ConnectorRegistry) Resolve(sourceType domain.SourceType) (driven.Connector, error) {
	c, ok := r.connectors[sourceType]
	if !ok {
		return nil, domain.ErrConnectorNotFound
	}
	return c, nil
}

// List returns metadata for every registered connector, ordered by ID.
func (r *ConnectorRegistry) List() []domain.ConnectorType {
	result := make([]domain.ConnectorType, 0, len(r.connectors))
	for _, c := range r.connectors {
		result = append(result, c.Metadata())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ValidateConfig checks that all required config keys for a source type
// are present and non-empty. Used at source creation time.
func (r *ConnectorRegistry) ValidateConfig(sourceType domain.SourceType, cfg domain.SourceConfig) error {
	c, ok := r.connectors[sourceType]
	if !ok {
		return domain.ErrConnectorNotFound
	}
	for _, key := range c.Metadata().ConfigKeys {
		if key.Required && cfg.Setting(key.Key) == "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// ValidateCredentials performs the connector's structural credential check.
func (r *ConnectorRegistry) ValidateCredentials(sourceType domain.SourceType, creds domain.Credentials) (bool, error) {
	c, ok := r.connectors[sourceType]
	if !ok {
		return false, domain.ErrConnectorNotFound
	}
	return c.ValidateCredentials(creds), nil
}
