package domain

import "time"

// SourceType identifies which connector a data source uses.
type SourceType string

// Built-in source types.
const (
	SourceTypeGitHub  SourceType = "github"
	SourceTypeNotion  SourceType = "notion"
	SourceTypeGDrive  SourceType = "gdrive"
	SourceTypeDropbox SourceType = "dropbox"
)

// SyncFrequency controls how often the scheduler considers a source due.
type SyncFrequency string

// Supported sync frequencies. Manual sources are only synced on request.
const (
	FrequencyManual SyncFrequency = "manual"
	FrequencyHourly SyncFrequency = "hourly"
	FrequencyDaily  SyncFrequency = "daily"
	FrequencyWeekly SyncFrequency = "weekly"
)

// Interval returns the duration between syncs for the frequency.
// Returns 0 for manual (and unknown) frequencies.
func (f SyncFrequency) Interval() time.Duration {
	switch f {
	case FrequencyHourly:
		return time.Hour
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Cutoff returns the point in time before which a last-sync timestamp
// makes a source of this frequency due. Zero time for manual frequencies.
func (f SyncFrequency) Cutoff(now time.Time) time.Time {
	interval := f.Interval()
	if interval == 0 {
		return time.Time{}
	}
	return now.Add(-interval)
}

// Valid reports whether f is a known frequency.
func (f SyncFrequency) Valid() bool {
	switch f {
	case FrequencyManual, FrequencyHourly, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// SourceStatus is the lifecycle state of a data source.
type SourceStatus string

// Source states. The orchestrator is the only writer of Syncing and Error.
const (
	StatusActive  SourceStatus = "active"
	StatusSyncing SourceStatus = "syncing"
	StatusError   SourceStatus = "error"
)

// Credentials is an opaque connector-specific secret blob.
// The core passes it through to connectors and never inspects its shape.
type Credentials map[string]string

// SourceConfig holds connector-specific settings plus the two
// cross-cutting sync options every source carries.
type SourceConfig struct {
	// Settings contains connector-specific keys (repository, folder id, ...).
	Settings map[string]string

	// SyncDeletes enables deletion of local documents that disappeared
	// from the remote source.
	SyncDeletes bool

	// MaxDocuments caps how many documents a single fetch may return.
	MaxDocuments int
}

// Setting returns a connector-specific config value, or "" if unset.
func (c SourceConfig) Setting(key string) string {
	if c.Settings == nil {
		return ""
	}
	return c.Settings[key]
}

// DataSource represents a configured external connection.
// Each source produces documents via a connector and belongs to a tenant.
type DataSource struct {
	// ID is the unique identifier for the source.
	ID string

	// TenantID identifies the owning tenant.
	TenantID string

	// Name is the human-readable name for this source.
	Name string

	// Type identifies the connector type (e.g. "github", "notion").
	Type SourceType

	// Credentials is the opaque secret blob passed to the connector.
	Credentials Credentials

	// Config contains connector settings and sync options.
	Config SourceConfig

	// SyncFrequency controls scheduler selection.
	SyncFrequency SyncFrequency

	// LastSyncedAt is when the last successful sync completed.
	// Nil means never synced; such sources are immediately due.
	LastSyncedAt *time.Time

	// Status is the current lifecycle state.
	Status SourceStatus

	// ErrorMessage holds the failure reason while Status is StatusError.
	ErrorMessage string

	// Enabled gates both scheduled and manual syncs.
	Enabled bool

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// Due reports whether the source should be synced at the given time.
// Disabled and manual sources are never due. A source that has never
// been synced is always due.
func (s *DataSource) Due(now time.Time) bool {
	if !s.Enabled || s.SyncFrequency == FrequencyManual || !s.SyncFrequency.Valid() {
		return false
	}
	if s.LastSyncedAt == nil {
		return true
	}
	return s.LastSyncedAt.Before(s.SyncFrequency.Cutoff(now))
}
