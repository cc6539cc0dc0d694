package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncFrequency_Interval(t *testing.T) {
	assert.Equal(t, time.Hour, FrequencyHourly.Interval())
	assert.Equal(t, 24*time.Hour, FrequencyDaily.Interval())
	assert.Equal(t, 168*time.Hour, FrequencyWeekly.Interval())
	assert.Equal(t, time.Duration(0), FrequencyManual.Interval())
	assert.Equal(t, time.Duration(0), SyncFrequency("bogus").Interval())
}

func TestSyncFrequency_Cutoff(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-time.Hour), FrequencyHourly.Cutoff(now))
	assert.Equal(t, now.Add(-24*time.Hour), FrequencyDaily.Cutoff(now))
	assert.Equal(t, now.Add(-168*time.Hour), FrequencyWeekly.Cutoff(now))
	assert.True(t, FrequencyManual.Cutoff(now).IsZero())
}

func TestSyncFrequency_Valid(t *testing.T) {
	for _, f := range []SyncFrequency{FrequencyManual, FrequencyHourly, FrequencyDaily, FrequencyWeekly} {
		assert.True(t, f.Valid(), string(f))
	}
	assert.False(t, SyncFrequency("fortnightly").Valid())
	assert.False(t, SyncFrequency("").Valid())
}

func TestDataSource_Due(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-90 * time.Minute)
	fresh := now.Add(-10 * time.Minute)

	tests := []struct {
		name   string
		source DataSource
		want   bool
	}{
		{
			name:   "never synced is due",
			source: DataSource{Enabled: true, SyncFrequency: FrequencyHourly},
			want:   true,
		},
		{
			name:   "stale hourly is due",
			source: DataSource{Enabled: true, SyncFrequency: FrequencyHourly, LastSyncedAt: &stale},
			want:   true,
		},
		{
			name:   "fresh hourly is not due",
			source: DataSource{Enabled: true, SyncFrequency: FrequencyHourly, LastSyncedAt: &fresh},
			want:   false,
		},
		{
			name:   "manual is never due",
			source: DataSource{Enabled: true, SyncFrequency: FrequencyManual},
			want:   false,
		},
		{
			name:   "disabled is never due",
			source: DataSource{Enabled: false, SyncFrequency: FrequencyHourly},
			want:   false,
		},
		{
			name:   "unknown frequency is never due",
			source: DataSource{Enabled: true, SyncFrequency: "bogus"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.source.Due(now))
		})
	}
}

func TestSourceConfig_Setting(t *testing.T) {
	cfg := SourceConfig{Settings: map[string]string{"repository": "acme/docs"}}
	assert.Equal(t, "acme/docs", cfg.Setting("repository"))
	assert.Equal(t, "", cfg.Setting("missing"))

	var empty SourceConfig
	assert.Equal(t, "", empty.Setting("repository"))
}
