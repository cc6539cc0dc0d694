package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	cfg, err := ParseSettings(map[string]string{
		SettingRepository: "acme/docs",
	})
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Owner)
	assert.Equal(t, "docs", cfg.Repo)
	assert.Equal(t, DefaultBranch, cfg.Branch)
	assert.Empty(t, cfg.PathPrefix)
}

func TestParseSettings_AllKeys(t *testing.T) {
	cfg, err := ParseSettings(map[string]string{
		SettingRepository: "acme/docs",
		SettingBranch:     "develop",
		SettingPathPrefix: "/docs/guides",
	})
	require.NoError(t, err)
	assert.Equal(t, "develop", cfg.Branch)
	// Leading slash is normalised away.
	assert.Equal(t, "docs/guides", cfg.PathPrefix)
}

func TestParseSettings_InvalidRepository(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]string
	}{
		{"missing", map[string]string{}},
		{"no slash", map[string]string{SettingRepository: "acme"}},
		{"empty owner", map[string]string{SettingRepository: "/docs"}},
		{"empty name", map[string]string{SettingRepository: "acme/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings(tt.settings)
			assert.ErrorIs(t, err, ErrInvalidRepository)
		})
	}
}

func TestConfig_Matches(t *testing.T) {
	unrestricted := &Config{}
	assert.True(t, unrestricted.matches("anything/at/all.md"))

	restricted := &Config{PathPrefix: "docs/"}
	assert.True(t, restricted.matches("docs/guide.md"))
	assert.False(t, restricted.matches("src/main.go"))
}
