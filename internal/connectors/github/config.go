package github

import (
	"strings"
)

// Settings keys understood by the GitHub connector.
const (
	SettingRepository = "repository"
	SettingBranch     = "branch"
	SettingPathPrefix = "path_prefix"
)

// DefaultBranch is used when no branch is configured.
const DefaultBranch = "main"

// Config holds the parsed settings for a GitHub source.
type Config struct {
	// Owner is the repository owner (user or organisation).
	Owner string

	// Repo is the repository name.
	Repo string

	// Branch is the branch to sync from.
	Branch string

	// PathPrefix restricts the sync to files under this prefix.
	PathPrefix string
}

// ParseSettings parses a source's settings map into a Config.
// The "repository" key is required and must be "owner/name".
func ParseSettings(settings map[string]string) (*Config, error) {
	repository := settings[SettingRepository]
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, ErrInvalidRepository
	}

	cfg := &Config{
		Owner:      owner,
		Repo:       repo,
		Branch:     settings[SettingBranch],
		PathPrefix: strings.TrimPrefix(settings[SettingPathPrefix], "/"),
	}
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}
	return cfg, nil
}

// matches reports whether a file path falls under the configured prefix.
func (c *Config) matches(path string) bool {
	if c.PathPrefix == "" {
		return true
	}
	return strings.HasPrefix(path, c.PathPrefix)
}
