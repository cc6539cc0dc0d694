// Package github implements the connector for GitHub repositories.
// Documents are files on a branch; the file path is the external ID.
package github

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
)

// CredentialToken is the credential key carrying the access token.
const CredentialToken = "token"

// maxCommitPages bounds the commit walk for full fetches.
const maxCommitPages = 10

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector fetches repository files from GitHub.
type Connector struct{}

// New creates a GitHub connector.
func New() *Connector {
	return &Connector{}
}

// Type returns the source type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceTypeGitHub
}

// Metadata returns the connector's descriptive metadata.
func (c *Connector) Metadata() domain.ConnectorType {
	return domain.ConnectorType{
		ID:             domain.SourceTypeGitHub,
		Name:           "GitHub",
		Description:    "Sync files from a GitHub repository branch",
		CredentialKeys: []string{CredentialToken},
		ConfigKeys: []domain.ConfigKey{
			{
				Key:         SettingRepository,
				Type:        "string",
				Description: "Repository in owner/name form",
				Required:    true,
			},
			{
				Key:         SettingBranch,
				Type:        "string",
				Description: "Branch to sync from",
				Default:     DefaultBranch,
			},
			{
				Key:         SettingPathPrefix,
				Type:        "string",
				Description: "Only sync files under this path",
			},
		},
	}
}

// ValidateCredentials checks the token is present. No network calls.
func (c *Connector) ValidateCredentials(creds domain.Credentials) bool {
	return strings.TrimSpace(creds[CredentialToken]) != ""
}

// TestConnection fetches the configured repository's metadata.
// Returns false on any failure; auth and network failures are expected
// outcomes here, not errors.
func (c *Connector) TestConnection(ctx context.Context, creds domain.Credentials, cfg domain.SourceConfig) bool {
	parsed, err := ParseSettings(cfg.Settings)
	if err != nil {
		return false
	}
	client := newClient(ctx, creds[CredentialToken])
	if err := client.wait(ctx); err != nil {
		return false
	}
	_, _, err = client.gh.Repositories.Get(ctx, parsed.Owner, parsed.Repo)
	return err == nil
}

// FetchDocuments returns files changed since req.Since, newest first,
// capped at req.MaxDocuments. The commit list API filters by time
// server-side; a nil Since walks the recent history instead.
func (c *Connector) FetchDocuments(ctx context.Context, creds domain.Credentials, req driven.FetchRequest) ([]domain.ExternalDocument, error) {
	cfg, err := ParseSettings(req.Settings)
	if err != nil {
		return nil, err
	}
	client := newClient(ctx, creds[CredentialToken])

	changed, err := c.collectChangedFiles(ctx, client, cfg, req)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.ExternalDocument, 0, len(changed))
	for _, file := range changed {
		doc, err := c.fetchFile(ctx, client, cfg, file)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", file.path, err)
		}
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

// changedFile is one path seen in the commit walk, with the time and
// author of the newest commit touching it.
type changedFile struct {
	path       string
	modifiedAt time.Time
	author     string
	sha        string
}

// collectChangedFiles walks the branch history newest-first and
// records the files touched, capped at req.MaxDocuments distinct paths.
func (c *Connector) collectChangedFiles(ctx context.Context, client *Client, cfg *Config, req driven.FetchRequest) ([]changedFile, error) {
	opts := &gh.CommitsListOptions{
		SHA:         cfg.Branch,
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	if req.Since != nil {
		opts.Since = *req.Since
	}
	if cfg.PathPrefix != "" {
		opts.Path = cfg.PathPrefix
	}

	seen := make(map[string]struct{})
	var files []changedFile

	for page := 0; page < maxCommitPages; page++ {
		if err := client.wait(ctx); err != nil {
			return nil, err
		}
		commits, resp, err := client.gh.Repositories.ListCommits(ctx, cfg.Owner, cfg.Repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits: %w", err)
		}

		for _, commit := range commits {
			done, err := c.collectCommitFiles(ctx, client, cfg, commit, req.MaxDocuments, seen, &files)
			if err != nil {
				return nil, err
			}
			if done {
				return files, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return files, nil
}

// collectCommitFiles appends the files touched by one commit.
// Returns true when the MaxDocuments cap is reached.
func (c *Connector) collectCommitFiles(
	ctx context.Context,
	client *Client,
	cfg *Config,
	commit *gh.RepositoryCommit,
	maxDocs int,
	seen map[string]struct{},
	files *[]changedFile,
) (bool, error) {
	if err := client.wait(ctx); err != nil {
		return false, err
	}
	detail, _, err := client.gh.Repositories.GetCommit(ctx, cfg.Owner, cfg.Repo, commit.GetSHA(), nil)
	if err != nil {
		return false, fmt.Errorf("get commit %s: %w", commit.GetSHA(), err)
	}

	modifiedAt := detail.GetCommit().GetCommitter().GetDate().Time
	author := detail.GetCommit().GetAuthor().GetName()

	for _, f := range detail.Files {
		filePath := f.GetFilename()
		if _, ok := seen[filePath]; ok {
			continue // Newest commit for this path already recorded
		}
		seen[filePath] = struct{}{}

		if f.GetStatus() == "removed" || !cfg.matches(filePath) || isBinaryPath(filePath) {
			continue
		}

		*files = append(*files, changedFile{
			path:       filePath,
			modifiedAt: modifiedAt,
			author:     author,
			sha:        commit.GetSHA(),
		})
		if maxDocs > 0 && len(*files) >= maxDocs {
			return true, nil
		}
	}
	return false, nil
}

// fetchFile downloads one file's content and builds its document.
// A nil document means the path no longer exists on the branch.
func (c *Connector) fetchFile(ctx context.Context, client *Client, cfg *Config, file changedFile) (*domain.ExternalDocument, error) {
	if err := client.wait(ctx); err != nil {
		return nil, err
	}
	fileContent, _, resp, err := client.gh.Repositories.GetContents(
		ctx, cfg.Owner, cfg.Repo, file.path,
		&gh.RepositoryContentGetOptions{Ref: cfg.Branch},
	)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil, nil
		}
		return nil, err
	}
	if fileContent == nil {
		return nil, nil // Directory
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	return &domain.ExternalDocument{
		ExternalID:   file.path,
		Title:        path.Base(file.path),
		Content:      content,
		ContentType:  contentTypeFor(file.path),
		URL:          fileContent.GetHTMLURL(),
		LastModified: file.modifiedAt,
		Metadata: map[string]any{
			"path":   file.path,
			"sha":    file.sha,
			"author": file.author,
			"branch": cfg.Branch,
		},
		Category: "code",
	}, nil
}

// contentTypeFor maps a file extension to a content type.
func contentTypeFor(filePath string) string {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "text/plain"
	}
}

// isBinaryPath reports whether a path looks like binary content the
// sync should skip.
func isBinaryPath(filePath string) bool {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".ico", ".pdf", ".zip",
		".tar", ".gz", ".jar", ".exe", ".so", ".dylib", ".bin", ".woff", ".woff2":
		return true
	}
	return false
}
