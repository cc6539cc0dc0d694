// Package dropbox implements the connector for Dropbox folders.
// Documents are files under a folder; the Dropbox file ID is the
// external ID.
//
// The Dropbox listing API cannot filter by modification time, so the
// connector lists everything, filters client-side and returns the most
// recently modified files up to the fetch cap.
package dropbox

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/users"

	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
)

// CredentialAccessToken is the credential key carrying the OAuth token.
const CredentialAccessToken = "access_token"

// SettingPath optionally restricts the sync to one folder.
const SettingPath = "path"

// maxContentSize caps downloaded file content (5MB).
const maxContentSize = 5 * 1024 * 1024

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector fetches files from Dropbox.
type Connector struct{}

// New creates a Dropbox connector.
func New() *Connector {
	return &Connector{}
}

// Type returns the source type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceTypeDropbox
}

// Metadata returns the connector's descriptive metadata.
func (c *Connector) Metadata() domain.ConnectorType {
	return domain.ConnectorType{
		ID:             domain.SourceTypeDropbox,
		Name:           "Dropbox",
		Description:    "Sync files from a Dropbox folder",
		CredentialKeys: []string{CredentialAccessToken},
		ConfigKeys: []domain.ConfigKey{
			{
				Key:         SettingPath,
				Type:        "string",
				Description: "Folder path to sync (empty for the whole Dropbox)",
			},
		},
	}
}

// ValidateCredentials checks the access token is present.
func (c *Connector) ValidateCredentials(creds domain.Credentials) bool {
	return strings.TrimSpace(creds[CredentialAccessToken]) != ""
}

// TestConnection fetches the authenticated account.
func (c *Connector) TestConnection(_ context.Context, creds domain.Credentials, _ domain.SourceConfig) bool {
	client := users.New(dropbox.Config{Token: creds[CredentialAccessToken]})
	_, err := client.GetCurrentAccount()
	return err == nil
}

// FetchDocuments lists the folder recursively, keeps text files
// modified after req.Since and returns the most recently modified ones
// first, capped at req.MaxDocuments.
func (c *Connector) FetchDocuments(_ context.Context, creds domain.Credentials, req driven.FetchRequest) ([]domain.ExternalDocument, error) {
	cfg := dropbox.Config{Token: creds[CredentialAccessToken]}
	client := files.New(cfg)

	entries, err := listFolder(client, req.Settings[SettingPath])
	if err != nil {
		return nil, err
	}

	// Client-side incremental filter; the API has no server-side one.
	var candidates []*files.FileMetadata
	for _, entry := range entries {
		if isBinaryName(entry.Name) {
			continue
		}
		if req.Since != nil && !entry.ServerModified.After(*req.Since) {
			continue
		}
		candidates = append(candidates, entry)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ServerModified.After(candidates[j].ServerModified)
	})
	if req.MaxDocuments > 0 && len(candidates) > req.MaxDocuments {
		candidates = candidates[:req.MaxDocuments]
	}

	docs := make([]domain.ExternalDocument, 0, len(candidates))
	for _, entry := range candidates {
		content, err := downloadFile(client, entry.PathLower)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", entry.PathDisplay, err)
		}
		docs = append(docs, domain.ExternalDocument{
			ExternalID:   entry.Id,
			Title:        entry.Name,
			Content:      content,
			ContentType:  contentTypeFor(entry.Name),
			URL:          "dropbox://" + strings.TrimPrefix(entry.PathDisplay, "/"),
			LastModified: entry.ServerModified,
			Metadata: map[string]any{
				"path": entry.PathDisplay,
				"rev":  entry.Rev,
				"size": entry.Size,
			},
			Category: "drive",
		})
	}
	return docs, nil
}

// listFolder returns all file entries under a folder, following the
// listing cursor across pages.
func listFolder(client files.Client, folderPath string) ([]*files.FileMetadata, error) {
	arg := files.NewListFolderArg(folderPath)
	arg.Recursive = true

	res, err := client.ListFolder(arg)
	if err != nil {
		return nil, fmt.Errorf("list folder: %w", err)
	}

	var entries []*files.FileMetadata
	for {
		for _, entry := range res.Entries {
			if file, ok := entry.(*files.FileMetadata); ok {
				entries = append(entries, file)
			}
		}
		if !res.HasMore {
			return entries, nil
		}
		res, err = client.ListFolderContinue(files.NewListFolderContinueArg(res.Cursor))
		if err != nil {
			return nil, fmt.Errorf("list folder continue: %w", err)
		}
	}
}

// downloadFile fetches one file's content.
func downloadFile(client files.Client, filePath string) (string, error) {
	_, rc, err := client.Download(files.NewDownloadArg(filePath))
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxContentSize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// contentTypeFor maps a file name to a content type.
func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	case ".json":
		return "application/json"
	default:
		return "text/plain"
	}
}

// isBinaryName reports whether a file name looks like binary content.
func isBinaryName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".pdf", ".zip", ".mov", ".mp4", ".mp3", ".exe", ".dmg":
		return true
	}
	return false
}
