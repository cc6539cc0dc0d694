// Package gdrive implements the connector for Google Drive folders.
// Documents are files in Drive; the Drive file ID is the external ID.
package gdrive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
)

// CredentialAccessToken is the credential key carrying the OAuth token.
const CredentialAccessToken = "access_token"

// SettingFolderID optionally restricts the sync to one folder.
const SettingFolderID = "folder_id"

// Google Workspace MIME types that are exported rather than downloaded.
const (
	mimeTypeGoogleDoc   = "application/vnd.google-apps.document"
	mimeTypeGoogleSheet = "application/vnd.google-apps.spreadsheet"
	mimeTypeFolder      = "application/vnd.google-apps.folder"

	exportMimeText = "text/plain"
	exportMimeCSV  = "text/csv"
)

// maxContentSize caps downloaded file content (5MB).
const maxContentSize = 5 * 1024 * 1024

// pageSize is the Drive API listing page size.
const pageSize = 100

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector fetches files from Google Drive.
type Connector struct{}

// New creates a Google Drive connector.
func New() *Connector {
	return &Connector{}
}

// Type returns the source type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceTypeGDrive
}

// Metadata returns the connector's descriptive metadata.
func (c *Connector) Metadata() domain.ConnectorType {
	return domain.ConnectorType{
		ID:             domain.SourceTypeGDrive,
		Name:           "Google Drive",
		Description:    "Sync documents from Google Drive",
		CredentialKeys: []string{CredentialAccessToken},
		ConfigKeys: []domain.ConfigKey{
			{
				Key:         SettingFolderID,
				Type:        "string",
				Description: "Only sync files in this folder",
			},
		},
	}
}

// ValidateCredentials checks the access token is present.
func (c *Connector) ValidateCredentials(creds domain.Credentials) bool {
	return strings.TrimSpace(creds[CredentialAccessToken]) != ""
}

// TestConnection fetches the authenticated user's profile.
func (c *Connector) TestConnection(ctx context.Context, creds domain.Credentials, _ domain.SourceConfig) bool {
	svc, err := c.service(ctx, creds)
	if err != nil {
		return false
	}
	_, err = svc.About.Get().Fields("user").Context(ctx).Do()
	return err == nil
}

// FetchDocuments lists files modified since req.Since, newest first,
// capped at req.MaxDocuments. The Drive API filters by modifiedTime
// server-side.
func (c *Connector) FetchDocuments(ctx context.Context, creds domain.Credentials, req driven.FetchRequest) ([]domain.ExternalDocument, error) {
	svc, err := c.service(ctx, creds)
	if err != nil {
		return nil, err
	}

	query := buildQuery(req.Settings[SettingFolderID], req.Since)

	var docs []domain.ExternalDocument
	pageToken := ""
	for {
		call := svc.Files.List().
			Q(query).
			OrderBy("modifiedTime desc").
			PageSize(pageSize).
			Fields("nextPageToken, files(id, name, mimeType, modifiedTime, webViewLink, size, parents)").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}

		for _, file := range list.Files {
			if file.MimeType == mimeTypeFolder {
				continue
			}
			doc, err := c.fileToDocument(ctx, svc, file)
			if err != nil {
				return nil, fmt.Errorf("file %s: %w", file.Id, err)
			}
			if doc == nil {
				continue // Binary or oversized
			}
			docs = append(docs, *doc)
			if req.MaxDocuments > 0 && len(docs) >= req.MaxDocuments {
				return docs, nil
			}
		}

		if list.NextPageToken == "" {
			return docs, nil
		}
		pageToken = list.NextPageToken
	}
}

// service builds a Drive API client from the credential blob.
func (c *Connector) service(ctx context.Context, creds domain.Credentials) (*drive.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds[CredentialAccessToken]})
	return drive.NewService(ctx, option.WithTokenSource(ts))
}

// buildQuery assembles the Drive search query.
func buildQuery(folderID string, since *time.Time) string {
	parts := []string{"trashed = false"}
	if folderID != "" {
		parts = append(parts, fmt.Sprintf("'%s' in parents", folderID))
	}
	if since != nil {
		parts = append(parts, fmt.Sprintf("modifiedTime > '%s'", since.UTC().Format(time.RFC3339)))
	}
	return strings.Join(parts, " and ")
}

// fileToDocument downloads or exports one file's content and builds its
// document. Returns nil for content the sync should skip.
func (c *Connector) fileToDocument(ctx context.Context, svc *drive.Service, file *drive.File) (*domain.ExternalDocument, error) {
	content, contentType, err := fetchContent(ctx, svc, file)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		return nil, nil
	}

	modified, err := time.Parse(time.RFC3339, file.ModifiedTime)
	if err != nil {
		return nil, fmt.Errorf("parse modifiedTime: %w", err)
	}

	return &domain.ExternalDocument{
		ExternalID:   file.Id,
		Title:        file.Name,
		Content:      content,
		ContentType:  contentType,
		URL:          file.WebViewLink,
		LastModified: modified,
		Metadata: map[string]any{
			"mime_type": file.MimeType,
			"size":      file.Size,
		},
		Category: "drive",
	}, nil
}

// fetchContent retrieves a file's text content. Workspace files are
// exported; plain text files are downloaded; everything else is skipped
// by returning an empty content type.
func fetchContent(ctx context.Context, svc *drive.Service, file *drive.File) (string, string, error) {
	switch file.MimeType {
	case mimeTypeGoogleDoc:
		content, err := export(ctx, svc, file.Id, exportMimeText)
		return content, exportMimeText, err
	case mimeTypeGoogleSheet:
		content, err := export(ctx, svc, file.Id, exportMimeCSV)
		return content, exportMimeCSV, err
	}

	if !strings.HasPrefix(file.MimeType, "text/") || file.Size > maxContentSize {
		return "", "", nil
	}

	resp, err := svc.Files.Get(file.Id).Context(ctx).Download()
	if err != nil {
		return "", "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxContentSize))
	if err != nil {
		return "", "", fmt.Errorf("read content: %w", err)
	}
	return string(data), file.MimeType, nil
}

// export converts a Google Workspace file to the given format.
func export(ctx context.Context, svc *drive.Service, fileID, mimeType string) (string, error) {
	resp, err := svc.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxContentSize))
	if err != nil {
		return "", fmt.Errorf("read export: %w", err)
	}
	return string(data), nil
}
