// Package notion implements the connector for Notion databases.
// Documents are pages in a configured database; the page ID is the
// external ID.
package notion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
)

// CredentialToken is the credential key carrying the integration token.
const CredentialToken = "token"

// SettingDatabaseID is the settings key naming the database to sync.
const SettingDatabaseID = "database_id"

// pageSize is the Notion API page size for queries.
const pageSize = 100

// ErrMissingDatabaseID indicates the "database_id" setting is absent.
var ErrMissingDatabaseID = errors.New("notion: database_id is required")

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector fetches pages from a Notion database.
type Connector struct{}

// New creates a Notion connector.
func New() *Connector {
	return &Connector{}
}

// Type returns the source type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceTypeNotion
}

// Metadata returns the connector's descriptive metadata.
func (c *Connector) Metadata() domain.ConnectorType {
	return domain.ConnectorType{
		ID:             domain.SourceTypeNotion,
		Name:           "Notion",
		Description:    "Sync pages from a Notion database",
		CredentialKeys: []string{CredentialToken},
		ConfigKeys: []domain.ConfigKey{
			{
				Key:         SettingDatabaseID,
				Type:        "string",
				Description: "ID of the database to sync",
				Required:    true,
			},
		},
	}
}

// ValidateCredentials checks the integration token is present.
func (c *Connector) ValidateCredentials(creds domain.Credentials) bool {
	return strings.TrimSpace(creds[CredentialToken]) != ""
}

// TestConnection fetches the integration's own bot user.
func (c *Connector) TestConnection(ctx context.Context, creds domain.Credentials, cfg domain.SourceConfig) bool {
	if cfg.Setting(SettingDatabaseID) == "" {
		return false
	}
	client := notionapi.NewClient(notionapi.Token(creds[CredentialToken]))
	_, err := client.User.Me(ctx)
	return err == nil
}

// FetchDocuments queries the configured database for pages edited since
// req.Since. The query filters by last_edited_time server-side and
// returns pages newest first, capped at req.MaxDocuments.
func (c *Connector) FetchDocuments(ctx context.Context, creds domain.Credentials, req driven.FetchRequest) ([]domain.ExternalDocument, error) {
	databaseID := req.Settings[SettingDatabaseID]
	if databaseID == "" {
		return nil, ErrMissingDatabaseID
	}
	client := notionapi.NewClient(notionapi.Token(creds[CredentialToken]))

	query := &notionapi.DatabaseQueryRequest{
		PageSize: pageSize,
		Sorts: []notionapi.SortObject{
			{Timestamp: notionapi.TimestampLastEdited, Direction: notionapi.SortOrderDESC},
		},
	}
	if req.Since != nil {
		after := notionapi.Date(*req.Since)
		query.Filter = notionapi.TimestampFilter{
			Timestamp:      notionapi.TimestampLastEdited,
			LastEditedTime: &notionapi.DateFilterCondition{After: &after},
		}
	}

	var docs []domain.ExternalDocument
	for {
		resp, err := client.Database.Query(ctx, notionapi.DatabaseID(databaseID), query)
		if err != nil {
			return nil, fmt.Errorf("query database: %w", err)
		}

		for i := range resp.Results {
			page := &resp.Results[i]
			doc, err := c.pageToDocument(ctx, client, page, databaseID)
			if err != nil {
				return nil, fmt.Errorf("page %s: %w", page.ID, err)
			}
			docs = append(docs, *doc)
			if req.MaxDocuments > 0 && len(docs) >= req.MaxDocuments {
				return docs, nil
			}
		}

		if !resp.HasMore {
			return docs, nil
		}
		query.StartCursor = resp.NextCursor
	}
}

// pageToDocument builds a document from one database page, pulling the
// page's block children for the content body.
func (c *Connector) pageToDocument(ctx context.Context, client *notionapi.Client, page *notionapi.Page, databaseID string) (*domain.ExternalDocument, error) {
	title := pageTitle(page)
	content, err := c.pageContent(ctx, client, page.ID.String())
	if err != nil {
		return nil, err
	}

	return &domain.ExternalDocument{
		ExternalID:   page.ID.String(),
		Title:        title,
		Content:      content,
		ContentType:  "text/markdown",
		URL:          page.URL,
		LastModified: page.LastEditedTime,
		Metadata: map[string]any{
			"database_id": databaseID,
			"archived":    page.Archived,
		},
		Category: "notes",
	}, nil
}

// pageContent concatenates the plain text of the page's blocks.
func (c *Connector) pageContent(ctx context.Context, client *notionapi.Client, pageID string) (string, error) {
	var sb strings.Builder
	cursor := notionapi.Cursor("")

	for {
		resp, err := client.Block.GetChildren(ctx, notionapi.BlockID(pageID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return "", fmt.Errorf("get blocks: %w", err)
		}

		for _, block := range resp.Results {
			if text := blockText(block); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}

		if !resp.HasMore {
			return sb.String(), nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// blockText extracts plain text from the common block types.
// Unknown block types yield "".
func blockText(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return richText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return richText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return richText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return richText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return richText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return richText(b.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		return richText(b.ToDo.RichText)
	case *notionapi.QuoteBlock:
		return richText(b.Quote.RichText)
	case *notionapi.CodeBlock:
		return richText(b.Code.RichText)
	default:
		return ""
	}
}

// richText joins the plain text of a rich text run.
func richText(parts []notionapi.RichText) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.PlainText)
	}
	return sb.String()
}

// pageTitle finds the page's title property.
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return richText(title.Title)
		}
	}
	return ""
}
