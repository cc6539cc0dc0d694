package domain

import "time"

// MetadataKeyExternalID is the metadata key under which every synced
// document stores the identifier assigned by its source system.
const MetadataKeyExternalID = "externalId"

// Document represents one locally stored externally-sourced artifact.
type Document struct {
	// ID is the unique local identifier for the document.
	ID string

	// SourceID links to the DataSource that produced this document.
	SourceID string

	// ExternalID is the stable identifier assigned by the source system.
	// It is the reconciliation key and is unique within a source.
	ExternalID string

	// Title is the human-readable title.
	Title string

	// Content is the full text content.
	Content string

	// ContentType describes the content format (e.g. "text/markdown").
	ContentType string

	// URL is the document's location in the source system.
	URL string

	// Metadata contains arbitrary key-value pairs. It always carries
	// MetadataKeyExternalID plus connector-specific fields.
	Metadata map[string]any

	// ChunkCount is the number of chunks stored for this document.
	// Maintained by the orchestrator after each re-chunk.
	ChunkCount int

	// CreatedAt is when the document was first synced.
	CreatedAt time.Time

	// UpdatedAt is compared against the source's LastModified to decide
	// whether a fetched document is newer than the stored one.
	UpdatedAt time.Time
}

// Chunk represents one searchable unit within a document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// ExternalDocument is one artifact as reported by a connector fetch.
type ExternalDocument struct {
	// ExternalID is the source system's stable identifier.
	ExternalID string

	// Title is the document title in the source system.
	Title string

	// Content is the full text content.
	Content string

	// ContentType describes the content format.
	ContentType string

	// URL is the document's location in the source system.
	URL string

	// LastModified is when the source system last changed the document.
	LastModified time.Time

	// Metadata contains connector-specific fields (path, author, ...).
	Metadata map[string]any

	// Tags are optional labels from the source system.
	Tags []string

	// Category is an optional classification from the source system.
	Category string
}
