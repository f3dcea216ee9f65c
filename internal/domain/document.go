package domain

import (
	"fmt"
	"time"
)

// DocumentStatus represents the ingestion lifecycle state of a document
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusEmbedding  DocumentStatus = "embedding"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Document represents an uploaded or pre-seeded source of knowledge.
// OwnerID is empty for shared corpora such as the constitution corpus.
type Document struct {
	ID          string
	OwnerID     string
	FileName    string
	MimeType    string
	SizeBytes   int64
	StoragePath string
	Content     string // extracted text, empty until extraction completes
	// SkipEmbeddings marks an upload that opted out of embedding
	// generation; ingestion completes after extraction.
	SkipEmbeddings bool
	Status         DocumentStatus
	Processed   bool
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDocument creates a Document in the pending state
func NewDocument(id, ownerID, fileName, mimeType string, sizeBytes int64, now time.Time) *Document {
	return &Document{
		ID:        id,
		OwnerID:   ownerID,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: sizeBytes,
		Status:    DocumentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsTerminal reports whether the document is in a terminal lifecycle state.
// Failed and completed documents are never retried automatically.
func (d *Document) IsTerminal() bool {
	return d.Status == DocumentStatusCompleted || d.Status == DocumentStatusFailed
}

// ValidateDocument validates a Document instance
func ValidateDocument(d *Document) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	if d.FileName == "" {
		return fmt.Errorf("document FileName is required")
	}

	if d.MimeType == "" {
		return fmt.Errorf("document MimeType is required")
	}

	if !isValidDocumentStatus(d.Status) {
		return fmt.Errorf("document Status is invalid: %s", d.Status)
	}

	return nil
}

// isValidDocumentStatus checks if a DocumentStatus is valid
func isValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocumentStatusPending, DocumentStatusProcessing, DocumentStatusEmbedding,
		DocumentStatusCompleted, DocumentStatusFailed:
		return true
	}
	return false
}
