package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDocument(t *testing.T) {
	now := time.Now().UTC()
	doc := NewDocument("doc-1", "user-1", "contract.pdf", "application/pdf", 2048, now)

	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "user-1", doc.OwnerID)
	assert.Equal(t, DocumentStatusPending, doc.Status)
	assert.False(t, doc.Processed)
	assert.Empty(t, doc.Content)
	assert.Equal(t, now, doc.CreatedAt)
	assert.Equal(t, now, doc.UpdatedAt)
}

func TestValidateDocument(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		doc     *Document
		wantErr bool
	}{
		{
			name:    "valid document",
			doc:     NewDocument("doc-1", "user-1", "contract.pdf", "application/pdf", 2048, now),
			wantErr: false,
		},
		{
			name:    "valid shared corpus document without owner",
			doc:     NewDocument("doc-2", "", "constitution.txt", "text/plain", 1024, now),
			wantErr: false,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: true,
		},
		{
			name:    "missing id",
			doc:     &Document{FileName: "a.txt", MimeType: "text/plain", Status: DocumentStatusPending},
			wantErr: true,
		},
		{
			name:    "missing file name",
			doc:     &Document{ID: "doc-1", MimeType: "text/plain", Status: DocumentStatusPending},
			wantErr: true,
		},
		{
			name:    "missing mime type",
			doc:     &Document{ID: "doc-1", FileName: "a.txt", Status: DocumentStatusPending},
			wantErr: true,
		},
		{
			name:    "invalid status",
			doc:     &Document{ID: "doc-1", FileName: "a.txt", MimeType: "text/plain", Status: "archived"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDocument_IsTerminal(t *testing.T) {
	tests := []struct {
		status DocumentStatus
		want   bool
	}{
		{DocumentStatusPending, false},
		{DocumentStatusProcessing, false},
		{DocumentStatusEmbedding, false},
		{DocumentStatusCompleted, true},
		{DocumentStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			doc := &Document{Status: tt.status}
			assert.Equal(t, tt.want, doc.IsTerminal())
		})
	}
}

func TestDomainError(t *testing.T) {
	err := NewDomainError(ErrCodeEmptyContent, "no extractable text content")
	assert.Equal(t, "[EMPTY_CONTENT] no extractable text content", err.Error())
	assert.Nil(t, err.Unwrap())

	wrapped := NewDomainErrorWithCause(ErrCodeExtractionFailure, "text extraction failed", assert.AnError)
	assert.Contains(t, wrapped.Error(), "EXTRACTION_FAILURE")
	assert.Equal(t, assert.AnError, wrapped.Unwrap())
}
