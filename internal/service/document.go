package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/telemetry"
)

// BlobStore persists raw uploaded files
type BlobStore interface {
	PutObject(ctx context.Context, key string, contentType string, data []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// MimeChecker reports whether a MIME type can be extracted
type MimeChecker interface {
	Supported(mimeType string) bool
}

// Ingester runs the ingestion pipeline for a stored document
type Ingester interface {
	Ingest(ctx context.Context, input IngestInput) error
}

// MaxUploadBytes caps uploaded file size at 20 MiB.
const MaxUploadBytes = 20 << 20

// DocumentService handles document uploads and lookups.
type DocumentService struct {
	docRepo   DocumentRepositoryInterface
	chunkRepo ChunkRepositoryInterface
	blobs     BlobStore
	mimes     MimeChecker
	ingester  Ingester
	uuidGen   UUIDGenerator
}

// NewDocumentService creates a new DocumentService instance.
// blobs may be nil when no object storage is configured; uploads are
// then ingested synchronously from memory.
func NewDocumentService(
	docRepo DocumentRepositoryInterface,
	chunkRepo ChunkRepositoryInterface,
	blobs BlobStore,
	mimes MimeChecker,
	ingester Ingester,
) *DocumentService {
	return &DocumentService{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		blobs:     blobs,
		mimes:     mimes,
		ingester:  ingester,
		uuidGen:   &DefaultUUIDGenerator{},
	}
}

// UploadInput is one file upload.
type UploadInput struct {
	OwnerID  string
	FileName string
	MimeType string
	Data     []byte
	// Text carries pre-extracted content supplied by the caller,
	// skipping the extraction phase.
	Text string
	// Async stores the document as pending for the background worker
	// instead of ingesting inline. Requires a blob store.
	Async bool
	// SkipEmbeddings completes the document after extraction only.
	SkipEmbeddings bool
}

// Upload validates the file, persists the document record and raw bytes,
// and either ingests inline or leaves the document pending for the
// ingest worker.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Upload", telemetry.SpanAttributes{
		OwnerID:   input.OwnerID,
		Operation: "upload",
	})
	defer span.End()

	if input.FileName == "" || input.MimeType == "" {
		return nil, domain.ErrMissingRequiredField
	}
	if len(input.Data) == 0 {
		return nil, domain.ErrEmptyContent
	}
	if len(input.Data) > MaxUploadBytes {
		return nil, domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("file exceeds maximum size of %d bytes", MaxUploadBytes))
	}
	if !s.mimes.Supported(input.MimeType) {
		return nil, domain.NewDomainError(domain.ErrCodeUnsupportedType,
			"unsupported file type: "+input.MimeType)
	}
	if input.Async && s.blobs == nil {
		return nil, domain.NewDomainError(domain.ErrCodeConfiguration,
			"async ingestion requires object storage")
	}

	now := time.Now().UTC()
	doc := domain.NewDocument(s.uuidGen.NewString(), input.OwnerID, input.FileName, input.MimeType, int64(len(input.Data)), now)
	// Pre-extracted text and the embeddings opt-out are stored up front
	// so the background worker honors them too.
	doc.Content = input.Text
	doc.SkipEmbeddings = input.SkipEmbeddings

	if s.blobs != nil {
		doc.StoragePath = fmt.Sprintf("documents/%s/%s", doc.ID, doc.FileName)
		if err := s.blobs.PutObject(ctx, doc.StoragePath, doc.MimeType, input.Data); err != nil {
			span.SetError(err)
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreFailure,
				"failed to store uploaded file", err)
		}
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		span.SetError(err)
		return nil, err
	}

	if input.Async {
		return doc, nil
	}

	if err := s.ingester.Ingest(ctx, IngestInput{
		DocumentID:     doc.ID,
		Data:           input.Data,
		Text:           input.Text,
		SkipEmbeddings: input.SkipEmbeddings,
	}); err != nil {
		// The document row already records the failure; return the
		// refreshed state alongside the error.
		if failed, getErr := s.docRepo.GetByID(ctx, doc.ID); getErr == nil {
			return failed, err
		}
		return doc, err
	}

	return s.docRepo.GetByID(ctx, doc.ID)
}

// DocumentDetail pairs a document with its chunk count.
type DocumentDetail struct {
	Document   *domain.Document
	ChunkCount int
}

// Get returns a document and how many chunks it produced.
func (s *DocumentService) Get(ctx context.Context, id string) (*DocumentDetail, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.chunkRepo.CountByDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	return &DocumentDetail{Document: doc, ChunkCount: count}, nil
}

// ListByOwner returns a user's documents, newest first.
func (s *DocumentService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Document, error) {
	if ownerID == "" {
		return nil, domain.ErrMissingRequiredField
	}
	return s.docRepo.ListByOwner(ctx, ownerID)
}
