package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/telemetry"
)

// DocumentRepositoryInterface defines the repository interface for document persistence
type DocumentRepositoryInterface interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMsg string) error
	SetContent(ctx context.Context, id string, content string) error
	ListPending(ctx context.Context, limit int) ([]*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Document, error)
}

// SearchFilter narrows retrieval to one document or one owner's documents.
// Zero value searches the full corpus.
type SearchFilter struct {
	DocumentID string
	OwnerID    string
}

// ChunkRepositoryInterface defines the repository interface for chunk persistence and retrieval
type ChunkRepositoryInterface interface {
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error
	Search(ctx context.Context, embedding []float32, threshold float64, limit int, filter SearchFilter) ([]domain.RetrievalResult, error)
	CountByDocument(ctx context.Context, documentID string) (int, error)
}

// EmbeddingProvider generates a fixed-length vector for a text
type EmbeddingProvider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// TextExtractor converts raw file bytes into plain text by MIME type
type TextExtractor interface {
	Extract(ctx context.Context, mimeType string, data []byte) (string, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// DefaultEmbedConcurrency bounds concurrent embedding calls per document
const DefaultEmbedConcurrency = 5

// IngestService coordinates extraction, chunking, embedding and storage
// for an uploaded document, moving it through the processing states.
type IngestService struct {
	docRepo     DocumentRepositoryInterface
	chunkRepo   ChunkRepositoryInterface
	embedder    EmbeddingProvider
	extractor   TextExtractor
	uuidGen     UUIDGenerator
	chunkCfg    ChunkConfig
	concurrency int
}

// IngestConfig tunes chunking and embedding concurrency.
type IngestConfig struct {
	Chunking    ChunkConfig
	Concurrency int
}

// NewIngestService creates a new IngestService instance
func NewIngestService(
	docRepo DocumentRepositoryInterface,
	chunkRepo ChunkRepositoryInterface,
	embedder EmbeddingProvider,
	extractor TextExtractor,
	cfg IngestConfig,
) *IngestService {
	if cfg.Chunking.Size <= 0 {
		cfg.Chunking = DefaultChunkConfig()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultEmbedConcurrency
	}
	return &IngestService{
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		extractor:   extractor,
		uuidGen:     &DefaultUUIDGenerator{},
		chunkCfg:    cfg.Chunking,
		concurrency: cfg.Concurrency,
	}
}

// IngestInput carries the raw file for one ingestion run.
type IngestInput struct {
	DocumentID string
	// Data holds the uploaded file bytes. Ignored when Text is set.
	Data []byte
	// Text carries pre-extracted content, skipping the extraction phase.
	Text string
	// SkipEmbeddings completes the document after extraction, producing
	// no chunks. The document is still readable but not retrievable.
	SkipEmbeddings bool
}

// Ingest runs the full pipeline for one document: pending → processing →
// embedding → completed or failed. Partial embedding failures still
// complete the document with an error message noting the failed count.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) error {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.Ingest", telemetry.SpanAttributes{
		DocumentID: input.DocumentID,
		Operation:  "ingest",
	})
	defer span.End()

	doc, err := s.docRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		span.SetError(err)
		return err
	}
	if doc.IsTerminal() {
		return domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("document %s already in terminal status %s", doc.ID, doc.Status))
	}

	if err := s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusProcessing, ""); err != nil {
		span.SetError(err)
		return err
	}

	text := input.Text
	if text == "" {
		text, err = s.extractor.Extract(ctx, doc.MimeType, input.Data)
		if err != nil {
			s.fail(ctx, doc.ID, err)
			span.SetError(err)
			return err
		}
	}

	if err := s.docRepo.SetContent(ctx, doc.ID, text); err != nil {
		s.fail(ctx, doc.ID, err)
		span.SetError(err)
		return err
	}

	if input.SkipEmbeddings {
		return s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusCompleted, "")
	}

	if err := s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusEmbedding, ""); err != nil {
		span.SetError(err)
		return err
	}

	texts, err := ChunkText(text, s.chunkCfg)
	if err != nil {
		s.fail(ctx, doc.ID, err)
		span.SetError(err)
		return err
	}
	if len(texts) == 0 {
		err := domain.NewDomainError(domain.ErrCodeEmptyContent, "document produced no usable chunks")
		s.fail(ctx, doc.ID, err)
		return err
	}

	stored, failed, err := s.embedAndStore(ctx, doc, texts)
	if err != nil {
		s.fail(ctx, doc.ID, err)
		span.SetError(err)
		return err
	}

	switch {
	case stored == 0:
		err := domain.NewDomainError(domain.ErrCodeEmbeddingFailure,
			fmt.Sprintf("all %d chunks failed to embed", failed))
		s.fail(ctx, doc.ID, err)
		return err
	case failed > 0:
		return s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusCompleted,
			fmt.Sprintf("%d chunks failed to embed", failed))
	default:
		return s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusCompleted, "")
	}
}

// embedAndStore embeds chunk texts with bounded concurrency and persists
// the successful ones. Ordinal indices follow source order regardless of
// embedding completion order. Per-chunk failures are isolated.
func (s *IngestService) embedAndStore(ctx context.Context, doc *domain.Document, texts []string) (stored, failed int, err error) {
	embeddings := make([][]float32, len(texts))
	errs := make([]error, len(texts))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, text string) {
			defer wg.Done()
			defer func() { <-sem }()
			embeddings[i], errs[i] = s.embedder.GenerateEmbedding(ctx, text)
		}(i, text)
	}
	wg.Wait()

	now := time.Now().UTC()
	chunks := make([]domain.Chunk, 0, len(texts))
	for i := range texts {
		if errs[i] != nil {
			failed++
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:         s.uuidGen.NewString(),
			DocumentID: doc.ID,
			ChunkIndex: i,
			Content:    texts[i],
			Embedding:  embeddings[i],
			SourceName: doc.FileName,
			CreatedAt:  now,
		})
	}

	if len(chunks) > 0 {
		if err := s.chunkRepo.InsertChunks(ctx, chunks); err != nil {
			telemetry.CaptureError(ctx, err)
			return 0, failed, domain.NewDomainErrorWithCause(domain.ErrCodeStoreFailure,
				"failed to store document chunks", err)
		}
	}

	return len(chunks), failed, nil
}

func (s *IngestService) fail(ctx context.Context, documentID string, cause error) {
	if err := s.docRepo.UpdateStatus(ctx, documentID, domain.DocumentStatusFailed, cause.Error()); err != nil {
		telemetry.CaptureError(ctx, err)
	}
}
