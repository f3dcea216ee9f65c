package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/service"
)

const (
	// PendingBatchSize caps how many pending documents one poll picks up
	PendingBatchSize = 10
)

// DocumentRepository lists documents awaiting ingestion
type DocumentRepository interface {
	ListPending(ctx context.Context, limit int) ([]*domain.Document, error)
}

// BlobFetcher downloads the raw uploaded file for a document
type BlobFetcher interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// Ingester runs the ingestion pipeline for one document
type Ingester interface {
	Ingest(ctx context.Context, input service.IngestInput) error
}

// IngestWorker picks up documents uploaded asynchronously and runs the
// ingestion pipeline on them. Per-document failures are recorded on the
// document row by the pipeline and never stop the batch.
type IngestWorker struct {
	repo     DocumentRepository
	blobs    BlobFetcher
	ingester Ingester
}

// NewIngestWorker creates a new IngestWorker instance
func NewIngestWorker(repo DocumentRepository, blobs BlobFetcher, ingester Ingester) *IngestWorker {
	return &IngestWorker{
		repo:     repo,
		blobs:    blobs,
		ingester: ingester,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *IngestWorker) ProcessJobs(ctx context.Context) error {
	docs, err := w.repo.ListPending(ctx, PendingBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending documents: %w", err)
	}

	if len(docs) == 0 {
		return nil
	}

	log.Printf("Processing %d pending documents", len(docs))

	for _, doc := range docs {
		if err := w.processDocument(ctx, doc); err != nil {
			log.Printf("Error processing document %s: %v", doc.ID, err)
		}
	}

	return nil
}

func (w *IngestWorker) processDocument(ctx context.Context, doc *domain.Document) error {
	log.Printf("Processing document %s (%s)", doc.ID, doc.FileName)

	input := service.IngestInput{
		DocumentID:     doc.ID,
		SkipEmbeddings: doc.SkipEmbeddings,
	}

	switch {
	case doc.Content != "":
		// Text was already extracted on a previous attempt.
		input.Text = doc.Content
	case doc.StoragePath != "":
		if w.blobs == nil {
			return fmt.Errorf("document %s is stored remotely but no blob store is configured", doc.ID)
		}
		data, err := w.blobs.GetObject(ctx, doc.StoragePath)
		if err != nil {
			return fmt.Errorf("failed to fetch stored file: %w", err)
		}
		input.Data = data
	default:
		return fmt.Errorf("document %s has no content and no storage path", doc.ID)
	}

	if err := w.ingester.Ingest(ctx, input); err != nil {
		return err
	}

	log.Printf("Document %s ingested successfully", doc.ID)
	return nil
}
