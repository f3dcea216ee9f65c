package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/service"
)

// MockJobProcessor is a mock implementation of JobProcessor
type MockJobProcessor struct {
	mock.Mock
}

func (m *MockJobProcessor) ProcessJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) ListPending(ctx context.Context, limit int) ([]*domain.Document, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

// MockBlobFetcher is a mock implementation of BlobFetcher
type MockBlobFetcher struct {
	mock.Mock
}

func (m *MockBlobFetcher) GetObject(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockIngester is a mock implementation of Ingester
type MockIngester struct {
	mock.Mock
}

func (m *MockIngester) Ingest(ctx context.Context, input service.IngestInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// TestWorker_StartStop tests the worker start and stop functionality
func TestWorker_StartStop(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(250 * time.Millisecond)

	worker.Stop()
	wg.Wait()

	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

// TestWorker_ContextCancellation tests worker stops on context cancellation
func TestWorker_ContextCancellation(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(150 * time.Millisecond)

	cancel()
	wg.Wait()

	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

func TestIngestWorker_ProcessJobs_NoPendingDocuments(t *testing.T) {
	mockRepo := new(MockDocumentRepository)
	mockBlobs := new(MockBlobFetcher)
	mockIngester := new(MockIngester)

	mockRepo.On("ListPending", mock.Anything, PendingBatchSize).Return([]*domain.Document{}, nil)

	worker := NewIngestWorker(mockRepo, mockBlobs, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockIngester.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestIngestWorker_ProcessJobs_FetchesBlobAndIngests(t *testing.T) {
	mockRepo := new(MockDocumentRepository)
	mockBlobs := new(MockBlobFetcher)
	mockIngester := new(MockIngester)

	doc := &domain.Document{
		ID:          "doc-1",
		FileName:    "contract.pdf",
		MimeType:    "application/pdf",
		StoragePath: "documents/doc-1/contract.pdf",
		Status:      domain.DocumentStatusPending,
	}
	data := []byte("%PDF-1.4 ...")

	mockRepo.On("ListPending", mock.Anything, PendingBatchSize).Return([]*domain.Document{doc}, nil)
	mockBlobs.On("GetObject", mock.Anything, "documents/doc-1/contract.pdf").Return(data, nil)
	mockIngester.On("Ingest", mock.Anything, service.IngestInput{DocumentID: "doc-1", Data: data}).Return(nil)

	worker := NewIngestWorker(mockRepo, mockBlobs, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockBlobs.AssertExpectations(t)
	mockIngester.AssertExpectations(t)
}

func TestIngestWorker_ProcessJobs_ReusesExtractedContent(t *testing.T) {
	mockRepo := new(MockDocumentRepository)
	mockBlobs := new(MockBlobFetcher)
	mockIngester := new(MockIngester)

	doc := &domain.Document{
		ID:       "doc-1",
		FileName: "note.txt",
		Content:  "previously extracted text",
		Status:   domain.DocumentStatusPending,
	}

	mockRepo.On("ListPending", mock.Anything, PendingBatchSize).Return([]*domain.Document{doc}, nil)
	mockIngester.On("Ingest", mock.Anything, service.IngestInput{DocumentID: "doc-1", Text: "previously extracted text"}).Return(nil)

	worker := NewIngestWorker(mockRepo, mockBlobs, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockBlobs.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything)
	mockIngester.AssertExpectations(t)
}

func TestIngestWorker_ProcessJobs_CarriesEmbeddingOptOut(t *testing.T) {
	mockRepo := new(MockDocumentRepository)
	mockBlobs := new(MockBlobFetcher)
	mockIngester := new(MockIngester)

	doc := &domain.Document{
		ID:             "doc-1",
		FileName:       "note.txt",
		Content:        "extraction only",
		SkipEmbeddings: true,
		Status:         domain.DocumentStatusPending,
	}

	mockRepo.On("ListPending", mock.Anything, PendingBatchSize).Return([]*domain.Document{doc}, nil)
	mockIngester.On("Ingest", mock.Anything, service.IngestInput{
		DocumentID:     "doc-1",
		Text:           "extraction only",
		SkipEmbeddings: true,
	}).Return(nil)

	worker := NewIngestWorker(mockRepo, mockBlobs, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockIngester.AssertExpectations(t)
}

func TestIngestWorker_ProcessJobs_OneFailureDoesNotStopBatch(t *testing.T) {
	mockRepo := new(MockDocumentRepository)
	mockBlobs := new(MockBlobFetcher)
	mockIngester := new(MockIngester)

	docs := []*domain.Document{
		{ID: "doc-1", Content: "text one", Status: domain.DocumentStatusPending},
		{ID: "doc-2", Content: "text two", Status: domain.DocumentStatusPending},
	}

	mockRepo.On("ListPending", mock.Anything, PendingBatchSize).Return(docs, nil)
	mockIngester.On("Ingest", mock.Anything, service.IngestInput{DocumentID: "doc-1", Text: "text one"}).Return(errors.New("embedding provider down"))
	mockIngester.On("Ingest", mock.Anything, service.IngestInput{DocumentID: "doc-2", Text: "text two"}).Return(nil)

	worker := NewIngestWorker(mockRepo, mockBlobs, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockIngester.AssertExpectations(t)
}

func TestIngestWorker_ProcessJobs_RepositoryError(t *testing.T) {
	mockRepo := new(MockDocumentRepository)

	mockRepo.On("ListPending", mock.Anything, PendingBatchSize).Return(nil, errors.New("database error"))

	worker := NewIngestWorker(mockRepo, new(MockBlobFetcher), new(MockIngester))
	err := worker.ProcessJobs(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list pending documents")
}
