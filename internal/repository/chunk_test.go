//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/service"
	"github.com/vidhi-labs/vidhiai/internal/testutil"
)

// axisEmbedding builds a unit vector along one axis, so cosine
// similarity between two of them is 1 for the same axis and 0 otherwise.
func axisEmbedding(axis int) []float32 {
	v := make([]float32, 1024)
	v[axis] = 1
	return v
}

func storeChunk(ctx context.Context, t *testing.T, repo *ChunkRepository, documentID string, index int, content string, axis int) domain.Chunk {
	c := domain.Chunk{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		ChunkIndex: index,
		Content:    content,
		Embedding:  axisEmbedding(axis),
		SourceName: "contract.pdf",
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.InsertChunks(ctx, []domain.Chunk{c}))
	return c
}

func TestChunkRepository_InsertAndCount(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docRepo := NewDocumentRepository(pool)
	chunkRepo := NewChunkRepository(pool)

	doc := newStoredDocument("user-1")
	require.NoError(t, docRepo.Create(ctx, doc))

	storeChunk(ctx, t, chunkRepo, doc.ID, 0, "first chunk", 0)
	storeChunk(ctx, t, chunkRepo, doc.ID, 1, "second chunk", 1)

	count, err := chunkRepo.CountByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestChunkRepository_Insert_WithoutDocument(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	chunkRepo := NewChunkRepository(pool)

	// Constitution corpus chunks carry no document reference.
	c := domain.Chunk{
		ID:         uuid.NewString(),
		ChunkIndex: 0,
		Content:    "Article 21. Protection of life and personal liberty.",
		Embedding:  axisEmbedding(0),
		SourceName: "Constitution of India",
	}
	require.NoError(t, chunkRepo.InsertChunks(ctx, []domain.Chunk{c}))

	results, err := chunkRepo.Search(ctx, axisEmbedding(0), 0.7, 5, service.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Chunk.DocumentID)
}

func TestChunkRepository_Search_ThresholdAndOrdering(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docRepo := NewDocumentRepository(pool)
	chunkRepo := NewChunkRepository(pool)

	doc := newStoredDocument("user-1")
	require.NoError(t, docRepo.Create(ctx, doc))

	match := storeChunk(ctx, t, chunkRepo, doc.ID, 0, "matching chunk", 0)
	storeChunk(ctx, t, chunkRepo, doc.ID, 1, "orthogonal chunk", 1)

	// A near-match: mostly axis 0 with a little axis 2 mixed in.
	near := domain.Chunk{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		ChunkIndex: 2,
		Content:    "near chunk",
		Embedding:  axisEmbedding(0),
		SourceName: "contract.pdf",
	}
	near.Embedding[2] = 0.5
	require.NoError(t, chunkRepo.InsertChunks(ctx, []domain.Chunk{near}))

	results, err := chunkRepo.Search(ctx, axisEmbedding(0), 0.7, 5, service.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, match.ID, results[0].Chunk.ID)
	assert.Equal(t, near.ID, results[1].Chunk.ID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Similarity, 0.7)
	}
}

func TestChunkRepository_Search_EmptyResultIsNotAnError(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	chunkRepo := NewChunkRepository(pool)

	results, err := chunkRepo.Search(ctx, axisEmbedding(0), 0.7, 5, service.SearchFilter{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestChunkRepository_Search_DocumentFilter(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docRepo := NewDocumentRepository(pool)
	chunkRepo := NewChunkRepository(pool)

	docA := newStoredDocument("user-1")
	require.NoError(t, docRepo.Create(ctx, docA))
	docB := newStoredDocument("user-1")
	require.NoError(t, docRepo.Create(ctx, docB))

	wanted := storeChunk(ctx, t, chunkRepo, docA.ID, 0, "from doc A", 0)
	storeChunk(ctx, t, chunkRepo, docB.ID, 0, "from doc B", 0)

	results, err := chunkRepo.Search(ctx, axisEmbedding(0), 0.7, 5, service.SearchFilter{DocumentID: docA.ID})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, wanted.ID, results[0].Chunk.ID)
}

func TestChunkRepository_Search_OwnerFilter(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docRepo := NewDocumentRepository(pool)
	chunkRepo := NewChunkRepository(pool)

	mine := newStoredDocument("user-1")
	require.NoError(t, docRepo.Create(ctx, mine))
	theirs := newStoredDocument("user-2")
	require.NoError(t, docRepo.Create(ctx, theirs))

	wanted := storeChunk(ctx, t, chunkRepo, mine.ID, 0, "mine", 0)
	storeChunk(ctx, t, chunkRepo, theirs.ID, 0, "theirs", 0)

	// The shared corpus carries no document and must stay retrievable
	// under any owner scope.
	corpus := domain.Chunk{
		ID:         uuid.NewString(),
		ChunkIndex: 0,
		Content:    "Article 21. Protection of life and personal liberty.",
		Embedding:  axisEmbedding(0),
		SourceName: "Constitution of India",
	}
	require.NoError(t, chunkRepo.InsertChunks(ctx, []domain.Chunk{corpus}))

	results, err := chunkRepo.Search(ctx, axisEmbedding(0), 0.7, 5, service.SearchFilter{OwnerID: "user-1"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	ids := []string{results[0].Chunk.ID, results[1].Chunk.ID}
	assert.Contains(t, ids, wanted.ID)
	assert.Contains(t, ids, corpus.ID)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	runner := NewTxRunner(pool)
	docRepo := NewDocumentRepository(pool)

	doc := newStoredDocument("user-1")
	err := runner.WithTx(ctx, func(repos service.TxRepositories) error {
		if err := repos.Documents().Create(ctx, doc); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = docRepo.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}
