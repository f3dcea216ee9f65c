package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/service"
)

// ChunkRepository handles persistence of chunk embeddings and runs
// vector similarity search over them.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx dbtx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// InsertChunks appends chunks to the store. The store is append-only;
// re-ingesting a document inserts fresh rows rather than mutating old ones.
func (r *ChunkRepository) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO document_chunks
				(id, document_id, chunk_index, content, embedding, source_name, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7)`,
			c.ID,
			nullableString(c.DocumentID),
			c.ChunkIndex,
			c.Content,
			pgvector.NewVector(c.Embedding),
			c.SourceName,
			createdAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// Search returns chunks whose cosine similarity to the query vector meets
// the threshold, most similar first. An empty result is not an error.
func (r *ChunkRepository) Search(ctx context.Context, embedding []float32, threshold float64, limit int, filter service.SearchFilter) ([]domain.RetrievalResult, error) {
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(embedding)

	query := `
		SELECT c.id, c.document_id, c.chunk_index, c.content, c.source_name, c.created_at,
		       1 - (c.embedding <=> $1) AS similarity
		FROM document_chunks c`
	args := []interface{}{vec, threshold, limit}

	switch {
	case filter.DocumentID != "":
		query += `
		WHERE c.document_id = $4 AND 1 - (c.embedding <=> $1) >= $2`
		args = append(args, filter.DocumentID)
	case filter.OwnerID != "":
		// Shared-corpus chunks carry no document and are visible to
		// every owner.
		query += `
		LEFT JOIN documents d ON d.id = c.document_id
		WHERE (d.owner_id = $4 OR c.document_id IS NULL) AND 1 - (c.embedding <=> $1) >= $2`
		args = append(args, filter.OwnerID)
	default:
		query += `
		WHERE 1 - (c.embedding <=> $1) >= $2`
	}

	query += `
		ORDER BY similarity DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.RetrievalResult, 0)
	for rows.Next() {
		var result domain.RetrievalResult
		var documentID *string
		if err := rows.Scan(&result.Chunk.ID, &documentID, &result.Chunk.ChunkIndex, &result.Chunk.Content, &result.Chunk.SourceName, &result.Chunk.CreatedAt, &result.Similarity); err != nil {
			return nil, err
		}
		if documentID != nil {
			result.Chunk.DocumentID = *documentID
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// CountByDocument reports how many chunks a document produced.
func (r *ChunkRepository) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM document_chunks WHERE document_id = $1`,
		documentID,
	).Scan(&count)
	return count, err
}
