package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO documents (id, owner_id, file_name, mime_type, size_bytes, storage_path, content, skip_embeddings, status, processed, error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, nullableString(d.OwnerID), d.FileName, d.MimeType, d.SizeBytes, nullableString(d.StoragePath),
		d.Content, d.SkipEmbeddings, d.Status, d.Processed, nullableString(d.Error), d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var d domain.Document
	var ownerID, storagePath, errMsg *string
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, file_name, mime_type, size_bytes, storage_path, content, skip_embeddings, status, processed, error, created_at, updated_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &ownerID, &d.FileName, &d.MimeType, &d.SizeBytes, &storagePath, &d.Content, &d.SkipEmbeddings, &d.Status, &d.Processed, &errMsg, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	if ownerID != nil {
		d.OwnerID = *ownerID
	}
	if storagePath != nil {
		d.StoragePath = *storagePath
	}
	if errMsg != nil {
		d.Error = *errMsg
	}
	return &d, nil
}

// UpdateStatus moves the document through the ingestion state machine.
// errMsg is stored verbatim; pass "" to clear it.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMsg string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE documents SET status = $2, processed = $3, error = $4, updated_at = $5 WHERE id = $1`,
		id, status, status == domain.DocumentStatusCompleted, nullableString(errMsg), time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// SetContent stores the extracted text on the document row.
func (r *DocumentRepository) SetContent(ctx context.Context, id string, content string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE documents SET content = $2, updated_at = $3 WHERE id = $1`,
		id, content, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ListPending returns documents awaiting ingestion, oldest first.
func (r *DocumentRepository) ListPending(ctx context.Context, limit int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, file_name, mime_type, size_bytes, storage_path, content, skip_embeddings, status, processed, error, created_at, updated_at
		 FROM documents WHERE status = $1 ORDER BY created_at ASC LIMIT $2`,
		domain.DocumentStatusPending, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocumentRows(rows)
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, file_name, mime_type, size_bytes, storage_path, content, skip_embeddings, status, processed, error, created_at, updated_at
		 FROM documents WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocumentRows(rows)
}

func scanDocumentRows(rows pgx.Rows) ([]*domain.Document, error) {
	var results []*domain.Document
	for rows.Next() {
		var d domain.Document
		var ownerID, storagePath, errMsg *string
		if err := rows.Scan(&d.ID, &ownerID, &d.FileName, &d.MimeType, &d.SizeBytes, &storagePath, &d.Content, &d.SkipEmbeddings, &d.Status, &d.Processed, &errMsg, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if ownerID != nil {
			d.OwnerID = *ownerID
		}
		if storagePath != nil {
			d.StoragePath = *storagePath
		}
		if errMsg != nil {
			d.Error = *errMsg
		}
		results = append(results, &d)
	}
	return results, rows.Err()
}
