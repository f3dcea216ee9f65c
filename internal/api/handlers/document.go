package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidhi-labs/vidhiai/internal/api"
	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/service"
)

type DocumentService interface {
	Upload(ctx context.Context, input service.UploadInput) (*domain.Document, error)
	Get(ctx context.Context, id string) (*service.DocumentDetail, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Document, error)
}

type DocumentHandler struct {
	svc DocumentService
}

func NewDocumentHandler(svc DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

type DocumentResponse struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id,omitempty"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	Status     string `json:"status"`
	Processed  bool   `json:"processed"`
	Error      string `json:"error,omitempty"`
	ChunkCount int    `json:"chunk_count,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func documentToResponse(d *domain.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		FileName:  d.FileName,
		MimeType:  d.MimeType,
		SizeBytes: d.SizeBytes,
		Status:    string(d.Status),
		Processed: d.Processed,
		Error:     d.Error,
		CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: d.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Upload accepts a multipart form with a "file" part plus owner_id,
// the async flag and the generate_embeddings / pre_extracted_text
// overrides.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if override := r.FormValue("mime_type"); override != "" {
		mimeType = override
	}

	input := service.UploadInput{
		OwnerID:        r.FormValue("owner_id"),
		FileName:       header.Filename,
		MimeType:       mimeType,
		Data:           data,
		Text:           r.FormValue("pre_extracted_text"),
		Async:          r.FormValue("async") == "true",
		SkipEmbeddings: r.FormValue("generate_embeddings") == "false",
	}

	doc, err := h.svc.Upload(r.Context(), input)
	if err != nil {
		// A sync ingest failure still produced a document row; report
		// its failed state rather than a bare error.
		if doc != nil && doc.Status == domain.DocumentStatusFailed {
			api.Success(w, http.StatusOK, documentToResponse(doc))
			return
		}
		api.HandleError(w, err)
		return
	}

	status := http.StatusCreated
	if input.Async {
		status = http.StatusAccepted
	}
	api.Success(w, status, documentToResponse(doc))
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := documentToResponse(detail.Document)
	resp.ChunkCount = detail.ChunkCount
	api.Success(w, http.StatusOK, resp)
}

type DocumentListResponse struct {
	Items []*DocumentResponse `json:"items"`
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		api.Error(w, http.StatusBadRequest, "owner_id is required")
		return
	}

	docs, err := h.svc.ListByOwner(r.Context(), ownerID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*DocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = documentToResponse(d)
	}

	api.Success(w, http.StatusOK, DocumentListResponse{Items: responses})
}
