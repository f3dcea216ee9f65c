package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidhi-labs/vidhiai/internal/api"
)

type EmbeddingProvider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type EmbedHandler struct {
	provider EmbeddingProvider
}

func NewEmbedHandler(provider EmbeddingProvider) *EmbedHandler {
	return &EmbedHandler{provider: provider}
}

type EmbedRequest struct {
	Text string `json:"text"`
}

type EmbedResponse struct {
	Embedding  []float32 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
}

func (h *EmbedHandler) Embed(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Text == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	embedding, err := h.provider.GenerateEmbedding(r.Context(), req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, EmbedResponse{
		Embedding:  embedding,
		Dimensions: len(embedding),
	})
}
