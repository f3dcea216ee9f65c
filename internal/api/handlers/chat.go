package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidhi-labs/vidhiai/internal/api"
	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/service"
)

type AnswerService interface {
	AnswerQuery(ctx context.Context, input service.AnswerInput) (*service.AnswerResult, error)
}

type ChatHandler struct {
	svc AnswerService
}

func NewChatHandler(svc AnswerService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Question   string     `json:"question"`
	OwnerID    string     `json:"owner_id,omitempty"`
	DocumentID string     `json:"document_id,omitempty"`
	History    []ChatTurn `json:"history,omitempty"`
}

type ChatResponse struct {
	Answer     string `json:"answer"`
	Source     string `json:"source"`
	ChunksUsed int    `json:"chunks_used"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	history := make([]domain.ConversationTurn, 0, len(req.History))
	for _, turn := range req.History {
		role := domain.ConversationRole(turn.Role)
		if role != domain.RoleUser && role != domain.RoleAssistant {
			api.Error(w, http.StatusBadRequest, "history role must be user or assistant")
			return
		}
		history = append(history, domain.ConversationTurn{Role: role, Content: turn.Content})
	}

	result, err := h.svc.AnswerQuery(r.Context(), service.AnswerInput{
		Question:   req.Question,
		OwnerID:    req.OwnerID,
		DocumentID: req.DocumentID,
		History:    history,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ChatResponse{
		Answer:     result.Answer,
		Source:     string(result.Source),
		ChunksUsed: result.ChunksUsed,
	})
}
