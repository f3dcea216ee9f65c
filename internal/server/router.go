package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidhi-labs/vidhiai/internal/api"
	"github.com/vidhi-labs/vidhiai/internal/api/handlers"
	"github.com/vidhi-labs/vidhiai/internal/api/middleware"
)

type RouterConfig struct {
	DocumentHandler *handlers.DocumentHandler
	ChatHandler     *handlers.ChatHandler
	EmbedHandler    *handlers.EmbedHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 25 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", cfg.DocumentHandler.Upload)
		r.Get("/", cfg.DocumentHandler.List)
		r.Get("/{id}", cfg.DocumentHandler.Get)
	})

	r.Post("/chat", cfg.ChatHandler.Chat)
	r.Post("/embed", cfg.EmbedHandler.Embed)

	return r
}
