package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-stream/webhook"
	"github.com/rs/zerolog"
)

// Handlers sets up the webhook API routes
// metricsHandler is mounted on /metrics when not nil
func Handlers(ctx context.Context, webhookService webhook.UseCase, logger zerolog.Logger, metricsHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Capture
	capture := postWebhook(webhookService)
	r.Method(http.MethodPost, "/webhook", capture)
	r.Method(http.MethodPut, "/webhook", capture)
	r.Method(http.MethodPatch, "/webhook", capture)

	// Query
	r.Method(http.MethodGet, "/webhooks", getWebhooks(webhookService))
	r.Method(http.MethodGet, "/webhooks/{id}", getWebhook(webhookService))

	return r
}
