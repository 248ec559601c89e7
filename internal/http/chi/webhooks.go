package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-stream/replay"
	"github.com/marcelsud/webhook-stream/webhook"
)

/* HTTP layer DTOs for webhook API
 * Captured webhooks are returned as webhook.Webhook directly, their JSON form is part of the API
 */

// captureResponse represents the API response when a webhook is captured
type captureResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// postWebhook handles POST|PUT|PATCH /webhook
func postWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		id, err := webhookService.Capture(
			r.Context(),
			r.Method,
			requestURL(r),
			captureHeaders(r.Header),
			body,
		)
		if err != nil {
			if errors.Is(err, webhook.ErrBadBody) {
				http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		httplog.LogEntrySetField(r.Context(), "event_id", id)

		writeJSON(w, http.StatusOK, captureResponse{
			Message: "Webhook received",
			ID:      id,
		})
	})
}

// getWebhooks handles GET /webhooks
func getWebhooks(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := webhookService.ListAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if all == nil {
			all = []webhook.Webhook{}
		}
		writeJSON(w, http.StatusOK, all)
	})
}

// getWebhook handles GET /webhooks/{id}?format=json|curl
func getWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}

		format := webhook.NewFormat(r.URL.Query().Get("format"))
		if err := format.Validate(); err != nil {
			http.Error(w, fmt.Sprintf("unsupported format %q (expected json or curl)", r.URL.Query().Get("format")), http.StatusBadRequest)
			return
		}

		wh, err := webhookService.Retrieve(r.Context(), id)
		if err != nil {
			if errors.Is(err, webhook.ErrNotFound) {
				http.Error(w, fmt.Sprintf("webhook not found: %s", id), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if format == webhook.Curl {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, replay.FormatWithParams(wh, replayParams(r.URL.RawQuery)))
			return
		}
		writeJSON(w, http.StatusOK, wh)
	})
}

// requestURL rebuilds the full URL the request was sent to
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// captureHeaders flattens request headers in sorted name order, keeping the last value of repeated headers
// net/http does not preserve wire order, sorting keeps captures deterministic
func captureHeaders(header http.Header) webhook.Headers {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	var headers webhook.Headers
	for _, name := range names {
		values := header[name]
		if len(values) > 0 {
			headers.Set(name, values[len(values)-1])
		}
	}
	return headers
}

// replayParams collects query parameters other than format, in request order
func replayParams(rawQuery string) replay.Params {
	var params replay.Params
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key == "format" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		params = append(params, replay.Param{Key: key, Value: value})
	}
	return params
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
