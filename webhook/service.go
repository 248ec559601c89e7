package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-stream/webhook/payload"
	"github.com/rs/zerolog"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the business operations for webhook capture
type UseCase interface {
	Capture(ctx context.Context, method, url string, headers Headers, body []byte) (string, error)
	ListAll(ctx context.Context) ([]Webhook, error)
	Retrieve(ctx context.Context, id string) (Webhook, error)
}

type Service struct {
	Repo     Repository
	Notifier Notifier // optional
	Logger   zerolog.Logger
}

// NewService creates a new webhook service with dependency injection
func NewService(repo Repository) *Service {
	return &Service{
		Repo:   repo,
		Logger: zerolog.Nop(),
	}
}

// Capture parses the raw body and stores a new webhook, returning its ID
// A body that is not a JSON document yields ErrBadBody and leaves the store untouched
func (s *Service) Capture(ctx context.Context, method, url string, headers Headers, body []byte) (string, error) {
	value, err := payload.Parse(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadBody, err)
	}

	webhook := Webhook{
		ID:         uuid.New().String(),
		Method:     method,
		URL:        url,
		Headers:    headers,
		Body:       value,
		ReceivedAt: time.Now().UTC(),
	}

	id, err := s.Repo.Store(ctx, webhook)
	if err != nil {
		return "", fmt.Errorf("storing webhook: %w", err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.Notify(ctx, webhook); err != nil {
			s.Logger.Warn().Err(err).Str("event_id", id).Msg("notifying webhook subscribers")
		}
	}

	return id, nil
}

// ListAll returns every held webhook, oldest first
func (s *Service) ListAll(ctx context.Context) ([]Webhook, error) {
	all, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}
	return all, nil
}

// Retrieve returns a single webhook by ID, or an error wrapping ErrNotFound
func (s *Service) Retrieve(ctx context.Context, id string) (Webhook, error) {
	wh, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Webhook{}, fmt.Errorf("retrieving webhook %s: %w", id, err)
	}
	return wh, nil
}
