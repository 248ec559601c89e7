package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/marcelsud/webhook-stream/metrics"
	"github.com/marcelsud/webhook-stream/webhook"
)

/* In-memory implementation of webhook.Repository
 * A ring buffer over a preallocated slice keeps the most recent webhooks
 * Appending at capacity overwrites the oldest slot (FIFO eviction, O(1))
 */

// DefaultCapacity is the number of webhooks kept when no capacity is configured
const DefaultCapacity = 50

type Repository struct {
	mu       sync.RWMutex
	entries  []webhook.Webhook
	head     int // index of the oldest entry
	size     int
	captured int64
	evicted  int64
}

// NewRepository creates a new in-memory repository holding at most capacity webhooks
func NewRepository(capacity int) *Repository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Repository{
		entries: make([]webhook.Webhook, capacity),
	}
}

// Capacity returns the maximum number of webhooks held
func (r *Repository) Capacity() int {
	return len(r.entries)
}

// Store adds a webhook as the newest entry, evicting the oldest one when full
func (r *Repository) Store(ctx context.Context, wh webhook.Webhook) (string, error) {
	if wh.ID == "" {
		return "", fmt.Errorf("storing webhook: missing id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := len(r.entries)
	if r.size == capacity {
		// the slot at head is the oldest, overwrite it and advance
		r.entries[r.head] = wh
		r.head = (r.head + 1) % capacity
		r.evicted++
	} else {
		r.entries[(r.head+r.size)%capacity] = wh
		r.size++
	}
	r.captured++

	return wh.ID, nil
}

// Get retrieves a webhook by ID
func (r *Repository) Get(ctx context.Context, id string) (webhook.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	capacity := len(r.entries)
	for i := 0; i < r.size; i++ {
		wh := r.entries[(r.head+i)%capacity]
		if wh.ID == id {
			return wh, nil
		}
	}
	return webhook.Webhook{}, fmt.Errorf("%w: %s", webhook.ErrNotFound, id)
}

// List returns a copy of all held webhooks, oldest first
func (r *Repository) List(ctx context.Context) ([]webhook.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	capacity := len(r.entries)
	result := make([]webhook.Webhook, 0, r.size)
	for i := 0; i < r.size; i++ {
		result = append(result, r.entries[(r.head+i)%capacity])
	}
	return result, nil
}

// Stats reports the current store occupancy and lifetime counters
func (r *Repository) Stats(ctx context.Context) (metrics.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return metrics.Stats{
		Stored:   int64(r.size),
		Capacity: int64(len(r.entries)),
		Captured: r.captured,
		Evicted:  r.evicted,
	}, nil
}

// Close is a no-op, the store lives as long as the process
func (r *Repository) Close(ctx context.Context) error {
	return nil
}

var (
	_ webhook.Repository = (*Repository)(nil)
	_ metrics.Collector  = (*Repository)(nil)
)
