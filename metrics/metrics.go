package metrics

import "context"

// Stats represents the current state of the webhook store.
type Stats struct {
	// Stored is the number of webhooks currently held
	Stored int64 `json:"stored"`

	// Capacity is the maximum number of webhooks held before eviction
	Capacity int64 `json:"capacity"`

	// Captured is the number of webhooks accepted since startup
	Captured int64 `json:"captured"`

	// Evicted is the number of webhooks dropped to make room for newer ones
	Evicted int64 `json:"evicted"`
}

// Collector defines the interface for collecting metrics from the webhook store.
type Collector interface {
	// Stats gathers a consistent snapshot of the store counters
	Stats(ctx context.Context) (Stats, error)
}
