package webhook

import "context"

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// Reader provides read operations for webhooks
type Reader interface {
	/* Get returns ErrNotFound (possibly wrapped) when the ID is not held
	 * Evicted webhooks are indistinguishable from ones never stored
	 */
	Get(ctx context.Context, id string) (Webhook, error)
	/* List returns a snapshot of all held webhooks, oldest first
	 * Later writes never modify a slice already returned
	 */
	List(ctx context.Context) ([]Webhook, error)
}

// Writer provides write operations for webhooks
type Writer interface {
	/* Store adds a webhook as the newest entry, evicting the oldest at capacity
	 * Returns the webhook ID and any error
	 */
	Store(ctx context.Context, webhook Webhook) (string, error)
}

// Notifier fans captured webhooks out to other consumers on a best-effort basis
type Notifier interface {
	Notify(ctx context.Context, webhook Webhook) error
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
