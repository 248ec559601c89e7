package webhook

import (
	"time"

	"github.com/marcelsud/webhook-stream/webhook/payload"
)

/* Webhook represents one captured inbound HTTP call
 * Uses value semantics as it represents data, not behavior
 * A Webhook is never mutated once stored
 */
type Webhook struct {
	ID         string        `json:"id"`
	Method     string        `json:"method"`
	URL        string        `json:"url"`
	Headers    Headers       `json:"headers"`
	Body       payload.Value `json:"body"`
	ReceivedAt time.Time     `json:"received_at"`
}
