package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-stream/webhook"
	"github.com/redis/go-redis/v9"
)

/* Redis Pub/Sub implementation of webhook.Notifier
 * Every captured webhook is published as JSON on a single channel
 * Fire-and-forget: subscribers that are not connected miss the message
 */

// DefaultChannel is the Pub/Sub channel used when none is configured
const DefaultChannel = "webhooks"

type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a new Redis publisher and verifies the connection
func NewPublisher(addr, password string, db int, channel string) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return NewPublisherFromClient(client, channel), nil
}

// NewPublisherFromClient wraps an existing client
func NewPublisherFromClient(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		client:  client,
		channel: channel,
	}
}

// Channel returns the Pub/Sub channel webhooks are published on
func (p *Publisher) Channel() string {
	return p.channel
}

// Notify publishes the webhook as JSON on the channel
func (p *Publisher) Notify(ctx context.Context, wh webhook.Webhook) error {
	data, err := json.Marshal(wh)
	if err != nil {
		return fmt.Errorf("marshaling webhook: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publishing webhook %s: %w", wh.ID, err)
	}
	return nil
}

// Close closes the underlying Redis client
func (p *Publisher) Close() error {
	return p.client.Close()
}

var _ webhook.Notifier = (*Publisher)(nil)
