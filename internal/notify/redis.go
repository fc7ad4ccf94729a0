package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	models "sation/internal/domain/models/docsystem"
	"sation/internal/domain/services"

	redis "github.com/redis/go-redis/v9"
)

var (
	_ services.ChangePublisher  = (*RedisBroker)(nil)
	_ services.ChangeSubscriber = (*RedisBroker)(nil)
)

func changesChannel(prefix string) string {
	return prefix + "document:changes"
}

// RedisBroker publishes changes on a Redis channel so every server instance
// sees them, and relays the channel into a local Broker for its own subscribers.
type RedisBroker struct {
	client  *redis.Client
	channel string
	local   *Broker
	logger  *slog.Logger
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisBroker creates a broker on client. prefix separates environments (dev_, prod_).
func NewRedisBroker(client *redis.Client, prefix string, local *Broker, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{
		client:  client,
		channel: changesChannel(prefix),
		local:   local,
		logger:  logger,
	}
}

// Publish sends change to every instance, including this one (via Run).
func (r *RedisBroker) Publish(ctx context.Context, change models.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Subscribe registers a local subscriber
func (r *RedisBroker) Subscribe(ownerID string) (<-chan models.Change, func()) {
	return r.local.Subscribe(ownerID)
}

// Run relays the Redis channel into the local broker until ctx is cancelled.
func (r *RedisBroker) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before relaying
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	r.logger.Info("relaying change notices", "channel", r.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var change models.Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				r.logger.Warn("discarding malformed change notice", "error", err)
				continue
			}
			_ = r.local.Publish(ctx, change)
		}
	}
}
