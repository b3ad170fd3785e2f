// Package events publishes domain events to Google Cloud Pub/Sub.
// Publishing is best-effort: order submission never fails because the
// broker is unreachable.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendalink/backend/pkg/config"
	"github.com/tiendalink/backend/pkg/logger"
)

const (
	eventOrderCreated  = "order.created"
	defaultPublishWait = 10 * time.Second
)

// OrderCreated is emitted after an order and its items commit.
type OrderCreated struct {
	OrderID   uuid.UUID       `json:"order_id"`
	StoreID   uuid.UUID       `json:"store_id"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	CreatedAt time.Time       `json:"created_at"`
}

// Publisher wraps the Pub/Sub topic used for order events. A nil or
// disabled publisher swallows events silently so local setups run
// without GCP credentials.
type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Publisher
	logg   *logger.Logger
}

// NewPublisher connects to Pub/Sub when events are configured.
// Returns a disabled publisher otherwise.
func NewPublisher(ctx context.Context, cfg config.EventsConfig, logg *logger.Logger) (*Publisher, error) {
	if !cfg.Enabled() {
		return &Publisher{logg: logg}, nil
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	topic := client.Publisher(topicResourceName(cfg.ProjectID, cfg.OrdersTopic))
	if logg != nil {
		logg.Info(ctx, "pubsub publisher initialized")
	}

	return &Publisher{client: client, topic: topic, logg: logg}, nil
}

// Enabled reports whether events actually leave the process.
func (p *Publisher) Enabled() bool {
	return p != nil && p.topic != nil
}

// PublishOrderCreated emits an order.created event and waits for the
// broker ack. Errors are returned for the caller to log, not to fail
// the request.
func (p *Publisher) PublishOrderCreated(ctx context.Context, evt OrderCreated) error {
	if !p.Enabled() {
		return nil
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": eventOrderCreated,
			"order_id":   evt.OrderID.String(),
			"store_id":   evt.StoreID.String(),
			"created_at": evt.CreatedAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishWait)
	defer cancel()

	result := p.topic.Publish(publishCtx, msg)
	if result == nil {
		return fmt.Errorf("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish %s: %w", eventOrderCreated, err)
	}
	return nil
}

// Close releases the Pub/Sub client resources.
func (p *Publisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

func topicResourceName(projectID, topic string) string {
	n := strings.TrimSpace(topic)
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	return fmt.Sprintf("projects/%s/topics/%s", strings.TrimSpace(projectID), n)
}
