// Package notify dispatches access decisions to downstream actuators and
// observers: an asynchronous broker topic always, plus the live duplex
// connections when a registry is wired in.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gatekeeper/internal/access"
)

// Result topics. Actuators subscribe to allowed, monitoring usually to both.
const (
	TopicAllowed = "access.allowed"
	TopicDenied  = "access.denied"
)

// Producer abstracts the broker client so tests can swap a fake.
type Producer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

// Broadcaster pushes a payload to every live duplex connection. Implemented
// by the websocket connection registry.
type Broadcaster interface {
	Broadcast(ctx context.Context, payload any)
}

// Fanout implements the engine's Notifier port. It is constructed once at
// process start with its dependencies; there is no lazily discovered client.
type Fanout struct {
	producer    Producer
	broadcaster Broadcaster
	logger      *slog.Logger
}

// New creates a Fanout. broadcaster may be nil when no duplex transport is
// wired (for example in the queue-only worker deployment).
func New(producer Producer, broadcaster Broadcaster, logger *slog.Logger) *Fanout {
	return &Fanout{producer: producer, broadcaster: broadcaster, logger: logger}
}

// PublishResult publishes the decision to its result topic, keyed by user so
// per-user results stay ordered within a partition. Delivery is
// at-least-once; consumers are expected to be idempotent on
// (userId, doorId, occurredAt). The duplex broadcast is best-effort and
// never fails the publish.
func (f *Fanout) PublishResult(ctx context.Context, result access.ResultEvent) error {
	topic := TopicDenied
	if result.Allowed {
		topic = TopicAllowed
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result event: %w", err)
	}

	if f.broadcaster != nil {
		f.broadcaster.Broadcast(ctx, map[string]any{
			"type":    "access.notice",
			"doorId":  result.DoorID,
			"allowed": result.Allowed,
		})
	}

	if err := f.producer.Produce(ctx, topic, []byte(result.UserID), payload); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
