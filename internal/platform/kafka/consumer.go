package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-neutral view of a consumed record.
type Message struct {
	Topic string
	Key   []byte
	Value []byte
}

// Handler processes one consumed message. Returning an error logs the
// failure; the offset is committed either way, because the inbound access
// queue is fire-and-forget and a poison message must not wedge the group.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Consumer runs a consumer-group poll loop over one topic.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

// NewConsumer joins the group and subscribes to topic.
func NewConsumer(brokers []string, group, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				if errors.Is(fe.Err, context.Canceled) {
					return context.Canceled
				}
				c.logger.ErrorContext(ctx, "kafka fetch failed",
					"topic", fe.Topic,
					"partition", fe.Partition,
					"error", fe.Err,
				)
			}
		}

		fetches.EachRecord(func(record *kgo.Record) {
			msg := &Message{Topic: record.Topic, Key: record.Key, Value: record.Value}
			if err := c.handler.Handle(ctx, msg); err != nil {
				c.logger.ErrorContext(ctx, "message handling failed",
					"topic", record.Topic,
					"offset", record.Offset,
					"error", err,
				)
			}
		})
	}
}

// Close leaves the group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}
