// Package kafka wraps the franz-go client behind small producer and consumer
// types so the rest of the code never touches broker-level records.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"gatekeeper/internal/notify"
)

// Producer publishes records synchronously. Delivery is at-least-once: the
// client retries internally, and the caller sees an error only when all
// retries are exhausted.
type Producer struct {
	client *kgo.Client
}

// NewProducer connects to the brokers and makes sure the result topics exist
// so first publishes don't race topic auto-creation.
func NewProducer(ctx context.Context, brokers []string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopics(ctx, client, notify.TopicAllowed, notify.TopicDenied); err != nil {
		client.Close()
		return nil, err
	}
	return &Producer{client: client}, nil
}

func ensureTopics(ctx context.Context, client *kgo.Client, topics ...string) error {
	admin := kadm.NewClient(client)
	resps, err := admin.CreateTopics(ctx, 3, 1, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, resp := range resps {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", resp.Topic, resp.Err)
		}
	}
	return nil
}

// Produce publishes one record and waits for the broker acknowledgement.
func (p *Producer) Produce(ctx context.Context, topic string, key, value []byte) error {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered records and releases the client.
func (p *Producer) Close() {
	p.client.Close()
}
