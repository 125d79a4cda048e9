// Package kafka publishes outbox entries to a Kafka topic.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "immat/pkg/platform/audit"
	"immat/pkg/platform/circuit"
)

// Producer sends outbox entries keyed by aggregate id so every event of one
// dossier lands on the same partition, in order.
type Producer struct {
	client  *kgo.Client
	topic   string
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type Option func(*Producer)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Producer) { p.logger = logger }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Producer) { p.breaker = b }
}

func New(brokers []string, topic string, opts ...Option) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression(), kgo.NoCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka: new client: %w", err)
	}
	p := &Producer{client: client, topic: topic, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.breaker == nil {
		p.breaker = circuit.New("kafka-"+topic, circuit.WithLogger(p.logger))
	}
	return p, nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (p *Producer) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, p.topic)
	if err != nil {
		return fmt.Errorf("kafka: create topic: %w", err)
	}
	for _, t := range resp {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("kafka: create topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}

// Publish produces entries synchronously and returns the ids the broker
// acknowledged. Entries that failed stay pending for the next pass.
func (p *Producer) Publish(ctx context.Context, entries []audit.OutboxEntry) []uuid.UUID {
	records := make([]*kgo.Record, len(entries))
	for i, e := range entries {
		records[i] = &kgo.Record{
			Topic: p.topic,
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(e.EventType)},
				{Key: "aggregate_type", Value: []byte(e.AggregateType)},
				{Key: "event_id", Value: []byte(e.ID.String())},
			},
		}
	}

	var results kgo.ProduceResults
	err := p.breaker.Execute(func() error {
		results = p.client.ProduceSync(ctx, records...)
		return results.FirstErr()
	})
	if err != nil {
		p.logger.WarnContext(ctx, "outbox publish incomplete",
			"topic", p.topic,
			"batch", len(entries),
			"error", err,
		)
	}

	acked := make([]uuid.UUID, 0, len(entries))
	for i, r := range results {
		if r.Err == nil {
			acked = append(acked, entries[i].ID)
		}
	}
	return acked
}

func (p *Producer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *Producer) Close() {
	p.client.Close()
}
