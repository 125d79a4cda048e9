//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "immat/pkg/platform/audit"
	"immat/pkg/platform/audit/publishers/kafka"
	auditmemory "immat/pkg/platform/audit/store/memory"
	"immat/pkg/platform/audit/worker"
	"immat/pkg/testutil/containers"
)

type ProducerSuite struct {
	suite.Suite
	broker *containers.RedpandaContainer
}

func TestProducerSuite(t *testing.T) {
	suite.Run(t, new(ProducerSuite))
}

func (s *ProducerSuite) SetupSuite() {
	s.broker = containers.NewRedpandaContainer(s.T())
}

func (s *ProducerSuite) newProducer(topic string) *kafka.Producer {
	p, err := kafka.New(s.broker.Brokers, topic)
	s.Require().NoError(err)
	s.T().Cleanup(p.Close)
	ctx := context.Background()
	s.Require().NoError(p.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(p.EnsureTopic(ctx, 1, 1), "existing topic is not an error")
	return p
}

func (s *ProducerSuite) consume(topic string, n int) []*kgo.Record {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	var out []*kgo.Record
	for len(out) < n {
		fetches := client.PollFetches(ctx)
		s.Require().NoError(ctx.Err(), "timed out waiting for records")
		fetches.EachRecord(func(r *kgo.Record) { out = append(out, r) })
	}
	return out
}

func entry(t *testing.T, action audit.AuditEvent, subject string) audit.OutboxEntry {
	t.Helper()
	e, err := audit.Encode(audit.Prepare(audit.Event{Action: action, Subject: subject}, time.Now()))
	require.NoError(t, err)
	return e
}

func (s *ProducerSuite) TestPublishKeysByAggregate() {
	const topic = "immat.test.publish"
	p := s.newProducer(topic)

	entries := []audit.OutboxEntry{
		entry(s.T(), audit.EventDossierSubmitted, "REF-4-2024-00001"),
		entry(s.T(), audit.EventMarkAllocated, "REF-4-2024-00001"),
		entry(s.T(), audit.EventDossierValidated, "REF-4-2024-00001"),
	}
	acked := p.Publish(context.Background(), entries)
	s.Require().Len(acked, 3)

	records := s.consume(topic, 3)
	for i, r := range records {
		s.Equal("REF-4-2024-00001", string(r.Key))
		headers := map[string]string{}
		for _, h := range r.Headers {
			headers[h.Key] = string(h.Value)
		}
		s.Equal(entries[i].EventType, headers["event_type"])
		s.Equal(entries[i].ID.String(), headers["event_id"])
		s.Equal("dossier", headers["aggregate_type"])
	}
}

func (s *ProducerSuite) TestRelayDrainsMemoryOutbox() {
	const topic = "immat.test.relay"
	p := s.newProducer(topic)
	outbox := auditmemory.NewInMemoryStore()
	ctx := context.Background()
	for _, ref := range []string{"REF-1-2024-00001", "REF-2-2024-00001", "REF-3-2024-00001"} {
		s.Require().NoError(outbox.Append(ctx, audit.Prepare(audit.Event{Action: audit.EventMarkAllocated, Subject: ref}, time.Now())))
	}

	relay := worker.NewRelay(outbox, p, time.Second, worker.WithBatchSize(2))
	published := relay.Drain(ctx)

	assert.Equal(s.T(), 3, published)
	assert.Zero(s.T(), outbox.Pending())
	s.Len(s.consume(topic, 3), 3)
}
