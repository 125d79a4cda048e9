package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "immat/pkg/platform/audit"
	"immat/pkg/platform/audit/store/memory"
)

type recordingSink struct {
	calls  int
	events []string
	drop   int
}

func (s *recordingSink) Publish(_ context.Context, entries []audit.OutboxEntry) []uuid.UUID {
	s.calls++
	ids := make([]uuid.UUID, 0, len(entries))
	for i, e := range entries {
		if i < s.drop {
			continue
		}
		s.events = append(s.events, e.EventType)
		ids = append(ids, e.ID)
	}
	return ids
}

func seed(t *testing.T, store *memory.InMemoryStore, n int) {
	t.Helper()
	base := time.Now()
	for i := range n {
		ev := audit.Prepare(audit.Event{Action: audit.EventMarkAllocated, Subject: "REF"}, base.Add(time.Duration(i)*time.Millisecond))
		require.NoError(t, store.Append(context.Background(), ev))
	}
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestDrain_PublishesAcrossBatches(t *testing.T) {
	store := memory.NewInMemoryStore()
	seed(t, store, 5)
	sink := &recordingSink{}
	m := NewMetrics(prometheus.NewRegistry())

	relay := NewRelay(store, sink, time.Second, WithBatchSize(2), WithLogger(quietLogger()), WithMetrics(m))
	n := relay.Drain(context.Background())

	assert.Equal(t, 5, n)
	assert.Equal(t, 3, sink.calls)
	assert.Zero(t, store.Pending())
	assert.Equal(t, 5.0, testutil.ToFloat64(m.Published))
}

func TestDrain_StopsOnPartialDelivery(t *testing.T) {
	store := memory.NewInMemoryStore()
	seed(t, store, 4)
	sink := &recordingSink{drop: 1}
	m := NewMetrics(prometheus.NewRegistry())

	relay := NewRelay(store, sink, time.Second, WithBatchSize(2), WithLogger(quietLogger()), WithMetrics(m))
	n := relay.Drain(context.Background())

	assert.Equal(t, 1, n)
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, 3, store.Pending())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failed))
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := memory.NewInMemoryStore()
	seed(t, store, 1)
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewRelay(store, sink, 5*time.Millisecond, WithLogger(quietLogger())).Run(ctx) }()

	require.Eventually(t, func() bool { return store.Pending() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
