// Package worker relays committed outbox entries to the message bus.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "immat/pkg/platform/audit"
)

// Outbox hands batches of unpublished entries to a publish callback.
type Outbox interface {
	ProcessBatch(ctx context.Context, limit int, publish func(context.Context, []audit.OutboxEntry) []uuid.UUID) (int, error)
}

// Sink publishes entries and returns the ids it delivered.
type Sink interface {
	Publish(ctx context.Context, entries []audit.OutboxEntry) []uuid.UUID
}

type Metrics struct {
	Published prometheus.Counter
	Failed    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Published: f.NewCounter(prometheus.CounterOpts{
			Name: "immat_outbox_published_total",
			Help: "Outbox entries delivered to the message bus",
		}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Name: "immat_outbox_failed_total",
			Help: "Outbox entries left pending after a publish attempt",
		}),
	}
}

// Relay polls the outbox and publishes what it finds.
type Relay struct {
	outbox    Outbox
	sink      Sink
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   *Metrics
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func NewRelay(outbox Outbox, sink Sink, interval time.Duration, opts ...Option) *Relay {
	r := &Relay{
		outbox:    outbox,
		sink:      sink,
		interval:  interval,
		batchSize: 100,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until ctx is cancelled. A failed pass is logged and retried on
// the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		r.Drain(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Drain publishes full batches until the outbox runs dry or a batch comes
// back partially delivered.
func (r *Relay) Drain(ctx context.Context) int {
	total := 0
	for ctx.Err() == nil {
		var claimed int
		n, err := r.outbox.ProcessBatch(ctx, r.batchSize, func(ctx context.Context, entries []audit.OutboxEntry) []uuid.UUID {
			claimed = len(entries)
			return r.sink.Publish(ctx, entries)
		})
		if err != nil {
			r.logger.ErrorContext(ctx, "outbox batch failed", "error", err)
			return total
		}
		total += n
		r.observe(n, claimed-n)
		if claimed < r.batchSize || n < claimed {
			return total
		}
	}
	return total
}

func (r *Relay) observe(published, failed int) {
	if r.metrics == nil {
		return
	}
	r.metrics.Published.Add(float64(published))
	if failed > 0 {
		r.metrics.Failed.Add(float64(failed))
	}
}
