// Package circuit wraps sony/gobreaker with the options and state names the
// rest of the code base uses.
package circuit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"immat/pkg/platform/sentinel"
)

type State string

const (
	StateClosed   State = "closed"
	StateHalfOpen State = "half_open"
	StateOpen     State = "open"
)

type config struct {
	failureThreshold uint32
	halfOpenRequests uint32
	openTimeout      time.Duration
	logger           *slog.Logger
	onStateChange    func(from, to State)
}

type Option func(*config)

// WithFailureThreshold sets the consecutive failures that open the circuit.
func WithFailureThreshold(n uint32) Option {
	return func(c *config) { c.failureThreshold = n }
}

// WithHalfOpenRequests sets how many trial calls pass while half-open; that
// many consecutive successes close the circuit.
func WithHalfOpenRequests(n uint32) Option {
	return func(c *config) { c.halfOpenRequests = n }
}

// WithOpenTimeout sets how long the circuit stays open before a trial call.
func WithOpenTimeout(d time.Duration) Option {
	return func(c *config) { c.openTimeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithStateChange registers a hook, used for metrics.
func WithStateChange(fn func(from, to State)) Option {
	return func(c *config) { c.onStateChange = fn }
}

// Breaker guards calls to a flaky dependency.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func New(name string, opts ...Option) *Breaker {
	cfg := config{
		failureThreshold: 5,
		halfOpenRequests: 1,
		openTimeout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.halfOpenRequests,
		Timeout:     cfg.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if cfg.logger != nil {
				cfg.logger.Warn("circuit breaker state change",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			}
			if cfg.onStateChange != nil {
				cfg.onStateChange(mapState(from), mapState(to))
			}
		},
	}
	return &Breaker{name: name, cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

// Execute runs fn unless the circuit is open. A rejected call returns an error
// wrapping sentinel.ErrUnavailable without calling fn.
func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %v", b.name, sentinel.ErrUnavailable, err)
	}
	return err
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State { return mapState(b.cb.State()) }

func (b *Breaker) IsOpen() bool { return b.State() == StateOpen }

func mapState(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}
