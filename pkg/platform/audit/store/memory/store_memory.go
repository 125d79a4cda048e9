package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "immat/pkg/platform/audit"
)

type entry struct {
	event       audit.Event
	row         audit.OutboxEntry
	publishedAt *time.Time
}

// InMemoryStore is the outbox used when no database is configured.
type InMemoryStore struct {
	mu      sync.Mutex
	entries []*entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	row, err := audit.Encode(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &entry{event: event, row: row})
	return nil
}

// Events returns every appended event in append order.
func (s *InMemoryStore) Events() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.Event, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.event)
	}
	return out
}

// EventsFor returns the events recorded for one subject.
func (s *InMemoryStore) EventsFor(subject string) []audit.Event {
	var out []audit.Event
	for _, e := range s.Events() {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out
}

// Pending counts unpublished entries.
func (s *InMemoryStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.publishedAt == nil {
			n++
		}
	}
	return n
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// ProcessBatch hands up to limit unpublished entries, oldest first, to
// publish and marks the ids it returns as published.
func (s *InMemoryStore) ProcessBatch(ctx context.Context, limit int, publish func(context.Context, []audit.OutboxEntry) []uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]*entry, 0, limit)
	for _, e := range s.entries {
		if e.publishedAt == nil {
			pending = append(pending, e)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].row.CreatedAt.Before(pending[j].row.CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	if len(pending) == 0 {
		return 0, nil
	}

	rows := make([]audit.OutboxEntry, len(pending))
	for i, e := range pending {
		rows[i] = e.row
	}
	done := make(map[uuid.UUID]struct{})
	for _, id := range publish(ctx, rows) {
		done[id] = struct{}{}
	}

	now := time.Now()
	for _, e := range pending {
		if _, ok := done[e.row.ID]; ok {
			e.publishedAt = &now
		}
	}
	return len(done), nil
}
