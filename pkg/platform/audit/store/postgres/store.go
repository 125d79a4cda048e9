package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	audit "immat/pkg/platform/audit"
	txcontext "immat/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern. Append
// joins the caller's transaction so an event commits with the state change it
// describes; the relay publishes committed rows afterwards.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes an event to the outbox table.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	row, err := audit.Encode(event)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = txcontext.ExecutorFor(ctx, s.db).ExecContext(ctx, query,
		row.ID,
		row.AggregateType,
		row.AggregateID,
		row.EventType,
		row.Payload,
		row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ProcessBatch claims up to limit unpublished rows with SKIP LOCKED so several
// relays can run side by side, hands them to publish and marks the returned
// ids as published, all in one transaction.
func (s *Store) ProcessBatch(ctx context.Context, limit int, publish func(context.Context, []audit.OutboxEntry) []uuid.UUID) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return 0, fmt.Errorf("claim outbox rows: %w", err)
	}
	var entries []audit.OutboxEntry
	for rows.Next() {
		var e audit.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	rows.Close()
	if len(entries) == 0 {
		return 0, nil
	}

	published := publish(ctx, entries)
	if len(published) > 0 {
		ids := make([]string, len(published))
		for i, id := range published {
			ids[i] = id.String()
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE outbox SET published_at = now() WHERE id = ANY($1::uuid[])`,
			pq.Array(ids),
		); err != nil {
			return 0, fmt.Errorf("mark outbox rows published: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox batch: %w", err)
	}
	return len(published), nil
}

// Pending counts unpublished rows; the health endpoint reports it.
func (s *Store) Pending(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM outbox WHERE published_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending outbox rows: %w", err)
	}
	return n, nil
}
