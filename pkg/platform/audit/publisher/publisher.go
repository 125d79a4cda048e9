// Package publisher is the service-facing entry point for audit events.
package publisher

import (
	"context"

	audit "immat/pkg/platform/audit"
	"immat/pkg/requestcontext"
)

// Publisher stamps events with request metadata and hands them to the store.
// With the outbox store the write joins the caller's transaction.
type Publisher struct {
	store audit.Store
}

func NewPublisher(store audit.Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	return p.store.Append(ctx, audit.Prepare(event, requestcontext.Now(ctx)))
}
