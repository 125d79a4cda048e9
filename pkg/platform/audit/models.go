// Package audit carries workflow events from the services to the outbox and
// from the outbox to the message bus.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"immat/pkg/domain"
)

// EventCategory classifies events for routing and retention.
type EventCategory string

const (
	// CategoryRegistration covers events with legal significance: a mark was
	// attributed or made official.
	CategoryRegistration EventCategory = "registration"
	// CategoryOperations covers intake and repair events.
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	EventVehicleRegistered AuditEvent = "vehicle_registered"
	EventDossierSubmitted  AuditEvent = "dossier_submitted"
	EventMarkAllocated     AuditEvent = "mark_allocated"
	EventDossierValidated  AuditEvent = "dossier_validated"
	EventDossierReconciled AuditEvent = "dossier_reconciled"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventVehicleRegistered: CategoryOperations,
	EventDossierSubmitted:  CategoryOperations,
	EventMarkAllocated:     CategoryRegistration,
	EventDossierValidated:  CategoryRegistration,
	EventDossierReconciled: CategoryOperations,
}

// Category returns the category of a known event, operations otherwise.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategoryOperations
}

// Event is emitted from domain logic to capture key actions. It stays
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Category  EventCategory
	Timestamp time.Time
	Action    AuditEvent
	// Subject is the aggregate the event is about: a dossier reference or a
	// vehicle id.
	Subject      string
	ActorID      domain.UserID
	ActorRole    domain.Role
	DepartmentID domain.DepartmentID
	Mark         string
	Detail       string
	RequestID    string
}

// Store appends events. Implementations join the transaction carried by ctx.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// OutboxEntry is a pending row awaiting publication.
type OutboxEntry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}
