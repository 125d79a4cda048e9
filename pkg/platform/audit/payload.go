package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payload is the JSON document published for an event.
type Payload struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	Timestamp    string `json:"timestamp"`
	Action       string `json:"action"`
	Subject      string `json:"subject"`
	ActorID      string `json:"actor_id,omitempty"`
	ActorRole    string `json:"actor_role,omitempty"`
	DepartmentID int    `json:"department_id,omitempty"`
	Mark         string `json:"mark,omitempty"`
	Detail       string `json:"detail,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
}

// Prepare fills the derived fields of an event: id, category, timestamp.
func Prepare(event Event, now time.Time) Event {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.Category = event.Action.Category()
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	}
	return event
}

// Encode renders the outbox row for a prepared event.
func Encode(event Event) (OutboxEntry, error) {
	p := Payload{
		ID:           event.ID.String(),
		Category:     string(event.Category),
		Timestamp:    event.Timestamp.UTC().Format(time.RFC3339Nano),
		Action:       string(event.Action),
		Subject:      event.Subject,
		ActorRole:    string(event.ActorRole),
		DepartmentID: int(event.DepartmentID),
		Mark:         event.Mark,
		Detail:       event.Detail,
		RequestID:    event.RequestID,
	}
	if !event.ActorID.IsNil() {
		p.ActorID = event.ActorID.String()
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return OutboxEntry{}, fmt.Errorf("marshal audit payload: %w", err)
	}
	return OutboxEntry{
		ID:            event.ID,
		AggregateType: aggregateType(event.Action),
		AggregateID:   event.Subject,
		EventType:     string(event.Action),
		Payload:       raw,
		CreatedAt:     event.Timestamp,
	}, nil
}

func aggregateType(action AuditEvent) string {
	if action == EventVehicleRegistered {
		return "vehicle"
	}
	return "dossier"
}
