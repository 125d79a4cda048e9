package models

import (
	"time"

	"immat/internal/workflow"
	"immat/pkg/domain"
)

// AdminStatus is the status vocabulary of the administrative projection.
type AdminStatus string

const (
	AdminStatusPendingOfficialValidation AdminStatus = "en_attente_validation_officielle"
	AdminStatusValidated                 AdminStatus = "validé"
)

// Stage maps the projection status onto the shared workflow stage. This is the
// only place the two vocabularies meet.
func (s AdminStatus) Stage() workflow.Stage {
	switch s {
	case AdminStatusPendingOfficialValidation:
		return workflow.StageEnAttenteOfficialisation
	case AdminStatusValidated:
		return workflow.StageValide
	default:
		return workflow.StageNone
	}
}

// AdminStatusFor is the inverse of Stage. A projection is never written before
// attribution, so every stage short of validé maps to the pending status.
func AdminStatusFor(stage workflow.Stage) AdminStatus {
	if stage == workflow.StageValide {
		return AdminStatusValidated
	}
	return AdminStatusPendingOfficialValidation
}

func (s AdminStatus) IsValid() bool {
	return s.Stage() != workflow.StageNone
}

// AdminRecord is the administrative projection of a dossier, keyed by its
// reference.
type AdminRecord struct {
	Reference       string
	DossierID       domain.DossierID
	VehicleID       domain.VehicleID
	DepartmentID    domain.DepartmentID
	ProvisionalMark Mark
	DefinitiveMark  Mark
	Status          AdminStatus
	ActorID         domain.UserID
	ActorRole       domain.Role
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewAdminRecord builds the projection written at attribution time.
func NewAdminRecord(d *Dossier, mark Mark, actor domain.Actor, now time.Time) *AdminRecord {
	return &AdminRecord{
		Reference:       d.Reference,
		DossierID:       d.ID,
		VehicleID:       d.VehicleID,
		DepartmentID:    d.DepartmentID,
		ProvisionalMark: mark,
		Status:          AdminStatusPendingOfficialValidation,
		ActorID:         actor.UserID,
		ActorRole:       actor.Role,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ApplyValidation moves the projection to validé with the definitive mark.
func (a *AdminRecord) ApplyValidation(mark Mark, actor domain.Actor, now time.Time) {
	if a.ProvisionalMark.IsZero() {
		a.ProvisionalMark = mark
	}
	a.DefinitiveMark = mark
	a.Status = AdminStatusValidated
	a.ActorID = actor.UserID
	a.ActorRole = actor.Role
	a.UpdatedAt = now
}

// AdminFilter narrows administrative listings. Zero fields do not filter.
type AdminFilter struct {
	DepartmentID domain.DepartmentID
	Status       AdminStatus
	Search       string
	Limit        int
}

// AdminListing is one row of the administrative listing.
type AdminListing struct {
	Record  AdminRecord
	Chassis string
}
