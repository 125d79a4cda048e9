package models

import (
	"fmt"
	"time"

	"immat/internal/workflow"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
)

type PrincipalKind string

const (
	PrincipalOwner          PrincipalKind = "owner"
	PrincipalRepresentative PrincipalKind = "representative"
)

// PrincipalActor is the single party a dossier is filed for.
type PrincipalActor struct {
	Kind PrincipalKind
	ID   domain.PartyID
}

// ResolvePrincipal picks the owner when present, the representative otherwise.
func ResolvePrincipal(owner, representative *domain.PartyID) (PrincipalActor, error) {
	switch {
	case owner != nil && !owner.IsNil():
		return PrincipalActor{Kind: PrincipalOwner, ID: *owner}, nil
	case representative != nil && !representative.IsNil():
		return PrincipalActor{Kind: PrincipalRepresentative, ID: *representative}, nil
	default:
		return PrincipalActor{}, dErrors.New(dErrors.CodeValidation, "an owner or a representative is required")
	}
}

// FormatReference renders a case reference: REF-{department}-{year}-{seq:05d}.
func FormatReference(dept domain.DepartmentID, year int, seq int64) string {
	return fmt.Sprintf("REF-%d-%d-%05d", dept, year, seq)
}

// Dossier is the primary case record.
//
// Invariants:
//   - Status only moves forward along the workflow table
//   - ProvisionalMark is set exactly when Status has reached en_attente_officialisation
//   - DefinitiveMark is set exactly when Status is validé
type Dossier struct {
	ID              domain.DossierID
	Reference       string
	VehicleID       domain.VehicleID
	Principal       PrincipalActor
	SubmittedBy     domain.UserID
	DepartmentID    domain.DepartmentID
	Status          workflow.Stage
	ProvisionalMark Mark
	DefinitiveMark  Mark
	SubmittedAt     time.Time
	AttributedAt    *time.Time
	AttributedBy    domain.UserID
	ValidatedAt     *time.Time
	ValidatedBy     domain.UserID
}

// ApplyAttribution records the provisional mark. Authorization and stage
// checks happen before this is called.
func (d *Dossier) ApplyAttribution(mark Mark, by domain.UserID, now time.Time) {
	d.ProvisionalMark = mark
	d.Status = workflow.StageEnAttenteOfficialisation
	d.AttributedAt = &now
	d.AttributedBy = by
}

// ApplyValidation moves the dossier to its terminal stage with mark as the
// definitive mark. A missing provisional mark is back-filled from mark.
func (d *Dossier) ApplyValidation(mark Mark, by domain.UserID, now time.Time) {
	if d.ProvisionalMark.IsZero() {
		d.ProvisionalMark = mark
	}
	d.Status = workflow.StageValide
	d.DefinitiveMark = mark
	d.ValidatedAt = &now
	d.ValidatedBy = by
}

// IsValidated reports whether the dossier reached its terminal stage.
func (d *Dossier) IsValidated() bool {
	return d.Status == workflow.StageValide
}
