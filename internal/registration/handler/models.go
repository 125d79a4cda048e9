package handler

import (
	"strings"
	"time"

	"immat/internal/registration/models"
	"immat/internal/registration/service"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
)

type RegisterVehicleRequest struct {
	Chassis      string              `json:"chassis"`
	Class        string              `json:"class,omitempty"`
	DepartmentID domain.DepartmentID `json:"department_id,omitempty"`
}

func (r *RegisterVehicleRequest) Validate() error {
	r.Chassis = strings.TrimSpace(r.Chassis)
	r.Class = strings.TrimSpace(r.Class)
	if r.Chassis == "" {
		return dErrors.New(dErrors.CodeValidation, "chassis is required")
	}
	if r.DepartmentID < 0 {
		return dErrors.New(dErrors.CodeInvalidDepartment, "invalid department id")
	}
	return nil
}

type SubmitDossierRequest struct {
	VehicleID        domain.VehicleID    `json:"vehicle_id"`
	OwnerID          *domain.PartyID     `json:"owner_id,omitempty"`
	RepresentativeID *domain.PartyID     `json:"representative_id,omitempty"`
	DepartmentID     domain.DepartmentID `json:"department_id,omitempty"`
}

func (r *SubmitDossierRequest) Validate() error {
	if r.VehicleID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "vehicle_id is required")
	}
	if (r.OwnerID == nil || r.OwnerID.IsNil()) && (r.RepresentativeID == nil || r.RepresentativeID.IsNil()) {
		return dErrors.New(dErrors.CodeValidation, "owner_id or representative_id is required")
	}
	if r.DepartmentID < 0 {
		return dErrors.New(dErrors.CodeInvalidDepartment, "invalid department id")
	}
	return nil
}

type VehicleResponse struct {
	ID              domain.VehicleID    `json:"id"`
	Chassis         string              `json:"chassis"`
	Class           models.VehicleClass `json:"class"`
	DepartmentID    domain.DepartmentID `json:"department_id"`
	ProvisionalMark models.Mark         `json:"provisional_mark,omitempty"`
	DefinitiveMark  models.Mark         `json:"definitive_mark,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toVehicleResponse(v *models.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:              v.ID,
		Chassis:         v.Chassis,
		Class:           v.Class,
		DepartmentID:    v.DepartmentID,
		ProvisionalMark: v.ProvisionalMark,
		DefinitiveMark:  v.DefinitiveMark,
		CreatedAt:       v.CreatedAt,
	}
}

type PrincipalResponse struct {
	Kind models.PrincipalKind `json:"kind"`
	ID   domain.PartyID       `json:"id"`
}

type DossierResponse struct {
	Reference       string              `json:"reference"`
	VehicleID       domain.VehicleID    `json:"vehicle_id"`
	Principal       PrincipalResponse   `json:"principal"`
	SubmittedBy     domain.UserID       `json:"submitted_by"`
	DepartmentID    domain.DepartmentID `json:"department_id"`
	Status          string              `json:"status"`
	ProvisionalMark models.Mark         `json:"provisional_mark,omitempty"`
	DefinitiveMark  models.Mark         `json:"definitive_mark,omitempty"`
	SubmittedAt     time.Time           `json:"submitted_at"`
	AttributedAt    *time.Time          `json:"attributed_at,omitempty"`
	ValidatedAt     *time.Time          `json:"validated_at,omitempty"`
}

func toDossierResponse(d *models.Dossier) DossierResponse {
	return DossierResponse{
		Reference:       d.Reference,
		VehicleID:       d.VehicleID,
		Principal:       PrincipalResponse{Kind: d.Principal.Kind, ID: d.Principal.ID},
		SubmittedBy:     d.SubmittedBy,
		DepartmentID:    d.DepartmentID,
		Status:          string(d.Status),
		ProvisionalMark: d.ProvisionalMark,
		DefinitiveMark:  d.DefinitiveMark,
		SubmittedAt:     d.SubmittedAt,
		AttributedAt:    d.AttributedAt,
		ValidatedAt:     d.ValidatedAt,
	}
}

type AdminRecordResponse struct {
	Reference       string              `json:"reference"`
	VehicleID       domain.VehicleID    `json:"vehicle_id"`
	Chassis         string              `json:"chassis,omitempty"`
	DepartmentID    domain.DepartmentID `json:"department_id"`
	Status          models.AdminStatus  `json:"status"`
	ProvisionalMark models.Mark         `json:"provisional_mark,omitempty"`
	DefinitiveMark  models.Mark         `json:"definitive_mark,omitempty"`
	ActorID         domain.UserID       `json:"actor_id"`
	ActorRole       domain.Role         `json:"actor_role,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toAdminRecordResponse(a *models.AdminRecord, chassis string) AdminRecordResponse {
	return AdminRecordResponse{
		Reference:       a.Reference,
		VehicleID:       a.VehicleID,
		Chassis:         chassis,
		DepartmentID:    a.DepartmentID,
		Status:          a.Status,
		ProvisionalMark: a.ProvisionalMark,
		DefinitiveMark:  a.DefinitiveMark,
		ActorID:         a.ActorID,
		ActorRole:       a.ActorRole,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// CaseResponse is the reconciled view of a dossier. Drift is true when the
// stored records disagree and a repair pass is due.
type CaseResponse struct {
	Dossier DossierResponse      `json:"dossier"`
	Admin   *AdminRecordResponse `json:"admin,omitempty"`
	Drift   bool                 `json:"drift"`
}

func toCaseResponse(v *service.CaseView) CaseResponse {
	resp := CaseResponse{Dossier: toDossierResponse(&v.Dossier), Drift: v.Drift}
	if v.Admin != nil {
		a := toAdminRecordResponse(v.Admin, "")
		resp.Admin = &a
	}
	return resp
}

type AttributionResponse struct {
	VehicleID domain.VehicleID `json:"vehicle_id"`
	Reference string           `json:"reference"`
	Mark      models.Mark      `json:"mark"`
	Status    string           `json:"status"`
}

type ValidationResponse struct {
	Reference string      `json:"reference"`
	Mark      models.Mark `json:"definitive_mark"`
	Status    string      `json:"status"`
}

type ReconcileResponse struct {
	Reference string        `json:"reference"`
	Repair    models.Repair `json:"repair"`
	Repaired  bool          `json:"repaired"`
}

type ReconcileReportResponse struct {
	Scanned  int                 `json:"scanned"`
	Repaired []ReconcileResponse `json:"repaired"`
	Failed   []string            `json:"failed"`
}

func toReconcileReportResponse(r *service.ReconcileReport) ReconcileReportResponse {
	resp := ReconcileReportResponse{
		Scanned:  r.Scanned,
		Repaired: make([]ReconcileResponse, 0, len(r.Repaired)),
		Failed:   r.Failed,
	}
	if resp.Failed == nil {
		resp.Failed = []string{}
	}
	for _, res := range r.Repaired {
		resp.Repaired = append(resp.Repaired, ReconcileResponse{Reference: res.Reference, Repair: res.Repair, Repaired: true})
	}
	return resp
}

type AdminListResponse struct {
	Records []AdminRecordResponse `json:"records"`
	Count   int                   `json:"count"`
}

type SequenceResponse struct {
	DepartmentID domain.DepartmentID `json:"department_id"`
	Class        models.VehicleClass `json:"class"`
	Cursor       int                 `json:"cursor"`
	Suffix       string              `json:"suffix"`
	LastMark     models.Mark         `json:"last_mark,omitempty"`
}

func toSequenceResponse(c models.Counter) SequenceResponse {
	resp := SequenceResponse{
		DepartmentID: c.Key.DepartmentID,
		Class:        c.Key.Class,
		Cursor:       c.Cursor,
		Suffix:       string(rune(c.Suffix)),
	}
	if c.Cursor > 0 {
		resp.LastMark = c.Mark()
	}
	return resp
}
