package models

import (
	"time"

	"immat/internal/workflow"
)

// Case is the logical aggregate behind a reference: the dossier and, once
// attributed, its administrative projection.
type Case struct {
	Dossier Dossier
	Admin   *AdminRecord
}

// Repair names what a reconciliation pass had to rewrite.
type Repair string

const (
	RepairNone                Repair = "none"
	RepairDossier             Repair = "dossier"
	RepairProjection          Repair = "projection"
	RepairRecreatedProjection Repair = "recreated_projection"
)

// Stage is the stage of the leading side. A projection only exists once a
// dossier was attributed, and a recorded mark is evidence of the stage that
// wrote it. A projection status outside its vocabulary carries no information.
func (c Case) Stage() workflow.Stage {
	stage := c.Dossier.Status
	promote := func(s workflow.Stage) {
		if s.Rank() > stage.Rank() {
			stage = s
		}
	}
	if c.Admin != nil {
		promote(workflow.StageEnAttenteOfficialisation)
		if c.Admin.Status.IsValid() {
			promote(c.Admin.Status.Stage())
		}
	}
	promote(stageFromMarks(c.ProvisionalMark(), c.DefinitiveMark()))
	return stage
}

func stageFromMarks(provisional, definitive Mark) workflow.Stage {
	switch {
	case !definitive.IsZero():
		return workflow.StageValide
	case !provisional.IsZero():
		return workflow.StageEnAttenteOfficialisation
	default:
		return workflow.StageNone
	}
}

// ProvisionalMark prefers the projection and falls back to the dossier.
func (c Case) ProvisionalMark() Mark {
	if c.Admin != nil && !c.Admin.ProvisionalMark.IsZero() {
		return c.Admin.ProvisionalMark
	}
	return c.Dossier.ProvisionalMark
}

// DefinitiveMark prefers the projection and falls back to the dossier.
func (c Case) DefinitiveMark() Mark {
	if c.Admin != nil && !c.Admin.DefinitiveMark.IsZero() {
		return c.Admin.DefinitiveMark
	}
	return c.Dossier.DefinitiveMark
}

// target is what both sides hold once reconciled.
func (c Case) target() (stage workflow.Stage, provisional, definitive Mark) {
	stage = c.Stage()
	provisional = c.ProvisionalMark()
	switch {
	case stage != workflow.StageValide:
		definitive = ""
	case !c.DefinitiveMark().IsZero():
		definitive = c.DefinitiveMark()
	default:
		definitive = provisional
	}
	return stage, provisional, definitive
}

// InSync reports whether both sides already hold the reconciled state. A
// dossier that was never attributed is in sync without a projection.
func (c Case) InSync() bool {
	stage, provisional, definitive := c.target()
	d := c.Dossier
	if d.Status != stage || d.ProvisionalMark != provisional || d.DefinitiveMark != definitive {
		return false
	}
	if c.Admin == nil {
		return stage.Rank() < workflow.StageEnAttenteOfficialisation.Rank()
	}
	return c.Admin.Status == AdminStatusFor(stage) &&
		c.Admin.ProvisionalMark == provisional &&
		c.Admin.DefinitiveMark == definitive
}

// Reconcile returns the case with the lagging side rewritten from the leading
// one. The receiver is not modified. When both sides are at the same stage,
// marks recorded on the projection win and gaps are filled from the dossier.
// The result is always in sync.
func (c Case) Reconcile(now time.Time) (Case, Repair) {
	if c.InSync() {
		return c, RepairNone
	}
	stage, provisional, definitive := c.target()

	out := Case{Dossier: c.Dossier}
	repair := RepairNone
	if c.Admin == nil {
		out.Admin = projectionFromDossier(&c.Dossier, now)
		repair = RepairRecreatedProjection
	} else {
		admin := *c.Admin
		out.Admin = &admin
	}
	a := out.Admin

	d := &out.Dossier
	if d.Status != stage || d.ProvisionalMark != provisional || d.DefinitiveMark != definitive {
		d.Status = stage
		d.ProvisionalMark = provisional
		d.DefinitiveMark = definitive
		if d.AttributedAt == nil {
			t := a.CreatedAt
			d.AttributedAt = &t
			d.AttributedBy = a.ActorID
		}
		if stage == workflow.StageValide && d.ValidatedAt == nil {
			t := a.UpdatedAt
			d.ValidatedAt = &t
			d.ValidatedBy = a.ActorID
		}
		if repair == RepairNone {
			repair = RepairDossier
		}
	}

	if a.Status != AdminStatusFor(stage) || a.ProvisionalMark != provisional || a.DefinitiveMark != definitive {
		a.Status = AdminStatusFor(stage)
		a.ProvisionalMark = provisional
		a.DefinitiveMark = definitive
		a.UpdatedAt = now
		if repair == RepairNone {
			repair = RepairProjection
		}
	}
	return out, repair
}

func projectionFromDossier(d *Dossier, now time.Time) *AdminRecord {
	created := now
	if d.AttributedAt != nil {
		created = *d.AttributedAt
	}
	return &AdminRecord{
		Reference:       d.Reference,
		DossierID:       d.ID,
		VehicleID:       d.VehicleID,
		DepartmentID:    d.DepartmentID,
		ProvisionalMark: d.ProvisionalMark,
		DefinitiveMark:  d.DefinitiveMark,
		Status:          AdminStatusFor(d.Status),
		ActorID:         d.AttributedBy,
		CreatedAt:       created,
		UpdatedAt:       now,
	}
}
