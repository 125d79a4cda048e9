package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"immat/internal/registration/models"
	"immat/internal/registration/store"
	"immat/internal/workflow"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
	audit "immat/pkg/platform/audit"
	"immat/pkg/requestcontext"
)

type RegisterVehicleInput struct {
	Chassis      string
	Class        string
	DepartmentID domain.DepartmentID
}

type SubmitInput struct {
	VehicleID        domain.VehicleID
	OwnerID          *domain.PartyID
	RepresentativeID *domain.PartyID
	// DepartmentID defaults to the submitting agent's department.
	DepartmentID domain.DepartmentID
}

// RegisterVehicle records a vehicle so a dossier can be opened for it.
func (s *Service) RegisterVehicle(ctx context.Context, in RegisterVehicleInput) (*models.Vehicle, error) {
	actor := requestcontext.Actor(ctx)
	dept := in.DepartmentID
	if dept == 0 {
		dept = actor.DepartmentID
	}
	if err := workflow.CanAct(actor, workflow.ActionSubmit, dept); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, dept); err != nil {
		return nil, err
	}
	class, err := models.ParseVehicleClass(in.Class)
	if err != nil {
		return nil, err
	}
	v, err := models.NewVehicle(domain.VehicleID(uuid.New()), in.Chassis, class, dept, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.CreateVehicle(ctx, v); err != nil {
			if errors.Is(err, store.ErrChassisTaken) {
				return dErrors.New(dErrors.CodeConflict, "chassis number already registered")
			}
			return err
		}
		return s.emit(ctx, audit.Event{
			Action:       audit.EventVehicleRegistered,
			Subject:      v.ID.String(),
			ActorID:      actor.UserID,
			ActorRole:    actor.Role,
			DepartmentID: dept,
			Detail:       v.Chassis,
		})
	})
	if err != nil {
		return nil, storeError(err, "vehicle not found", "failed to register vehicle")
	}

	s.logAudit(ctx, string(audit.EventVehicleRegistered),
		"vehicle_id", v.ID.String(),
		"chassis", v.Chassis,
		"user_id", actor.UserID.String(),
	)
	return v, nil
}

// Submit opens the dossier of a vehicle under a fresh case reference.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Dossier, error) {
	actor := requestcontext.Actor(ctx)
	principal, err := models.ResolvePrincipal(in.OwnerID, in.RepresentativeID)
	if err != nil {
		return nil, err
	}
	dept := in.DepartmentID
	if dept == 0 {
		dept = actor.DepartmentID
	}
	if err := s.checkDepartment(ctx, dept); err != nil {
		return nil, err
	}
	stage, err := workflow.Authorize(actor, workflow.ActionSubmit, workflow.StageNone, dept)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var d *models.Dossier
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		switch _, err := tx.LockDossierByVehicle(ctx, in.VehicleID); {
		case err == nil:
			return dErrors.New(dErrors.CodeConflict, "vehicle already has a dossier")
		case !errors.Is(err, store.ErrNotFound):
			return err
		}
		v, err := tx.LockVehicle(ctx, in.VehicleID)
		if err != nil {
			return storeError(err, "vehicle not found", "failed to load vehicle")
		}
		if v.DepartmentID != dept {
			return dErrors.New(dErrors.CodeValidation, "vehicle is registered in another department")
		}

		seq, err := tx.NextReferenceSeq(ctx, dept, now.Year())
		if err != nil {
			return err
		}
		d = &models.Dossier{
			ID:           domain.DossierID(uuid.New()),
			Reference:    models.FormatReference(dept, now.Year(), seq),
			VehicleID:    v.ID,
			Principal:    principal,
			SubmittedBy:  actor.UserID,
			DepartmentID: dept,
			Status:       stage,
			SubmittedAt:  now,
		}
		if err := tx.CreateDossier(ctx, d); err != nil {
			if errors.Is(err, store.ErrDossierExists) || errors.Is(err, store.ErrReferenceTaken) {
				return dErrors.Wrap(err, dErrors.CodeConflict, "dossier could not be created")
			}
			return err
		}
		return s.emit(ctx, audit.Event{
			Action:       audit.EventDossierSubmitted,
			Subject:      d.Reference,
			ActorID:      actor.UserID,
			ActorRole:    actor.Role,
			DepartmentID: dept,
			Detail:       string(principal.Kind),
		})
	})
	if err != nil {
		return nil, storeError(err, "vehicle not found", "failed to submit dossier")
	}

	if s.metrics != nil {
		s.metrics.IncrementSubmission()
	}
	s.logAudit(ctx, string(audit.EventDossierSubmitted),
		"reference", d.Reference,
		"vehicle_id", d.VehicleID.String(),
		"user_id", actor.UserID.String(),
	)
	return d, nil
}
