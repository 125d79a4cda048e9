package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"immat/internal/registration/models"
	"immat/internal/registration/store"
	"immat/internal/workflow"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
	audit "immat/pkg/platform/audit"
	"immat/pkg/requestcontext"
)

type ReconcileResult struct {
	Reference string
	Repair    models.Repair
}

// ReconcileReport summarises a range repair pass.
type ReconcileReport struct {
	Scanned  int
	Repaired []ReconcileResult
	Failed   []string
}

// Reconcile brings the lagging side of one case in line with the leading one.
// Running it on a case already in sync changes nothing.
func (s *Service) Reconcile(ctx context.Context, reference string) (res *ReconcileResult, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.Reconcile")
	span.SetAttributes(attribute.String("reference", reference))
	defer func() { endSpan(span, err) }()

	actor := requestcontext.Actor(ctx)
	if err := workflow.CanRepair(actor); err != nil {
		return nil, err
	}
	return s.reconcileOne(ctx, actor, reference)
}

// ReconcileDepartment repairs every drifted case of a department. Zero scans
// all departments. Individual failures are logged and reported; the pass
// carries on.
func (s *Service) ReconcileDepartment(ctx context.Context, dept domain.DepartmentID) (*ReconcileReport, error) {
	actor := requestcontext.Actor(ctx)
	if err := workflow.CanRepair(actor); err != nil {
		return nil, err
	}
	if dept != 0 {
		if err := s.checkDepartment(ctx, dept); err != nil {
			return nil, err
		}
	}

	refs, err := s.store.ListDriftCandidates(ctx, dept)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan dossiers")
	}
	report := &ReconcileReport{Scanned: len(refs)}
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return report, dErrors.Wrap(err, dErrors.CodeTimeout, "reconciliation interrupted")
		}
		res, err := s.reconcileOne(ctx, actor, ref)
		if err != nil {
			s.logger.ErrorContext(ctx, "reconcile failed", "reference", ref, "error", err)
			report.Failed = append(report.Failed, ref)
			continue
		}
		if res.Repair != models.RepairNone {
			report.Repaired = append(report.Repaired, *res)
		}
	}
	return report, nil
}

func (s *Service) ReconcileAll(ctx context.Context) (*ReconcileReport, error) {
	return s.ReconcileDepartment(ctx, 0)
}

func (s *Service) reconcileOne(ctx context.Context, actor domain.Actor, reference string) (*ReconcileResult, error) {
	res := &ReconcileResult{Reference: reference, Repair: models.RepairNone}
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		d, err := tx.LockDossier(ctx, reference)
		if err != nil {
			return storeError(err, "dossier not found", "failed to load dossier")
		}
		admin, err := tx.FindAdminRecord(ctx, reference)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load administrative record")
		}

		before := models.Case{Dossier: *d, Admin: admin}
		after, repair := before.Reconcile(requestcontext.Now(ctx))
		if repair == models.RepairNone {
			return nil
		}
		res.Repair = repair

		if after.Dossier != before.Dossier {
			if err := tx.UpdateDossier(ctx, &after.Dossier); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update dossier")
			}
		}
		if before.Admin == nil || *after.Admin != *before.Admin {
			if err := tx.UpsertAdminRecord(ctx, after.Admin); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update administrative record")
			}
		}
		if err := syncVehicle(ctx, tx, after); err != nil {
			return err
		}

		return s.emit(ctx, audit.Event{
			Action:       audit.EventDossierReconciled,
			Subject:      reference,
			ActorID:      actor.UserID,
			ActorRole:    actor.Role,
			DepartmentID: d.DepartmentID,
			Mark:         after.ProvisionalMark().String(),
			Detail:       string(repair),
		})
	})
	if err != nil {
		return nil, storeError(err, "dossier not found", "failed to reconcile dossier")
	}

	if res.Repair != models.RepairNone {
		if s.metrics != nil {
			s.metrics.IncrementReconciliation(string(res.Repair))
		}
		s.logAudit(ctx, string(audit.EventDossierReconciled),
			"reference", reference,
			"repair", string(res.Repair),
			"user_id", actor.UserID.String(),
		)
	}
	return res, nil
}

// syncVehicle copies the reconciled marks onto the vehicle.
func syncVehicle(ctx context.Context, tx Tx, c models.Case) error {
	v, err := tx.LockVehicle(ctx, c.Dossier.VehicleID)
	if err != nil {
		return storeError(err, "vehicle not found", "failed to load vehicle")
	}
	provisional := c.ProvisionalMark()
	definitive := models.Mark("")
	if c.Stage() == workflow.StageValide {
		definitive = c.DefinitiveMark()
	}
	if v.ProvisionalMark == provisional && v.DefinitiveMark == definitive {
		return nil
	}
	v.ProvisionalMark = provisional
	v.DefinitiveMark = definitive
	if err := tx.UpdateVehicleMarks(ctx, v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update vehicle")
	}
	return nil
}
