package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"immat/internal/registration/metrics"
	"immat/internal/registration/models"
	"immat/internal/registration/store"
	"immat/internal/workflow"
	dErrors "immat/pkg/domain-errors"
	audit "immat/pkg/platform/audit"
	"immat/pkg/requestcontext"
)

// Validate makes the provisional mark of a dossier definitive. The
// administrative projection's mark is preferred over the dossier's.
func (s *Service) Validate(ctx context.Context, reference string) (mark models.Mark, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.Validate")
	span.SetAttributes(attribute.String("reference", reference))
	defer func() { endSpan(span, err) }()

	actor := requestcontext.Actor(ctx)
	var dept int
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		d, err := tx.LockDossier(ctx, reference)
		if err != nil {
			return storeError(err, "dossier not found", "failed to load dossier")
		}
		dept = int(d.DepartmentID)
		if err := workflow.CanAct(actor, workflow.ActionValidate, d.DepartmentID); err != nil {
			return err
		}
		admin, err := tx.FindAdminRecord(ctx, reference)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load administrative record")
		}

		c := models.Case{Dossier: *d, Admin: admin}
		mark = c.ProvisionalMark()
		if mark.IsZero() {
			return dErrors.New(dErrors.CodeNoProvisionalMark, "dossier has no provisional mark")
		}
		if c.Stage() == workflow.StageValide {
			return dErrors.New(dErrors.CodeConflict, "dossier already validated")
		}
		if _, err := workflow.Authorize(actor, workflow.ActionValidate, c.Stage(), d.DepartmentID); err != nil {
			return err
		}

		now := requestcontext.Now(ctx)
		d.ProvisionalMark = mark
		d.ApplyValidation(mark, actor.UserID, now)
		if err := tx.UpdateDossier(ctx, d); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update dossier")
		}
		if admin == nil {
			admin = models.NewAdminRecord(d, mark, actor, now)
		}
		admin.ApplyValidation(mark, actor, now)
		if err := tx.UpsertAdminRecord(ctx, admin); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update administrative record")
		}

		v, err := tx.LockVehicle(ctx, d.VehicleID)
		if err != nil {
			return storeError(err, "vehicle not found", "failed to load vehicle")
		}
		if v.ProvisionalMark.IsZero() {
			v.ProvisionalMark = mark
		}
		v.DefinitiveMark = mark
		if err := tx.UpdateVehicleMarks(ctx, v); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update vehicle")
		}

		return s.emit(ctx, audit.Event{
			Action:       audit.EventDossierValidated,
			Subject:      d.Reference,
			ActorID:      actor.UserID,
			ActorRole:    actor.Role,
			DepartmentID: d.DepartmentID,
			Mark:         mark.String(),
		})
	})
	if err != nil {
		s.incrementValidation(validationResult(err))
		return "", storeError(err, "dossier not found", "failed to validate dossier")
	}

	s.incrementValidation(metrics.ResultSuccess)
	s.logAudit(ctx, string(audit.EventDossierValidated),
		"reference", reference,
		"mark", mark.String(),
		"department_id", dept,
		"user_id", actor.UserID.String(),
	)
	return mark, nil
}

func validationResult(err error) string {
	switch dErrors.GetCode(err) {
	case dErrors.CodeInternal, dErrors.CodeTimeout:
		return metrics.ResultError
	default:
		return metrics.ResultRejected
	}
}

func (s *Service) incrementValidation(result string) {
	if s.metrics != nil {
		s.metrics.IncrementValidation(result)
	}
}
