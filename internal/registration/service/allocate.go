package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"immat/internal/registration/metrics"
	"immat/internal/registration/models"
	"immat/internal/registration/store"
	"immat/internal/workflow"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
	audit "immat/pkg/platform/audit"
	"immat/pkg/requestcontext"
)

// Attribution is the outcome of a successful allocation.
type Attribution struct {
	VehicleID domain.VehicleID
	Reference string
	Mark      models.Mark
	Status    workflow.Stage
	Counter   models.Counter
}

// AllocateMark attributes the next mark of the vehicle's department and class.
func (s *Service) AllocateMark(ctx context.Context, vehicleID domain.VehicleID) (*Attribution, error) {
	v, err := s.store.FindVehicle(ctx, vehicleID)
	if err != nil {
		return nil, storeError(err, "vehicle not found", "failed to load vehicle")
	}
	return s.Allocate(ctx, v.DepartmentID, v.Class, vehicleID)
}

// Allocate advances the (department, class) counter and records the new mark
// against the vehicle, its dossier and the administrative projection in one
// commit. Lost counter races are retried with jittered backoff.
func (s *Service) Allocate(ctx context.Context, dept domain.DepartmentID, class models.VehicleClass, vehicleID domain.VehicleID) (att *Attribution, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.Allocate", trace.WithAttributes(
		attribute.Int("department_id", int(dept)),
		attribute.String("vehicle_class", class.String()),
		attribute.String("vehicle_id", vehicleID.String()),
	))
	defer func() { endSpan(span, err) }()

	start := time.Now()
	actor := requestcontext.Actor(ctx)
	if err := workflow.CanAct(actor, workflow.ActionAttribute, dept); err != nil {
		s.incrementAllocation(metrics.ResultRejected)
		return nil, err
	}
	if err := s.checkDepartment(ctx, dept); err != nil {
		s.incrementAllocation(metrics.ResultRejected)
		return nil, err
	}

	attempts := 0
	for {
		attempts++
		att, err = s.allocateOnce(ctx, actor, dept, class, vehicleID)
		if err == nil || !dErrors.HasCode(err, dErrors.CodeConcurrentConflict) || attempts >= s.maxAttempts {
			break
		}
		span.AddEvent("allocation conflict", trace.WithAttributes(attribute.Int("attempt", attempts)))
		if werr := s.wait(ctx, attempts); werr != nil {
			err = werr
			break
		}
	}
	span.SetAttributes(attribute.Int("attempts", attempts))
	if s.metrics != nil {
		s.metrics.ObserveAllocation(start, attempts)
	}

	if err != nil {
		s.incrementAllocation(allocationResult(err))
		if dErrors.HasCode(err, dErrors.CodeConcurrentConflict) {
			s.logger.WarnContext(ctx, "allocation gave up after conflicts",
				"department_id", int(dept),
				"vehicle_class", class.String(),
				"attempts", attempts,
			)
		}
		return nil, err
	}

	s.incrementAllocation(metrics.ResultSuccess)
	s.cacheCounter(ctx, att.Counter)
	s.logAudit(ctx, string(audit.EventMarkAllocated),
		"reference", att.Reference,
		"mark", att.Mark.String(),
		"vehicle_id", vehicleID.String(),
		"user_id", actor.UserID.String(),
		"attempts", attempts,
	)
	return att, nil
}

func (s *Service) allocateOnce(ctx context.Context, actor domain.Actor, dept domain.DepartmentID, class models.VehicleClass, vehicleID domain.VehicleID) (*Attribution, error) {
	var att *Attribution
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		d, err := tx.LockDossierByVehicle(ctx, vehicleID)
		if err != nil {
			return storeError(err, "no dossier for vehicle", "failed to load dossier")
		}
		v, err := tx.LockVehicle(ctx, vehicleID)
		if err != nil {
			return storeError(err, "vehicle not found", "failed to load vehicle")
		}
		if v.HasMark() {
			return errAlreadyAllocated
		}
		if _, err := tx.FindAllocationByVehicle(ctx, vehicleID); err == nil {
			return errAlreadyAllocated
		} else if !errors.Is(err, store.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check allocation")
		}

		if d.DepartmentID != dept {
			return dErrors.New(dErrors.CodeInvalidDepartment, "department does not match the dossier")
		}
		if v.Class != class {
			return dErrors.New(dErrors.CodeValidation, "vehicle class does not match the vehicle")
		}
		to, err := workflow.Authorize(actor, workflow.ActionAttribute, d.Status, d.DepartmentID)
		if err != nil {
			return err
		}

		key := models.CounterKey{DepartmentID: dept, Class: class}
		counter, err := tx.GetOrInitCounter(ctx, key)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read counter")
		}
		if err := counter.Validate(); err != nil {
			return err
		}
		next := counter.Next()
		mark := next.Mark()

		taken, err := tx.AllocationExistsByMark(ctx, mark)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check mark")
		}
		if taken {
			return dErrors.New(dErrors.CodeConcurrentConflict, "mark "+mark.String()+" is already allocated")
		}
		if err := tx.CompareAndSwapCounter(ctx, counter.Version, next); err != nil {
			if errors.Is(err, store.ErrStale) {
				return dErrors.New(dErrors.CodeConcurrentConflict, "counter advanced concurrently")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to advance counter")
		}

		now := requestcontext.Now(ctx)
		err = tx.InsertAllocation(ctx, &models.Allocation{
			ID:          uuid.New(),
			VehicleID:   vehicleID,
			Mark:        mark,
			Key:         key,
			AllocatedBy: actor.UserID,
			AllocatedAt: now,
		})
		switch {
		case errors.Is(err, store.ErrVehicleAllocated):
			return errAlreadyAllocated
		case errors.Is(err, store.ErrMarkTaken):
			return dErrors.New(dErrors.CodeConcurrentConflict, "mark "+mark.String()+" is already allocated")
		case err != nil:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record allocation")
		}

		v.ProvisionalMark = mark
		if err := tx.UpdateVehicleMarks(ctx, v); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update vehicle")
		}
		d.ApplyAttribution(mark, actor.UserID, now)
		if err := tx.UpdateDossier(ctx, d); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update dossier")
		}
		if err := tx.UpsertAdminRecord(ctx, models.NewAdminRecord(d, mark, actor, now)); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update administrative record")
		}
		if err := s.emit(ctx, audit.Event{
			Action:       audit.EventMarkAllocated,
			Subject:      d.Reference,
			ActorID:      actor.UserID,
			ActorRole:    actor.Role,
			DepartmentID: dept,
			Mark:         mark.String(),
		}); err != nil {
			return err
		}

		att = &Attribution{
			VehicleID: vehicleID,
			Reference: d.Reference,
			Mark:      mark,
			Status:    to,
			Counter:   next,
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "vehicle not found", "failed to allocate mark")
	}
	return att, nil
}

var errAlreadyAllocated = dErrors.New(dErrors.CodeAlreadyAllocated, "vehicle already has a registration mark")

// wait sleeps base*2^(attempt-1) plus up to the same amount of jitter.
func (s *Service) wait(ctx context.Context, attempt int) error {
	if s.backoff == 0 {
		return ctx.Err()
	}
	delay := s.backoff << (attempt - 1)
	delay += rand.N(delay + 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "allocation cancelled")
	case <-timer.C:
		return nil
	}
}

func allocationResult(err error) string {
	switch dErrors.GetCode(err) {
	case dErrors.CodeAlreadyAllocated:
		return metrics.ResultAlreadyAllocated
	case dErrors.CodeConcurrentConflict:
		return metrics.ResultConflict
	case dErrors.CodeInternal, dErrors.CodeTimeout:
		return metrics.ResultError
	default:
		return metrics.ResultRejected
	}
}

func (s *Service) incrementAllocation(result string) {
	if s.metrics != nil {
		s.metrics.IncrementAllocation(result)
	}
}

func (s *Service) cacheCounter(ctx context.Context, c models.Counter) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, c); err != nil {
		s.logger.WarnContext(ctx, "sequence cache update failed", "counter", c.Key.String(), "error", err)
	}
}
