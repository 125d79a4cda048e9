package service

import (
	"context"
	"errors"
	"strings"

	"immat/internal/registration/models"
	"immat/internal/registration/store"
	"immat/internal/workflow"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
	"immat/pkg/requestcontext"
)

// CaseView is the reconciled read model of a dossier. Drift reports that the
// stored records disagree and a repair pass would rewrite one of them.
type CaseView struct {
	models.Case
	Drift bool
}

// GetCase returns the case with the leading side applied. Nothing is written.
func (s *Service) GetCase(ctx context.Context, reference string) (*CaseView, error) {
	actor := requestcontext.Actor(ctx)
	d, err := s.store.FindDossierByReference(ctx, reference)
	if err != nil {
		return nil, storeError(err, "dossier not found", "failed to load dossier")
	}
	if err := workflow.CanView(actor, d.DepartmentID); err != nil {
		return nil, err
	}
	admin, err := s.store.FindAdminRecord(ctx, reference)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load administrative record")
	}

	view, repair := models.Case{Dossier: *d, Admin: admin}.Reconcile(requestcontext.Now(ctx))
	return &CaseView{Case: view, Drift: repair != models.RepairNone}, nil
}

// ListAdmin lists administrative records. Departmental directors only ever
// see their own department whatever the filter asks for.
func (s *Service) ListAdmin(ctx context.Context, filter models.AdminFilter) ([]models.AdminListing, error) {
	actor := requestcontext.Actor(ctx)
	dept, ok := workflow.ListScope(actor)
	if !ok {
		return nil, dErrors.New(dErrors.CodeForbidden, "role "+actor.Role.String()+" may not list administrative records")
	}
	if dept != 0 {
		filter.DepartmentID = dept
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown status "+string(filter.Status))
	}
	filter.Search = strings.TrimSpace(filter.Search)
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}

	out, err := s.store.ListAdminRecords(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list administrative records")
	}
	return out, nil
}

// PeekSequence returns the last allocated counter state for display. It reads
// the cache first and never locks the counter row.
func (s *Service) PeekSequence(ctx context.Context, dept domain.DepartmentID, class models.VehicleClass) (models.Counter, error) {
	actor := requestcontext.Actor(ctx)
	if err := workflow.CanView(actor, dept); err != nil {
		return models.Counter{}, err
	}
	if err := s.checkDepartment(ctx, dept); err != nil {
		return models.Counter{}, err
	}
	key := models.CounterKey{DepartmentID: dept, Class: class}

	if s.cache != nil {
		c, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "sequence cache read failed", "counter", key.String(), "error", err)
		} else if ok {
			return c, nil
		}
	}

	c, err := s.store.PeekCounter(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return models.NewCounter(key), nil
	case err != nil:
		return models.Counter{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read counter")
	}
	s.cacheCounter(ctx, c)
	return c, nil
}
