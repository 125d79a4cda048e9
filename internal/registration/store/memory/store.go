// Package memory is the in-process registration store used when no database
// is configured.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"immat/internal/registration/models"
	"immat/internal/registration/service"
	"immat/internal/registration/store"
	"immat/pkg/domain"
)

type refKey struct {
	dept domain.DepartmentID
	year int
}

type state struct {
	departments      map[domain.DepartmentID]string
	vehicles         map[domain.VehicleID]models.Vehicle
	chassis          map[string]domain.VehicleID
	counters         map[models.CounterKey]models.Counter
	allocations      map[domain.VehicleID]models.Allocation
	marks            map[models.Mark]domain.VehicleID
	refSeq           map[refKey]int64
	dossiers         map[string]models.Dossier
	dossierByVehicle map[domain.VehicleID]string
	admin            map[string]models.AdminRecord
}

func newState() *state {
	return &state{
		departments:      make(map[domain.DepartmentID]string),
		vehicles:         make(map[domain.VehicleID]models.Vehicle),
		chassis:          make(map[string]domain.VehicleID),
		counters:         make(map[models.CounterKey]models.Counter),
		allocations:      make(map[domain.VehicleID]models.Allocation),
		marks:            make(map[models.Mark]domain.VehicleID),
		refSeq:           make(map[refKey]int64),
		dossiers:         make(map[string]models.Dossier),
		dossierByVehicle: make(map[domain.VehicleID]string),
		admin:            make(map[string]models.AdminRecord),
	}
}

func (st *state) clone() *state {
	return &state{
		departments:      maps.Clone(st.departments),
		vehicles:         maps.Clone(st.vehicles),
		chassis:          maps.Clone(st.chassis),
		counters:         maps.Clone(st.counters),
		allocations:      maps.Clone(st.allocations),
		marks:            maps.Clone(st.marks),
		refSeq:           maps.Clone(st.refSeq),
		dossiers:         maps.Clone(st.dossiers),
		dossierByVehicle: maps.Clone(st.dossierByVehicle),
		admin:            maps.Clone(st.admin),
	}
}

// Store keeps every table in maps. RunInTx works on a copy and swaps it in
// only when fn succeeds, so a failed unit leaves no partial writes.
type Store struct {
	mu sync.RWMutex
	st *state
}

func New(departments ...models.Department) *Store {
	s := &Store{st: newState()}
	for _, d := range departments {
		s.st.departments[d.ID] = d.Name
	}
	return s
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx service.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.st.clone()
	if err := fn(ctx, &tx{st: staged}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = staged
	return nil
}

func (s *Store) read() *tx {
	return &tx{st: s.st}
}

func (s *Store) DepartmentExists(ctx context.Context, id domain.DepartmentID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().DepartmentExists(ctx, id)
}

func (s *Store) FindVehicle(ctx context.Context, id domain.VehicleID) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindVehicle(ctx, id)
}

func (s *Store) PeekCounter(ctx context.Context, key models.CounterKey) (models.Counter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().PeekCounter(ctx, key)
}

func (s *Store) FindDossierByReference(ctx context.Context, reference string) (*models.Dossier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindDossierByReference(ctx, reference)
}

func (s *Store) FindAdminRecord(ctx context.Context, reference string) (*models.AdminRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindAdminRecord(ctx, reference)
}

func (s *Store) ListAdminRecords(ctx context.Context, filter models.AdminFilter) ([]models.AdminListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListAdminRecords(ctx, filter)
}

func (s *Store) ListDriftCandidates(ctx context.Context, dept domain.DepartmentID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListDriftCandidates(ctx, dept)
}

// Tamper edits the stored dossier and projection of reference in place,
// bypassing every check. Returning false from fn drops the projection. Tests
// use it to stage drift.
func (s *Store) Tamper(reference string, fn func(d *models.Dossier, a *models.AdminRecord) (keepAdmin bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.st.dossiers[reference]
	if !ok {
		return
	}
	var a *models.AdminRecord
	if rec, ok := s.st.admin[reference]; ok {
		a = &rec
	}
	keep := fn(&d, a)
	s.st.dossiers[reference] = d
	switch {
	case a != nil && keep:
		s.st.admin[reference] = *a
	case !keep:
		delete(s.st.admin, reference)
	}
}

type tx struct {
	st *state
}

func (t *tx) DepartmentExists(_ context.Context, id domain.DepartmentID) (bool, error) {
	_, ok := t.st.departments[id]
	return ok, nil
}

func (t *tx) CreateVehicle(_ context.Context, v *models.Vehicle) error {
	if _, taken := t.st.chassis[v.Chassis]; taken {
		return store.ErrChassisTaken
	}
	t.st.vehicles[v.ID] = *v
	t.st.chassis[v.Chassis] = v.ID
	return nil
}

func (t *tx) FindVehicle(_ context.Context, id domain.VehicleID) (*models.Vehicle, error) {
	v, ok := t.st.vehicles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

func (t *tx) LockVehicle(ctx context.Context, id domain.VehicleID) (*models.Vehicle, error) {
	return t.FindVehicle(ctx, id)
}

func (t *tx) UpdateVehicleMarks(_ context.Context, v *models.Vehicle) error {
	cur, ok := t.st.vehicles[v.ID]
	if !ok {
		return store.ErrNotFound
	}
	cur.ProvisionalMark = v.ProvisionalMark
	cur.DefinitiveMark = v.DefinitiveMark
	t.st.vehicles[v.ID] = cur
	return nil
}

func (t *tx) GetOrInitCounter(_ context.Context, key models.CounterKey) (models.Counter, error) {
	c, ok := t.st.counters[key]
	if !ok {
		c = models.NewCounter(key)
		t.st.counters[key] = c
	}
	return c, nil
}

func (t *tx) CompareAndSwapCounter(_ context.Context, expectedVersion int64, next models.Counter) error {
	cur, ok := t.st.counters[next.Key]
	if !ok || cur.Version != expectedVersion {
		return store.ErrStale
	}
	t.st.counters[next.Key] = next
	return nil
}

func (t *tx) PeekCounter(_ context.Context, key models.CounterKey) (models.Counter, error) {
	c, ok := t.st.counters[key]
	if !ok {
		return models.Counter{}, store.ErrNotFound
	}
	return c, nil
}

func (t *tx) FindAllocationByVehicle(_ context.Context, id domain.VehicleID) (*models.Allocation, error) {
	a, ok := t.st.allocations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (t *tx) AllocationExistsByMark(_ context.Context, mark models.Mark) (bool, error) {
	_, ok := t.st.marks[mark]
	return ok, nil
}

func (t *tx) InsertAllocation(_ context.Context, a *models.Allocation) error {
	if _, ok := t.st.allocations[a.VehicleID]; ok {
		return store.ErrVehicleAllocated
	}
	if _, ok := t.st.marks[a.Mark]; ok {
		return store.ErrMarkTaken
	}
	t.st.allocations[a.VehicleID] = *a
	t.st.marks[a.Mark] = a.VehicleID
	return nil
}

func (t *tx) NextReferenceSeq(_ context.Context, dept domain.DepartmentID, year int) (int64, error) {
	k := refKey{dept: dept, year: year}
	t.st.refSeq[k]++
	return t.st.refSeq[k], nil
}

func (t *tx) CreateDossier(_ context.Context, d *models.Dossier) error {
	if _, ok := t.st.dossierByVehicle[d.VehicleID]; ok {
		return store.ErrDossierExists
	}
	if _, ok := t.st.dossiers[d.Reference]; ok {
		return store.ErrReferenceTaken
	}
	t.st.dossiers[d.Reference] = *d
	t.st.dossierByVehicle[d.VehicleID] = d.Reference
	return nil
}

func (t *tx) FindDossierByReference(_ context.Context, reference string) (*models.Dossier, error) {
	d, ok := t.st.dossiers[reference]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (t *tx) LockDossier(ctx context.Context, reference string) (*models.Dossier, error) {
	return t.FindDossierByReference(ctx, reference)
}

func (t *tx) LockDossierByVehicle(ctx context.Context, id domain.VehicleID) (*models.Dossier, error) {
	ref, ok := t.st.dossierByVehicle[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t.FindDossierByReference(ctx, ref)
}

func (t *tx) UpdateDossier(_ context.Context, d *models.Dossier) error {
	if _, ok := t.st.dossiers[d.Reference]; !ok {
		return store.ErrNotFound
	}
	t.st.dossiers[d.Reference] = *d
	return nil
}

func (t *tx) FindAdminRecord(_ context.Context, reference string) (*models.AdminRecord, error) {
	a, ok := t.st.admin[reference]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (t *tx) UpsertAdminRecord(_ context.Context, r *models.AdminRecord) error {
	if cur, ok := t.st.admin[r.Reference]; ok {
		rec := *r
		rec.CreatedAt = cur.CreatedAt
		t.st.admin[r.Reference] = rec
		return nil
	}
	t.st.admin[r.Reference] = *r
	return nil
}

func (t *tx) ListAdminRecords(_ context.Context, filter models.AdminFilter) ([]models.AdminListing, error) {
	search := strings.ToUpper(filter.Search)
	out := make([]models.AdminListing, 0)
	for _, rec := range t.st.admin {
		if filter.DepartmentID != 0 && rec.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		chassis := t.st.vehicles[rec.VehicleID].Chassis
		if search != "" && !strings.Contains(strings.ToUpper(rec.Reference), search) && !strings.Contains(chassis, search) {
			continue
		}
		out = append(out, models.AdminListing{Record: rec, Chassis: chassis})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Record, out[j].Record
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.Reference < b.Reference
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (t *tx) ListDriftCandidates(_ context.Context, dept domain.DepartmentID) ([]string, error) {
	var refs []string
	for ref, d := range t.st.dossiers {
		if dept != 0 && d.DepartmentID != dept {
			continue
		}
		c := models.Case{Dossier: d}
		if a, ok := t.st.admin[ref]; ok {
			c.Admin = &a
		}
		if !c.InSync() {
			refs = append(refs, ref)
		}
	}
	sort.Strings(refs)
	return refs, nil
}
