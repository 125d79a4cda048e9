package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immat/internal/registration/models"
	"immat/internal/registration/service"
	"immat/internal/registration/store"
	"immat/internal/workflow"
	"immat/pkg/domain"
)

var now = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func seedVehicle(t *testing.T, s *Store, chassis string) *models.Vehicle {
	t.Helper()
	v, err := models.NewVehicle(domain.VehicleID(uuid.New()), chassis, "TAXI", 4, now)
	require.NoError(t, err)
	require.NoError(t, s.RunInTx(context.Background(), func(ctx context.Context, tx service.Tx) error {
		return tx.CreateVehicle(ctx, v)
	}))
	return v
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	s := New(models.Department{ID: 4, Name: "Atlantique"})
	ctx := context.Background()
	key := models.CounterKey{DepartmentID: 4, Class: "TAXI"}
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(ctx context.Context, tx service.Tx) error {
		c, err := tx.GetOrInitCounter(ctx, key)
		require.NoError(t, err)
		require.NoError(t, tx.CompareAndSwapCounter(ctx, c.Version, c.Next()))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.PeekCounter(ctx, key)
	assert.ErrorIs(t, err, store.ErrNotFound, "lazy init must not survive a rollback")
}

func TestCompareAndSwapCounter(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := models.CounterKey{DepartmentID: 4, Class: "TAXI"}

	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx service.Tx) error {
		c, err := tx.GetOrInitCounter(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, models.NewCounter(key), c)

		require.NoError(t, tx.CompareAndSwapCounter(ctx, 0, c.Next()))
		assert.ErrorIs(t, tx.CompareAndSwapCounter(ctx, 0, c.Next()), store.ErrStale)
		return nil
	}))

	c, err := s.PeekCounter(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Cursor)
	assert.Equal(t, int64(1), c.Version)
}

func TestUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	v := seedVehicle(t, s, "VF1-00001")

	t.Run("chassis", func(t *testing.T) {
		dup, err := models.NewVehicle(domain.VehicleID(uuid.New()), "vf1-00001", "", 4, now)
		require.NoError(t, err)
		err = s.RunInTx(ctx, func(ctx context.Context, tx service.Tx) error { return tx.CreateVehicle(ctx, dup) })
		assert.ErrorIs(t, err, store.ErrChassisTaken)
	})

	t.Run("allocation per vehicle and per mark", func(t *testing.T) {
		err := s.RunInTx(ctx, func(ctx context.Context, tx service.Tx) error {
			require.NoError(t, tx.InsertAllocation(ctx, &models.Allocation{ID: uuid.New(), VehicleID: v.ID, Mark: "TAXI 001 A4"}))
			assert.ErrorIs(t, tx.InsertAllocation(ctx, &models.Allocation{ID: uuid.New(), VehicleID: v.ID, Mark: "TAXI 002 A4"}), store.ErrVehicleAllocated)
			assert.ErrorIs(t, tx.InsertAllocation(ctx, &models.Allocation{ID: uuid.New(), VehicleID: domain.VehicleID(uuid.New()), Mark: "TAXI 001 A4"}), store.ErrMarkTaken)
			taken, err := tx.AllocationExistsByMark(ctx, "TAXI 001 A4")
			require.NoError(t, err)
			assert.True(t, taken)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("dossier per vehicle", func(t *testing.T) {
		err := s.RunInTx(ctx, func(ctx context.Context, tx service.Tx) error {
			require.NoError(t, tx.CreateDossier(ctx, &models.Dossier{Reference: "REF-4-2024-00001", VehicleID: v.ID}))
			assert.ErrorIs(t, tx.CreateDossier(ctx, &models.Dossier{Reference: "REF-4-2024-00002", VehicleID: v.ID}), store.ErrDossierExists)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestNextReferenceSeq(t *testing.T) {
	s := New()
	ctx := context.Background()
	var got []int64
	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx service.Tx) error {
		for _, k := range []struct {
			dept domain.DepartmentID
			year int
		}{{4, 2024}, {4, 2024}, {5, 2024}, {4, 2025}} {
			n, err := tx.NextReferenceSeq(ctx, k.dept, k.year)
			require.NoError(t, err)
			got = append(got, n)
		}
		return nil
	}))
	assert.Equal(t, []int64{1, 2, 1, 1}, got)
}

func TestListAdminRecords(t *testing.T) {
	s := New()
	ctx := context.Background()
	v4 := seedVehicle(t, s, "VF1-40001")
	v5, err := models.NewVehicle(domain.VehicleID(uuid.New()), "VF1-50001", "TAXI", 5, now)
	require.NoError(t, err)

	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx service.Tx) error {
		require.NoError(t, tx.CreateVehicle(ctx, v5))
		require.NoError(t, tx.UpsertAdminRecord(ctx, &models.AdminRecord{
			Reference: "REF-4-2024-00001", VehicleID: v4.ID, DepartmentID: 4,
			Status: models.AdminStatusPendingOfficialValidation, UpdatedAt: now,
		}))
		return tx.UpsertAdminRecord(ctx, &models.AdminRecord{
			Reference: "REF-5-2024-00001", VehicleID: v5.ID, DepartmentID: 5,
			Status: models.AdminStatusValidated, UpdatedAt: now.Add(time.Minute),
		})
	}))

	all, err := s.ListAdminRecords(ctx, models.AdminFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "REF-5-2024-00001", all[0].Record.Reference, "most recently updated first")

	dept4, err := s.ListAdminRecords(ctx, models.AdminFilter{DepartmentID: 4})
	require.NoError(t, err)
	require.Len(t, dept4, 1)
	assert.Equal(t, "VF1-40001", dept4[0].Chassis)

	byChassis, err := s.ListAdminRecords(ctx, models.AdminFilter{Search: "50001"})
	require.NoError(t, err)
	require.Len(t, byChassis, 1)
	assert.Equal(t, domain.DepartmentID(5), byChassis[0].Record.DepartmentID)

	validated, err := s.ListAdminRecords(ctx, models.AdminFilter{Status: models.AdminStatusValidated})
	require.NoError(t, err)
	assert.Len(t, validated, 1)
}

func TestListDriftCandidates(t *testing.T) {
	s := New()
	ctx := context.Background()
	v := seedVehicle(t, s, "VF1-00009")
	d := &models.Dossier{Reference: "REF-4-2024-00009", VehicleID: v.ID, DepartmentID: 4, Status: workflow.StageEnAttente}
	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx service.Tx) error { return tx.CreateDossier(ctx, d) }))

	refs, err := s.ListDriftCandidates(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, refs)

	s.Tamper(d.Reference, func(d *models.Dossier, _ *models.AdminRecord) bool {
		d.ApplyAttribution("TAXI 001 A4", domain.UserID(uuid.New()), now)
		return false
	})
	refs, err = s.ListDriftCandidates(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{d.Reference}, refs)

	refs, err = s.ListDriftCandidates(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, refs)
}
