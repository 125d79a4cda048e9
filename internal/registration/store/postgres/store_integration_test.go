//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"immat/internal/registration/models"
	"immat/internal/registration/service"
	"immat/internal/registration/store"
	"immat/internal/registration/store/postgres"
	"immat/internal/workflow"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
	"immat/pkg/platform/audit/publisher"
	auditpg "immat/pkg/platform/audit/store/postgres"
	"immat/pkg/testutil"
	"immat/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T(), postgres.Migrations, postgres.MigrationsRoot)
	s.store = postgres.New(s.pg.DB, 5*time.Second)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(),
		"outbox", "admin_records", "dossiers", "mark_allocations", "mark_counters", "reference_sequences", "vehicles"))
}

func (s *PostgresStoreSuite) vehicle(chassis string, dept domain.DepartmentID) *models.Vehicle {
	v, err := models.NewVehicle(domain.VehicleID(uuid.New()), chassis, "TAXI", dept, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateVehicle(context.Background(), v))
	return v
}

func (s *PostgresStoreSuite) TestDepartmentsSeeded() {
	ok, err := s.store.DepartmentExists(context.Background(), 4)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.DepartmentExists(context.Background(), 99)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *PostgresStoreSuite) TestUniqueViolationsMapToSentinels() {
	ctx := context.Background()
	v := s.vehicle("VF1-10001", 4)

	dup, err := models.NewVehicle(domain.VehicleID(uuid.New()), "VF1-10001", "TAXI", 4, time.Now())
	s.Require().NoError(err)
	s.ErrorIs(s.store.CreateVehicle(ctx, dup), store.ErrChassisTaken)

	a := &models.Allocation{ID: uuid.New(), VehicleID: v.ID, Mark: "TAXI 001 A4",
		Key: models.CounterKey{DepartmentID: 4, Class: "TAXI"}, AllocatedBy: domain.UserID(uuid.New()), AllocatedAt: time.Now()}
	s.Require().NoError(s.store.InsertAllocation(ctx, a))

	again := *a
	again.ID = uuid.New()
	again.Mark = "TAXI 002 A4"
	s.ErrorIs(s.store.InsertAllocation(ctx, &again), store.ErrVehicleAllocated)

	other := s.vehicle("VF1-10002", 4)
	sameMark := *a
	sameMark.ID = uuid.New()
	sameMark.VehicleID = other.ID
	s.ErrorIs(s.store.InsertAllocation(ctx, &sameMark), store.ErrMarkTaken)
}

func (s *PostgresStoreSuite) TestCounterCompareAndSwap() {
	ctx := context.Background()
	key := models.CounterKey{DepartmentID: 4, Class: "TAXI"}

	c, err := s.store.GetOrInitCounter(ctx, key)
	s.Require().NoError(err)
	s.Equal(models.NewCounter(key), c)

	s.Require().NoError(s.store.CompareAndSwapCounter(ctx, c.Version, c.Next()))
	s.ErrorIs(s.store.CompareAndSwapCounter(ctx, c.Version, c.Next()), store.ErrStale)

	peek, err := s.store.PeekCounter(ctx, key)
	s.Require().NoError(err)
	s.Equal(1, peek.Cursor)
	s.Equal(byte('A'), peek.Suffix)
}

func (s *PostgresStoreSuite) TestRunInTxRollsBack() {
	ctx := context.Background()
	key := models.CounterKey{DepartmentID: 5, Class: "MOTO"}
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx service.Tx) error {
		if _, err := tx.GetOrInitCounter(ctx, key); err != nil {
			return err
		}
		return dErrors.New(dErrors.CodeConflict, "abort")
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.store.PeekCounter(ctx, key)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *PostgresStoreSuite) TestNextReferenceSeq() {
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		n, err := s.store.NextReferenceSeq(ctx, 4, 2024)
		s.Require().NoError(err)
		s.Equal(want, n)
	}
	n, err := s.store.NextReferenceSeq(ctx, 4, 2025)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

// Full service run against Postgres: concurrent allocations in one department
// and class produce distinct consecutive marks.
func (s *PostgresStoreSuite) TestConcurrentAllocationsProduceDistinctMarks() {
	outbox := auditpg.New(s.pg.DB)
	svc, err := service.New(s.store,
		service.WithOutbox(publisher.NewPublisher(outbox)),
		service.WithMaxAttempts(20),
		service.WithBackoff(time.Millisecond),
	)
	s.Require().NoError(err)

	agent := testutil.ActorContext(testutil.NewActor(domain.RoleAgent, 4))
	admin := testutil.ActorContext(testutil.NewActor(domain.RoleAdmin, 1))

	const n = 10
	vehicles := make([]domain.VehicleID, n)
	for i := range vehicles {
		v, err := svc.RegisterVehicle(agent, service.RegisterVehicleInput{Chassis: "VF1-2000" + string(rune('0'+i)), DepartmentID: 4})
		s.Require().NoError(err)
		owner := domain.PartyID(uuid.New())
		_, err = svc.Submit(agent, service.SubmitInput{VehicleID: v.ID, OwnerID: &owner})
		s.Require().NoError(err)
		vehicles[i] = v.ID
	}

	marks := make([]models.Mark, n)
	var g errgroup.Group
	for i, id := range vehicles {
		g.Go(func() error {
			att, err := svc.AllocateMark(admin, id)
			if err != nil {
				return err
			}
			marks[i] = att.Mark
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	seen := make(map[models.Mark]struct{}, n)
	for _, m := range marks {
		_, dup := seen[m]
		s.False(dup, "duplicate mark %s", m)
		seen[m] = struct{}{}
	}
	peek, err := s.store.PeekCounter(context.Background(), models.CounterKey{DepartmentID: 4, Class: "TAXI"})
	s.Require().NoError(err)
	s.Equal(n, peek.Cursor)

	pending, err := outbox.Pending(context.Background())
	s.Require().NoError(err)
	s.Equal(3*n, pending, "registered, submitted and allocated events")
}

func (s *PostgresStoreSuite) TestDriftCandidates() {
	ctx := context.Background()
	v := s.vehicle("VF1-30001", 4)
	now := time.Now().UTC().Truncate(time.Microsecond)
	d := &models.Dossier{
		ID: domain.DossierID(uuid.New()), Reference: "REF-4-2024-00001", VehicleID: v.ID,
		Principal:   models.PrincipalActor{Kind: models.PrincipalOwner, ID: domain.PartyID(uuid.New())},
		SubmittedBy: domain.UserID(uuid.New()), DepartmentID: 4, Status: workflow.StageEnAttente, SubmittedAt: now,
	}
	s.Require().NoError(s.store.CreateDossier(ctx, d))

	refs, err := s.store.ListDriftCandidates(ctx, 0)
	s.Require().NoError(err)
	s.Empty(refs)

	d.ApplyAttribution("TAXI 001 A4", domain.UserID(uuid.New()), now)
	s.Require().NoError(s.store.UpdateDossier(ctx, d))
	refs, err = s.store.ListDriftCandidates(ctx, 4)
	s.Require().NoError(err)
	s.Equal([]string{d.Reference}, refs, "attributed without a projection")

	s.Require().NoError(s.store.UpsertAdminRecord(ctx, models.NewAdminRecord(d, d.ProvisionalMark, domain.Actor{Role: domain.RoleAdmin}, now)))
	refs, err = s.store.ListDriftCandidates(ctx, 4)
	s.Require().NoError(err)
	s.Empty(refs)

	got, err := s.store.FindDossierByReference(ctx, d.Reference)
	s.Require().NoError(err)
	s.Equal(d.ProvisionalMark, got.ProvisionalMark)
	s.Require().NotNil(got.AttributedAt)
	s.True(now.Equal(*got.AttributedAt))

	listed, err := s.store.ListAdminRecords(ctx, models.AdminFilter{Search: "30001", Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal("VF1-30001", listed[0].Chassis)
}

func (s *PostgresStoreSuite) TestStatusColumnsAreConstrained() {
	ctx := context.Background()
	v := s.vehicle("VF1-30002", 4)
	now := time.Now().UTC().Truncate(time.Microsecond)
	d := &models.Dossier{
		ID: domain.DossierID(uuid.New()), Reference: "REF-4-2024-00002", VehicleID: v.ID,
		Principal:   models.PrincipalActor{Kind: models.PrincipalOwner, ID: domain.PartyID(uuid.New())},
		SubmittedBy: domain.UserID(uuid.New()), DepartmentID: 4, Status: workflow.StageEnAttente, SubmittedAt: now,
	}
	s.Require().NoError(s.store.CreateDossier(ctx, d))
	d.ApplyAttribution("TAXI 001 A4", domain.UserID(uuid.New()), now)
	s.Require().NoError(s.store.UpdateDossier(ctx, d))
	s.Require().NoError(s.store.UpsertAdminRecord(ctx, models.NewAdminRecord(d, d.ProvisionalMark, domain.Actor{Role: domain.RoleAdmin}, now)))

	_, err := s.pg.DB.ExecContext(ctx, `UPDATE admin_records SET status = 'garbage' WHERE reference = $1`, d.Reference)
	s.Error(err)
	_, err = s.pg.DB.ExecContext(ctx, `UPDATE dossiers SET status = 'rejeté' WHERE reference = $1`, d.Reference)
	s.Error(err)
}
