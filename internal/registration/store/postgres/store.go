// Package postgres persists the registration tables in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"immat/internal/registration/models"
	"immat/internal/registration/service"
	"immat/internal/registration/store"
	"immat/internal/workflow"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
	txcontext "immat/pkg/platform/tx"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsRoot is the directory inside Migrations holding the files.
const MigrationsRoot = "migrations"

const defaultTxTimeout = 5 * time.Second

// Store is pure I/O. Every method runs on the transaction bound to ctx when
// there is one, so RunInTx callers get a single commit.
type Store struct {
	db        *sql.DB
	txTimeout time.Duration
}

func New(db *sql.DB, txTimeout time.Duration) *Store {
	return &Store{db: db, txTimeout: txTimeout}
}

func (s *Store) exec(ctx context.Context) txcontext.Executor {
	return txcontext.ExecutorFor(ctx, s.db)
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx service.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := txcontext.From(ctx); ok {
		return fn(ctx, s)
	}

	timeout := s.txTimeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx), s); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if ctx.Err() != nil {
			return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "transaction timed out")
		}
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// uniqueViolation maps a 23505 error to the sentinel of the violated
// constraint. Other errors come back unchanged.
func uniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}
	switch pqErr.Constraint {
	case "vehicles_chassis_key":
		return store.ErrChassisTaken
	case "mark_allocations_vehicle_key":
		return store.ErrVehicleAllocated
	case "mark_allocations_mark_key":
		return store.ErrMarkTaken
	case "dossiers_vehicle_key":
		return store.ErrDossierExists
	case "dossiers_reference_key":
		return store.ErrReferenceTaken
	default:
		return err
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func (s *Store) DepartmentExists(ctx context.Context, id domain.DepartmentID) (bool, error) {
	var ok bool
	err := s.exec(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM departments WHERE id = $1)`, int(id),
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check department: %w", err)
	}
	return ok, nil
}

// Vehicles

const vehicleColumns = `id, chassis, vehicle_class, department_id, provisional_mark, definitive_mark, created_at`

func scanVehicle(row *sql.Row) (*models.Vehicle, error) {
	var (
		v           models.Vehicle
		id          uuid.UUID
		class       string
		dept        int
		provisional sql.NullString
		definitive  sql.NullString
	)
	if err := row.Scan(&id, &v.Chassis, &class, &dept, &provisional, &definitive, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.ID = domain.VehicleID(id)
	v.Class = models.VehicleClass(class)
	v.DepartmentID = domain.DepartmentID(dept)
	v.ProvisionalMark = models.Mark(provisional.String)
	v.DefinitiveMark = models.Mark(definitive.String)
	v.CreatedAt = v.CreatedAt.UTC()
	return &v, nil
}

func (s *Store) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	_, err := s.exec(ctx).ExecContext(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.UUID(v.ID),
		v.Chassis,
		v.Class.String(),
		int(v.DepartmentID),
		nullString(v.ProvisionalMark.String()),
		nullString(v.DefinitiveMark.String()),
		v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", uniqueViolation(err))
	}
	return nil
}

func (s *Store) findVehicle(ctx context.Context, id domain.VehicleID, lock string) (*models.Vehicle, error) {
	v, err := scanVehicle(s.exec(ctx).QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`+lock, uuid.UUID(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return v, nil
}

func (s *Store) FindVehicle(ctx context.Context, id domain.VehicleID) (*models.Vehicle, error) {
	return s.findVehicle(ctx, id, "")
}

func (s *Store) LockVehicle(ctx context.Context, id domain.VehicleID) (*models.Vehicle, error) {
	return s.findVehicle(ctx, id, " FOR UPDATE")
}

func (s *Store) UpdateVehicleMarks(ctx context.Context, v *models.Vehicle) error {
	res, err := s.exec(ctx).ExecContext(ctx, `
		UPDATE vehicles SET provisional_mark = $2, definitive_mark = $3 WHERE id = $1
	`, uuid.UUID(v.ID), nullString(v.ProvisionalMark.String()), nullString(v.DefinitiveMark.String()))
	if err != nil {
		return fmt.Errorf("update vehicle marks: %w", err)
	}
	return requireRow(res, "update vehicle marks")
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Counters

func scanCounter(row *sql.Row, key models.CounterKey) (models.Counter, error) {
	c := models.Counter{Key: key}
	var suffix string
	if err := row.Scan(&c.Cursor, &suffix, &c.Version); err != nil {
		return models.Counter{}, err
	}
	if len(suffix) != 1 {
		return models.Counter{}, fmt.Errorf("counter %s has suffix %q", key, suffix)
	}
	c.Suffix = suffix[0]
	return c, nil
}

// GetOrInitCounter creates the counter at its initial state when missing and
// returns the current row. Concurrent first allocations race on the insert;
// the loser reads the winner's row.
func (s *Store) GetOrInitCounter(ctx context.Context, key models.CounterKey) (models.Counter, error) {
	initial := models.NewCounter(key)
	if _, err := s.exec(ctx).ExecContext(ctx, `
		INSERT INTO mark_counters (department_id, vehicle_class, cursor, suffix, version)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (department_id, vehicle_class) DO NOTHING
	`, int(key.DepartmentID), key.Class.String(), initial.Cursor, string(initial.Suffix), initial.Version); err != nil {
		return models.Counter{}, fmt.Errorf("init counter: %w", err)
	}
	c, err := scanCounter(s.exec(ctx).QueryRowContext(ctx, `
		SELECT cursor, suffix, version FROM mark_counters
		WHERE department_id = $1 AND vehicle_class = $2
	`, int(key.DepartmentID), key.Class.String()), key)
	if err != nil {
		return models.Counter{}, fmt.Errorf("read counter: %w", err)
	}
	return c, nil
}

// CompareAndSwapCounter writes next only if the stored version still equals
// expectedVersion.
func (s *Store) CompareAndSwapCounter(ctx context.Context, expectedVersion int64, next models.Counter) error {
	res, err := s.exec(ctx).ExecContext(ctx, `
		UPDATE mark_counters
		SET cursor = $3, suffix = $4, version = $5
		WHERE department_id = $1 AND vehicle_class = $2 AND version = $6
	`,
		int(next.Key.DepartmentID),
		next.Key.Class.String(),
		next.Cursor,
		string(next.Suffix),
		next.Version,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("advance counter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advance counter rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrStale
	}
	return nil
}

// PeekCounter reads without locking.
func (s *Store) PeekCounter(ctx context.Context, key models.CounterKey) (models.Counter, error) {
	c, err := scanCounter(s.db.QueryRowContext(ctx, `
		SELECT cursor, suffix, version FROM mark_counters
		WHERE department_id = $1 AND vehicle_class = $2
	`, int(key.DepartmentID), key.Class.String()), key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Counter{}, store.ErrNotFound
	}
	if err != nil {
		return models.Counter{}, fmt.Errorf("peek counter: %w", err)
	}
	return c, nil
}

// Allocations

func (s *Store) FindAllocationByVehicle(ctx context.Context, id domain.VehicleID) (*models.Allocation, error) {
	var (
		a         models.Allocation
		vehicleID uuid.UUID
		by        uuid.UUID
		mark      string
		dept      int
		class     string
	)
	err := s.exec(ctx).QueryRowContext(ctx, `
		SELECT id, vehicle_id, mark, department_id, vehicle_class, allocated_by, allocated_at
		FROM mark_allocations WHERE vehicle_id = $1
	`, uuid.UUID(id)).Scan(&a.ID, &vehicleID, &mark, &dept, &class, &by, &a.AllocatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find allocation: %w", err)
	}
	a.VehicleID = domain.VehicleID(vehicleID)
	a.Mark = models.Mark(mark)
	a.Key = models.CounterKey{DepartmentID: domain.DepartmentID(dept), Class: models.VehicleClass(class)}
	a.AllocatedBy = domain.UserID(by)
	a.AllocatedAt = a.AllocatedAt.UTC()
	return &a, nil
}

func (s *Store) AllocationExistsByMark(ctx context.Context, mark models.Mark) (bool, error) {
	var ok bool
	err := s.exec(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM mark_allocations WHERE mark = $1)`, mark.String(),
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check mark: %w", err)
	}
	return ok, nil
}

func (s *Store) InsertAllocation(ctx context.Context, a *models.Allocation) error {
	_, err := s.exec(ctx).ExecContext(ctx, `
		INSERT INTO mark_allocations (id, vehicle_id, mark, department_id, vehicle_class, allocated_by, allocated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		a.ID,
		uuid.UUID(a.VehicleID),
		a.Mark.String(),
		int(a.Key.DepartmentID),
		a.Key.Class.String(),
		uuid.UUID(a.AllocatedBy),
		a.AllocatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", uniqueViolation(err))
	}
	return nil
}

// Dossiers

func (s *Store) NextReferenceSeq(ctx context.Context, dept domain.DepartmentID, year int) (int64, error) {
	var n int64
	err := s.exec(ctx).QueryRowContext(ctx, `
		INSERT INTO reference_sequences (department_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (department_id, year) DO UPDATE SET
			last_value = reference_sequences.last_value + 1
		RETURNING last_value
	`, int(dept), year).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next reference: %w", err)
	}
	return n, nil
}

const dossierColumns = `id, reference, vehicle_id, principal_kind, principal_id, submitted_by, department_id,
	status, provisional_mark, definitive_mark, submitted_at, attributed_at, attributed_by, validated_at, validated_by`

func scanDossier(row *sql.Row) (*models.Dossier, error) {
	var (
		d           models.Dossier
		id          uuid.UUID
		vehicleID   uuid.UUID
		kind        string
		principal   uuid.UUID
		submittedBy uuid.UUID
		dept        int
		status      string
		provisional sql.NullString
		definitive  sql.NullString
		attributed  sql.NullTime
		attributor  uuid.NullUUID
		validated   sql.NullTime
		validator   uuid.NullUUID
	)
	if err := row.Scan(&id, &d.Reference, &vehicleID, &kind, &principal, &submittedBy, &dept,
		&status, &provisional, &definitive, &d.SubmittedAt, &attributed, &attributor, &validated, &validator); err != nil {
		return nil, err
	}
	d.ID = domain.DossierID(id)
	d.VehicleID = domain.VehicleID(vehicleID)
	d.Principal = models.PrincipalActor{Kind: models.PrincipalKind(kind), ID: domain.PartyID(principal)}
	d.SubmittedBy = domain.UserID(submittedBy)
	d.DepartmentID = domain.DepartmentID(dept)
	d.Status = workflow.Stage(status)
	d.ProvisionalMark = models.Mark(provisional.String)
	d.DefinitiveMark = models.Mark(definitive.String)
	d.SubmittedAt = d.SubmittedAt.UTC()
	d.AttributedAt = timePtr(attributed)
	d.AttributedBy = domain.UserID(attributor.UUID)
	d.ValidatedAt = timePtr(validated)
	d.ValidatedBy = domain.UserID(validator.UUID)
	return &d, nil
}

func (s *Store) CreateDossier(ctx context.Context, d *models.Dossier) error {
	_, err := s.exec(ctx).ExecContext(ctx, `
		INSERT INTO dossiers (`+dossierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		uuid.UUID(d.ID),
		d.Reference,
		uuid.UUID(d.VehicleID),
		string(d.Principal.Kind),
		uuid.UUID(d.Principal.ID),
		uuid.UUID(d.SubmittedBy),
		int(d.DepartmentID),
		d.Status.String(),
		nullString(d.ProvisionalMark.String()),
		nullString(d.DefinitiveMark.String()),
		d.SubmittedAt,
		d.AttributedAt,
		nullUUID(uuid.UUID(d.AttributedBy)),
		d.ValidatedAt,
		nullUUID(uuid.UUID(d.ValidatedBy)),
	)
	if err != nil {
		return fmt.Errorf("insert dossier: %w", uniqueViolation(err))
	}
	return nil
}

func (s *Store) findDossier(ctx context.Context, where string, arg any) (*models.Dossier, error) {
	d, err := scanDossier(s.exec(ctx).QueryRowContext(ctx,
		`SELECT `+dossierColumns+` FROM dossiers WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find dossier: %w", err)
	}
	return d, nil
}

func (s *Store) FindDossierByReference(ctx context.Context, reference string) (*models.Dossier, error) {
	return s.findDossier(ctx, `reference = $1`, reference)
}

func (s *Store) LockDossier(ctx context.Context, reference string) (*models.Dossier, error) {
	return s.findDossier(ctx, `reference = $1 FOR UPDATE`, reference)
}

func (s *Store) LockDossierByVehicle(ctx context.Context, id domain.VehicleID) (*models.Dossier, error) {
	return s.findDossier(ctx, `vehicle_id = $1 FOR UPDATE`, uuid.UUID(id))
}

func (s *Store) UpdateDossier(ctx context.Context, d *models.Dossier) error {
	res, err := s.exec(ctx).ExecContext(ctx, `
		UPDATE dossiers SET
			status = $2,
			provisional_mark = $3,
			definitive_mark = $4,
			attributed_at = $5,
			attributed_by = $6,
			validated_at = $7,
			validated_by = $8
		WHERE reference = $1
	`,
		d.Reference,
		d.Status.String(),
		nullString(d.ProvisionalMark.String()),
		nullString(d.DefinitiveMark.String()),
		d.AttributedAt,
		nullUUID(uuid.UUID(d.AttributedBy)),
		d.ValidatedAt,
		nullUUID(uuid.UUID(d.ValidatedBy)),
	)
	if err != nil {
		return fmt.Errorf("update dossier: %w", err)
	}
	return requireRow(res, "update dossier")
}

// Administrative projection

const adminColumns = `a.reference, a.dossier_id, a.vehicle_id, a.department_id, a.provisional_mark, a.definitive_mark,
	a.status, a.actor_id, a.actor_role, a.created_at, a.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdmin(row rowScanner, extra ...any) (*models.AdminRecord, error) {
	var (
		a           models.AdminRecord
		dossierID   uuid.UUID
		vehicleID   uuid.UUID
		dept        int
		provisional sql.NullString
		definitive  sql.NullString
		status      string
		actorID     uuid.NullUUID
		actorRole   sql.NullString
	)
	dest := []any{&a.Reference, &dossierID, &vehicleID, &dept, &provisional, &definitive,
		&status, &actorID, &actorRole, &a.CreatedAt, &a.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	a.DossierID = domain.DossierID(dossierID)
	a.VehicleID = domain.VehicleID(vehicleID)
	a.DepartmentID = domain.DepartmentID(dept)
	a.ProvisionalMark = models.Mark(provisional.String)
	a.DefinitiveMark = models.Mark(definitive.String)
	a.Status = models.AdminStatus(status)
	a.ActorID = domain.UserID(actorID.UUID)
	a.ActorRole = domain.Role(actorRole.String)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

func (s *Store) FindAdminRecord(ctx context.Context, reference string) (*models.AdminRecord, error) {
	a, err := scanAdmin(s.exec(ctx).QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_records a WHERE a.reference = $1`, reference))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin record: %w", err)
	}
	return a, nil
}

// UpsertAdminRecord keys on reference and keeps the original created_at.
func (s *Store) UpsertAdminRecord(ctx context.Context, r *models.AdminRecord) error {
	_, err := s.exec(ctx).ExecContext(ctx, `
		INSERT INTO admin_records (reference, dossier_id, vehicle_id, department_id, provisional_mark,
			definitive_mark, status, actor_id, actor_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (reference) DO UPDATE SET
			provisional_mark = EXCLUDED.provisional_mark,
			definitive_mark = EXCLUDED.definitive_mark,
			status = EXCLUDED.status,
			actor_id = EXCLUDED.actor_id,
			actor_role = EXCLUDED.actor_role,
			updated_at = EXCLUDED.updated_at
	`,
		r.Reference,
		uuid.UUID(r.DossierID),
		uuid.UUID(r.VehicleID),
		int(r.DepartmentID),
		nullString(r.ProvisionalMark.String()),
		nullString(r.DefinitiveMark.String()),
		string(r.Status),
		nullUUID(uuid.UUID(r.ActorID)),
		nullString(r.ActorRole.String()),
		r.CreatedAt,
		r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert admin record: %w", err)
	}
	return nil
}

func (s *Store) ListAdminRecords(ctx context.Context, filter models.AdminFilter) ([]models.AdminListing, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.DepartmentID != 0 {
		where = append(where, "a.department_id = "+arg(int(filter.DepartmentID)))
	}
	if filter.Status != "" {
		where = append(where, "a.status = "+arg(string(filter.Status)))
	}
	if filter.Search != "" {
		p := arg("%" + escapeLike(filter.Search) + "%")
		where = append(where, "(a.reference ILIKE "+p+" OR v.chassis ILIKE "+p+")")
	}
	query := `SELECT ` + adminColumns + `, v.chassis
		FROM admin_records a
		JOIN vehicles v ON v.id = a.vehicle_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY a.updated_at DESC, a.reference"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := s.exec(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list admin records: %w", err)
	}
	defer rows.Close()

	out := make([]models.AdminListing, 0)
	for rows.Next() {
		var chassis string
		a, err := scanAdmin(rows, &chassis)
		if err != nil {
			return nil, fmt.Errorf("scan admin record: %w", err)
		}
		out = append(out, models.AdminListing{Record: *a, Chassis: chassis})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin records: %w", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListDriftCandidates returns references whose dossier and projection
// disagree, including attributed dossiers with no projection at all.
func (s *Store) ListDriftCandidates(ctx context.Context, dept domain.DepartmentID) ([]string, error) {
	rows, err := s.exec(ctx).QueryContext(ctx, `
		SELECT d.reference
		FROM dossiers d
		LEFT JOIN admin_records a ON a.reference = d.reference
		WHERE ($1::int = 0 OR d.department_id = $1::int)
		  AND (
			(a.reference IS NULL AND d.status <> $2::text)
			OR (a.reference IS NOT NULL AND (
				a.status <> CASE d.status WHEN $3::text THEN $4::text WHEN $5::text THEN $6::text ELSE '' END
				OR a.provisional_mark IS DISTINCT FROM d.provisional_mark
				OR a.definitive_mark IS DISTINCT FROM d.definitive_mark
			))
		  )
		ORDER BY d.reference
	`,
		int(dept),
		workflow.StageEnAttente.String(),
		workflow.StageEnAttenteOfficialisation.String(), string(models.AdminStatusPendingOfficialValidation),
		workflow.StageValide.String(), string(models.AdminStatusValidated),
	)
	if err != nil {
		return nil, fmt.Errorf("list drift candidates: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scan drift candidate: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drift candidates: %w", err)
	}
	return refs, nil
}
