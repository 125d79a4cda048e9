package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"immat/internal/registration/metrics"
	"immat/internal/registration/models"
	"immat/internal/registration/store"
	"immat/pkg/attrs"
	"immat/pkg/domain"
	dErrors "immat/pkg/domain-errors"
	audit "immat/pkg/platform/audit"
	request "immat/pkg/platform/middleware/request"
)

// Reader covers the lookups the service makes outside a transaction.
type Reader interface {
	DepartmentExists(ctx context.Context, id domain.DepartmentID) (bool, error)
	FindVehicle(ctx context.Context, id domain.VehicleID) (*models.Vehicle, error)
	PeekCounter(ctx context.Context, key models.CounterKey) (models.Counter, error)
	FindDossierByReference(ctx context.Context, reference string) (*models.Dossier, error)
	FindAdminRecord(ctx context.Context, reference string) (*models.AdminRecord, error)
	ListAdminRecords(ctx context.Context, filter models.AdminFilter) ([]models.AdminListing, error)
	ListDriftCandidates(ctx context.Context, dept domain.DepartmentID) ([]string, error)
}

// Tx is the store surface available inside one atomic unit. Operations that
// lock both a dossier and its vehicle take the dossier first.
type Tx interface {
	Reader

	CreateVehicle(ctx context.Context, v *models.Vehicle) error
	LockVehicle(ctx context.Context, id domain.VehicleID) (*models.Vehicle, error)
	UpdateVehicleMarks(ctx context.Context, v *models.Vehicle) error

	GetOrInitCounter(ctx context.Context, key models.CounterKey) (models.Counter, error)
	CompareAndSwapCounter(ctx context.Context, expectedVersion int64, next models.Counter) error

	FindAllocationByVehicle(ctx context.Context, id domain.VehicleID) (*models.Allocation, error)
	AllocationExistsByMark(ctx context.Context, mark models.Mark) (bool, error)
	InsertAllocation(ctx context.Context, a *models.Allocation) error

	NextReferenceSeq(ctx context.Context, dept domain.DepartmentID, year int) (int64, error)
	CreateDossier(ctx context.Context, d *models.Dossier) error
	LockDossier(ctx context.Context, reference string) (*models.Dossier, error)
	LockDossierByVehicle(ctx context.Context, id domain.VehicleID) (*models.Dossier, error)
	UpdateDossier(ctx context.Context, d *models.Dossier) error

	UpsertAdminRecord(ctx context.Context, r *models.AdminRecord) error
}

// Store runs fn inside one atomic unit. Everything fn writes commits together
// or not at all.
type Store interface {
	Reader
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Outbox records workflow events. Emit is called inside the transaction so the
// event commits with the state change it describes.
type Outbox interface {
	Emit(ctx context.Context, event audit.Event) error
}

// SequenceCache holds counter snapshots for display.
type SequenceCache interface {
	Get(ctx context.Context, key models.CounterKey) (models.Counter, bool, error)
	Set(ctx context.Context, c models.Counter) error
}

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 5 * time.Millisecond
	defaultListLimit   = 50
	maxListLimit       = 200
)

// Service orchestrates mark allocation and the dossier workflow.
type Service struct {
	store       Store
	outbox      Outbox
	cache       SequenceCache
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	maxAttempts int
	backoff     time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithOutbox(outbox Outbox) Option {
	return func(s *Service) {
		s.outbox = outbox
	}
}

func WithSequenceCache(cache SequenceCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithMaxAttempts bounds the allocation retries on concurrent conflicts.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithBackoff sets the base delay between allocation attempts.
func WithBackoff(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.backoff = d
		}
	}
}

func New(st Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("registration store is required")
	}
	s := &Service{
		store:       st,
		logger:      slog.Default(),
		tracer:      otel.Tracer("immat/registration"),
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) checkDepartment(ctx context.Context, dept domain.DepartmentID) error {
	if !dept.Valid() {
		return dErrors.New(dErrors.CodeInvalidDepartment, "department must be a positive number")
	}
	ok, err := s.store.DepartmentExists(ctx, dept)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check department")
	}
	if !ok {
		return dErrors.New(dErrors.CodeInvalidDepartment, "unknown department "+dept.String())
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.outbox == nil {
		return nil
	}
	if err := s.outbox.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record workflow event")
	}
	return nil
}

// storeError translates store sentinels. Coded errors raised inside a
// transaction pass through untouched.
func storeError(err error, notFound, internal string) error {
	var coded *dErrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &coded):
		return err
	case errors.Is(err, store.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFound)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internal)
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := request.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(event, trace.WithAttributes(
			attribute.String("reference", attrs.ExtractString(attributes, "reference")),
			attribute.String("mark", attrs.ExtractString(attributes, "mark")),
		))
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.GetCode(err)))
	}
	span.End()
}
