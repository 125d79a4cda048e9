package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	jwttoken "immat/internal/jwt_token"
	"immat/internal/platform/config"
	"immat/internal/platform/httpserver"
	"immat/internal/platform/logger"
	platformmetrics "immat/internal/platform/metrics"
	"immat/internal/platform/postgres"
	"immat/internal/platform/redis"
	"immat/internal/platform/tracing"
	"immat/internal/registration/cache"
	"immat/internal/registration/handler"
	regmetrics "immat/internal/registration/metrics"
	"immat/internal/registration/models"
	"immat/internal/registration/service"
	"immat/internal/registration/store/memory"
	regpostgres "immat/internal/registration/store/postgres"
	audit "immat/pkg/platform/audit"
	"immat/pkg/platform/audit/publisher"
	"immat/pkg/platform/audit/publishers/kafka"
	auditmemory "immat/pkg/platform/audit/store/memory"
	auditpostgres "immat/pkg/platform/audit/store/postgres"
	"immat/pkg/platform/audit/worker"
	"immat/pkg/platform/middleware/auth"
	"immat/pkg/platform/middleware/metadata"
	request "immat/pkg/platform/middleware/request"
	"immat/pkg/platform/middleware/requesttime"
)

const (
	topicPartitions  = 3
	topicReplication = 1
)

// outboxStore is written by the service inside its transactions and drained
// by the relay.
type outboxStore interface {
	audit.Store
	worker.Outbox
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init("immat", cfg.TracingEnabled, os.Stdout)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("tracing shutdown failed", "error", err)
		}
	}()

	checks := map[string]httpserver.Check{}

	var (
		store  service.Store
		outbox outboxStore
	)
	if cfg.InMemory() {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		store = memory.New(models.DefaultDepartments...)
		outbox = auditmemory.NewInMemoryStore()
	} else {
		db, err := openDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		store = regpostgres.New(db, cfg.Database.TxTimeout)
		outbox = auditpostgres.New(db)
		checks["postgres"] = db.PingContext
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(regmetrics.New()),
		service.WithOutbox(publisher.NewPublisher(outbox)),
		service.WithMaxAttempts(cfg.Allocation.MaxAttempts),
		service.WithBackoff(cfg.Allocation.Backoff),
	}
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	if rc != nil {
		defer rc.Close()
		opts = append(opts, service.WithSequenceCache(cache.NewSequenceCache(rc.Client, cfg.Redis.DisplayTTL)))
		checks["redis"] = rc.Health
	} else {
		log.Info("REDIS_URL not set, sequence display reads the store directly")
	}

	svc, err := service.New(store, opts...)
	if err != nil {
		return err
	}

	if cfg.UsesDevSigningKey() {
		log.Warn("JWT_SIGNING_KEY is the development default")
	}
	tokens := jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)

	g, gctx := errgroup.WithContext(ctx)

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, kafka.WithLogger(log))
		if err != nil {
			return fmt.Errorf("creating kafka producer: %w", err)
		}
		defer producer.Close()
		if err := producer.EnsureTopic(ctx, topicPartitions, topicReplication); err != nil {
			log.Warn("could not ensure outbox topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		checks["kafka"] = producer.Ping

		relay := worker.NewRelay(outbox, producer, cfg.Kafka.PollInterval,
			worker.WithLogger(log),
			worker.WithMetrics(worker.NewMetrics(prometheus.DefaultRegisterer)),
			worker.WithBatchSize(cfg.Kafka.BatchSize),
		)
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		log.Info("KAFKA_BROKERS not set, outbox relay disabled")
	}

	router := newRouter(log, svc, tokens, checks)
	srv := httpserver.New(cfg.Addr, router, log)

	g.Go(func() error {
		log.Info("starting immat", "addr", cfg.Addr, "in_memory", cfg.InMemory())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db, regpostgres.Migrations, regpostgres.MigrationsRoot); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}

func newRouter(log *slog.Logger, svc *service.Service, tokens *jwttoken.JWTService, checks map[string]httpserver.Check) http.Handler {
	httpMetrics := platformmetrics.New()

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(request.Recovery(log))
	r.Use(metadata.ClientMetadata)
	r.Use(request.AccessLog(log))
	r.Use(httpMetrics.Middleware)

	r.Get("/health", httpserver.Health(checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(jwttoken.NewValidator(tokens), log))
		handler.New(svc, log).Register(r)
	})
	return r
}
