// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	platformstrings "immat/pkg/platform/strings"
)

const devSigningKey = "dev-secret-key-change-in-production"

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"IMMAT_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	TracingEnabled  bool          `env:"TRACING_ENABLED" envDefault:"false"`

	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Auth       AuthConfig
	Allocation AllocationConfig
}

// DatabaseConfig selects the persistence backend. An empty URL selects the
// in-memory stores.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	TxTimeout       time.Duration `env:"TX_TIMEOUT" envDefault:"5s"`
}

// RedisConfig configures the counter display cache. An empty URL disables it.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"2s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"500ms"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"500ms"`
	DisplayTTL   time.Duration `env:"SEQUENCE_CACHE_TTL" envDefault:"10m"`
}

// KafkaConfig configures the outbox relay. No brokers disables it.
type KafkaConfig struct {
	Brokers      []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Topic        string        `env:"KAFKA_TOPIC" envDefault:"immat.workflow"`
	PollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"2s"`
	BatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
}

type AuthConfig struct {
	SigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"immat"`
	Audience   string        `env:"JWT_AUDIENCE" envDefault:"immat-api"`
	TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"8h"`
}

// AllocationConfig bounds the retries of an allocation that lost a counter
// race. Backoff is the base delay; it doubles per attempt plus jitter.
type AllocationConfig struct {
	MaxAttempts int           `env:"ALLOCATION_MAX_ATTEMPTS" envDefault:"5"`
	Backoff     time.Duration `env:"ALLOCATION_BACKOFF" envDefault:"5ms"`
}

// FromEnv parses the environment into a Server config and checks it.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Kafka.Brokers = platformstrings.DedupeAndTrim(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (s Server) Validate() error {
	var errs []error
	if s.Allocation.MaxAttempts < 1 {
		errs = append(errs, errors.New("ALLOCATION_MAX_ATTEMPTS must be at least 1"))
	}
	if s.Allocation.Backoff < 0 {
		errs = append(errs, errors.New("ALLOCATION_BACKOFF must not be negative"))
	}
	if s.Database.TxTimeout <= 0 {
		errs = append(errs, errors.New("TX_TIMEOUT must be positive"))
	}
	if len(s.Kafka.Brokers) > 0 && strings.TrimSpace(s.Kafka.Topic) == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if s.Kafka.PollInterval <= 0 {
		errs = append(errs, errors.New("OUTBOX_POLL_INTERVAL must be positive"))
	}
	if s.Auth.SigningKey == "" {
		errs = append(errs, errors.New("JWT_SIGNING_KEY is required"))
	}
	return errors.Join(errs...)
}

// UsesDevSigningKey reports whether the built-in development key is active.
func (s Server) UsesDevSigningKey() bool {
	return s.Auth.SigningKey == devSigningKey
}

// InMemory reports whether no database is configured.
func (s Server) InMemory() bool {
	return s.Database.URL == ""
}
