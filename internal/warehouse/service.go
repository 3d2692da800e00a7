// Package warehouse provides PostgreSQL warehouse operations: loading the
// raw_* snapshot relations and publishing the mart relations with
// replace-atomically semantics.
package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"martforge/pkg/errors"
	"martforge/pkg/models"
)

// Service provides warehouse database operations
type Service struct {
	db             *sqlx.DB
	config         models.Warehouse
	connected      bool
	batchSize      int
	errorHandler   *errors.ErrorHandler
	circuitBreaker *errors.CircuitBreaker
}

// NewService creates a new warehouse service
func NewService(config models.Warehouse) *Service {
	return &Service{
		config:         config,
		errorHandler:   errors.GetGlobalErrorHandler(),
		circuitBreaker: errors.NewCircuitBreaker("warehouse", 5, 30*time.Second),
	}
}

// NewServiceWithDB wraps an existing connection, used by tests.
func NewServiceWithDB(db *sqlx.DB, config models.Warehouse) *Service {
	s := NewService(config)
	s.db = db
	s.connected = true
	return s
}

// Connect establishes a connection to the warehouse
func (s *Service) Connect() error {
	if s.connected {
		return nil
	}

	// Use circuit breaker for connection attempts
	return s.circuitBreaker.Execute(context.Background(), func() error {
		return errors.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
			dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
				s.config.Host,
				s.config.Port,
				s.config.Database,
				s.config.Username,
				s.config.Password,
				s.config.SSLMode,
			)

			db, err := sqlx.Open("postgres", dsn)
			if err != nil {
				return errors.ConnectionError("Failed to open warehouse connection", err).
					WithContext("host", s.config.Host).
					WithContext("database", s.config.Database)
			}

			// Set connection pool settings
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(10 * time.Minute)

			connCtx, cancel := s.getContext()
			defer cancel()

			if err := db.PingContext(connCtx); err != nil {
				db.Close()

				if strings.Contains(err.Error(), "password authentication") {
					return errors.New(errors.ErrCodeAuthenticationFailed, "Authentication failed").
						WithContext("user", s.config.Username).
						WithSuggestions(
							"Verify your username and password",
							"Check pg_hba.conf allows this client",
						)
				}

				return errors.ConnectionError("Failed to connect to warehouse", err).
					WithContext("host", s.config.Host).
					AsRecoverable()
			}

			s.db = db
			s.connected = true
			return nil
		})
	})
}

// Close closes the database connection
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	s.connected = false
	return nil
}

// TestConnection tests the database connection
func (s *Service) TestConnection() error {
	if !s.connected {
		if err := s.Connect(); err != nil {
			return err
		}
	}

	ctx, cancel := s.getContext()
	defer cancel()

	return s.db.PingContext(ctx)
}

// DB returns the underlying database connection
func (s *Service) DB() *sqlx.DB {
	return s.db
}

// SetBatchSize overrides the default bulk insert batch size.
func (s *Service) SetBatchSize(n int) {
	s.batchSize = n
}

func (s *Service) getContext() (context.Context, context.CancelFunc) {
	timeout := 30 * time.Second
	if s.config.Timeout != "" {
		if parsed, err := time.ParseDuration(s.config.Timeout); err == nil {
			timeout = parsed
		}
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (s *Service) rawSchema() string {
	if s.config.RawSchema != "" {
		return s.config.RawSchema
	}
	return "public"
}

func (s *Service) martsSchema() string {
	if s.config.MartsSchema != "" {
		return s.config.MartsSchema
	}
	return "marts"
}

// ValidateConfig validates the warehouse configuration
func ValidateConfig(config models.Warehouse) error {
	if config.Host == "" {
		return fmt.Errorf("host is required")
	}
	if config.Database == "" {
		return fmt.Errorf("database is required")
	}
	if config.Username == "" {
		return fmt.Errorf("username is required")
	}
	if config.Timeout != "" {
		if _, err := time.ParseDuration(config.Timeout); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", config.Timeout, err)
		}
	}
	return nil
}
