// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/okian/restio/internal/adapters/mq/queue"
	"github.com/okian/restio/internal/adapters/mq/worker"
	repository "github.com/okian/restio/internal/adapters/repository"
	"github.com/okian/restio/internal/domain/dedupe"
	"github.com/okian/restio/internal/domain/model"
	"github.com/okian/restio/internal/domain/types"
	"github.com/okian/restio/pkg/logger"
	"github.com/okian/restio/pkg/metrics"
)

// Audit pipeline defaults.
const (
	auditQueueCapacity  = 4096
	auditJournalEntries = 1024
	auditWorkerCount    = 2
)

// Service owns the catalog stores and credential checks behind the API.
type Service struct {
	mu sync.RWMutex

	// Core components
	authors    *repository.Store[model.Author]
	books      *repository.Store[model.Book]
	publishers *repository.Store[model.Publisher]

	// Audit pipeline
	changes    *queue.InMemoryQueue
	journal    *repository.Journal
	pool       *worker.Pool
	poolCancel context.CancelFunc

	// Configuration
	users map[string]string // username -> bcrypt hash
	seed  bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUsers sets the credential table used for basic and login auth.
// Values are bcrypt hashes, never plaintext passwords.
func WithUsers(users map[string]string) Option {
	return func(s *Service) {
		if users != nil {
			s.users = users
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSeedData preloads a handful of demo records on Start.
func WithSeedData(seed bool) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		users: map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the stores and, when configured, seeds demo data.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting catalog service...")

	s.changes = queue.NewInMemoryQueue(queue.WithCapacity(auditQueueCapacity))
	s.journal = repository.NewJournal(auditJournalEntries)
	s.pool = worker.NewPool(auditWorkerCount, s.changes, s.journal, dedupe.NewInMemoryDeduper())

	// The pipeline runs on a service-owned context, not the caller's:
	// when the process context is canceled the workers must stay up
	// until Stop has drained the queue.
	poolCtx, cancel := context.WithCancel(context.Background())
	s.poolCancel = cancel
	s.pool.Start(poolCtx)

	audit := repository.WithAudit(func(c types.Change) {
		// Best effort: a full queue drops the record rather than
		// blocking the store mutation that produced it.
		s.changes.Enqueue(poolCtx, c)
	})

	s.authors = repository.NewAuthors(audit)
	s.books = repository.NewBooks(audit)
	s.publishers = repository.NewPublishers(audit)

	if s.seed {
		if err := s.seedData(ctx); err != nil {
			return err
		}
	}

	s.started = true
	s.logger.Info(ctx, "catalog service started",
		logger.Int("users", len(s.users)),
		logger.Bool("seeded", s.seed),
	)
	return nil
}

// Stop shuts down the service, draining the audit queue into the
// journal before the workers exit. The stores themselves are memory only.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.pool.Shutdown(context.Background()); err != nil {
		s.logger.Warn(context.Background(), "audit pipeline shutdown", logger.Error(err))
	}
	s.poolCancel()
	s.started = false
	s.logger.Info(context.Background(), "catalog service stopped")
}

// Authors exposes the author store for endpoint wiring.
func (s *Service) Authors() *repository.Store[model.Author] { return s.authors }

// Books exposes the book store for endpoint wiring.
func (s *Service) Books() *repository.Store[model.Book] { return s.books }

// Publishers exposes the publisher store for endpoint wiring.
func (s *Service) Publishers() *repository.Store[model.Publisher] { return s.publishers }

// Changes exposes the audit journal for endpoint wiring.
func (s *Service) Changes() *repository.Journal { return s.journal }

// VerifyCredentials checks a username and password against the
// configured bcrypt hashes.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) bool {
	s.mu.RLock()
	hash, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		// Burn a comparison anyway so a missing user costs the same as
		// a wrong password.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0X0vI9m7rCOzmJkzhYzW0e1qMdS"), []byte(password))
		metrics.RecordAuthFailure()
		return false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		metrics.RecordAuthFailure()
		return false
	}
	return true
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"users":   len(s.users),
	}

	if s.started {
		stats["authors"] = s.authors.Count(ctx)
		stats["books"] = s.books.Count(ctx)
		stats["publishers"] = s.publishers.Count(ctx)
		stats["changes"] = s.journal.Total(ctx)
	}
	return stats
}

// seedData loads a small catalog so a fresh instance answers with
// something other than empty lists.
func (s *Service) seedData(ctx context.Context) error {
	ursula, err := s.authors.Create(ctx, map[string]any{"name": "Ursula K. Le Guin", "born": "1929-10-21"})
	if err != nil {
		return err
	}
	ray, err := s.authors.Create(ctx, map[string]any{"name": "Ray Bradbury", "born": "1920-08-22"})
	if err != nil {
		return err
	}

	books := []map[string]any{
		{"isbn": "9780441007318", "title": "The Left Hand of Darkness", "author_id": ursula.ID, "year": 1969},
		{"isbn": "9781451673319", "title": "Fahrenheit 451", "author_id": ray.ID, "year": 1953},
	}
	for _, b := range books {
		if _, err := s.books.Create(ctx, b); err != nil {
			return err
		}
	}

	if _, err := s.publishers.Create(ctx, map[string]any{"name": "Ace Books", "city": "New York"}); err != nil {
		return err
	}
	return nil
}
