package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/metrics"
	"github.com/rpggio/spacedesk/internal/repository"
)

// Config bounds the contention retry loop.
type Config struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Service issues human-readable, never reused IDs.
type Service struct {
	repo   Repository
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new allocator.
func NewService(repo Repository, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

// WithClock replaces the wall clock used by AllocateNow.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Allocate issues the next ID for kind within scopeYear. A year with no counter starts at 1;
// counters of other years are left untouched.
func (s *Service) Allocate(ctx context.Context, kind entity.Kind, scopeYear int) (string, error) {
	if !kind.Valid() || !InScope(scopeYear) {
		return "", ErrInvalidInput
	}

	var seq int64
	err := repository.Retry(ctx, s.cfg.MaxAttempts, s.cfg.Backoff, func() error {
		var err error
		seq, err = s.repo.Next(ctx, kind, scopeYear)
		return err
	}, func(attempt int) {
		metrics.SequenceConflicts.WithLabelValues(string(kind)).Inc()
		s.logger.Debug("sequence contention", "entity", kind, "scope", scopeYear, "attempt", attempt)
	})
	switch {
	case err == nil:
		metrics.SequenceAllocations.WithLabelValues(string(kind)).Inc()
		return Format(kind, scopeYear, seq), nil
	case errors.Is(err, repository.ErrRetryable):
		return "", fmt.Errorf("allocating %s sequence: %w (%v)", kind, ErrRetryableConflict, err)
	default:
		return "", fmt.Errorf("allocating %s sequence: %w", kind, err)
	}
}

// AllocateNow allocates within the current calendar year.
func (s *Service) AllocateNow(ctx context.Context, kind entity.Kind) (string, error) {
	return s.Allocate(ctx, kind, s.now().Year())
}

// Peek returns the counter for a scope without changing it. Missing counters read as zero.
func (s *Service) Peek(ctx context.Context, kind entity.Kind, scopeYear int) (Counter, error) {
	if !kind.Valid() || !InScope(scopeYear) {
		return Counter{}, ErrInvalidInput
	}
	c, err := s.repo.Get(ctx, kind, scopeYear)
	if errors.Is(err, repository.ErrNotFound) {
		return Counter{EntityType: kind, Scope: scopeYear}, nil
	}
	if err != nil {
		return Counter{}, fmt.Errorf("reading %s counter: %w", kind, err)
	}
	return c, nil
}

// List returns every counter.
func (s *Service) List(ctx context.Context) ([]Counter, error) {
	return s.repo.List(ctx)
}
