package offering

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/repository"
)

// Service handles service-offering operations.
type Service struct {
	repo       Repository
	ids        IDAllocator
	validator  Validator
	activities ActivityLogger
	logger     *slog.Logger
}

// NewService creates a new offering service.
func NewService(repo Repository, ids IDAllocator, validator Validator, activities ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, ids: ids, validator: validator, activities: activities, logger: logger}
}

// Create validates and stores a new offering with a fresh SRV id.
func (s *Service) Create(ctx context.Context, in Input) (*Offering, error) {
	if err := s.validator.Check(entity.KindService, &in); err != nil {
		return nil, err
	}
	id, err := s.ids.AllocateNow(ctx, entity.KindService)
	if err != nil {
		return nil, fmt.Errorf("allocating service id: %w", err)
	}

	now := time.Now()
	o := &Offering{ID: id, CreatedAt: now}
	apply(o, in)
	o.UpdatedAt = now

	if err := s.repo.Create(ctx, o); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating service: %w", err)
	}
	s.record(ctx, o.ID, activity.TypeEntityCreated, fmt.Sprintf("created service %s (%s)", o.ID, o.Name))
	return o, nil
}

// Get fetches an offering by ID.
func (s *Service) Get(ctx context.Context, id string) (*Offering, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("getting service: %w", err)
	}
	return o, nil
}

// List returns one page of offerings and the total match count.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Offering, int, error) {
	opts.Page = opts.Page.Normalize()
	return s.repo.List(ctx, opts)
}

// Update replaces an offering.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Offering, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Check(entity.KindService, &in); err != nil {
		return nil, err
	}

	updated := *current
	apply(&updated, in)
	updated.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrDuplicateName
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("updating service: %w", err)
	}
	s.record(ctx, id, activity.TypeEntityUpdated, fmt.Sprintf("updated service %s", id))
	return &updated, nil
}

// Patch merges the set fields of p and saves through Update.
func (s *Service) Patch(ctx context.Context, id string, p Patch) (*Offering, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in := Input{
		Name:        current.Name,
		Category:    current.Category,
		Description: current.Description,
		Price:       current.Price,
		Unit:        current.Unit,
		TaxRate:     current.TaxRate,
		IsActive:    &current.IsActive,
	}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	if p.Unit != nil {
		in.Unit = *p.Unit
	}
	if p.TaxRate != nil {
		in.TaxRate = *p.TaxRate
	}
	if p.IsActive != nil {
		in.IsActive = p.IsActive
	}
	return s.Update(ctx, id, in)
}

// Delete removes an offering no order references.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrOfferingNotFound
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return ErrInUse
		}
		return fmt.Errorf("deleting service: %w", err)
	}
	s.record(ctx, id, activity.TypeEntityDeleted, fmt.Sprintf("deleted service %s", id))
	return nil
}

func apply(o *Offering, in Input) {
	o.Name = strings.TrimSpace(in.Name)
	o.Category = strings.TrimSpace(in.Category)
	o.Description = in.Description
	o.Price = in.Price
	o.Unit = in.Unit
	o.TaxRate = in.TaxRate
	o.IsActive = true
	if in.IsActive != nil {
		o.IsActive = *in.IsActive
	}
}

func (s *Service) record(ctx context.Context, id string, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, &activity.ActivityEntry{
		EntityType: entity.KindService,
		EntityID:   id,
		Type:       typ,
		Summary:    summary,
	}); err != nil {
		s.logger.Warn("failed to record activity", "service_id", id, "error", err)
	}
}
