package city

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

// Service handles city operations.
type Service struct {
	repo       Repository
	ids        IDAllocator
	validator  Validator
	activities ActivityLogger
	logger     *slog.Logger
}

// NewService creates a new city service. activities and logger may be nil.
func NewService(repo Repository, ids IDAllocator, validator Validator, activities ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, ids: ids, validator: validator, activities: activities, logger: logger}
}

// Create validates and stores a new city with a fresh CIT id.
func (s *Service) Create(ctx context.Context, in Input) (*City, error) {
	if err := s.validator.Check(entity.KindCity, &in); err != nil {
		return nil, err
	}

	id, err := s.ids.AllocateNow(ctx, entity.KindCity)
	if err != nil {
		return nil, fmt.Errorf("allocating city id: %w", err)
	}

	now := time.Now()
	c := &City{
		ID:        id,
		CreatedAt: now,
	}
	apply(c, in)
	c.UpdatedAt = now

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating city: %w", err)
	}

	s.record(ctx, c.ID, activity.TypeEntityCreated, fmt.Sprintf("created city %s (%s)", c.ID, c.Name))
	return c, nil
}

// Resolve returns the city named name, creating it when missing. Concurrent resolutions of
// the same name converge on one city: the losing insert re-reads the winner.
func (s *Service) Resolve(ctx context.Context, name, province string) (*City, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fmt.Errorf("%w: city name is required", ErrInvalidInput)
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("finding city: %w", err)
	}

	created, err := s.Create(ctx, Input{Name: name, Province: province})
	if err == nil {
		s.logger.Info("auto-created city", "city_id", created.ID, "name", name)
		return created, true, nil
	}
	if !errors.Is(err, ErrDuplicateName) {
		return nil, false, err
	}

	winner, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("re-reading city after concurrent create: %w", err)
	}
	return winner, false, nil
}

// Get fetches a city by ID.
func (s *Service) Get(ctx context.Context, id string) (*City, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCityNotFound
		}
		return nil, fmt.Errorf("getting city: %w", err)
	}
	return c, nil
}

// List returns one page of cities and the total match count.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]City, int, error) {
	opts.Page = opts.Page.Normalize()
	return s.repo.List(ctx, opts)
}

// Update replaces the editable fields of a city. Statistics are not editable.
func (s *Service) Update(ctx context.Context, id string, in Input) (*City, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Check(entity.KindCity, &in); err != nil {
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
			return nil, ErrCityNotFound
		}
		return nil, fmt.Errorf("updating city: %w", err)
	}

	s.record(ctx, id, activity.TypeEntityUpdated, fmt.Sprintf("updated city %s", id))
	return &updated, nil
}

// Patch merges the set fields of p into the city and saves it through Update.
func (s *Service) Patch(ctx context.Context, id string, p Patch) (*City, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in := Input{
		Name:      current.Name,
		Province:  current.Province,
		Country:   current.Country,
		Latitude:  current.Latitude,
		Longitude: current.Longitude,
		IsActive:  &current.IsActive,
	}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Province != nil {
		in.Province = *p.Province
	}
	if p.Country != nil {
		in.Country = *p.Country
	}
	if p.Latitude != nil {
		in.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		in.Longitude = p.Longitude
	}
	if p.IsActive != nil {
		in.IsActive = p.IsActive
	}
	return s.Update(ctx, id, in)
}

// Delete removes a city that no building references.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.repo.CountBuildings(ctx, id)
	if err != nil {
		return fmt.Errorf("counting buildings: %w", err)
	}
	if n > 0 || current.Statistics.TotalBuildings > 0 {
		return ErrHasBuildings
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrCityNotFound
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return ErrHasBuildings
		}
		return fmt.Errorf("deleting city: %w", err)
	}

	s.record(ctx, id, activity.TypeEntityDeleted, fmt.Sprintf("deleted city %s", id))
	return nil
}

func apply(c *City, in Input) {
	c.Name = strings.TrimSpace(in.Name)
	c.Province = strings.TrimSpace(in.Province)
	c.Country = strings.TrimSpace(in.Country)
	if c.Country == "" {
		c.Country = DefaultCountry
	}
	c.Latitude = in.Latitude
	c.Longitude = in.Longitude
	c.IsActive = true
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

func (s *Service) record(ctx context.Context, id string, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, &activity.ActivityEntry{
		EntityType: entity.KindCity,
		EntityID:   id,
		Type:       typ,
		Summary:    summary,
	}); err != nil {
		s.logger.Warn("failed to record activity", "city_id", id, "error", err)
	}
}
