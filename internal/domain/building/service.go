package building

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/repository"
)

const (
	saveAttempts = 5
	saveBackoff  = 5 * time.Millisecond
)

// Service handles building operations.
type Service struct {
	repo       Repository
	cities     CityResolver
	aggregator StatisticsAggregator
	ids        IDAllocator
	validator  Validator
	activities ActivityLogger
	logger     *slog.Logger
}

// NewService creates a new building service. activities and logger may be nil.
func NewService(
	repo Repository,
	cities CityResolver,
	aggregator StatisticsAggregator,
	ids IDAllocator,
	validator Validator,
	activities ActivityLogger,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		cities:     cities,
		aggregator: aggregator,
		ids:        ids,
		validator:  validator,
		activities: activities,
		logger:     logger,
	}
}

// Create validates, resolves the city, allocates a BLD id, stores the building and
// counts it on its city. When only the statistics step fails the stored building is
// returned together with an error matching stats.ErrOutOfSync.
func (s *Service) Create(ctx context.Context, in Input) (*Building, error) {
	if err := s.validator.Check(entity.KindBuilding, &in); err != nil {
		return nil, err
	}

	cityID, err := s.resolveCity(ctx, in)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.AllocateNow(ctx, entity.KindBuilding)
	if err != nil {
		return nil, fmt.Errorf("allocating building id: %w", err)
	}

	now := time.Now()
	b := &Building{ID: id, CityID: cityID, CreatedAt: now}
	apply(b, in)
	b.UpdatedAt = now

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating building: %w", err)
	}
	s.record(ctx, b.ID, activity.TypeEntityCreated, fmt.Sprintf("created building %s (%s) in city %s", b.ID, b.Name, b.CityID))

	if _, err := s.aggregator.OnChildCreated(ctx, b.CityID, stats.ChildBuilding, b.IsActive); err != nil {
		return b, s.outOfSync(ctx, b.ID, err)
	}
	return b, nil
}

// Get fetches a building by ID.
func (s *Service) Get(ctx context.Context, id string) (*Building, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, fmt.Errorf("getting building: %w", err)
	}
	return b, nil
}

// List returns one page of buildings and the total match count.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Building, int, error) {
	opts.Page = opts.Page.Normalize()
	return s.repo.List(ctx, opts)
}

// Update replaces a building. A change of city is counted as a delete on the old city
// and a create on the new one; buildings with spaces cannot change city.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Building, error) {
	return s.save(ctx, id, func(*Building) Input { return in })
}

// Patch merges the set fields of p into the building and saves it.
func (s *Service) Patch(ctx context.Context, id string, p Patch) (*Building, error) {
	return s.save(ctx, id, p.onto)
}

// SetActive toggles the active flag.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*Building, error) {
	return s.Patch(ctx, id, Patch{IsActive: &active})
}

// save writes the input built from the stored building. When another writer changes
// the city or active flag in between, the building is read again and the input
// rebuilt, so statistics events always describe a transition that was committed.
func (s *Service) save(ctx context.Context, id string, build func(current *Building) Input) (*Building, error) {
	var before, after *Building
	err := repository.Retry(ctx, saveAttempts, saveBackoff, func() error {
		var err error
		before, after, err = s.write(ctx, id, build)
		return err
	}, func(attempt int) {
		s.logger.Debug("building changed while saving, reading again", "building_id", id, "attempt", attempt)
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, id, activity.TypeEntityUpdated, fmt.Sprintf("updated building %s", id))

	if err := s.emitChange(ctx, before, after); err != nil {
		return after, s.outOfSync(ctx, id, err)
	}
	return after, nil
}

func (s *Service) write(ctx context.Context, id string, build func(current *Building) Input) (*Building, *Building, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	in := build(current)
	if err := s.validator.Check(entity.KindBuilding, &in); err != nil {
		return nil, nil, err
	}

	cityID := current.CityID
	if (in.CityID != "" && in.CityID != current.CityID) ||
		(in.CityID == "" && !strings.EqualFold(strings.TrimSpace(in.Location.City), current.Location.City)) {
		cityID, err = s.resolveCity(ctx, in)
		if err != nil {
			return nil, nil, err
		}
	}

	if cityID != current.CityID {
		n, err := s.repo.CountSpaces(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("counting spaces: %w", err)
		}
		if n > 0 {
			return nil, nil, ErrHasSpaces
		}
	}

	updated := *current
	apply(&updated, in)
	updated.CityID = cityID
	updated.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, &updated, current); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, nil, ErrDuplicateName
		case errors.Is(err, repository.ErrNotFound):
			return nil, nil, ErrBuildingNotFound
		}
		return nil, nil, fmt.Errorf("updating building: %w", err)
	}
	return current, &updated, nil
}

// onto builds the full input for current with the set fields of p applied.
func (p Patch) onto(current *Building) Input {
	in := Input{
		CityID:      current.CityID,
		Name:        current.Name,
		Brand:       string(current.Brand),
		Location:    current.Location,
		Description: current.Description,
		IsActive:    &current.IsActive,
	}
	if p.CityID != nil {
		in.CityID = *p.CityID
	}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Brand != nil {
		in.Brand = *p.Brand
	}
	if p.Location != nil {
		in.Location = *p.Location
		if p.CityID == nil && !strings.EqualFold(strings.TrimSpace(p.Location.City), current.Location.City) {
			in.CityID = ""
		}
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.IsActive != nil {
		in.IsActive = p.IsActive
	}
	return in
}

// Delete removes a building without spaces and uncounts it from its city, using the
// row as it was when removed. The city itself is kept even when its count drops to zero.
func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.repo.CountSpaces(ctx, id)
	if err != nil {
		return fmt.Errorf("counting spaces: %w", err)
	}
	if n > 0 {
		return ErrHasSpaces
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrBuildingNotFound
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return ErrHasSpaces
		}
		return fmt.Errorf("deleting building: %w", err)
	}
	s.record(ctx, id, activity.TypeEntityDeleted, fmt.Sprintf("deleted building %s", id))

	if _, err := s.aggregator.OnChildDeleted(ctx, removed.CityID, stats.ChildBuilding, removed.IsActive); err != nil {
		return s.outOfSync(ctx, id, err)
	}
	return nil
}

func (s *Service) resolveCity(ctx context.Context, in Input) (string, error) {
	if in.CityID != "" {
		c, err := s.cities.Get(ctx, in.CityID)
		if err != nil {
			return "", err
		}
		return c.ID, nil
	}
	c, created, err := s.cities.Resolve(ctx, in.Location.City, in.Location.Province)
	if err != nil {
		return "", fmt.Errorf("resolving city %q: %w", in.Location.City, err)
	}
	if created {
		s.logger.Info("city created from building location", "city_id", c.ID, "name", c.Name)
	}
	return c.ID, nil
}

func (s *Service) emitChange(ctx context.Context, before, after *Building) error {
	if before.CityID != after.CityID {
		if _, err := s.aggregator.OnChildDeleted(ctx, before.CityID, stats.ChildBuilding, before.IsActive); err != nil {
			return err
		}
		_, err := s.aggregator.OnChildCreated(ctx, after.CityID, stats.ChildBuilding, after.IsActive)
		return err
	}
	if before.IsActive != after.IsActive {
		s.record(ctx, after.ID, activity.TypeActiveChanged, fmt.Sprintf("building %s active=%t", after.ID, after.IsActive))
		_, err := s.aggregator.OnChildActiveChanged(ctx, after.CityID, stats.ChildBuilding, after.IsActive)
		return err
	}
	return nil
}

func (s *Service) outOfSync(ctx context.Context, id string, cause error) error {
	s.logger.Error("building saved but statistics update failed", "building_id", id, "error", cause)
	s.record(ctx, id, activity.TypeStatisticsFailed, fmt.Sprintf("statistics not updated for building %s: %v", id, cause))
	return fmt.Errorf("%w: %w", stats.ErrOutOfSync, cause)
}

func apply(b *Building, in Input) {
	b.Name = strings.TrimSpace(in.Name)
	b.Brand = entity.Brand(in.Brand)
	b.Location = in.Location
	b.Location.City = strings.TrimSpace(in.Location.City)
	b.Description = in.Description
	b.IsActive = true
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
}

func (s *Service) record(ctx context.Context, id string, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, &activity.ActivityEntry{
		EntityType: entity.KindBuilding,
		EntityID:   id,
		Type:       typ,
		Summary:    summary,
	}); err != nil {
		s.logger.Warn("failed to record activity", "building_id", id, "error", err)
	}
}
