package space

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/repository"
)

const (
	saveAttempts = 5
	saveBackoff  = 5 * time.Millisecond
)

// Service handles space operations.
type Service struct {
	repo       Repository
	buildings  BuildingReader
	aggregator StatisticsAggregator
	ids        IDAllocator
	validator  Validator
	activities ActivityLogger
	logger     *slog.Logger
}

// NewService creates a new space service. activities and logger may be nil.
func NewService(
	repo Repository,
	buildings BuildingReader,
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
		buildings:  buildings,
		aggregator: aggregator,
		ids:        ids,
		validator:  validator,
		activities: activities,
		logger:     logger,
	}
}

// Create validates, checks the building, allocates an SPC id, stores the space and
// counts it on the building's city.
func (s *Service) Create(ctx context.Context, in Input) (*Space, error) {
	if err := s.validator.Check(entity.KindSpace, &in); err != nil {
		return nil, err
	}

	b, err := s.buildings.Get(ctx, in.BuildingID)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.AllocateNow(ctx, entity.KindSpace)
	if err != nil {
		return nil, fmt.Errorf("allocating space id: %w", err)
	}

	now := time.Now()
	sp := &Space{ID: id, CreatedAt: now}
	apply(sp, in, b)
	sp.UpdatedAt = now

	if err := s.repo.Create(ctx, sp); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrDuplicateName
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, building.ErrBuildingNotFound
		}
		return nil, fmt.Errorf("creating space: %w", err)
	}
	s.record(ctx, sp.ID, activity.TypeEntityCreated, fmt.Sprintf("created space %s (%s) in building %s", sp.ID, sp.Name, sp.BuildingID))

	if _, err := s.aggregator.OnChildCreated(ctx, sp.CityID, stats.ChildSpace, sp.IsActive); err != nil {
		return sp, s.outOfSync(ctx, sp.ID, err)
	}
	return sp, nil
}

// Get fetches a space by ID.
func (s *Service) Get(ctx context.Context, id string) (*Space, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, fmt.Errorf("getting space: %w", err)
	}
	return sp, nil
}

// List returns one page of spaces and the total match count.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Space, int, error) {
	opts.Page = opts.Page.Normalize()
	return s.repo.List(ctx, opts)
}

// Update replaces a space. Moving it to a building in another city moves its count.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Space, error) {
	return s.save(ctx, id, func(*Space) Input { return in })
}

// Patch merges the set fields of p into the space and saves it.
func (s *Service) Patch(ctx context.Context, id string, p Patch) (*Space, error) {
	return s.save(ctx, id, p.onto)
}

// SetActive toggles the active flag.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*Space, error) {
	return s.Patch(ctx, id, Patch{IsActive: &active})
}

// save writes the input built from the stored space, reading it again whenever
// another writer changed its city or active flag first.
func (s *Service) save(ctx context.Context, id string, build func(current *Space) Input) (*Space, error) {
	var before, after *Space
	err := repository.Retry(ctx, saveAttempts, saveBackoff, func() error {
		var err error
		before, after, err = s.write(ctx, id, build)
		return err
	}, func(attempt int) {
		s.logger.Debug("space changed while saving, reading again", "space_id", id, "attempt", attempt)
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, id, activity.TypeEntityUpdated, fmt.Sprintf("updated space %s", id))

	if err := s.emitChange(ctx, before, after); err != nil {
		return after, s.outOfSync(ctx, id, err)
	}
	return after, nil
}

func (s *Service) write(ctx context.Context, id string, build func(current *Space) Input) (*Space, *Space, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	in := build(current)
	if err := s.validator.Check(entity.KindSpace, &in); err != nil {
		return nil, nil, err
	}

	b, err := s.buildings.Get(ctx, in.BuildingID)
	if err != nil {
		return nil, nil, err
	}

	updated := *current
	apply(&updated, in, b)
	updated.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, &updated, current); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, nil, ErrDuplicateName
		case errors.Is(err, repository.ErrNotFound):
			return nil, nil, ErrSpaceNotFound
		}
		return nil, nil, fmt.Errorf("updating space: %w", err)
	}
	return current, &updated, nil
}

// onto builds the full input for current with the set fields of p applied.
func (p Patch) onto(current *Space) Input {
	in := Input{
		BuildingID:   current.BuildingID,
		Name:         current.Name,
		Brand:        string(current.Brand),
		Type:         current.Type,
		Capacity:     current.Capacity,
		PricePerHour: current.PricePerHour,
		Description:  current.Description,
		IsActive:     &current.IsActive,
	}
	if p.BuildingID != nil {
		in.BuildingID = *p.BuildingID
	}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Brand != nil {
		in.Brand = *p.Brand
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Capacity != nil {
		in.Capacity = *p.Capacity
	}
	if p.PricePerHour != nil {
		in.PricePerHour = *p.PricePerHour
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.IsActive != nil {
		in.IsActive = p.IsActive
	}
	return in
}

// Delete removes a space and uncounts it from its city as it was when removed.
func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrSpaceNotFound
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return ErrHasOrders
		}
		return fmt.Errorf("deleting space: %w", err)
	}
	s.record(ctx, id, activity.TypeEntityDeleted, fmt.Sprintf("deleted space %s", id))

	if _, err := s.aggregator.OnChildDeleted(ctx, removed.CityID, stats.ChildSpace, removed.IsActive); err != nil {
		return s.outOfSync(ctx, id, err)
	}
	return nil
}

func (s *Service) emitChange(ctx context.Context, before, after *Space) error {
	if before.CityID != after.CityID {
		if _, err := s.aggregator.OnChildDeleted(ctx, before.CityID, stats.ChildSpace, before.IsActive); err != nil {
			return err
		}
		_, err := s.aggregator.OnChildCreated(ctx, after.CityID, stats.ChildSpace, after.IsActive)
		return err
	}
	if before.IsActive != after.IsActive {
		s.record(ctx, after.ID, activity.TypeActiveChanged, fmt.Sprintf("space %s active=%t", after.ID, after.IsActive))
		_, err := s.aggregator.OnChildActiveChanged(ctx, after.CityID, stats.ChildSpace, after.IsActive)
		return err
	}
	return nil
}

func (s *Service) outOfSync(ctx context.Context, id string, cause error) error {
	s.logger.Error("space saved but statistics update failed", "space_id", id, "error", cause)
	s.record(ctx, id, activity.TypeStatisticsFailed, fmt.Sprintf("statistics not updated for space %s: %v", id, cause))
	return fmt.Errorf("%w: %w", stats.ErrOutOfSync, cause)
}

func apply(sp *Space, in Input, b *building.Building) {
	sp.BuildingID = b.ID
	sp.CityID = b.CityID
	sp.Name = strings.TrimSpace(in.Name)
	sp.Brand = entity.Brand(in.Brand)
	if sp.Brand == "" {
		sp.Brand = b.Brand
	}
	sp.Type = in.Type
	if sp.Type == "" {
		sp.Type = TypePrivateOffice
	}
	sp.Capacity = in.Capacity
	sp.PricePerHour = in.PricePerHour
	sp.Description = in.Description
	sp.IsActive = true
	if in.IsActive != nil {
		sp.IsActive = *in.IsActive
	}
}

func (s *Service) record(ctx context.Context, id string, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, &activity.ActivityEntry{
		EntityType: entity.KindSpace,
		EntityID:   id,
		Type:       typ,
		Summary:    summary,
	}); err != nil {
		s.logger.Warn("failed to record activity", "space_id", id, "error", err)
	}
}
