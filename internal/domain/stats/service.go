package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/metrics"
	"github.com/rpggio/spacedesk/internal/repository"
)

// Config bounds the contention retry loop.
type Config struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Aggregator keeps city counters in step with building and space lifecycle events.
// Every event becomes one atomic increment on the city row; counters are never
// recomputed from a scan of the children.
type Aggregator struct {
	repo       Repository
	activities ActivityLogger
	cfg        Config
	logger     *slog.Logger
	newID      func() string
}

// NewAggregator creates a new aggregator. activities may be nil.
func NewAggregator(repo Repository, activities ActivityLogger, cfg Config, logger *slog.Logger) *Aggregator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{
		repo:       repo,
		activities: activities,
		cfg:        cfg,
		logger:     logger,
		newID:      uuid.NewString,
	}
}

// OnChildCreated counts a new child, and its active flag when set.
func (a *Aggregator) OnChildCreated(ctx context.Context, cityID string, child ChildType, isActive bool) (Statistics, error) {
	return a.Apply(ctx, Event{CityID: cityID, Child: child, Kind: EventCreated, Active: isActive})
}

// OnChildActiveChanged moves the active counter by one in the direction of isActive.
func (a *Aggregator) OnChildActiveChanged(ctx context.Context, cityID string, child ChildType, isActive bool) (Statistics, error) {
	kind := EventDeactivated
	if isActive {
		kind = EventActivated
	}
	return a.Apply(ctx, Event{CityID: cityID, Child: child, Kind: kind, Active: isActive})
}

// OnChildDeleted uncounts a child; wasActive also uncounts it from the active counter.
func (a *Aggregator) OnChildDeleted(ctx context.Context, cityID string, child ChildType, wasActive bool) (Statistics, error) {
	return a.Apply(ctx, Event{CityID: cityID, Child: child, Kind: EventDeleted, Active: wasActive})
}

// Apply applies ev exactly once. An empty ev.ID gets a fresh one, which is reused
// across contention retries so a retried write cannot double count.
func (a *Aggregator) Apply(ctx context.Context, ev Event) (Statistics, error) {
	if strings.TrimSpace(ev.CityID) == "" {
		return Statistics{}, fmt.Errorf("%w: city id is required", ErrInvalidInput)
	}
	delta, err := DeltaFor(ev)
	if err != nil {
		return Statistics{}, err
	}
	if ev.ID == "" {
		ev.ID = a.newID()
	}

	var res ApplyResult
	err = repository.Retry(ctx, a.cfg.MaxAttempts, a.cfg.Backoff, func() error {
		var err error
		res, err = a.repo.Apply(ctx, ev, delta)
		return err
	}, func(int) {
		metrics.StatisticsConflicts.WithLabelValues(string(ev.Child)).Inc()
	})
	switch {
	case err == nil:
		a.afterApply(ctx, ev, delta, res)
		return res.Statistics, nil
	case errors.Is(err, repository.ErrRetryable):
		return Statistics{}, fmt.Errorf("applying %s %s to city %s: %w (%v)", ev.Child, ev.Kind, ev.CityID, ErrRetryableConflict, err)
	default:
		return Statistics{}, fmt.Errorf("applying %s %s to city %s: %w", ev.Child, ev.Kind, ev.CityID, err)
	}
}

// Get returns the current counters of a city.
func (a *Aggregator) Get(ctx context.Context, cityID string) (Statistics, error) {
	st, err := a.repo.Get(ctx, cityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Statistics{}, ErrCityNotFound
		}
		return Statistics{}, fmt.Errorf("reading statistics: %w", err)
	}
	return st, nil
}

// Events returns the most recent applied events of a city.
func (a *Aggregator) Events(ctx context.Context, cityID string, limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return a.repo.Events(ctx, cityID, limit)
}

func (a *Aggregator) afterApply(ctx context.Context, ev Event, d Delta, res ApplyResult) {
	if res.Duplicate {
		a.logger.Debug("statistics event already applied", "event_id", ev.ID, "city_id", ev.CityID)
		return
	}
	metrics.StatisticsEvents.WithLabelValues(string(ev.Child), string(ev.Kind)).Inc()

	if res.CreatedCity {
		a.logger.Info("created placeholder city", "city_id", ev.CityID, "child", ev.Child)
		a.record(ctx, &activity.ActivityEntry{
			EntityType: entity.KindCity,
			EntityID:   ev.CityID,
			Type:       activity.TypeCityAutoCreated,
			Summary:    fmt.Sprintf("created placeholder city %s for %s event", ev.CityID, ev.Child),
		})
	}

	if res.Clamped {
		metrics.StatisticsClamped.WithLabelValues(string(ev.Child)).Inc()
		a.logger.Warn("statistics clamped",
			"city_id", ev.CityID,
			"child", ev.Child,
			"event", ev.Kind,
			"event_id", ev.ID,
			"statistics", res.Statistics,
		)
		details, _ := json.Marshal(map[string]any{"event": ev, "delta": d, "statistics": res.Statistics})
		a.record(ctx, &activity.ActivityEntry{
			EntityType: entity.KindCity,
			EntityID:   ev.CityID,
			Type:       activity.TypeStatisticsClamped,
			Summary:    fmt.Sprintf("%s %s would have left city %s counters out of range", ev.Child, ev.Kind, ev.CityID),
			Details:    string(details),
		})
	}
}

func (a *Aggregator) record(ctx context.Context, entry *activity.ActivityEntry) {
	if a.activities == nil {
		return
	}
	if err := a.activities.LogActivity(ctx, entry); err != nil {
		a.logger.Warn("failed to record activity", "type", entry.Type, "error", err)
	}
}
