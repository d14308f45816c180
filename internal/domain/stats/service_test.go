package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/repository"
	"github.com/rpggio/spacedesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAggregator_OnChildCreated(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StatisticsRepository{}
	want := stats.Statistics{TotalBuildings: 1, ActiveBuildings: 1}
	repo.On("Apply", ctx, mock.MatchedBy(func(ev stats.Event) bool {
		return ev.ID != "" && ev.CityID == "CIT25001" && ev.Child == stats.ChildBuilding && ev.Kind == stats.EventCreated
	}), stats.Delta{TotalBuildings: 1, ActiveBuildings: 1}).Return(stats.ApplyResult{Statistics: want}, nil)

	agg := stats.NewAggregator(repo, nil, stats.Config{}, nil)
	got, err := agg.OnChildCreated(ctx, "CIT25001", stats.ChildBuilding, true)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestAggregator_OnChildActiveChanged(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StatisticsRepository{}
	repo.On("Apply", ctx, mock.MatchedBy(func(ev stats.Event) bool { return ev.Kind == stats.EventDeactivated }),
		stats.Delta{ActiveSpaces: -1}).Return(stats.ApplyResult{Statistics: stats.Statistics{TotalSpaces: 1}}, nil)

	agg := stats.NewAggregator(repo, nil, stats.Config{}, nil)
	got, err := agg.OnChildActiveChanged(ctx, "CIT25001", stats.ChildSpace, false)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.ActiveSpaces)
}

func TestAggregator_RetryReusesEventID(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StatisticsRepository{}

	var seen []string
	record := func(args mock.Arguments) { seen = append(seen, args.Get(1).(stats.Event).ID) }
	repo.On("Apply", ctx, mock.Anything, mock.Anything).Return(stats.ApplyResult{}, repository.ErrRetryable).Twice().Run(record)
	repo.On("Apply", ctx, mock.Anything, mock.Anything).Return(stats.ApplyResult{Statistics: stats.Statistics{TotalSpaces: 1}}, nil).Once().Run(record)

	agg := stats.NewAggregator(repo, nil, stats.Config{MaxAttempts: 5, Backoff: time.Millisecond}, nil)
	_, err := agg.OnChildCreated(ctx, "CIT25001", stats.ChildSpace, false)
	require.NoError(t, err)
	require.Len(t, seen, 3)
	require.NotEmpty(t, seen[0])
	require.Equal(t, seen[0], seen[1])
	require.Equal(t, seen[0], seen[2])
}

func TestAggregator_ContentionExhausted(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StatisticsRepository{}
	repo.On("Apply", ctx, mock.Anything, mock.Anything).Return(stats.ApplyResult{}, repository.ErrRetryable)

	agg := stats.NewAggregator(repo, nil, stats.Config{MaxAttempts: 2}, nil)
	_, err := agg.OnChildDeleted(ctx, "CIT25001", stats.ChildBuilding, true)
	require.ErrorIs(t, err, stats.ErrRetryableConflict)
	repo.AssertNumberOfCalls(t, "Apply", 2)
}

func TestAggregator_ClampIsWarningNotError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StatisticsRepository{}
	activities := &mocks.ActivityRepository{}

	repo.On("Apply", ctx, mock.Anything, stats.Delta{TotalBuildings: -1}).
		Return(stats.ApplyResult{Statistics: stats.Statistics{}, Clamped: true}, nil)
	activities.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.Type == activity.TypeStatisticsClamped && e.EntityID == "CIT25001" && e.Details != ""
	})).Return(nil)

	agg := stats.NewAggregator(repo, activity.NewService(activities, nil), stats.Config{}, nil)
	got, err := agg.OnChildDeleted(ctx, "CIT25001", stats.ChildBuilding, false)
	require.NoError(t, err)
	require.Equal(t, stats.Statistics{}, got)
	activities.AssertExpectations(t)
}

func TestAggregator_PlaceholderCityRecorded(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StatisticsRepository{}
	activities := &mocks.ActivityRepository{}

	repo.On("Apply", ctx, mock.Anything, mock.Anything).
		Return(stats.ApplyResult{Statistics: stats.Statistics{TotalSpaces: 1}, CreatedCity: true}, nil)
	activities.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.Type == activity.TypeCityAutoCreated && e.EntityID == "CIT99001"
	})).Return(nil)

	agg := stats.NewAggregator(repo, activity.NewService(activities, nil), stats.Config{}, nil)
	_, err := agg.OnChildCreated(ctx, "CIT99001", stats.ChildSpace, false)
	require.NoError(t, err)
	activities.AssertExpectations(t)
}

func TestAggregator_DuplicateSkipsSideEffects(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StatisticsRepository{}
	activities := &mocks.ActivityRepository{}

	repo.On("Apply", ctx, mock.MatchedBy(func(ev stats.Event) bool { return ev.ID == "evt-1" }), mock.Anything).
		Return(stats.ApplyResult{Duplicate: true, Clamped: true, CreatedCity: true}, nil)

	agg := stats.NewAggregator(repo, activity.NewService(activities, nil), stats.Config{}, nil)
	_, err := agg.Apply(ctx, stats.Event{ID: "evt-1", CityID: "CIT25001", Child: stats.ChildSpace, Kind: stats.EventCreated})
	require.NoError(t, err)
	activities.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}

func TestAggregator_InvalidInput(t *testing.T) {
	agg := stats.NewAggregator(&mocks.StatisticsRepository{}, nil, stats.Config{}, nil)

	_, err := agg.OnChildCreated(context.Background(), " ", stats.ChildBuilding, true)
	require.ErrorIs(t, err, stats.ErrInvalidInput)

	_, err = agg.OnChildCreated(context.Background(), "CIT25001", "floor", true)
	require.ErrorIs(t, err, stats.ErrInvalidInput)
}

func TestAggregator_Get(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StatisticsRepository{}
	repo.On("Get", ctx, "CIT25001").Return(stats.Statistics{TotalBuildings: 3}, nil)
	repo.On("Get", ctx, "CIT25009").Return(stats.Statistics{}, repository.ErrNotFound)
	repo.On("Get", ctx, "CIT25010").Return(stats.Statistics{}, errors.New("io"))

	agg := stats.NewAggregator(repo, nil, stats.Config{}, nil)
	st, err := agg.Get(ctx, "CIT25001")
	require.NoError(t, err)
	require.Equal(t, int64(3), st.TotalBuildings)

	_, err = agg.Get(ctx, "CIT25009")
	require.ErrorIs(t, err, stats.ErrCityNotFound)

	_, err = agg.Get(ctx, "CIT25010")
	require.Error(t, err)
	require.NotErrorIs(t, err, stats.ErrCityNotFound)
}
