package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func insertCity(t *testing.T, db *DB, id, name string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO cities (id, name, province, country, created_at, updated_at) VALUES (?, ?, 'P', 'Indonesia', ?, ?)`, id, name, now, now)
	require.NoError(t, err)
}

func applyEvent(t *testing.T, repo *StatisticsRepository, ev stats.Event) stats.ApplyResult {
	t.Helper()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	d, err := stats.DeltaFor(ev)
	require.NoError(t, err)
	res, err := repo.Apply(context.Background(), ev, d)
	require.NoError(t, err)
	return res
}

func TestStatisticsRepository_Lifecycle(t *testing.T) {
	db := NewTestDB(t)
	repo := NewStatisticsRepository(db)
	insertCity(t, db, "CIT25001", "Medan")

	res := applyEvent(t, repo, stats.Event{CityID: "CIT25001", Child: stats.ChildBuilding, Kind: stats.EventCreated, Active: true})
	require.False(t, res.CreatedCity)
	require.Equal(t, stats.Statistics{TotalBuildings: 1, ActiveBuildings: 1}, res.Statistics)

	res = applyEvent(t, repo, stats.Event{CityID: "CIT25001", Child: stats.ChildSpace, Kind: stats.EventCreated, Active: false})
	require.Equal(t, int64(1), res.Statistics.TotalSpaces)
	require.Equal(t, int64(0), res.Statistics.ActiveSpaces)

	res = applyEvent(t, repo, stats.Event{CityID: "CIT25001", Child: stats.ChildSpace, Kind: stats.EventActivated, Active: true})
	require.Equal(t, int64(1), res.Statistics.ActiveSpaces)

	res = applyEvent(t, repo, stats.Event{CityID: "CIT25001", Child: stats.ChildBuilding, Kind: stats.EventDeleted, Active: true})
	require.Equal(t, stats.Statistics{TotalSpaces: 1, ActiveSpaces: 1}, res.Statistics)
	require.False(t, res.Clamped)

	st, err := repo.Get(context.Background(), "CIT25001")
	require.NoError(t, err)
	require.Equal(t, res.Statistics, st)

	events, err := repo.Events(context.Background(), "CIT25001", 10)
	require.NoError(t, err)
	require.Len(t, events, 4)
}

func TestStatisticsRepository_ClampsAtZero(t *testing.T) {
	db := NewTestDB(t)
	repo := NewStatisticsRepository(db)
	insertCity(t, db, "CIT25001", "Medan")

	res := applyEvent(t, repo, stats.Event{CityID: "CIT25001", Child: stats.ChildBuilding, Kind: stats.EventDeleted, Active: true})
	require.True(t, res.Clamped)
	require.Equal(t, stats.Statistics{}, res.Statistics)

	events, err := repo.Events(context.Background(), "CIT25001", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].Clamped)
	require.Equal(t, int64(-1), events[0].Delta.TotalBuildings)
}

func TestStatisticsRepository_ActivationClampedToTotal(t *testing.T) {
	db := NewTestDB(t)
	repo := NewStatisticsRepository(db)
	insertCity(t, db, "CIT25001", "Medan")

	applyEvent(t, repo, stats.Event{CityID: "CIT25001", Child: stats.ChildSpace, Kind: stats.EventCreated, Active: true})
	res := applyEvent(t, repo, stats.Event{CityID: "CIT25001", Child: stats.ChildSpace, Kind: stats.EventActivated, Active: true})
	require.True(t, res.Clamped)
	require.Equal(t, stats.Statistics{TotalSpaces: 1, ActiveSpaces: 1}, res.Statistics)
}

func TestStatisticsRepository_DuplicateEvent(t *testing.T) {
	db := NewTestDB(t)
	repo := NewStatisticsRepository(db)
	insertCity(t, db, "CIT25001", "Medan")

	ev := stats.Event{ID: "evt-1", CityID: "CIT25001", Child: stats.ChildBuilding, Kind: stats.EventCreated, Active: true}
	first := applyEvent(t, repo, ev)
	second := applyEvent(t, repo, ev)

	require.False(t, first.Duplicate)
	require.True(t, second.Duplicate)
	require.Equal(t, first.Statistics, second.Statistics)
	require.Equal(t, int64(1), second.Statistics.TotalBuildings)
}

func TestStatisticsRepository_PlaceholderCity(t *testing.T) {
	db := NewTestDB(t)
	repo := NewStatisticsRepository(db)

	res := applyEvent(t, repo, stats.Event{CityID: "CIT25077", Child: stats.ChildBuilding, Kind: stats.EventCreated, Active: true})
	require.True(t, res.CreatedCity)
	require.Equal(t, int64(1), res.Statistics.TotalBuildings)

	c, err := NewCityRepository(db).Get(context.Background(), "CIT25077")
	require.NoError(t, err)
	require.True(t, c.Placeholder())

	res = applyEvent(t, repo, stats.Event{CityID: "CIT25077", Child: stats.ChildBuilding, Kind: stats.EventCreated})
	require.False(t, res.CreatedCity)
}

func TestStatisticsRepository_GetUnknownCity(t *testing.T) {
	db := NewTestDB(t)
	_, err := NewStatisticsRepository(db).Get(context.Background(), "CIT00000")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStatisticsRepository_ConcurrentEvents(t *testing.T) {
	for name, db := range map[string]*DB{"memory": NewTestDB(t), "file": newFileTestDB(t)} {
		t.Run(name, func(t *testing.T) {
			agg := stats.NewAggregator(NewStatisticsRepository(db), nil, stats.Config{MaxAttempts: 10, Backoff: time.Millisecond}, nil)

			g, ctx := errgroup.WithContext(context.Background())
			for i := 0; i < 30; i++ {
				active := i%3 != 0
				g.Go(func() error {
					_, err := agg.OnChildCreated(ctx, "CIT25001", stats.ChildSpace, active)
					return err
				})
			}
			require.NoError(t, g.Wait())

			st, err := agg.Get(context.Background(), "CIT25001")
			require.NoError(t, err)
			require.Equal(t, int64(30), st.TotalSpaces)
			require.Equal(t, int64(20), st.ActiveSpaces)
			require.True(t, st.Consistent())
		})
	}
}

func TestStatisticsRepository_Recount(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewStatisticsRepository(db)
	insertCity(t, db, "CIT25001", "Medan")

	buildings := NewBuildingRepository(db)
	spaces := NewSpaceRepository(db)
	require.NoError(t, buildings.Create(ctx, newBuilding("BLD25001", "CIT25001", "A")))
	inactive := newBuilding("BLD25002", "CIT25001", "B")
	inactive.IsActive = false
	require.NoError(t, buildings.Create(ctx, inactive))
	require.NoError(t, spaces.Create(ctx, newSpace("SPC25001", "BLD25001", "CIT25001", "Room 1")))

	got, err := repo.Recount(ctx, "CIT25001")
	require.NoError(t, err)
	require.Equal(t, stats.Statistics{TotalBuildings: 2, ActiveBuildings: 1, TotalSpaces: 1, ActiveSpaces: 1}, got)

	stored, err := repo.Get(ctx, "CIT25001")
	require.NoError(t, err)
	require.Equal(t, stats.Statistics{}, stored)

	ids, err := repo.CityIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"CIT25001"}, ids)
}
