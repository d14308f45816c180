package sqlite

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/sequence"
	"github.com/rpggio/spacedesk/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSequenceRepository_NextStartsAtOne(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSequenceRepository(db)

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, entity.KindSpace, 2025)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	c, err := repo.Get(ctx, entity.KindSpace, 2025)
	require.NoError(t, err)
	require.Equal(t, int64(3), c.LastSequence)
	require.False(t, c.UpdatedAt.IsZero())

	_, err = repo.Get(ctx, entity.KindSpace, 2026)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSequenceRepository_YearBoundary(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	svc := sequence.NewService(NewSequenceRepository(db), sequence.Config{}, nil)

	id, err := svc.Allocate(ctx, entity.KindSpace, 2025)
	require.NoError(t, err)
	require.Equal(t, "SPC25001", id)

	id, err = svc.Allocate(ctx, entity.KindSpace, 2026)
	require.NoError(t, err)
	require.Equal(t, "SPC26001", id)

	id, err = svc.Allocate(ctx, entity.KindSpace, 2025)
	require.NoError(t, err)
	require.Equal(t, "SPC25002", id)

	counters, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, counters, 2)
	require.Equal(t, 2026, counters[0].Scope)
}

func TestSequenceRepository_ScopesIndependentPerEntity(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSequenceRepository(db)

	_, err := repo.Next(ctx, entity.KindSpace, 2025)
	require.NoError(t, err)
	got, err := repo.Next(ctx, entity.KindBuilding, 2025)
	require.NoError(t, err)
	require.Equal(t, int64(1), got)
}

func TestSequenceRepository_ConcurrentAllocation(t *testing.T) {
	const n = 40
	for name, db := range map[string]*DB{"memory": NewTestDB(t), "file": newFileTestDB(t)} {
		t.Run(name, func(t *testing.T) {
			svc := sequence.NewService(NewSequenceRepository(db), sequence.Config{MaxAttempts: 10}, nil)

			var mu sync.Mutex
			var ids []string
			g, ctx := errgroup.WithContext(context.Background())
			for i := 0; i < n; i++ {
				g.Go(func() error {
					id, err := svc.Allocate(ctx, entity.KindSpace, 2025)
					if err != nil {
						return err
					}
					mu.Lock()
					ids = append(ids, id)
					mu.Unlock()
					return nil
				})
			}
			require.NoError(t, g.Wait())

			seqs := make([]int, 0, n)
			for _, id := range ids {
				_, _, seq, err := sequence.Parse(id)
				require.NoError(t, err)
				seqs = append(seqs, int(seq))
			}
			sort.Ints(seqs)
			for i, seq := range seqs {
				require.Equal(t, i+1, seq, "sequences must be exactly 1..%d", n)
			}
		})
	}
}

func TestSequenceRepository_CancelledContext(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSequenceRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Next(ctx, entity.KindOrder, 2025)
	require.Error(t, err)

	_, err = repo.Get(context.Background(), entity.KindOrder, 2025)
	require.ErrorIs(t, err, repository.ErrNotFound, "a cancelled allocation must not create or bump the counter")
}
