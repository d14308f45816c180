package app

import (
	"context"

	"github.com/rpggio/spacedesk/internal/domain/stats"
	"golang.org/x/sync/errgroup"
)

// Mismatch is a city whose stored counters differ from a recount of its children.
type Mismatch struct {
	CityID  string           `json:"cityId"`
	Stored  stats.Statistics `json:"stored"`
	Recount stats.Statistics `json:"recount"`
}

// VerifyStatistics recounts every city with up to workers concurrent queries and
// returns the cities whose counters disagree, ordered by city id.
func (a *App) VerifyStatistics(ctx context.Context, workers int) ([]Mismatch, error) {
	if workers <= 0 {
		workers = 4
	}
	ids, err := a.StatsRepo.CityIDs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*Mismatch, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			stored, err := a.StatsRepo.Get(ctx, id)
			if err != nil {
				return err
			}
			recount, err := a.StatsRepo.Recount(ctx, id)
			if err != nil {
				return err
			}
			if stored != recount {
				results[i] = &Mismatch{CityID: id, Stored: stored, Recount: recount}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mismatches := []Mismatch{}
	for _, m := range results {
		if m != nil {
			mismatches = append(mismatches, *m)
		}
	}
	return mismatches, nil
}
