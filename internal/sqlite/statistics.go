package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/repository"
)

// StatisticsRepository applies statistics events to the city rows.
type StatisticsRepository struct {
	db *DB
}

// NewStatisticsRepository creates a new StatisticsRepository
func NewStatisticsRepository(db *DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// Apply records ev in the ledger and adds d to the city counters in one transaction.
// Unknown cities get a zeroed placeholder row first. A replayed event id changes nothing.
func (r *StatisticsRepository) Apply(ctx context.Context, ev stats.Event, d stats.Delta) (stats.ApplyResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return stats.ApplyResult{}, translate("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var res stats.ApplyResult
	now := time.Now().UTC()

	var seen int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM city_stat_events WHERE event_id = ?`, ev.ID).Scan(&seen)
	if err != nil {
		return stats.ApplyResult{}, translate("failed to check statistics ledger", err)
	}
	if seen > 0 {
		st, err := readStatistics(ctx, tx, ev.CityID)
		if err != nil {
			return stats.ApplyResult{}, err
		}
		return stats.ApplyResult{Statistics: st, Duplicate: true}, nil
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO cities (id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, ev.CityID, now, now)
	if err != nil {
		return stats.ApplyResult{}, translate("failed to ensure city", err)
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		res.CreatedCity = true
	}

	current, err := readStatistics(ctx, tx, ev.CityID)
	if err != nil {
		return stats.ApplyResult{}, err
	}
	_, res.Clamped = current.Apply(d)

	// Column references on the right-hand side read the pre-update row.
	err = tx.QueryRowContext(ctx, `
		UPDATE cities SET
			total_buildings  = MAX(total_buildings + ?1, 0),
			active_buildings = MIN(MAX(active_buildings + ?2, 0), MAX(total_buildings + ?1, 0)),
			total_spaces     = MAX(total_spaces + ?3, 0),
			active_spaces    = MIN(MAX(active_spaces + ?4, 0), MAX(total_spaces + ?3, 0)),
			updated_at       = ?5
		WHERE id = ?6
		RETURNING total_buildings, active_buildings, total_spaces, active_spaces
	`, d.TotalBuildings, d.ActiveBuildings, d.TotalSpaces, d.ActiveSpaces, now, ev.CityID).Scan(
		&res.Statistics.TotalBuildings,
		&res.Statistics.ActiveBuildings,
		&res.Statistics.TotalSpaces,
		&res.Statistics.ActiveSpaces,
	)
	if err != nil {
		return stats.ApplyResult{}, translate("failed to update city statistics", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO city_stat_events (
			event_id, city_id, child_type, event, active,
			d_total_buildings, d_active_buildings, d_total_spaces, d_active_spaces,
			clamped, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.CityID, string(ev.Child), string(ev.Kind), ev.Active,
		d.TotalBuildings, d.ActiveBuildings, d.TotalSpaces, d.ActiveSpaces,
		res.Clamped, now)
	if err != nil {
		return stats.ApplyResult{}, translate("failed to record statistics event", err)
	}

	if err := tx.Commit(); err != nil {
		return stats.ApplyResult{}, translate("failed to commit statistics", err)
	}
	return res, nil
}

// Get reads the counters of one city.
func (r *StatisticsRepository) Get(ctx context.Context, cityID string) (stats.Statistics, error) {
	return readStatistics(ctx, r.db, cityID)
}

// Recount derives the counters of one city from its buildings and spaces. It never
// writes; stats verify compares the result with the stored counters.
func (r *StatisticsRepository) Recount(ctx context.Context, cityID string) (stats.Statistics, error) {
	var st stats.Statistics
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM buildings WHERE city_id = ?1),
			(SELECT COUNT(*) FROM buildings WHERE city_id = ?1 AND is_active = 1),
			(SELECT COUNT(*) FROM spaces WHERE city_id = ?1),
			(SELECT COUNT(*) FROM spaces WHERE city_id = ?1 AND is_active = 1)
	`, cityID).Scan(&st.TotalBuildings, &st.ActiveBuildings, &st.TotalSpaces, &st.ActiveSpaces)
	if err != nil {
		return stats.Statistics{}, translate("failed to recount city statistics", err)
	}
	return st, nil
}

// CityIDs lists every city id, placeholders included.
func (r *StatisticsRepository) CityIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM cities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list city ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan city id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Events lists the ledger of one city, newest first.
func (r *StatisticsRepository) Events(ctx context.Context, cityID string, limit int) ([]stats.EventRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT event_id, city_id, child_type, event, active,
			d_total_buildings, d_active_buildings, d_total_spaces, d_active_spaces,
			clamped, created_at
		FROM city_stat_events
		WHERE city_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, cityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list statistics events: %w", err)
	}
	defer rows.Close()

	records := []stats.EventRecord{}
	for rows.Next() {
		var rec stats.EventRecord
		if err := rows.Scan(
			&rec.ID, &rec.CityID, &rec.Child, &rec.Kind, &rec.Active,
			&rec.Delta.TotalBuildings, &rec.Delta.ActiveBuildings, &rec.Delta.TotalSpaces, &rec.Delta.ActiveSpaces,
			&rec.Clamped, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan statistics event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statistics events: %w", err)
	}
	return records, nil
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readStatistics(ctx context.Context, q rowQueryer, cityID string) (stats.Statistics, error) {
	var st stats.Statistics
	err := q.QueryRowContext(ctx, `
		SELECT total_buildings, active_buildings, total_spaces, active_spaces
		FROM cities WHERE id = ?
	`, cityID).Scan(&st.TotalBuildings, &st.ActiveBuildings, &st.TotalSpaces, &st.ActiveSpaces)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Statistics{}, repository.ErrNotFound
	}
	if err != nil {
		return stats.Statistics{}, translate("failed to read city statistics", err)
	}
	return st, nil
}
