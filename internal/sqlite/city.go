package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/repository"
)

// CityRepository stores cities in SQLite.
type CityRepository struct {
	db *DB
}

// NewCityRepository creates a new CityRepository
func NewCityRepository(db *DB) *CityRepository {
	return &CityRepository{db: db}
}

const cityColumns = `
	id, name, province, country, latitude, longitude, is_active,
	total_buildings, active_buildings, total_spaces, active_spaces,
	created_at, updated_at`

var citySortable = map[string]string{
	"name":           "name COLLATE NOCASE",
	"createdAt":      "created_at",
	"totalBuildings": "total_buildings",
	"totalSpaces":    "total_spaces",
}

// Create inserts a city with zeroed statistics.
func (r *CityRepository) Create(ctx context.Context, c *city.City) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cities (id, name, province, country, latitude, longitude, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Province, c.Country, nullFloat(c.Latitude), nullFloat(c.Longitude), c.IsActive,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	return translate("failed to create city", err)
}

// Get retrieves a city by ID
func (r *CityRepository) Get(ctx context.Context, id string) (*city.City, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cityColumns+` FROM cities WHERE id = ?`, id)
	return scanCity(row)
}

// FindByName looks a named city up case-insensitively.
func (r *CityRepository) FindByName(ctx context.Context, name string) (*city.City, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cityColumns+` FROM cities WHERE name = ? COLLATE NOCASE AND name <> ''`, name)
	return scanCity(row)
}

// List returns one page of cities and the number of matches.
func (r *CityRepository) List(ctx context.Context, opts city.ListOptions) ([]city.City, int, error) {
	f := &filter{}
	if opts.Province != "" {
		f.add("province = ? COLLATE NOCASE", opts.Province)
	}
	if opts.Query != "" {
		f.add(`name LIKE ? ESCAPE '\'`, likePattern(opts.Query))
	}
	if opts.IsActive != nil {
		f.add("is_active = ?", *opts.IsActive)
	}

	total, err := count(ctx, r.db, "cities", f)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + cityColumns + ` FROM cities` + f.where() + orderBy(opts.Page, citySortable, "name COLLATE NOCASE")
	page, args := limitOffset(opts.Page, f.args)
	rows, err := r.db.QueryContext(ctx, query+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	cities := []city.City{}
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, 0, err
		}
		cities = append(cities, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating city rows: %w", err)
	}
	return cities, total, nil
}

// Update writes the editable columns. Statistics columns are left alone.
func (r *CityRepository) Update(ctx context.Context, c *city.City) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE cities
		SET name = ?, province = ?, country = ?, latitude = ?, longitude = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Province, c.Country, nullFloat(c.Latitude), nullFloat(c.Longitude), c.IsActive, c.UpdatedAt.UTC(), c.ID)
	if err != nil {
		return translate("failed to update city", err)
	}
	return expectOne(result)
}

// Delete removes a city row.
func (r *CityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cities WHERE id = ?`, id)
	if err != nil {
		return translate("failed to delete city", err)
	}
	return expectOne(result)
}

// CountBuildings counts the buildings referencing the city.
func (r *CityRepository) CountBuildings(ctx context.Context, id string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM buildings WHERE city_id = ?`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count buildings: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCity(s scanner) (*city.City, error) {
	var c city.City
	var lat, lon sql.NullFloat64
	err := s.Scan(
		&c.ID, &c.Name, &c.Province, &c.Country, &lat, &lon, &c.IsActive,
		&c.Statistics.TotalBuildings, &c.Statistics.ActiveBuildings,
		&c.Statistics.TotalSpaces, &c.Statistics.ActiveSpaces,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan city: %w", err)
	}
	c.Latitude = floatPtr(lat)
	c.Longitude = floatPtr(lon)
	return &c, nil
}

// expectCurrent is expectOne for conditional updates: no row changed means either the
// row is gone or it no longer matched the condition.
func (db *DB) expectCurrent(ctx context.Context, result sql.Result, table, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	var exists int
	err = db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return translate("failed to check "+table, err)
	}
	return repository.ErrStale
}

func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
