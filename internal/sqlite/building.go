package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/repository"
)

// BuildingRepository stores buildings in SQLite.
type BuildingRepository struct {
	db *DB
}

// NewBuildingRepository creates a new BuildingRepository
func NewBuildingRepository(db *DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

const buildingColumns = `
	id, name, brand, city_id, address, location_city, province, postal_code,
	latitude, longitude, description, is_active, created_at, updated_at`

var buildingSortable = map[string]string{
	"name":      "name COLLATE NOCASE",
	"brand":     "brand",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// Create inserts a building.
func (r *BuildingRepository) Create(ctx context.Context, b *building.Building) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO buildings (
			id, name, brand, city_id, address, location_city, province, postal_code,
			latitude, longitude, description, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Name, string(b.Brand), b.CityID,
		b.Location.Address, b.Location.City, b.Location.Province, b.Location.PostalCode,
		nullFloat(b.Location.Latitude), nullFloat(b.Location.Longitude),
		b.Description, b.IsActive, b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	return translate("failed to create building", err)
}

// Get retrieves a building by ID
func (r *BuildingRepository) Get(ctx context.Context, id string) (*building.Building, error) {
	return scanBuilding(r.db.QueryRowContext(ctx, `SELECT `+buildingColumns+` FROM buildings WHERE id = ?`, id))
}

// List returns one page of buildings and the number of matches.
func (r *BuildingRepository) List(ctx context.Context, opts building.ListOptions) ([]building.Building, int, error) {
	f := &filter{}
	if opts.CityID != "" {
		f.add("city_id = ?", opts.CityID)
	}
	if opts.Brand != "" {
		f.add("brand = ?", opts.Brand)
	}
	if opts.IsActive != nil {
		f.add("is_active = ?", *opts.IsActive)
	}
	if opts.Query != "" {
		pattern := likePattern(opts.Query)
		f.add(`(name LIKE ? ESCAPE '\' OR address LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	total, err := count(ctx, r.db, "buildings", f)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + buildingColumns + ` FROM buildings` + f.where() + orderBy(opts.Page, buildingSortable, "name COLLATE NOCASE")
	page, args := limitOffset(opts.Page, f.args)
	rows, err := r.db.QueryContext(ctx, query+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list buildings: %w", err)
	}
	defer rows.Close()

	buildings := []building.Building{}
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, 0, err
		}
		buildings = append(buildings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating building rows: %w", err)
	}
	return buildings, total, nil
}

// Update replaces a building row. The write is conditional on read's city and active
// flag, the two columns city statistics are derived from.
func (r *BuildingRepository) Update(ctx context.Context, b, read *building.Building) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE buildings SET
			name = ?, brand = ?, city_id = ?, address = ?, location_city = ?, province = ?,
			postal_code = ?, latitude = ?, longitude = ?, description = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND city_id = ? AND is_active = ?
	`, b.Name, string(b.Brand), b.CityID, b.Location.Address, b.Location.City, b.Location.Province,
		b.Location.PostalCode, nullFloat(b.Location.Latitude), nullFloat(b.Location.Longitude),
		b.Description, b.IsActive, b.UpdatedAt.UTC(), b.ID, read.CityID, read.IsActive)
	if err != nil {
		return translate("failed to update building", err)
	}
	return r.db.expectCurrent(ctx, result, "buildings", b.ID)
}

// Delete removes a building and returns its city and active flag as they were at
// removal. Spaces still pointing at it make this fail with
// repository.ErrForeignKeyViolation.
func (r *BuildingRepository) Delete(ctx context.Context, id string) (*building.Building, error) {
	b := &building.Building{ID: id}
	err := r.db.QueryRowContext(ctx, `DELETE FROM buildings WHERE id = ? RETURNING city_id, is_active`, id).
		Scan(&b.CityID, &b.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, translate("failed to delete building", err)
	}
	return b, nil
}

// CountSpaces counts the spaces in a building.
func (r *BuildingRepository) CountSpaces(ctx context.Context, id string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spaces WHERE building_id = ?`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count spaces: %w", err)
	}
	return n, nil
}

func scanBuilding(s scanner) (*building.Building, error) {
	var b building.Building
	var lat, lon sql.NullFloat64
	err := s.Scan(
		&b.ID, &b.Name, &b.Brand, &b.CityID,
		&b.Location.Address, &b.Location.City, &b.Location.Province, &b.Location.PostalCode,
		&lat, &lon, &b.Description, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan building: %w", err)
	}
	b.Location.Latitude = floatPtr(lat)
	b.Location.Longitude = floatPtr(lon)
	return &b, nil
}
