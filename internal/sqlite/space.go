package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/repository"
)

// SpaceRepository stores spaces in SQLite.
type SpaceRepository struct {
	db *DB
}

// NewSpaceRepository creates a new SpaceRepository
func NewSpaceRepository(db *DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

const spaceColumns = `
	id, building_id, city_id, name, brand, type, capacity, price_per_hour,
	description, is_active, created_at, updated_at`

var spaceSortable = map[string]string{
	"name":         "name COLLATE NOCASE",
	"capacity":     "capacity",
	"pricePerHour": "price_per_hour",
	"createdAt":    "created_at",
}

// Create inserts a space. An unknown building fails with repository.ErrForeignKeyViolation.
func (r *SpaceRepository) Create(ctx context.Context, sp *space.Space) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO spaces (
			id, building_id, city_id, name, brand, type, capacity, price_per_hour,
			description, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sp.ID, sp.BuildingID, sp.CityID, sp.Name, string(sp.Brand), string(sp.Type), sp.Capacity, sp.PricePerHour,
		sp.Description, sp.IsActive, sp.CreatedAt.UTC(), sp.UpdatedAt.UTC())
	return translate("failed to create space", err)
}

// Get retrieves a space by ID
func (r *SpaceRepository) Get(ctx context.Context, id string) (*space.Space, error) {
	return scanSpace(r.db.QueryRowContext(ctx, `SELECT `+spaceColumns+` FROM spaces WHERE id = ?`, id))
}

// List returns one page of spaces and the number of matches.
func (r *SpaceRepository) List(ctx context.Context, opts space.ListOptions) ([]space.Space, int, error) {
	f := &filter{}
	if opts.BuildingID != "" {
		f.add("building_id = ?", opts.BuildingID)
	}
	if opts.CityID != "" {
		f.add("city_id = ?", opts.CityID)
	}
	if opts.Type != "" {
		f.add("type = ?", string(opts.Type))
	}
	if opts.IsActive != nil {
		f.add("is_active = ?", *opts.IsActive)
	}
	if opts.Query != "" {
		f.add(`name LIKE ? ESCAPE '\'`, likePattern(opts.Query))
	}

	total, err := count(ctx, r.db, "spaces", f)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + spaceColumns + ` FROM spaces` + f.where() + orderBy(opts.Page, spaceSortable, "name COLLATE NOCASE")
	page, args := limitOffset(opts.Page, f.args)
	rows, err := r.db.QueryContext(ctx, query+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer rows.Close()

	spaces := []space.Space{}
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, 0, err
		}
		spaces = append(spaces, *sp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating space rows: %w", err)
	}
	return spaces, total, nil
}

// Update replaces a space row while its city and active flag still match read.
func (r *SpaceRepository) Update(ctx context.Context, sp, read *space.Space) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE spaces SET
			building_id = ?, city_id = ?, name = ?, brand = ?, type = ?, capacity = ?,
			price_per_hour = ?, description = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND city_id = ? AND is_active = ?
	`, sp.BuildingID, sp.CityID, sp.Name, string(sp.Brand), string(sp.Type), sp.Capacity,
		sp.PricePerHour, sp.Description, sp.IsActive, sp.UpdatedAt.UTC(), sp.ID, read.CityID, read.IsActive)
	if err != nil {
		return translate("failed to update space", err)
	}
	return r.db.expectCurrent(ctx, result, "spaces", sp.ID)
}

// Delete removes a space and returns its building, city and active flag as they were
// at removal. Orders still pointing at it make this fail with
// repository.ErrForeignKeyViolation.
func (r *SpaceRepository) Delete(ctx context.Context, id string) (*space.Space, error) {
	sp := &space.Space{ID: id}
	err := r.db.QueryRowContext(ctx, `DELETE FROM spaces WHERE id = ? RETURNING building_id, city_id, is_active`, id).
		Scan(&sp.BuildingID, &sp.CityID, &sp.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, translate("failed to delete space", err)
	}
	return sp, nil
}

func scanSpace(s scanner) (*space.Space, error) {
	var sp space.Space
	err := s.Scan(
		&sp.ID, &sp.BuildingID, &sp.CityID, &sp.Name, &sp.Brand, &sp.Type, &sp.Capacity, &sp.PricePerHour,
		&sp.Description, &sp.IsActive, &sp.CreatedAt, &sp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan space: %w", err)
	}
	return &sp, nil
}
