package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/repository"
)

// OfferingRepository stores the services collection in SQLite.
type OfferingRepository struct {
	db *DB
}

// NewOfferingRepository creates a new OfferingRepository
func NewOfferingRepository(db *DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

const offeringColumns = `id, name, category, description, price, unit, tax_rate, is_active, created_at, updated_at`

var offeringSortable = map[string]string{
	"name":      "name COLLATE NOCASE",
	"category":  "category",
	"price":     "price",
	"createdAt": "created_at",
}

// Create inserts an offering.
func (r *OfferingRepository) Create(ctx context.Context, o *offering.Offering) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (`+offeringColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.Name, o.Category, o.Description, o.Price, o.Unit, o.TaxRate, o.IsActive,
		o.CreatedAt.UTC(), o.UpdatedAt.UTC())
	return translate("failed to create service", err)
}

// Get retrieves an offering by ID
func (r *OfferingRepository) Get(ctx context.Context, id string) (*offering.Offering, error) {
	return scanOffering(r.db.QueryRowContext(ctx, `SELECT `+offeringColumns+` FROM services WHERE id = ?`, id))
}

// List returns one page of offerings and the number of matches.
func (r *OfferingRepository) List(ctx context.Context, opts offering.ListOptions) ([]offering.Offering, int, error) {
	f := &filter{}
	if opts.Category != "" {
		f.add("category = ? COLLATE NOCASE", opts.Category)
	}
	if opts.IsActive != nil {
		f.add("is_active = ?", *opts.IsActive)
	}
	if opts.Query != "" {
		f.add(`name LIKE ? ESCAPE '\'`, likePattern(opts.Query))
	}

	total, err := count(ctx, r.db, "services", f)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + offeringColumns + ` FROM services` + f.where() + orderBy(opts.Page, offeringSortable, "name COLLATE NOCASE")
	page, args := limitOffset(opts.Page, f.args)
	rows, err := r.db.QueryContext(ctx, query+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	list := []offering.Offering{}
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating service rows: %w", err)
	}
	return list, total, nil
}

// Update replaces an offering row.
func (r *OfferingRepository) Update(ctx context.Context, o *offering.Offering) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE services SET
			name = ?, category = ?, description = ?, price = ?, unit = ?, tax_rate = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, o.Name, o.Category, o.Description, o.Price, o.Unit, o.TaxRate, o.IsActive, o.UpdatedAt.UTC(), o.ID)
	if err != nil {
		return translate("failed to update service", err)
	}
	return expectOne(result)
}

// Delete removes an offering no order references.
func (r *OfferingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return translate("failed to delete service", err)
	}
	return expectOne(result)
}

func scanOffering(s scanner) (*offering.Offering, error) {
	var o offering.Offering
	err := s.Scan(&o.ID, &o.Name, &o.Category, &o.Description, &o.Price, &o.Unit, &o.TaxRate, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan service: %w", err)
	}
	return &o, nil
}
