package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/rpggio/spacedesk/internal/repository"
)

// OrderRepository stores orders in SQLite.
type OrderRepository struct {
	db *DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, space_id, service_id, customer_name, quantity, unit_price, tax_rate,
	subtotal, tax, total, status, notes, created_at, updated_at`

var orderSortable = map[string]string{
	"createdAt": "created_at",
	"total":     "total",
	"status":    "status",
}

// Create inserts an order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	var serviceID sql.NullString
	if o.ServiceID != "" {
		serviceID = sql.NullString{String: o.ServiceID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.SpaceID, serviceID, o.CustomerName, o.Quantity, o.UnitPrice, o.TaxRate,
		o.Subtotal, o.Tax, o.Total, string(o.Status), o.Notes, o.CreatedAt.UTC(), o.UpdatedAt.UTC())
	return translate("failed to create order", err)
}

// Get retrieves an order by ID
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	return scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
}

// List returns one page of orders and the number of matches. Newest first by default.
func (r *OrderRepository) List(ctx context.Context, opts order.ListOptions) ([]order.Order, int, error) {
	f := &filter{}
	if opts.Status != "" {
		f.add("status = ?", string(opts.Status))
	}
	if opts.SpaceID != "" {
		f.add("space_id = ?", opts.SpaceID)
	}

	total, err := count(ctx, r.db, "orders", f)
	if err != nil {
		return nil, 0, err
	}

	p := opts.Page
	if p.Sort == "" {
		p.Sort = "-createdAt"
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + f.where() + orderBy(p, orderSortable, "created_at")
	page, args := limitOffset(p, f.args)
	rows, err := r.db.QueryContext(ctx, query+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating order rows: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus moves an order from one status to another. It reports
// repository.ErrConflict when the order is no longer in status from.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to order.Status) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?
	`, string(to), time.Now().UTC(), id, string(from))
	if err != nil {
		return translate("failed to update order status", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return repository.ErrConflict
}

// Delete removes an order.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return translate("failed to delete order", err)
	}
	return expectOne(result)
}

func scanOrder(s scanner) (*order.Order, error) {
	var o order.Order
	var serviceID sql.NullString
	err := s.Scan(
		&o.ID, &o.SpaceID, &serviceID, &o.CustomerName, &o.Quantity, &o.UnitPrice, &o.TaxRate,
		&o.Subtotal, &o.Tax, &o.Total, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	o.ServiceID = serviceID.String
	return &o, nil
}
