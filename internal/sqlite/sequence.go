package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/sequence"
	"github.com/rpggio/spacedesk/internal/repository"
)

// SequenceRepository stores sequence counters in SQLite.
type SequenceRepository struct {
	db *DB
}

// NewSequenceRepository creates a new SequenceRepository
func NewSequenceRepository(db *DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next creates or increments the counter in a single upsert and returns the new value.
func (r *SequenceRepository) Next(ctx context.Context, kind entity.Kind, scope int) (int64, error) {
	query := `
		INSERT INTO sequence_counters (entity_type, scope, last_sequence, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (entity_type, scope) DO UPDATE SET
			last_sequence = last_sequence + 1,
			updated_at = excluded.updated_at
		RETURNING last_sequence
	`

	var seq int64
	if err := r.db.QueryRowContext(ctx, query, string(kind), scope, time.Now().UTC()).Scan(&seq); err != nil {
		return 0, translate("failed to increment sequence", err)
	}
	return seq, nil
}

// Get reads one counter.
func (r *SequenceRepository) Get(ctx context.Context, kind entity.Kind, scope int) (sequence.Counter, error) {
	query := `
		SELECT entity_type, scope, last_sequence, updated_at
		FROM sequence_counters
		WHERE entity_type = ? AND scope = ?
	`

	var c sequence.Counter
	err := r.db.QueryRowContext(ctx, query, string(kind), scope).Scan(&c.EntityType, &c.Scope, &c.LastSequence, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sequence.Counter{}, repository.ErrNotFound
	}
	if err != nil {
		return sequence.Counter{}, fmt.Errorf("failed to get sequence counter: %w", err)
	}
	return c, nil
}

// List returns all counters, newest scope first.
func (r *SequenceRepository) List(ctx context.Context) ([]sequence.Counter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT entity_type, scope, last_sequence, updated_at
		FROM sequence_counters
		ORDER BY scope DESC, entity_type ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequence counters: %w", err)
	}
	defer rows.Close()

	counters := []sequence.Counter{}
	for rows.Next() {
		var c sequence.Counter
		if err := rows.Scan(&c.EntityType, &c.Scope, &c.LastSequence, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sequence counter: %w", err)
		}
		counters = append(counters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sequence rows: %w", err)
	}
	return counters, nil
}
