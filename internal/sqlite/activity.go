package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	actor := entry.Actor
	if actor == "" {
		actor = activity.SystemActor
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (actor, entity_type, entity_id, activity_type, summary, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, actor, string(entry.EntityType), entry.EntityID, string(entry.Type), entry.Summary, entry.Details, createdAt.UTC())
	if err != nil {
		return translate("failed to log activity", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	entry.Actor = actor
	entry.CreatedAt = createdAt
	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	f := &filter{}
	if opts.EntityType != nil {
		f.add("entity_type = ?", string(*opts.EntityType))
	}
	if opts.EntityID != nil {
		f.add("entity_id = ?", *opts.EntityID)
	}
	if opts.Type != nil {
		f.add("activity_type = ?", string(*opts.Type))
	}
	if opts.Since != nil {
		f.add("created_at >= ?", opts.Since.UTC())
	}

	query := `
		SELECT id, actor, entity_type, entity_id, activity_type, summary, details, created_at
		FROM activity_log` + f.where() + ` ORDER BY id DESC`
	args := f.args
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.ActivityEntry{}
	for rows.Next() {
		var entry activity.ActivityEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Actor,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Type,
			&entry.Summary,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return entries, nil
}
