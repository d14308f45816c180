package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// filter accumulates WHERE conditions and their arguments.
type filter struct {
	conditions []string
	args       []any
}

func (f *filter) add(cond string, args ...any) {
	f.conditions = append(f.conditions, cond)
	f.args = append(f.args, args...)
}

func (f *filter) where() string {
	if len(f.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conditions, " AND ")
}

// orderBy renders ORDER BY for a page. sortable maps API field names to columns;
// unknown fields fall back to fallback. id breaks ties so pages are stable.
func orderBy(p entity.Page, sortable map[string]string, fallback string) string {
	field, desc := p.SortField()
	col, ok := sortable[field]
	if !ok {
		col = fallback
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", col, dir)
}

func limitOffset(p entity.Page, args []any) (string, []any) {
	return " LIMIT ? OFFSET ?", append(args, p.Limit, p.Offset)
}

func count(ctx context.Context, q rowQueryer, table string, f *filter) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+f.where(), f.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}
