package sequence

import (
	"context"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// Repository stores counters. Next must increment and return the new value as one
// atomic step; a busy store reports repository.ErrRetryable and changes nothing.
type Repository interface {
	Next(ctx context.Context, kind entity.Kind, scope int) (int64, error)
	Get(ctx context.Context, kind entity.Kind, scope int) (Counter, error)
	List(ctx context.Context) ([]Counter, error)
}
