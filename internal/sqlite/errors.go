package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/spacedesk/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isBusy matches SQLITE_BUSY and SQLITE_LOCKED, including the "database is locked"
// text the driver returns once busy_timeout expires.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// translate maps driver errors onto the repository sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isBusy(err):
		return fmt.Errorf("%s: %w: %v", op, repository.ErrRetryable, err)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %v", op, repository.ErrConflict, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w: %v", op, repository.ErrForeignKeyViolation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
