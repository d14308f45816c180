package sequence

import (
	"fmt"
	"strconv"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// MinYear and MaxYear bound the scopes an ID can encode; the year is written as two digits.
const (
	MinYear = 2000
	MaxYear = 2099
)

// InScope reports whether year fits the two-digit year of an ID.
func InScope(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// Format renders <PREFIX><YY><NNN>, e.g. SPC25001. Sequences past 999 keep growing: SPC251000.
func Format(kind entity.Kind, year int, seq int64) string {
	return fmt.Sprintf("%s%02d%03d", kind.Prefix(), year%100, seq)
}

// Parse splits an ID produced by Format. The year is returned as two digits.
func Parse(id string) (entity.Kind, int, int64, error) {
	if len(id) < 8 {
		return "", 0, 0, ErrMalformedID
	}
	var kind entity.Kind
	for _, k := range entity.Kinds() {
		if k.Prefix() == id[:3] {
			kind = k
			break
		}
	}
	if kind == "" {
		return "", 0, 0, ErrMalformedID
	}
	yy, err := strconv.Atoi(id[3:5])
	if err != nil {
		return "", 0, 0, ErrMalformedID
	}
	seq, err := strconv.ParseInt(id[5:], 10, 64)
	if err != nil || seq < 1 {
		return "", 0, 0, ErrMalformedID
	}
	return kind, yy, seq, nil
}
