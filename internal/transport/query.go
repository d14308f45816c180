package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

var errInvalidQuery = errors.New("invalid query parameter")

type query struct {
	r   *http.Request
	err error
}

func newQuery(r *http.Request) *query {
	return &query{r: r}
}

func (q *query) str(name string) string {
	return q.r.URL.Query().Get(name)
}

func (q *query) int(name string, def int) int {
	v := q.str(name)
	if v == "" || q.err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		q.err = fmt.Errorf("%w: %s must be a non-negative integer", errInvalidQuery, name)
		return def
	}
	return n
}

func (q *query) boolPtr(name string) *bool {
	v := q.str(name)
	if v == "" || q.err != nil {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.err = fmt.Errorf("%w: %s must be true or false", errInvalidQuery, name)
		return nil
	}
	return &b
}

// page reads limit, offset and sort. A limit above entity.MaxLimit is capped.
func (q *query) page() entity.Page {
	return entity.Page{
		Limit:  q.int("limit", entity.DefaultLimit),
		Offset: q.int("offset", 0),
		Sort:   q.str("sort"),
	}.Normalize()
}
