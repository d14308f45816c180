// Package redisstore keeps sequence counters in Redis for deployments that run
// several API replicas against one counter store.
package redisstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/sequence"
	"github.com/rpggio/spacedesk/internal/repository"
)

const (
	fieldLast    = "last"
	fieldUpdated = "updated"
)

// Open creates a client and checks the connection.
func Open(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return client, nil
}

// SequenceRepository stores one hash per (entity type, year) counter.
type SequenceRepository struct {
	client *redis.Client
	prefix string
}

// NewSequenceRepository creates a repository whose keys start with prefix.
// An empty prefix defaults to "spacedesk".
func NewSequenceRepository(client *redis.Client, prefix string) *SequenceRepository {
	if prefix == "" {
		prefix = "spacedesk"
	}
	return &SequenceRepository{client: client, prefix: prefix}
}

func (r *SequenceRepository) key(kind entity.Kind, scope int) string {
	return fmt.Sprintf("%s:seq:%s:%d", r.prefix, kind, scope)
}

// Next increments the counter inside MULTI/EXEC and returns the new value.
func (r *SequenceRepository) Next(ctx context.Context, kind entity.Kind, scope int) (int64, error) {
	key := r.key(kind, scope)
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, key, fieldLast, 1)
		pipe.HSet(ctx, key, fieldUpdated, time.Now().UTC().Format(time.RFC3339Nano))
		return nil
	})
	if err != nil {
		return 0, translate("failed to increment sequence", err)
	}
	return incr.Val(), nil
}

// Get reads one counter.
func (r *SequenceRepository) Get(ctx context.Context, kind entity.Kind, scope int) (sequence.Counter, error) {
	values, err := r.client.HGetAll(ctx, r.key(kind, scope)).Result()
	if err != nil {
		return sequence.Counter{}, translate("failed to get sequence counter", err)
	}
	if len(values) == 0 {
		return sequence.Counter{}, repository.ErrNotFound
	}
	return parseCounter(kind, scope, values)
}

// List scans every counter under the prefix, newest scope first.
func (r *SequenceRepository) List(ctx context.Context) ([]sequence.Counter, error) {
	counters := []sequence.Counter{}
	iter := r.client.Scan(ctx, 0, r.prefix+":seq:*", 100).Iterator()
	for iter.Next(ctx) {
		kind, scope, ok := r.parseKey(iter.Val())
		if !ok {
			continue
		}
		c, err := r.Get(ctx, kind, scope)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		counters = append(counters, c)
	}
	if err := iter.Err(); err != nil {
		return nil, translate("failed to scan sequence counters", err)
	}

	slices.SortFunc(counters, func(a, b sequence.Counter) int {
		if a.Scope != b.Scope {
			return cmp.Compare(b.Scope, a.Scope)
		}
		return cmp.Compare(a.EntityType, b.EntityType)
	})
	return counters, nil
}

func (r *SequenceRepository) parseKey(key string) (entity.Kind, int, bool) {
	rest, ok := strings.CutPrefix(key, r.prefix+":seq:")
	if !ok {
		return "", 0, false
	}
	kind, year, ok := strings.Cut(rest, ":")
	if !ok {
		return "", 0, false
	}
	scope, err := strconv.Atoi(year)
	if err != nil {
		return "", 0, false
	}
	return entity.Kind(kind), scope, true
}

func parseCounter(kind entity.Kind, scope int, values map[string]string) (sequence.Counter, error) {
	last, err := strconv.ParseInt(values[fieldLast], 10, 64)
	if err != nil {
		return sequence.Counter{}, fmt.Errorf("corrupt counter %s/%d: %w", kind, scope, err)
	}
	c := sequence.Counter{EntityType: kind, Scope: scope, LastSequence: last}
	if ts, ok := values[fieldUpdated]; ok {
		c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return c, nil
}

// translate maps server-side "try again" replies to repository.ErrRetryable.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := err.Error()
	for _, prefix := range []string{"BUSY", "LOADING", "TRYAGAIN", "MASTERDOWN"} {
		if strings.HasPrefix(msg, prefix) {
			return fmt.Errorf("%s: %w: %v", op, repository.ErrRetryable, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
