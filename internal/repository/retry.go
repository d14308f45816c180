package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Retry calls op until it returns nil or an error that does not match ErrRetryable.
// Every retryable failure is reported to onRetry (if set) with its attempt number; the
// wait before attempt n+1 is n times backoff. Once maxAttempts calls have failed the
// last error is returned, still matching ErrRetryable.
func Retry(ctx context.Context, maxAttempts int, step time.Duration, op func() error, onRetry func(attempt int)) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := op()
		switch {
		case err == nil:
			return struct{}{}, nil
		case !errors.Is(err, ErrRetryable):
			return struct{}{}, backoff.Permanent(err)
		}
		attempt++
		if onRetry != nil {
			onRetry(attempt)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(&linearBackOff{step: step}),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithMaxElapsedTime(0),
	)

	var permanent *backoff.PermanentError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &permanent):
		return permanent.Err
	case errors.Is(err, ErrRetryable):
		return fmt.Errorf("after %d attempts: %w", attempt, err)
	}
	return err
}

// linearBackOff waits step, 2*step, 3*step, ...
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return b.step * time.Duration(b.n)
}

func (b *linearBackOff) Reset() { b.n = 0 }
