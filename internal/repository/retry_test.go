package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsAfterContention(t *testing.T) {
	calls := 0
	var retried []int
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return ErrRetryable
		}
		return nil
	}, func(attempt int) { retried = append(retried, attempt) })

	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []int{1, 2}, retried)
}

func TestRetry_Exhausted(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, 0, func() error {
		calls++
		return ErrStale
	}, nil)

	require.ErrorIs(t, err, ErrRetryable)
	require.ErrorIs(t, err, ErrStale)
	require.Equal(t, 3, calls)
}

func TestRetry_OtherErrorsStopAtOnce(t *testing.T) {
	boom := errors.New("disk full")
	calls := 0
	err := Retry(context.Background(), 5, 0, func() error {
		calls++
		return boom
	}, nil)

	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrRetryable)
	require.Equal(t, 1, calls)
}

func TestRetry_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := Retry(ctx, 5, time.Hour, func() error {
		cancel()
		return ErrRetryable
	}, nil)

	require.ErrorIs(t, err, context.Canceled)
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 0, 0, func() error {
		calls++
		return ErrRetryable
	}, nil)

	require.ErrorIs(t, err, ErrRetryable)
	require.Equal(t, 1, calls)
}
