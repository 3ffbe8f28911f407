package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsAfterConflicts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return ErrConflict
		}
		return nil
	}, RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_ExhaustionReturnsLastError(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return ErrConflict
	}, RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})

	// Exhaustion is reported, but the caller still needs the error kind.
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMaxRetries), "got %v", err)
	assert.True(t, errors.Is(err, ErrConflict), "got %v", err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_TerminalErrorsAreNotRetried(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return ErrInsufficientFunds
	}, RetryOptions{MaxAttempts: 5, InitialDelay: time.Millisecond})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds), "got %v", err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return ErrConflict
	}, RetryOptions{MaxAttempts: 3, InitialDelay: 10 * time.Second})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrConflict))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("flaky"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("broken"), Retryable: false}))
	assert.False(t, IsRetryable(ErrNotFound))
	assert.False(t, IsRetryable(errors.New("plain")))
}
