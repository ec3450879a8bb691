package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("unavailable")

func fastRetrier(attempts int, retryIf func(error) bool) *Retrier {
	return New(
		WithMaxAttempts(attempts),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(2*time.Millisecond),
		WithJitter(0),
		WithRetryIf(retryIf),
	)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := fastRetrier(5, func(error) bool { return true }).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errUnavailable
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsWhenPredicateRejects(t *testing.T) {
	notFound := errors.New("not found")
	calls := 0
	err := fastRetrier(5, func(err error) bool { return errors.Is(err, errUnavailable) }).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return notFound
	})

	assert.Same(t, notFound, err)
	assert.Equal(t, 1, calls)
}

func TestDo_WithoutPredicateRunsOnce(t *testing.T) {
	calls := 0
	err := fastRetrier(5, nil).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errUnavailable
	})

	assert.ErrorIs(t, err, errUnavailable)
	assert.Equal(t, 1, calls)
}

func TestDo_ReturnsLastErrorAfterFinalAttempt(t *testing.T) {
	calls := 0
	err := fastRetrier(3, func(error) bool { return true }).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errUnavailable
	})

	assert.Same(t, errUnavailable, err)
	assert.Equal(t, 3, calls)
}

func TestDo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := fastRetrier(3, func(error) bool { return true }).Do(ctx, func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestCLIRetrier_UsesPredicateAndCallback(t *testing.T) {
	var retried []int
	r := CLIRetrier(2, func(error) bool { return true }, func(attempt int, err error, delay time.Duration) {
		retried = append(retried, attempt)
	})
	r.config.InitialDelay = time.Millisecond
	r.config.JitterFactor = 0

	calls := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errUnavailable
	})

	assert.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1}, retried)
}

func TestCLIRetrier_ClampsAttempts(t *testing.T) {
	r := CLIRetrier(0, nil, nil)
	assert.Equal(t, 1, r.config.MaxAttempts)
}

func TestCalculateDelay_CapsAtMax(t *testing.T) {
	r := New(WithInitialDelay(time.Second), WithMaxDelay(3*time.Second), WithJitter(0))

	assert.Equal(t, time.Second, r.calculateDelay(1))
	assert.Equal(t, 2*time.Second, r.calculateDelay(2))
	assert.Equal(t, 3*time.Second, r.calculateDelay(5))
}
