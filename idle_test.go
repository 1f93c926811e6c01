package eventuals_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeandnode/eventuals"
)

// Not parallel: [eventuals.Idle] observes process-wide quiescence.
func TestNeverIdleDuringMapWork(t *testing.T) {
	ctx := t.Context()

	writer, numbers := eventuals.New[uint8]()
	defer writer.Close()

	reachedIdle := make(chan struct{})

	mapped := eventuals.Map(numbers, func(ctx context.Context, v uint8) uint8 {
		// The system cannot be idle while this callback runs; Idle only
		// returns here once the pipeline is torn down and ctx ends.
		if eventuals.Idle(ctx) == nil {
			close(reachedIdle)
		}

		return v
	})

	numbers.Close()

	writer.Write(1)

	time.Sleep(10 * time.Millisecond)

	select {
	case <-reachedIdle:
		t.Fatal("system went idle while map work was in flight")
	default:
	}

	// Dropping the mapped channel aborts the stuck callback and makes
	// the pipeline idle.
	mapped.Close()

	require.NoError(t, eventuals.Idle(ctx))
}

// Not parallel: [eventuals.Idle] observes process-wide quiescence.
func TestIdleAfterMapCompletes(t *testing.T) {
	ctx := t.Context()

	delay := 10 * time.Millisecond

	require.NoError(t, eventuals.Idle(ctx))

	fives := eventuals.FromValue(5)
	defer fives.Close()

	start := time.Now()

	mapped := eventuals.Map(fives, func(_ context.Context, v int) int {
		time.Sleep(delay)

		return v
	})
	defer mapped.Close()

	require.NoError(t, eventuals.Idle(ctx))
	assert.GreaterOrEqual(t, time.Since(start), delay)

	v, ok := mapped.ValueImmediate()
	assert.True(t, ok)
	assert.Equal(t, 5, v)
}

// Not parallel: [eventuals.Idle] observes process-wide quiescence.
func TestIdleHonorsContext(t *testing.T) {
	writer, numbers := eventuals.New[int]()
	defer numbers.Close()
	defer writer.Close()

	reader := numbers.Subscribe()
	defer reader.Close()

	// An undelivered value keeps the system busy.
	writer.Write(1)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, eventuals.Idle(ctx), context.DeadlineExceeded)

	v, err := reader.Next(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, eventuals.Idle(t.Context()))
}
