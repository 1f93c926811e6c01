package eventuals_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeandnode/eventuals"
)

func TestTimerAwaits(t *testing.T) {
	t.Parallel()

	interval := 2 * time.Millisecond

	timer := eventuals.Timer(interval)
	defer timer.Close()

	reader := timer.Subscribe()
	defer reader.Close()

	start, err := reader.Next(t.Context())
	require.NoError(t, err)

	end, err := reader.Next(t.Context())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, end.Sub(start), interval)
}

func TestTimerStopsWhenUnobserved(t *testing.T) {
	t.Parallel()

	timer := eventuals.Timer(time.Millisecond)

	reader := timer.Subscribe()

	_, err := reader.Next(t.Context())
	require.NoError(t, err)

	// Releasing every handle aborts the producing goroutine; the channel
	// finalizes rather than ticking forever.
	reader.Close()
	timer.Close()
}
