package monitor_test

import (
	"io"
	"testing"
	"time"

	charmlog "charm.land/log/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeandnode/eventuals/monitor"
)

func TestTakeSample(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := monitor.TakeSample(now)

	assert.Equal(t, now, s.At)
	assert.Positive(t, s.HeapAlloc)
	assert.Positive(t, s.Goroutines)

	mem := s.Mem()
	assert.Equal(t, s.HeapAlloc, mem.HeapAlloc)

	sched := s.Sched()
	assert.Equal(t, s.Goroutines, sched.Goroutines)
	assert.Positive(t, sched.CPUs)
}

func TestPipelineProducesFrames(t *testing.T) {
	t.Parallel()

	cfg := monitor.NewConfig()
	cfg.SampleInterval = monitor.Duration(time.Millisecond)
	cfg.ThrottleWindow = monitor.Duration(5 * time.Millisecond)

	logger := charmlog.New(io.Discard)

	pipeline := monitor.NewPipeline(cfg, logger)
	defer pipeline.Close()

	frame, err := pipeline.Frames.Value(t.Context())
	require.NoError(t, err)

	assert.Positive(t, frame.Mem.HeapAlloc)
	assert.Positive(t, frame.Sched.Goroutines)
	assert.Positive(t, frame.Sched.CPUs)
}
