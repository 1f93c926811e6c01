package monitor

import (
	"context"
	"time"

	charmlog "charm.land/log/v2"

	"github.com/edgeandnode/eventuals"
)

// Pipeline owns the eventual graph feeding the dashboard:
//
//	Timer ─ Map(sample) ─┬─ Map(mem)   ─┐
//	                     └─ Map(sched) ─┴─ Join2 ─ Map(frame) ─ Throttle ─┬─ Frames
//	                                                                      └─ Pipe(log)
//
// Frames carries the throttled frame feed; subscribe to it for display.
// Closing the Pipeline unwinds the whole graph, stopping the sampler.
type Pipeline struct {
	Frames *eventuals.Eventual[Frame]

	handles []closer
	logPipe *eventuals.PipeHandle
}

type closer interface {
	Close()
}

// NewPipeline assembles the graph. Frames are logged at debug level to
// logger; pass a discarding logger to opt out.
func NewPipeline(cfg *Config, logger *charmlog.Logger) *Pipeline {
	p := &Pipeline{}

	ticks := eventuals.Timer(time.Duration(cfg.SampleInterval))
	samples := eventuals.Map(ticks, func(_ context.Context, at time.Time) Sample {
		return TakeSample(at)
	})

	mem := eventuals.Map(samples, func(_ context.Context, s Sample) MemView {
		return s.Mem()
	})
	sched := eventuals.Map(samples, func(_ context.Context, s Sample) SchedView {
		return s.Sched()
	})

	joined := eventuals.Join2[MemView, SchedView](mem, sched)
	frames := eventuals.Map(joined, func(_ context.Context, t eventuals.Tuple2[MemView, SchedView]) Frame {
		return Frame{Mem: t.A, Sched: t.B}
	})

	throttled := eventuals.Throttle(frames, time.Duration(cfg.ThrottleWindow))

	p.logPipe = eventuals.Pipe(throttled, func(f Frame) {
		logger.Debug("frame",
			"heapAlloc", f.Mem.HeapAlloc,
			"heapObjects", f.Mem.HeapObjects,
			"gcCycles", f.Mem.GCCycles,
			"goroutines", f.Sched.Goroutines,
		)
	})

	p.Frames = throttled
	p.handles = []closer{ticks, samples, mem, sched, joined, frames}

	return p
}

// Close stops the log pipe and releases every handle in the graph; the
// background tasks unwind as their downstream readers disappear.
func (p *Pipeline) Close() {
	p.logPipe.Close()
	p.Frames.Close()

	for _, h := range p.handles {
		h.Close()
	}
}
