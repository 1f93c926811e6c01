package monitor

import (
	"runtime"
	"time"
)

// Sample is one observation of the Go runtime. The timestamp makes every
// sample distinct, so the raw feed never deduplicates; the derived views
// drop it and settle once the runtime is quiet.
type Sample struct {
	At          time.Time
	HeapAlloc   uint64
	HeapObjects uint64
	GCCycles    uint32
	Goroutines  int
}

// TakeSample reads the runtime counters, stamped with at.
func TakeSample(at time.Time) Sample {
	var ms runtime.MemStats

	runtime.ReadMemStats(&ms)

	return Sample{
		At:          at,
		HeapAlloc:   ms.HeapAlloc,
		HeapObjects: ms.HeapObjects,
		GCCycles:    ms.NumGC,
		Goroutines:  runtime.NumGoroutine(),
	}
}

// MemView is the memory half of a dashboard frame.
type MemView struct {
	HeapAlloc   uint64
	HeapObjects uint64
	GCCycles    uint32
}

// SchedView is the scheduler half of a dashboard frame.
type SchedView struct {
	Goroutines int
	CPUs       int
}

// Frame is one joined dashboard refresh.
type Frame struct {
	Mem   MemView
	Sched SchedView
}

// Mem projects the memory view out of a sample.
func (s Sample) Mem() MemView {
	return MemView{
		HeapAlloc:   s.HeapAlloc,
		HeapObjects: s.HeapObjects,
		GCCycles:    s.GCCycles,
	}
}

// Sched projects the scheduler view out of a sample.
func (s Sample) Sched() SchedView {
	return SchedView{
		Goroutines: s.Goroutines,
		CPUs:       runtime.NumCPU(),
	}
}
