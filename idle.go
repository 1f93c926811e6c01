package eventuals

import (
	"context"
	"sync"
)

// pendingWork counts, process-wide, the slot updates not yet observed by
// their readers plus the combinator callbacks currently in flight. Tests
// use it through [Idle] to await quiescence instead of sleeping.
var pendingWork workCounter

type workCounter struct {
	mu     sync.Mutex
	count  int64
	waiter chan struct{}
}

func (w *workCounter) add(delta int64) {
	w.mu.Lock()

	w.count += delta
	if w.count < 0 {
		panic("eventuals: pending work underflow")
	}

	if w.count == 0 && w.waiter != nil {
		close(w.waiter)
		w.waiter = nil
	}

	w.mu.Unlock()
}

// Idle blocks until no slot holds an undelivered value and no combinator
// callback is mid-flight, or until ctx is done.
//
// Quiescence is instantaneous: a write landing right after Idle returns
// makes the system busy again. The intended use is test choreography,
// where the producers are under the caller's control.
func Idle(ctx context.Context) error {
	for {
		pendingWork.mu.Lock()

		if pendingWork.count == 0 {
			pendingWork.mu.Unlock()

			return nil
		}

		if pendingWork.waiter == nil {
			pendingWork.waiter = make(chan struct{})
		}

		ch := pendingWork.waiter
		pendingWork.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
