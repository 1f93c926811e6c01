package eventuals

import (
	"context"
	"sync"
)

// PipeHandle keeps a [Pipe] running. Closing it stops the side effect.
type PipeHandle struct {
	mu       sync.Mutex
	cancel   context.CancelFunc
	detached bool
}

// Close stops the pipe's background goroutine. Idempotent; a no-op after
// [PipeHandle.Forever].
func (h *PipeHandle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.detached || h.cancel == nil {
		return
	}

	h.cancel()
	h.cancel = nil
}

// Forever detaches the handle: the side effect keeps running until the
// source closes, regardless of what happens to the handle.
func (h *PipeHandle) Forever() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.detached = true
}

// Pipe invokes f for every observed snapshot of source, producing
// nothing downstream. The side effect stops when the returned handle is
// closed or when source closes, whichever comes first.
func Pipe[T comparable](source Source[T], f func(v T)) *PipeHandle {
	r := source.intoReader()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer r.Close()

		for {
			v, release, err := r.nextTracked(ctx)
			if err != nil {
				return
			}

			f(v)
			release()
		}
	}()

	return &PipeHandle{cancel: cancel}
}
