package eventuals

import "context"

// Reader is one subscription on a channel. It is not safe for concurrent
// use; clone it to read from several goroutines.
//
// It is tempting to treat a Reader as a stream, but the semantics are
// deliberately different: a stream is a progressively available sequence
// of distinct values, while a Reader tracks an eventually consistent
// "latest" value that infers no sequence and may drop intermediates.
type Reader[T comparable] struct {
	state  *sharedState[T]
	change *change[T]
	prev   observation[T]
	closed bool
}

// Next blocks until a value different from the last one this reader
// observed is available, the channel closes, or ctx is done.
//
// Successive calls never return the same value twice in a row; a write
// that merely re-commits the current value does not wake the reader.
// After the channel closes, Next returns [ErrClosed] forever. A call
// abandoned through ctx returns ctx's error and leaves the subscription
// intact.
func (r *Reader[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if r.closed {
		return zero, ErrClosed
	}

	v, _, err := r.next(ctx, false)

	return v, err
}

// nextTracked is Next for combinator loops: the pending-work count held
// by the delivered value transfers to the caller instead of being
// released, and the returned function releases it once the work on the
// value is done.
func (r *Reader[T]) nextTracked(ctx context.Context) (T, func(), error) {
	var zero T

	if r.closed {
		return zero, nil, ErrClosed
	}

	v, transferred, err := r.next(ctx, true)
	if err != nil {
		return zero, nil, err
	}

	release := func() {}
	if transferred {
		release = func() { pendingWork.add(-1) }
	}

	return v, release, nil
}

func (r *Reader[T]) next(ctx context.Context, transfer bool) (T, bool, error) {
	var zero T

	for {
		v, res, notify, transferred := r.change.poll(r.prev, transfer)

		switch res {
		case pollValue:
			r.prev = observation[T]{value: v, seen: true}

			return v, transferred, nil

		case pollClosed:
			r.prev = observation[T]{seen: true, isClosed: true}

			return zero, false, ErrClosed
		}

		select {
		case <-notify:
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}
}

// Clone subscribes a new reader that behaves as if it were this one from
// this point forward: the duplicate starts primed with the current
// snapshot but inherits the dedup state, so it does not re-observe what
// this reader has already returned.
func (r *Reader[T]) Clone() *Reader[T] {
	if r.closed {
		panic("eventuals: Clone of a closed Reader")
	}

	r.state.retain()

	return &Reader[T]{state: r.state, change: r.state.subscribe(), prev: r.prev}
}

// Close removes the subscription from the channel. Idempotent.
func (r *Reader[T]) Close() {
	if r.closed {
		return
	}

	r.closed = true
	r.state.unsubscribe(r.change)
	r.state.release()
}

// forceDirty clears the dedup state so the current snapshot is
// re-delivered even when it equals the last observation. Only
// [MapWithRetry] uses this: a failed input must be retried even though
// the source still holds it.
func (r *Reader[T]) forceDirty() {
	r.prev = observation[T]{}
}
