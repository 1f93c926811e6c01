package eventuals

import (
	"context"
	"errors"
	"sync"
)

// Tuple2 pairs the latest values of two joined channels.
type Tuple2[A, B comparable] struct {
	A A
	B B
}

// Tuple3 groups the latest values of three joined channels.
type Tuple3[A, B, C comparable] struct {
	A A
	B B
	C C
}

// Join2 waits until both sources have produced at least one value, then
// emits a fresh pair on every subsequent update of either source.
//
// A source that closes stops contributing updates but its last value
// remains part of the pair. The joined channel closes once every source
// has closed, or immediately if a source closes without ever producing a
// value, since the pair could then never be completed.
func Join2[A, B comparable](a Source[A], b Source[B]) *Eventual[Tuple2[A, B]] {
	ra := a.intoReader()
	rb := b.intoReader()

	return spawnLoop(func(ctx context.Context, w *Writer[Tuple2[A, B]]) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var (
			mu           sync.Mutex
			cur          Tuple2[A, B]
			haveA, haveB bool
		)

		kick := make(chan struct{}, 1)
		ended := make(chan bool, 2)

		go feedJoin(ctx, ra, kick, ended, func(v A) {
			mu.Lock()
			cur.A = v
			haveA = true
			mu.Unlock()
		})
		go feedJoin(ctx, rb, kick, ended, func(v B) {
			mu.Lock()
			cur.B = v
			haveB = true
			mu.Unlock()
		})

		flush := func() {
			mu.Lock()
			ready := haveA && haveB
			out := cur
			mu.Unlock()

			if ready {
				w.Write(out)
			}
		}

		return runJoin(ctx, 2, kick, ended, flush)
	})
}

// Join3 is [Join2] over three sources.
func Join3[A, B, C comparable](a Source[A], b Source[B], c Source[C]) *Eventual[Tuple3[A, B, C]] {
	ra := a.intoReader()
	rb := b.intoReader()
	rc := c.intoReader()

	return spawnLoop(func(ctx context.Context, w *Writer[Tuple3[A, B, C]]) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var (
			mu                  sync.Mutex
			cur                 Tuple3[A, B, C]
			haveA, haveB, haveC bool
		)

		kick := make(chan struct{}, 1)
		ended := make(chan bool, 3)

		go feedJoin(ctx, ra, kick, ended, func(v A) {
			mu.Lock()
			cur.A = v
			haveA = true
			mu.Unlock()
		})
		go feedJoin(ctx, rb, kick, ended, func(v B) {
			mu.Lock()
			cur.B = v
			haveB = true
			mu.Unlock()
		})
		go feedJoin(ctx, rc, kick, ended, func(v C) {
			mu.Lock()
			cur.C = v
			haveC = true
			mu.Unlock()
		})

		flush := func() {
			mu.Lock()
			ready := haveA && haveB && haveC
			out := cur
			mu.Unlock()

			if ready {
				w.Write(out)
			}
		}

		return runJoin(ctx, 3, kick, ended, flush)
	})
}

// runJoin is the shared writer loop of the joins: flush a tuple on every
// kick, retire inputs as they close, and finish when all inputs are gone
// or an input closed barren.
func runJoin(ctx context.Context, live int, kick <-chan struct{}, ended <-chan bool, flush func()) error {
	for {
		select {
		case <-kick:
			flush()

		case produced := <-ended:
			if !produced {
				return ErrClosed
			}

			live--
			if live == 0 {
				// The inputs may have raced one last value in ahead of
				// closing; a duplicate flush is absorbed by readers.
				flush()

				return ErrClosed
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// feedJoin pumps one join input: every value lands in the shared tuple
// through set and nudges the writer loop. On close it reports whether
// the input ever produced a value. The kick channel is a coalescing
// doorbell; a dropped send means a kick is already pending, and the
// writer loop reads the shared tuple fresh each time.
func feedJoin[T comparable](ctx context.Context, r *Reader[T], kick chan<- struct{}, ended chan<- bool, set func(T)) {
	defer r.Close()

	produced := false

	for {
		v, err := r.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				ended <- produced
			}

			return
		}

		produced = true
		set(v)

		select {
		case kick <- struct{}{}:
		default:
		}
	}
}
