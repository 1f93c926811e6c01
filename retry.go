package eventuals

import (
	"context"
	"errors"
)

// RetryFactory produces one attempt of a retried computation. prevErr is
// nil for the first attempt and carries the payload error that triggered
// each subsequent one. The factory may block (a backoff sleep, say), but
// must honor ctx and return a non-nil channel.
type RetryFactory[T comparable] func(ctx context.Context, prevErr error) *Eventual[Try[T]]

// Retry maintains a succession of attempts produced by factory. Ok
// payloads from the current attempt flow downstream; an Err payload
// triggers a replacement attempt, unless the current attempt produces a
// fresher payload before the factory returns, in which case the fresher
// payload wins and the retry is obviated.
//
// When the current attempt closes, closure propagates downstream
// immediately and the factory is never invoked again.
func Retry[T comparable](factory RetryFactory[T]) *Eventual[T] {
	return retryWith(factory, nil)
}

func retryWith[T comparable](factory RetryFactory[T], cleanup func()) *Eventual[T] {
	return spawnLoop(func(ctx context.Context, w *Writer[T]) error {
		// Obviated factory calls still in flight. Every one of them is
		// joined before the loop ends, so a cleanup never runs under a
		// live factory.
		var obviated []<-chan *Eventual[Try[T]]

		defer func() {
			for _, ch := range obviated {
				(<-ch).Close()
			}

			if cleanup != nil {
				cleanup()
			}
		}()

		// Cancelled before the deferred join above runs, so an in-flight
		// factory call is told to give up rather than waited on blindly.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		r := subscribeAttempt(factory(ctx, nil))
		defer func() { r.Close() }()

		var pending Try[T]

		havePending := false

		for {
			var t Try[T]

			if havePending {
				t, havePending = pending, false
			} else {
				var err error

				t, err = r.Next(ctx)
				if err != nil {
					return err
				}
			}

			if t.Err == nil {
				w.Write(t.Value)

				continue
			}

			obviated = sweepAttempts(obviated)

			// Ask the factory for a replacement, racing it against the
			// current attempt recovering on its own.
			attemptCh := make(chan *Eventual[Try[T]], 1)

			go func(prev error) {
				attemptCh <- factory(ctx, prev)
			}(t.Err)

			raceCtx, raceCancel := context.WithCancel(ctx)
			fresh := make(chan Try[T], 1)
			raceErr := make(chan error, 1)
			cur := r

			go func() {
				v, err := cur.Next(raceCtx)
				if err != nil {
					raceErr <- err

					return
				}

				fresh <- v
			}()

			select {
			case v := <-fresh:
				raceCancel()

				pending, havePending = v, true
				obviated = append(obviated, attemptCh)

			case err := <-raceErr:
				raceCancel()

				// The current attempt closed while the factory was
				// still working: closure propagates downstream at once;
				// the late replacement is reaped by the deferred join.
				obviated = append(obviated, attemptCh)

				if errors.Is(err, ErrClosed) {
					return err
				}

				return ctx.Err()

			case a := <-attemptCh:
				raceCancel()

				// Join the racing read before touching r again; Next and
				// Close must not run concurrently on one reader.
				select {
				case v := <-fresh:
					// The current attempt recovered after all; the
					// fresher payload wins.
					pending, havePending = v, true

					a.Close()

				case err := <-raceErr:
					if errors.Is(err, ErrClosed) {
						a.Close()

						return err
					}

					if ctx.Err() != nil {
						a.Close()

						return ctx.Err()
					}

					r.Close()
					r = subscribeAttempt(a)
				}

			case <-ctx.Done():
				raceCancel()

				select {
				case <-fresh:
				case <-raceErr:
				}

				obviated = append(obviated, attemptCh)

				return ctx.Err()
			}
		}
	})
}

// subscribeAttempt subscribes to an attempt and releases its handle, so
// the attempt tears itself down as soon as the subscription ends.
func subscribeAttempt[T comparable](a *Eventual[Try[T]]) *Reader[Try[T]] {
	r := a.Subscribe()
	a.Close()

	return r
}

// sweepAttempts reaps obviated factory calls that have since completed.
func sweepAttempts[T comparable](pending []<-chan *Eventual[Try[T]]) []<-chan *Eventual[Try[T]] {
	kept := pending[:0]

	for _, ch := range pending {
		select {
		case a := <-ch:
			a.Close()
		default:
			kept = append(kept, ch)
		}
	}

	return kept
}

// MapWithRetry is [Map] for fallible functions: when f fails, onErr runs
// (typically a backoff sleep) and the failed input is re-delivered to a
// fresh attempt, unless the source produces a fresher value in the
// meantime, which obviates the retry. Once the source closes, closure
// propagates downstream and no further attempts are made.
func MapWithRetry[I, O comparable](
	source Source[I],
	f func(ctx context.Context, v I) (O, error),
	onErr func(ctx context.Context, err error),
) *Eventual[O] {
	base := source.intoReader()

	tryMap := func(ctx context.Context, v I) Try[O] {
		o, err := f(ctx, v)
		if err != nil {
			return Failure[O](err)
		}

		return Ok(o)
	}

	factory := func(ctx context.Context, prevErr error) *Eventual[Try[O]] {
		if prevErr != nil {
			onErr(ctx, prevErr)
		}

		// Re-deliver the value that just failed: without the forced
		// dirty, a clone would dedup it against the base reader's
		// history and the retry would never run.
		r := base.Clone()
		r.forceDirty()

		return Map(r, tryMap)
	}

	return retryWith(factory, func() { base.Close() })
}
