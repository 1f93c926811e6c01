package eventuals

import (
	"context"
	"errors"
	"time"
)

// Throttle rate-limits source: each received value opens a window of d
// during which later upstream values replace the held one, and the final
// held value is written when the window closes.
//
// If source closes mid-window the held value is still delivered before
// the derived channel finalizes, preserving last-value convergence.
func Throttle[T comparable](source Source[T], d time.Duration) *Eventual[T] {
	r := source.intoReader()

	return spawnLoop(func(ctx context.Context, w *Writer[T]) error {
		defer r.Close()

		for {
			held, err := r.Next(ctx)
			if err != nil {
				return err
			}

			wctx, cancel := context.WithTimeout(ctx, d)

			for {
				v, nerr := r.Next(wctx)
				if nerr == nil {
					held = v

					continue
				}

				cancel()

				if ctx.Err() != nil {
					return ctx.Err()
				}

				w.Write(held)

				if errors.Is(nerr, ErrClosed) {
					return nerr
				}

				// Window elapsed; wait for the next value.
				break
			}
		}
	})
}
