package eventuals

import (
	"context"
	"time"
)

// Timer produces the current time immediately and then once per
// interval. The producing goroutine stops as soon as the last handle or
// reader is released.
func Timer(interval time.Duration) *Eventual[time.Time] {
	return spawnLoop(func(ctx context.Context, w *Writer[time.Time]) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			w.Write(time.Now())

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}
