package eventuals

import "context"

// spawnLoop is the shape every combinator shares: a fresh channel plus a
// background goroutine that reads upstream and writes downstream. The
// goroutine's context is cancelled as soon as the downstream channel has
// no remaining readers or handles, and the downstream writer is closed
// when the body returns, finalizing the channel for whoever is left.
func spawnLoop[T comparable](body func(ctx context.Context, w *Writer[T]) error) *Eventual[T] {
	w, e := New[T]()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		select {
		case <-w.Closed():
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		defer cancel()
		defer w.Close()

		_ = body(ctx, w)
	}()

	return e
}
