package eventuals

import "context"

// Map derives a channel by applying f to each observed snapshot of
// source. Snapshots that are superseded before f gets to them are
// skipped; only the latest value matters.
//
// f runs on a background goroutine. A panic in f is not recovered: like
// any unrecovered goroutine panic, it terminates the program. The derived
// channel closes when source closes, and f is abandoned (through ctx)
// when nobody can observe the output anymore.
func Map[I, O comparable](source Source[I], f func(ctx context.Context, v I) O) *Eventual[O] {
	r := source.intoReader()

	return spawnLoop(func(ctx context.Context, w *Writer[O]) error {
		defer r.Close()

		for {
			v, release, err := r.nextTracked(ctx)
			if err != nil {
				return err
			}

			out := f(ctx, v)

			if ctx.Err() != nil {
				release()

				return ctx.Err()
			}

			w.Write(out)
			release()
		}
	})
}
