package eventuals

import "context"

// HandleErrors splits a channel of [Try] payloads: Ok values flow
// downstream, Err payloads are handed to onErr and dropped. The derived
// channel closes when source closes.
//
// Because intermediate values may be superseded, onErr sees an error
// only if it was still the current snapshot when the loop polled; this
// matches the latest-value contract of the library.
func HandleErrors[T comparable](source Source[Try[T]], onErr func(err error)) *Eventual[T] {
	r := source.intoReader()

	return spawnLoop(func(ctx context.Context, w *Writer[T]) error {
		defer r.Close()

		for {
			t, release, err := r.nextTracked(ctx)
			if err != nil {
				return err
			}

			if t.Err != nil {
				onErr(t.Err)
			} else {
				w.Write(t.Value)
			}

			release()
		}
	})
}
