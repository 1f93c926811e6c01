package eventuals

// Try carries either a value or an error as ordinary channel payload.
//
// An error inside a Try is data flowing through the channel, not channel
// state: the channel itself only ever closes through its writer. [Retry],
// [MapWithRetry], and [HandleErrors] consume Try payloads.
//
// The wrapped error participates in the comparability requirement; use
// sentinel or otherwise comparable error values.
type Try[T comparable] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T comparable](v T) Try[T] {
	return Try[T]{Value: v}
}

// Failure wraps an error.
func Failure[T comparable](err error) Try[T] {
	return Try[T]{Err: err}
}

// IsErr reports whether the Try carries an error.
func (t Try[T]) IsErr() bool {
	return t.Err != nil
}
