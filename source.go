package eventuals

// A Source is anything a combinator can read from: an [Eventual], which
// contributes a fresh subscription, or a [Reader], which is consumed by
// the combinator and closed when the combinator's task ends.
type Source[T comparable] interface {
	intoReader() *Reader[T]
}

func (e *Eventual[T]) intoReader() *Reader[T] {
	return e.Subscribe()
}

func (r *Reader[T]) intoReader() *Reader[T] {
	return r
}
