// Package eventuals provides an eventually-consistent "latest value"
// broadcast primitive: a single writer publishes a monotonically replaced
// snapshot that any number of independent readers converge on.
//
// An eventual is not a stream or a queue. Intermediate values may be
// dropped; the only guarantee is that every live reader eventually
// observes the final value exactly once, never sees the same snapshot
// twice in a row, and never misses a write committed before it
// subscribed.
//
// Create a channel with [New], publish through the [Writer], and observe
// through [Reader.Next]:
//
//	writer, numbers := eventuals.New[int]()
//	defer numbers.Close()
//
//	reader := numbers.Subscribe()
//	defer reader.Close()
//
//	writer.Write(5)
//	v, err := reader.Next(ctx) // v == 5
//
//	writer.Close()
//	_, err = reader.Next(ctx) // err == ErrClosed
//
// Derived values are built with combinators ([Map], [Join2], [Throttle],
// [Pipe], [Timer], [Retry], [MapWithRetry]), each of which runs a
// background goroutine that is torn down as soon as nobody can observe
// its output. Handles and readers must be released with Close; closing
// the terminal handle of a combinator chain unwinds the whole chain.
package eventuals
