package eventuals

import (
	"sync"
	"sync/atomic"
)

// sharedState is the heart of a channel: the snapshot cell, the
// subscriber registry, and the liveness bookkeeping shared by every
// handle.
//
// Liveness is an explicit reference count over [Eventual] handles and
// subscribed readers. When it reaches zero the channel is dead: the
// writer's Closed signal fires and subsequent writes become no-ops,
// since nobody is left to observe them.
type sharedState[T comparable] struct {
	cellMu sync.Mutex
	cell   update[T]

	subs subscriberSet[T]

	refs atomic.Int32
	dead atomic.Bool
	done chan struct{}
}

func newSharedState[T comparable]() *sharedState[T] {
	s := &sharedState[T]{done: make(chan struct{})}
	// The initial Eventual handle.
	s.refs.Store(1)

	return s
}

func (s *sharedState[T]) retain() {
	s.refs.Add(1)
}

func (s *sharedState[T]) release() {
	if s.refs.Add(-1) == 0 {
		s.dead.Store(true)
		close(s.done)
	}
}

// commit publishes an update to the snapshot cell and notifies every
// subscriber. Finalizing is terminal: once the writer has closed, every
// further commit is ignored. Closing over a live value buffers that
// value for one last delivery.
func (s *sharedState[T]) commit(u update[T]) {
	s.cellMu.Lock()

	if s.cell.kind == updateFinal {
		s.cellMu.Unlock()

		return
	}

	if u.kind == updateFinal && s.cell.kind == updateValue {
		u.value = s.cell.value
		u.hasValue = true
	}

	s.cell = u
	s.cellMu.Unlock()

	s.notifyAll()
}

// mutate runs f against the current cell value while holding the cell
// lock, commits the result, and notifies. This is the read-modify-write
// primitive backing [Writer.Update].
func (s *sharedState[T]) mutate(f func(prev T, ok bool) T) {
	s.cellMu.Lock()

	if s.cell.kind == updateFinal {
		s.cellMu.Unlock()

		return
	}

	v := f(s.cell.value, s.cell.kind == updateValue)
	s.cell = update[T]{kind: updateValue, value: v, hasValue: true}
	s.cellMu.Unlock()

	s.notifyAll()
}

func (s *sharedState[T]) notifyAll() {
	for c := range s.subs.snapshot() {
		s.notifyOne(c)
	}
}

// notifyOne moves the current snapshot into one slot.
//
// The cell lock is acquired first and held together with the slot lock
// across the copy. Without that, two racing commits could leave a slot
// holding the older value after the cell already holds the newer one,
// hiding the newer value from that subscriber forever. The worst outcome
// of the doubled lock is a duplicate notification, which the reader-side
// dedup absorbs. Parked readers are woken only after both locks are
// released, since a waker may re-enter the channel.
func (s *sharedState[T]) notifyOne(c *change[T]) {
	s.cellMu.Lock()
	notify := c.deliver(s.cell)
	s.cellMu.Unlock()

	if notify != nil {
		close(notify)
	}
}

// subscribe registers a new slot and primes it with the current
// snapshot. Registration happens first: a write racing with the
// subscription then lands on the slot either through the prime or
// through the registry iteration, but cannot slip past both.
func (s *sharedState[T]) subscribe() *change[T] {
	c := &change[T]{}
	s.subs.add(c)
	s.notifyOne(c)

	return c
}

func (s *sharedState[T]) unsubscribe(c *change[T]) {
	s.subs.remove(c)
	c.abandon()
}

// valueImmediate peeks at the cell without suspending. It reports a
// value for both live and finalized-with-value states.
func (s *sharedState[T]) valueImmediate() (T, bool) {
	s.cellMu.Lock()
	defer s.cellMu.Unlock()

	return s.cell.value, s.cell.hasValue
}
