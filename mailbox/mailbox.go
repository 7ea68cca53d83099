// Package mailbox implements a latest-value-wins handoff between goroutines.
package mailbox

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is the sentinel error reported by a mailbox that is closed before
// a value could be delivered.
var ErrClosed = errors.New("mailbox is closed")

// A Mailbox is a single-slot buffer shared by a producer and one or more
// consumers. Sending never blocks: a value sent while an earlier value is
// still unread replaces it, so a receiver always gets the most recent value
// and intermediate values are dropped.
//
// A Mailbox supports two styles of consumer. Receive drains the slot, so each
// sent value is delivered to at most one receiver. Await does not consume, so
// all concurrent waiters observe the same published value.
//
// A zero Mailbox is ready for use, but must not be copied after first use.
type Mailbox[T any] struct {
	μ       sync.Mutex
	pending T      // the unread value, if full
	full    bool   // whether pending holds an unread value
	last    T      // the most recently sent value, if sent
	sent    bool   // whether any value has ever been sent
	dropped uint64 // unread values overwritten by Send
	closed  bool

	// The ready channel is lazily allocated by the first waiter, and is closed
	// and discarded by each Send and by Close.
	ready chan struct{}
}

// New constructs a new empty mailbox.
func New[T any]() *Mailbox[T] { return new(Mailbox[T]) }

// Send stores v as the unread value of m, discarding any earlier unread value,
// and wakes all goroutines blocked in Receive or Await. Send does not block.
// If m is closed, Send reports ErrClosed and v is not stored.
func (m *Mailbox[T]) Send(v T) error {
	m.μ.Lock()
	defer m.μ.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.full {
		m.dropped++
	}
	m.pending, m.full = v, true
	m.last, m.sent = v, true
	m.signalLocked()
	return nil
}

// Receive blocks until m has an unread value, then empties m and returns the
// most recently sent value. If ctx ends first, Receive reports ctx.Err(). If m
// is closed and empty, Receive reports ErrClosed.
func (m *Mailbox[T]) Receive(ctx context.Context) (T, error) {
	var zero T

	m.μ.Lock()
	for {
		if v, ok := m.takeLocked(); ok {
			m.μ.Unlock()
			return v, nil
		} else if m.closed {
			m.μ.Unlock()
			return zero, ErrClosed
		}
		ready := m.readyLocked()
		m.μ.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-ready:
		}
		m.μ.Lock()

		// Another receiver may have drained the slot before we got the lock.
	}
}

// TryReceive empties m and returns the most recently sent value, if m has an
// unread value. It reports whether a value was received. TryReceive does not
// block.
func (m *Mailbox[T]) TryReceive() (T, bool) {
	m.μ.Lock()
	defer m.μ.Unlock()
	return m.takeLocked()
}

// Await blocks until the most recently sent value satisfies match, and returns
// that value. If the latest value already satisfies match, Await returns it
// without blocking. Await does not consume the value, so every concurrent
// waiter is released by the same Send.
//
// Only the latest value is checked on each wakeup: a matching value that is
// overwritten before a waiter re-checks will be missed by that waiter.
//
// If ctx ends first, Await reports ctx.Err(). If m is closed, Await reports
// ErrClosed. The match function is called with the lock on m held, and must
// not call methods of m.
func (m *Mailbox[T]) Await(ctx context.Context, match func(T) bool) (T, error) {
	var zero T

	m.μ.Lock()
	for {
		if m.closed {
			m.μ.Unlock()
			return zero, ErrClosed
		} else if m.sent && match(m.last) {
			v := m.last
			m.μ.Unlock()
			return v, nil
		}
		ready := m.readyLocked()
		m.μ.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-ready:
		}
		m.μ.Lock()
	}
}

// Latest returns the most recently sent value, whether or not it has been
// received, and reports whether any value has been sent to m.
func (m *Mailbox[T]) Latest() (T, bool) {
	m.μ.Lock()
	defer m.μ.Unlock()
	return m.last, m.sent
}

// Dropped reports the number of sent values that were replaced by a later
// Send before any receiver took them.
func (m *Mailbox[T]) Dropped() uint64 {
	m.μ.Lock()
	defer m.μ.Unlock()
	return m.dropped
}

// Close closes m, which causes pending and future calls to Await, and calls
// to Receive on an empty mailbox, to report ErrClosed. An unread value sent
// before Close can still be received. If m is already closed, Close reports
// ErrClosed.
func (m *Mailbox[T]) Close() error {
	m.μ.Lock()
	defer m.μ.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	m.signalLocked()
	return nil
}

func (m *Mailbox[T]) takeLocked() (T, bool) {
	var zero T
	if !m.full {
		return zero, false
	}
	v := m.pending
	m.pending, m.full = zero, false
	return v, true
}

// readyLocked returns the current ready channel, allocating it if necessary.
// The caller must hold m.μ.
func (m *Mailbox[T]) readyLocked() <-chan struct{} {
	if m.ready == nil {
		m.ready = make(chan struct{})
	}
	return m.ready
}

// signalLocked wakes all pending waiters. The caller must hold m.μ.
func (m *Mailbox[T]) signalLocked() {
	if m.ready != nil {
		close(m.ready)
		m.ready = nil
	}
}
