package actor

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// chanHandle is the shared, identity-bearing core behind every clone of a
// Sender[H, E]: the raw bounded channel, whose address is the identity
// used for equality and hashing, plus the Control shared with the rest of
// the actor, so any clone can query or initiate shutdown.
//
// closed/mu implement a close-without-panic discipline: Send holds the
// read lock for its entire attempt, and closeSend takes the write lock
// before closing ch, so the two can never race (see closeSend).
type chanHandle[E Failable] struct {
	ch      chan E
	control *Control

	mu     sync.RWMutex
	closed atomic.Bool
}

// Sender is the cheaply-cloneable handle callers use to submit events of
// type E to an actor whose handler type is H. All clones
// created from the same channel (via CreateChannel, or by copying a
// Sender value) compare equal and hash identically, because they all
// point at the same *chanHandle.
type Sender[H any, E Event[H]] struct {
	handle  *chanHandle[E]
	timeout time.Duration
}

// newSender wraps a freshly created channel/control pair.
func newSender[H any, E Event[H]](bound int, timeout time.Duration, control *Control) *Sender[H, E] {
	return &Sender[H, E]{
		handle: &chanHandle[E]{
			ch:      make(chan E, bound),
			control: control,
		},
		timeout: timeout,
	}
}

// Send forwards one event to the actor's channel, respecting the sender's
// configured timeout (default 10s) and the actor's lifecycle. It returns
// ErrDisconnected if the actor has already shut down or ctx is cancelled
// before the send completes, or ErrTimeout if the bounded channel stayed
// full for the entire timeout window.
func (s *Sender[H, E]) Send(ctx context.Context, ev E) error {
	h := s.handle

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed.Load() || !h.control.IsActive() {
		return ErrDisconnected
	}

	var timeoutCh <-chan time.Time
	if s.timeout > 0 {
		timer := time.NewTimer(s.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case h.ch <- ev:
		return nil

	case <-ctx.Done():
		return ErrDisconnected

	case <-h.control.Done():
		return ErrDisconnected

	case <-timeoutCh:
		return ErrTimeout
	}
}

// closeSend closes the channel so no further Send can ever succeed, then
// fails whatever was already buffered so a caller awaiting one of those
// events' replies observes ErrDisconnected instead of hanging forever.
// Only CreateChannel's internally-owned channel calls this, once its pump
// has stopped forwarding (see inject.go); AttachReceiver's caller-owned
// channels are never closed here.
//
// Holding the write lock for the whole operation is what makes this
// race-free: Send always holds the read lock for its entire attempt, so
// the write lock here cannot be acquired while a send is in flight,
// which means ch can never be closed out from under a concurrent Send.
func (h *chanHandle[E]) closeSend() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed.Load() {
		return
	}
	h.closed.Store(true)
	close(h.ch)

	for ev := range h.ch {
		ev.Fail()
	}
}

// IsActive reports whether the actor backing this sender is still
// accepting events.
func (s *Sender[H, E]) IsActive() bool {
	return s.handle.control.IsActive()
}

// Shutdown initiates a graceful shutdown of the actor this sender talks
// to and blocks until the driver confirms termination or ctx is
// cancelled. The driver drains the currently buffered chunk before
// exiting but does not guarantee draining events that arrive afterwards.
func (s *Sender[H, E]) Shutdown(ctx context.Context) error {
	return s.handle.control.shutdownAndWait(ctx, false)
}

// ShutdownImmediate stops the actor at once: no further chunks are
// dispatched after the current one (if any) in flight.
func (s *Sender[H, E]) ShutdownImmediate(ctx context.Context) error {
	return s.handle.control.shutdownAndWait(ctx, true)
}

// Equal reports whether two senders reference the same underlying
// channel, i.e. the same actor. It is an equivalence relation.
func (s *Sender[H, E]) Equal(other *Sender[H, E]) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.handle == other.handle
}

// Hash returns a hash consistent with Equal, suitable for storing senders
// in maps and sets.
func (s *Sender[H, E]) Hash() uint64 {
	return uint64(reflect.ValueOf(s.handle).Pointer())
}
