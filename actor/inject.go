package actor

import (
	"context"
	"sync/atomic"
	"time"
)

// ChannelFactory is the cloneable handle used to attach new event sources
// to a builder-constructed actor, both before and after it has been
// spawned. Every clone shares the same applicator channel, live-source
// counter, and Control, so a handler can hand out factory clones freely.
//
// Internally, each attached source gets its own pump goroutine (tracked
// via Control.trackPump, so graceful shutdown can wait for every one of
// them to exit) that forwards directly into the single shared applicator
// channel. Go has no native select over a dynamic set of channels, so
// one writer goroutine per source feeding one consumer channel is the
// idiomatic substitute.
type ChannelFactory[H any] struct {
	control   *Control
	bound     int
	timeout   time.Duration
	chunkSize int

	// applyCh is the single stream every attached source funnels into.
	// The multiplexer loop only ever reads from this one channel.
	applyCh chan Event[H]

	// sources counts currently-live pump goroutines across every clone
	// of this factory. When it drops to zero, every attached stream has
	// completed, and the multiplexer treats that as equivalent to a
	// shutdown request: an actor none of whose inputs can ever produce
	// another event has nothing left to live for.
	sources *atomic.Int64

	// everAttached guards against that rule firing before the first
	// source is ever attached: a builder spawned with no channels
	// created yet (the attach-after-spawn scenario attaches its first
	// source only once the multiplexer is already running) must block
	// waiting for work, not treat "zero sources so far" as "all sources
	// are done".
	everAttached *atomic.Bool
}

// newChannelFactory builds the shared state for one builder/multiplexer.
func newChannelFactory[H any](control *Control, cfg Config) *ChannelFactory[H] {
	return &ChannelFactory[H]{
		control:      control,
		bound:        cfg.ChannelBound,
		timeout:      cfg.SendTimeout,
		chunkSize:    cfg.ChunkSize,
		applyCh:      make(chan Event[H], cfg.ChunkSize),
		sources:      new(atomic.Int64),
		everAttached: new(atomic.Bool),
	}
}

// CreateChannel creates a new internally-owned, bounded channel of event
// type E and returns a Sender for it. A pump goroutine forwards every
// event sent on the returned Sender into the multiplexer's applicator
// stream. This is a package-level generic function, not a method, because
// Go does not allow a method to introduce a type parameter beyond those
// of its receiver.
func CreateChannel[H any, E Event[H]](f *ChannelFactory[H]) *Sender[H, E] {
	sender := newSender[H, E](f.bound, f.timeout, f.control)

	f.everAttached.Store(true)
	f.sources.Add(1)
	f.control.trackPump(func() {
		pump[H, E](f, sender.handle.ch)

		// The pump has stopped forwarding; close the channel it owns so
		// any Send racing the shutdown fails fast instead of piling up
		// behind a reader that will never come back, and fail whatever
		// is left buffered so its caller observes ErrDisconnected
		// instead of hanging.
		sender.handle.closeSend()
	})

	return sender
}

// AttachReceiver attaches an externally owned receive-only channel of
// events to the multiplexer. Unlike CreateChannel, the caller retains
// ownership of ch and may close it; doing so removes this source from
// the multiplexer without stopping the actor, unless it was the last
// live source.
func (f *ChannelFactory[H]) AttachReceiver(ch <-chan Event[H]) {
	f.everAttached.Store(true)
	f.sources.Add(1)
	f.control.trackPump(func() { pump[H, Event[H]](f, ch) })
}

// pump forwards every event from ch into the factory's shared applicator
// stream until ch closes or the actor reaches its terminal state,
// decrementing the live-source count exactly once on exit via the
// deferred call below. On the terminal-state exit path it also fails
// whatever is still sitting in ch unforwarded, so a caller awaiting one
// of those events never hangs past shutdown.
func pump[H any, E Event[H]](f *ChannelFactory[H], ch <-chan E) {
	defer func() {
		if f.sources.Add(-1) == 0 {
			f.control.ping()
		}
	}()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}

			select {
			case f.applyCh <- ev:
			case <-f.control.Done():
				ev.Fail()
				drainChan(ch)
				return
			}

		case <-f.control.Done():
			drainChan(ch)
			return
		}
	}
}

// drainChan fails, without blocking, every item currently buffered in ch.
// Used when a pump gives up forwarding into a terminated actor: whatever
// already arrived is completed with ErrDisconnected rather than left for
// no one to ever read.
func drainChan[E Failable](ch <-chan E) {
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			ev.Fail()
		default:
			return
		}
	}
}

// IsActive reports whether the actor this factory feeds is still
// accepting events.
func (f *ChannelFactory[H]) IsActive() bool {
	return f.control.IsActive()
}

// Shutdown initiates a graceful shutdown and blocks until the driver
// confirms termination or ctx is cancelled.
func (f *ChannelFactory[H]) Shutdown(ctx context.Context) error {
	return f.control.shutdownAndWait(ctx, false)
}

// ShutdownImmediate stops the actor at once.
func (f *ChannelFactory[H]) ShutdownImmediate(ctx context.Context) error {
	return f.control.shutdownAndWait(ctx, true)
}
