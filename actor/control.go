package actor

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// controlState enumerates the three-state lifecycle shared by every
// driver flavor in this package (Actor[T] and the builder/multiplexer
// alike): Active accepts sends and dispatches events; PendingShutdown
// refuses new sends but still dispatches whatever is already buffered,
// and a later immediate request can still advance it to Shutdown;
// Shutdown dispatches nothing further. The state only ever moves forward.
type controlState int32

const (
	stateActive controlState = iota
	statePendingShutdown
	stateShutdown
)

// Control is the lifecycle state shared by everything attached to one
// actor: a sequentially-consistent tri-state atomic, a list of
// one-shot wakers to notify on shutdown completion, and an interrupt
// channel used to break a driver out of a pending select. Every Sender
// clone and every BoxActor built from the same underlying channel shares
// one *Control, so any of them can observe or initiate shutdown.
type Control struct {
	state atomic.Int32

	// mu guards wakers and the lazily-created done channel.
	mu     sync.Mutex
	wakers []chan struct{}
	done   chan struct{}

	// interrupt carries no-op pings that wake a driver blocked in a
	// select, so it notices a state transition or the last live source
	// completing without a dedicated poll loop.
	interrupt chan struct{}

	// pumps tracks every background goroutine spawned on this actor's
	// behalf (inject.go's per-source pumps; nothing for a plain
	// Actor[T], which has none). Graceful shutdown waits on it so that
	// a caller blocking on Shutdown observes every attached source's
	// forwarding goroutine having actually exited, not merely the
	// driver loop's own termination.
	pumps errgroup.Group
}

// newControl returns a fresh Control in the Active state.
func newControl() *Control {
	return &Control{
		done:      make(chan struct{}),
		interrupt: make(chan struct{}, 1),
	}
}

// snapshot reads the current state with sequential consistency.
func (c *Control) snapshot() controlState {
	return controlState(c.state.Load())
}

// IsActive reports whether the actor is still accepting new work.
func (c *Control) IsActive() bool {
	return c.snapshot() == stateActive
}

// IsShutdown reports whether the actor has fully terminated.
func (c *Control) IsShutdown() bool {
	return c.snapshot() == stateShutdown
}

// Done returns a channel that is closed once the actor reaches the
// terminal Shutdown state. It is safe to select on from any goroutine.
func (c *Control) Done() <-chan struct{} {
	return c.done
}

// ping wakes a driver blocked in a select on the interrupt channel. It
// never blocks: a pending, undelivered ping already guarantees the next
// select wakes up, so additional pings while one is outstanding are
// dropped.
func (c *Control) ping() {
	select {
	case c.interrupt <- struct{}{}:
	default:
	}
}

// Interrupt exposes the wake channel for driver loops to select on
// alongside their event source(s).
func (c *Control) Interrupt() <-chan struct{} {
	return c.interrupt
}

// requestShutdown advances the state towards PendingShutdown (graceful)
// or directly to Shutdown (immediate), never moving it backwards, and
// returns a channel that closes once the driver has actually reached the
// terminal state. Once the state is already Shutdown it returns Done(),
// which is closed as soon as the driver has run finish() (immediately, if
// it already has), making repeated Shutdown calls idempotent.
func (c *Control) requestShutdown(immediate bool) <-chan struct{} {
	waker := make(chan struct{})

	c.mu.Lock()
	if controlState(c.state.Load()) == stateShutdown {
		c.mu.Unlock()
		return c.done
	}
	c.wakers = append(c.wakers, waker)
	c.mu.Unlock()

	log.DebugS(context.Background(), "Actor shutdown requested",
		"immediate", immediate)

	target := statePendingShutdown
	if immediate {
		target = stateShutdown
	}
	for {
		cur := controlState(c.state.Load())
		if cur >= target {
			break
		}
		if c.state.CompareAndSwap(int32(cur), int32(target)) {
			break
		}
	}
	c.ping()

	return waker
}

// shutdownAndWait requests shutdown and blocks until the driver confirms
// termination or ctx is cancelled first. A graceful request additionally
// waits (still bounded by ctx) for every tracked pump goroutine to exit,
// so the caller observes a fully quiesced actor rather than just a
// terminated driver loop; an immediate request skips that extra wait
// since it makes no draining promise to begin with.
func (c *Control) shutdownAndWait(ctx context.Context, immediate bool) error {
	waker := c.requestShutdown(immediate)

	select {
	case <-waker:
	case <-ctx.Done():
		return ctx.Err()
	}

	if immediate {
		return nil
	}
	return c.waitPumps(ctx)
}

// trackPump runs fn on its own goroutine and registers it with the
// shared errgroup so waitPumps can block until it (and every other
// tracked goroutine) has returned.
func (c *Control) trackPump(fn func()) {
	c.pumps.Go(func() error {
		fn()
		return nil
	})
}

// waitPumps blocks until every goroutine registered via trackPump has
// exited, or ctx is cancelled first.
func (c *Control) waitPumps(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pumps.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish transitions the actor to Shutdown unconditionally and fires
// every pending waker, plus closes Done(). It must be called exactly
// once, by the driver loop, as the first step of its exit sequence:
// every other exit-time cleanup (waiting out pumps, draining whatever
// never got dispatched, running the handler's ShutdownHook) happens
// after this returns, and the pump drain in particular depends on
// Done() already being closed.
func (c *Control) finish() {
	c.state.Store(int32(stateShutdown))

	c.mu.Lock()
	wakers := c.wakers
	c.wakers = nil
	c.mu.Unlock()

	for _, w := range wakers {
		close(w)
	}
	close(c.done)

	log.DebugS(context.Background(), "Actor reached terminal state")
}
