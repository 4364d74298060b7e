package actor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// invocation is the queued unit of work behind Invoke/InvokeAsync/Cast: a
// closure over the actor's state plus, for Invoke/InvokeAsync, a fail
// closure that completes the caller's promise with ErrDisconnected if the
// invocation is dropped unrun. Using a closure instead of a concrete
// Event[H] variant keeps the call site a bare function rather than a
// hand-written message type per call shape.
type invocation[T any] struct {
	run  func(*T)
	fail func()
}

// Fail completes run's caller with ErrDisconnected, if it has one. Cast's
// fire-and-forget invocations have no caller awaiting a result, so fail
// is nil and this is a no-op.
func (inv invocation[T]) Fail() {
	if inv.fail != nil {
		inv.fail()
	}
}

// Actor owns a single value of type T and serializes every access to it
// through one dispatch loop. Unlike the builder/multiplexer flavor,
// callers never define their own Event variants; Invoke/InvokeAsync/Cast
// accept a plain closure instead.
//
// closed/mu implement the same close-without-panic discipline as
// chanHandle: enqueue/tryEnqueue hold the read lock for their entire
// send attempt, and closeQueue takes the write lock before closing
// queue, so the two can never race.
type Actor[T any] struct {
	queue   chan invocation[T]
	chunk   int
	control *Control

	mu     sync.RWMutex
	closed atomic.Bool
}

// enqueue submits inv for execution, blocking until it is accepted, ctx is
// cancelled, or the actor reaches its terminal state.
func (a *Actor[T]) enqueue(ctx context.Context, inv invocation[T]) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed.Load() || !a.control.IsActive() {
		return ErrDisconnected
	}

	select {
	case a.queue <- inv:
		return nil
	case <-ctx.Done():
		return ErrDisconnected
	case <-a.control.Done():
		return ErrDisconnected
	}
}

// tryEnqueue submits inv without blocking, used by Cast. It reports
// ErrDisconnected if the actor is closed or no longer active, or the queue
// is currently full.
func (a *Actor[T]) tryEnqueue(inv invocation[T]) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed.Load() || !a.control.IsActive() {
		return ErrDisconnected
	}

	select {
	case a.queue <- inv:
		return nil
	default:
		return ErrDisconnected
	}
}

// closeQueue closes the queue so no further enqueue can ever succeed,
// then fails whatever was already buffered so none of those callers are
// left awaiting a reply that will never come.
// Called exactly once, by the driver loop, after it has stopped
// dispatching. Holding the write lock for the whole operation is what
// makes this race-free, mirroring chanHandle.closeSend.
func (a *Actor[T]) closeQueue() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed.Load() {
		return
	}
	a.closed.Store(true)
	close(a.queue)

	for inv := range a.queue {
		inv.Fail()
	}
}

// IsActive reports whether the actor is still accepting new invocations.
func (a *Actor[T]) IsActive() bool {
	return a.control.IsActive()
}

// Shutdown initiates a graceful shutdown and blocks until the driver
// confirms termination or ctx is cancelled.
func (a *Actor[T]) Shutdown(ctx context.Context) error {
	return a.control.shutdownAndWait(ctx, false)
}

// ShutdownImmediate stops the actor at once.
func (a *Actor[T]) ShutdownImmediate(ctx context.Context) error {
	return a.control.shutdownAndWait(ctx, true)
}

// ToBoxed erases a's concrete state type, yielding a handle comparable
// and usable alongside BoxActors for other state types.
func (a *Actor[T]) ToBoxed() BoxActor {
	return &boxActor[T]{actor: a, control: a.control}
}

// New constructs a state actor seeded with initial and returns its Driver.
// As with every driver in this package, the caller is responsible for
// `go driver.Run()`.
func New[T any](cfg Config, initial T) (*Actor[T], *Driver) {
	cfg = cfg.withDefaults(DefaultActorChunkSize)

	control := newControl()
	a := &Actor[T]{
		queue:   make(chan invocation[T], cfg.ChannelBound),
		chunk:   cfg.ChunkSize,
		control: control,
	}

	state := initial
	loop := func() {
		for {
			if control.IsShutdown() {
				break
			}

			drained := drainStateChunk(a.queue, &state, a.chunk)

			if control.IsShutdown() {
				break
			}

			if !control.IsActive() && len(a.queue) == 0 {
				break
			}

			if drained > 0 {
				continue
			}

			select {
			case inv := <-a.queue:
				inv.run(&state)
			case <-control.Interrupt():
			}
		}

		// finish() closes Control.Done() first, so no enqueue attempt
		// can block past this point; closeQueue then runs as the
		// driver's last act, so
		// there is no window after it returns during which something
		// could still be racing to enqueue against this actor.
		control.finish()
		a.closeQueue()
	}

	return a, newDriver(loop)
}

// drainStateChunk applies up to chunkSize already-queued invocations
// without blocking, returning how many it processed.
func drainStateChunk[T any](queue chan invocation[T], state *T, chunkSize int) int {
	n := 0
	for n < chunkSize {
		select {
		case inv := <-queue:
			inv.run(state)
			n++
		default:
			return n
		}
	}
	return n
}

// Invoke runs f against the actor's state from its own dispatch loop and
// returns a Future for f's result. It is a package-level generic function
// rather than a method because Go does not allow a method to introduce a
// type parameter of its own beyond the receiver's (T here is already
// fixed by *Actor[T]; R is the call-specific return type).
func Invoke[T, R any](ctx context.Context, a *Actor[T], f func(*T) (R, error)) Future[R] {
	promise := NewPromise[R]()

	inv := invocation[T]{
		run: func(state *T) {
			v, err := f(state)
			if err != nil {
				promise.Complete(fn.Err[R](Wrap(err)))
				return
			}
			promise.Complete(fn.Ok(v))
		},
		fail: func() {
			promise.Complete(fn.Err[R](ErrDisconnected))
		},
	}

	if err := a.enqueue(ctx, inv); err != nil {
		promise.Complete(fn.Err[R](ErrDisconnected))
	}

	return promise.Future()
}

// InvokeAsync runs f's synchronous stage against the actor's state, then
// lets it hand back a continuation that performs any awaiting work
// *outside* the dispatch loop, keeping the state-borrowed critical
// section short. f runs on the driver task like an ordinary Invoke
// closure and must not block; if it returns a non-nil continuation, that
// continuation runs on its own goroutine, and the returned Future
// resolves with the continuation's result instead of f's own (R, error).
// A nil continuation resolves the Future with f's own result immediately,
// making InvokeAsync a strict generalization of Invoke.
func InvokeAsync[T, R any](
	ctx context.Context, a *Actor[T],
	f func(*T) (R, error, func(context.Context) (R, error)),
) Future[R] {

	promise := NewPromise[R]()

	inv := invocation[T]{
		run: func(state *T) {
			v, err, cont := f(state)
			if err != nil {
				promise.Complete(fn.Err[R](Wrap(err)))
				return
			}
			if cont == nil {
				promise.Complete(fn.Ok(v))
				return
			}

			go func() {
				v, err := cont(ctx)
				if err != nil {
					promise.Complete(fn.Err[R](Wrap(err)))
					return
				}
				promise.Complete(fn.Ok(v))
			}()
		},
		fail: func() {
			promise.Complete(fn.Err[R](ErrDisconnected))
		},
	}

	if err := a.enqueue(ctx, inv); err != nil {
		promise.Complete(fn.Err[R](ErrDisconnected))
	}

	return promise.Future()
}

// Cast queues f as fire-and-forget work: a non-blocking send that reports
// ErrDisconnected immediately (without running f) if the queue is full or
// the actor is shutting down or terminated, instead of blocking the caller. There
// is no result to await; f communicates any effect through captured state
// (a callback, a channel it closes). Named after the common actor-model
// "cast" (as opposed to "call"/Invoke, which waits for a reply).
func Cast[T any](a *Actor[T], f func(*T)) error {
	return a.tryEnqueue(invocation[T]{run: f})
}
