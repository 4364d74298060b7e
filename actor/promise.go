package actor

import (
	"context"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// promiseImpl is the concrete, channel-backed Future/Promise pair used
// throughout this package: sync.Once-guarded completion, a closed
// channel as the "ready" signal, context-aware waiting.
type promiseImpl[T any] struct {
	// done is closed exactly once, when the promise completes.
	done chan struct{}

	// completeOnce guards against completing the promise more than
	// once; a second Complete call is a harmless no-op.
	completeOnce sync.Once

	// mu protects result. Reads only happen after done is closed, but
	// the mutex avoids relying on channel-close as a memory barrier for
	// anything beyond happens-before of the close itself.
	mu     sync.Mutex
	result fn.Result[T]
}

// NewPromise creates an unset Promise[T]. The associated Future resolves
// once Complete is called.
func NewPromise[T any]() Promise[T] {
	return &promiseImpl[T]{done: make(chan struct{})}
}

// Future returns the Future view of this promise. The same underlying
// value implements both interfaces.
func (p *promiseImpl[T]) Future() Future[T] {
	return p
}

// Complete sets the promise's result. Only the first call has any effect;
// it returns true iff this call was the one that completed the promise.
func (p *promiseImpl[T]) Complete(result fn.Result[T]) bool {
	completed := false
	p.completeOnce.Do(func() {
		p.mu.Lock()
		p.result = result
		p.mu.Unlock()
		completed = true
		close(p.done)
	})
	return completed
}

// Await blocks until the promise completes or ctx is cancelled.
func (p *promiseImpl[T]) Await(ctx context.Context) fn.Result[T] {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.result

	case <-ctx.Done():
		return fn.Err[T](ctx.Err())
	}
}

// ThenApply returns a new Future that applies fn to this future's value
// once it resolves. Errors (including ctx cancellation) pass through
// unchanged.
func (p *promiseImpl[T]) ThenApply(
	ctx context.Context, fn func(T) T,
) Future[T] {

	next := NewPromise[T]()

	go func() {
		result := p.Await(ctx)

		val, err := result.Unpack()
		if err != nil {
			next.Complete(resultErr[T](err))
			return
		}

		next.Complete(resultOk(fn(val)))
	}()

	return next.Future()
}

// OnComplete invokes fn with this future's result once it resolves, on a
// dedicated goroutine. If ctx is cancelled first, fn receives the
// context's error instead.
func (p *promiseImpl[T]) OnComplete(ctx context.Context, fn func(fn.Result[T])) {
	go func() {
		fn(p.Await(ctx))
	}()
}

// resultOk and resultErr exist only to avoid importing fn twice under two
// names inside ThenApply's closure parameter (which shadows the package
// name "fn"); they are thin aliases for fn.Ok/fn.Err.
func resultOk[T any](v T) fn.Result[T] {
	return fn.Ok(v)
}

func resultErr[T any](err error) fn.Result[T] {
	return fn.Err[T](err)
}
