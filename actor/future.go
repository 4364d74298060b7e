package actor

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Future represents the result of an asynchronous computation submitted to
// an actor. It allows consumers to wait for the result (Await), apply
// transformations upon completion (ThenApply), or register a callback to
// be executed when the result is available (OnComplete).
//
// Every actor call (Invoke, InvokeBoxed, or a request event sent through
// a builder channel) produces one of these. Dropping a Future before it
// completes is always safe; it simply abandons interest in the result.
type Future[T any] interface {
	// Await blocks until the result is available or ctx is cancelled,
	// then returns it. A cancelled ctx yields fn.Err(ctx.Err()), not a
	// cancellation of the underlying computation.
	Await(ctx context.Context) fn.Result[T]

	// ThenApply registers a function to transform the result of a
	// future. The original future is not modified; a new Future is
	// returned. If ctx is cancelled before the original future
	// completes, the new future completes with the context's error.
	ThenApply(ctx context.Context, fn func(T) T) Future[T]

	// OnComplete registers a function to be called when the result is
	// ready. If ctx is cancelled before the future completes, fn is
	// invoked with a result carrying the context's error instead.
	OnComplete(ctx context.Context, fn func(fn.Result[T]))
}

// Promise is the producer-side counterpart to Future. The actor runtime
// completes a Promise at most once; callers observe the outcome through
// the associated Future.
type Promise[T any] interface {
	// Future returns the Future associated with this Promise.
	Future() Future[T]

	// Complete attempts to set the result. It returns true if this call
	// was the first to complete it, false if the promise was already
	// completed (a later call is a no-op, not an error).
	Complete(result fn.Result[T]) bool
}
