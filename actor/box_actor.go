package actor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// BoxActor is the type-erased handle to an Actor[T], for callers that
// only learn the concrete state type at a call site rather than at the
// point where the actor was created. It preserves the typed handle's
// identity, equality, and lifecycle guarantees. Downcasting back to a
// concrete Actor[T] happens through the package-level InvokeBoxed, for the
// same reason CreateChannel and Invoke are package-level: methods cannot
// introduce their own type parameters.
type BoxActor interface {
	// Equal reports whether other refers to the same underlying actor.
	Equal(other BoxActor) bool

	// Hash is consistent with Equal.
	Hash() uint64

	// IsActive reports whether the actor is still accepting work.
	IsActive() bool

	// Shutdown/ShutdownImmediate mirror Actor[T]'s lifecycle controls
	// without requiring the caller to know T.
	Shutdown(ctx context.Context) error
	ShutdownImmediate(ctx context.Context) error
}

// boxActor is the concrete implementation of BoxActor for a specific T,
// kept unexported so the only way back to a typed call is through
// InvokeBoxed's type assertion.
type boxActor[T any] struct {
	actor   *Actor[T]
	control *Control
}

func (b *boxActor[T]) Equal(other BoxActor) bool {
	o, ok := other.(*boxActor[T])
	if !ok {
		return false
	}
	return b.actor == o.actor
}

func (b *boxActor[T]) Hash() uint64 {
	return uint64(reflect.ValueOf(b.actor).Pointer())
}

func (b *boxActor[T]) IsActive() bool {
	return b.control.IsActive()
}

func (b *boxActor[T]) Shutdown(ctx context.Context) error {
	return b.control.shutdownAndWait(ctx, false)
}

func (b *boxActor[T]) ShutdownImmediate(ctx context.Context) error {
	return b.control.shutdownAndWait(ctx, true)
}

// InvokeBoxed downcasts b to Actor[T] and runs f against its state,
// mirroring Invoke for callers that only hold a BoxActor. It returns a
// failed Future wrapping a descriptive error if b does not actually wrap
// an Actor[T] — for example if the caller guessed the wrong concrete
// state type for a given box.
func InvokeBoxed[T, R any](ctx context.Context, b BoxActor, f func(*T) (R, error)) Future[R] {
	concrete, ok := b.(*boxActor[T])
	if !ok {
		promise := NewPromise[R]()
		promise.Complete(fn.Err[R](Wrap(fmt.Errorf("invalid concrete type T for this BoxActor"))))
		return promise.Future()
	}

	return Invoke(ctx, concrete.actor, f)
}
