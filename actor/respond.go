package actor

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// RespondToken is the one-shot, write-once reply path attached to every
// request-style Event. It owns the reply promise and an
// identifier used purely for tracing/log correlation; consuming it
// completes the caller's Future with the reply value only (the captured
// context stays on the token and is not sent back). Close-ing it, which an
// event's Fail does when the driver discards the event unapplied, causes
// the caller's Await to observe ErrDisconnected rather than hang. A token
// that is simply abandoned without Respond, RespondErr or Close never
// completes; the caller's Await then returns only when its ctx ends.
type RespondToken[T any] struct {
	id  uuid.UUID
	ctx context.Context

	once    sync.Once
	promise Promise[T]
}

// NewRespondToken creates a token bound to callerCtx plus the Future the
// eventual caller awaits. callerCtx is the caller's captured tracing
// context: stashed on the token, readable by handlers through Context,
// and passed to the log calls of Respond, RespondErr and Close. It is not
// carried back with the reply.
func NewRespondToken[T any](callerCtx context.Context) (*RespondToken[T], Future[T]) {
	promise := NewPromise[T]()

	token := &RespondToken[T]{
		id:      uuid.New(),
		ctx:     callerCtx,
		promise: promise,
	}

	return token, promise.Future()
}

// ID returns the token's tracing identifier.
func (t *RespondToken[T]) ID() uuid.UUID {
	return t.id
}

// Context returns the caller's captured context, for handlers that need
// to respect request-scoped deadlines while doing non-awaiting work.
func (t *RespondToken[T]) Context() context.Context {
	return t.ctx
}

// Respond completes the token with a successful value. Only the first
// call (across Respond/RespondErr/Close) has any effect.
func (t *RespondToken[T]) Respond(value T) {
	t.once.Do(func() {
		log.TraceS(t.ctx, "Respond token completed", "token_id", t.id)

		t.promise.Complete(fn.Ok(value))
	})
}

// RespondErr completes the token with a domain error, delivered to the
// caller wrapped as an OtherError.
func (t *RespondToken[T]) RespondErr(err error) {
	t.once.Do(func() {
		log.TraceS(t.ctx, "Respond token completed with error",
			"token_id", t.id, "err", err)

		t.promise.Complete(fn.Err[T](Wrap(err)))
	})
}

// Close completes the token with ErrDisconnected if it has not already
// been responded to. Event types that embed a RespondToken should call
// this from their Fail method, which the framework invokes instead of
// Apply when an event is dropped unapplied, so that no caller is left
// awaiting forever.
func (t *RespondToken[T]) Close() {
	t.once.Do(func() {
		log.DebugS(t.ctx, "Respond token dropped without reply",
			"token_id", t.id)

		t.promise.Complete(fn.Err[T](ErrDisconnected))
	})
}
