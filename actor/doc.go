// Package actor implements an in-process actor runtime: isolated units of
// state, each owned by exactly one dispatch loop ("driver"), reachable
// only by sending typed messages over bounded channels.
//
// Two flavors are provided. Actor[T] (state_actor.go) owns a single value
// of type T and is driven through package-level Invoke/InvokeAsync/Cast
// closures — the direct equivalent of a simple Ask/Tell actor. Builder[H]
// (builder.go/multiplexer.go) composes any number of typed event streams,
// created up front or attached after the actor has started, into one
// handler of type H; each event variant implements Event[H] and applies
// itself against the handler.
//
// Both flavors share the same lifecycle primitives: Control's tri-state
// Active/PendingShutdown/Shutdown progression, a Driver that the caller
// runs explicitly with `go driver.Run()`, and Sender/BoxActor handles
// whose Equal/Hash are defined by the identity of the channel or state
// they wrap, not by value.
//
// A caller authors a handler type once:
//
//	type Counter struct{ n int }
//
//	type Increment struct {
//		actor.BaseEvent
//		By    int
//		Reply *actor.RespondToken[int]
//	}
//
//	func (e *Increment) Apply(c *Counter) {
//		c.n += e.By
//		e.Reply.Respond(c.n)
//	}
//
// and drives it either as a state actor (New[Counter], Invoke) or, for a
// handler that needs to multiplex several independent event sources, as a
// builder (NewBuilder[Counter], CreateChannel[Counter, *Increment]).
package actor
