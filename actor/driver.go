package actor

import (
	"context"
	"sync"
)

// Driver owns an actor's dispatch loop. It is deliberately inert until
// Run is called: the framework never spawns it itself. Callers are
// expected to do exactly `go driver.Run()` once, immediately after
// constructing the actor.
type Driver struct {
	runOnce sync.Once
	loop    func()
	done    chan struct{}
}

// newDriver wraps loop (the concrete dispatch loop for either flavor of
// actor) so it runs at most once.
func newDriver(loop func()) *Driver {
	return &Driver{loop: loop, done: make(chan struct{})}
}

// Run executes the driver's dispatch loop to completion. It is safe to
// call more than once; only the first call has any effect.
func (d *Driver) Run() {
	d.runOnce.Do(func() {
		defer close(d.done)

		log.DebugS(context.Background(), "Actor driver starting")
		d.loop()
		log.DebugS(context.Background(), "Actor driver terminated")
	})
}

// Done returns a channel closed once the driver's loop has fully exited:
// the actor has reached its terminal state, every queued event has been
// applied or failed, and the handler's shutdown hook (if any) has run.
// Control.Done, by contrast, closes at the start of that exit sequence,
// as soon as the terminal state is reached.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}
