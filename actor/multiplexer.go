package actor

import "context"

// ShutdownHook lets a multiplexer handler run cleanup work exactly once,
// after the driver has stopped dispatching, Done() has closed, and every
// attached source's pump goroutine has exited and been drained. Implement
// it on *H if the handler needs to release resources; it is entirely
// optional. Only the builder/multiplexer driver checks for it; the typed
// Actor[T] driver never calls OnShutdown on its state.
type ShutdownHook interface {
	OnShutdown()
}

// newMultiplexerDriver builds the Driver for a builder-constructed actor.
// The loop drains up to chunkSize ready events per iteration without
// blocking, applies each to the handler, and only blocks for more work
// (or an interrupt) once the channel has run dry. Every attached source
// already funnels into f.applyCh via its own pump goroutine (inject.go),
// so the loop itself only ever reads from one channel.
func newMultiplexerDriver[H any](f *ChannelFactory[H], handler H, chunkSize int) *Driver {
	control := f.control

	loop := func() {
		for {
			if control.IsShutdown() {
				break
			}

			drained := drainChunk(f, &handler, chunkSize)

			if control.IsShutdown() {
				break
			}

			if !control.IsActive() && drained == 0 {
				// PendingShutdown and nothing left buffered: a
				// graceful shutdown has nothing further to wait
				// for.
				break
			}

			if f.everAttached.Load() && f.sources.Load() == 0 && control.IsActive() {
				// Every attached stream has completed and no
				// shutdown was ever requested: terminate as if
				// one had been.
				break
			}

			if drained > 0 {
				continue
			}

			select {
			case ev := <-f.applyCh:
				ev.Apply(&handler)
			case <-control.Interrupt():
			}
		}

		// Order matters here: flip to Shutdown and fire wakers, then
		// wait, drain, and run the shutdown hook last. finish()
		// closes Done() first, which is also what makes the drain
		// below race-free: every pump's own select watches Done(), so
		// once waitPumps returns, no goroutine can still be forwarding
		// into f.applyCh, and draining it here is a final, complete
		// accounting rather than a best-effort snapshot.
		control.finish()
		control.waitPumps(context.Background())
		drainApply(f)

		if hook, ok := any(&handler).(ShutdownHook); ok {
			hook.OnShutdown()
		}
	}

	return newDriver(loop)
}

// drainChunk applies up to chunkSize already-buffered events without
// blocking, returning how many it processed.
func drainChunk[H any](f *ChannelFactory[H], handler *H, chunkSize int) int {
	n := 0
	for n < chunkSize {
		select {
		case ev := <-f.applyCh:
			ev.Apply(handler)
			n++
		default:
			return n
		}
	}
	return n
}

// drainApply fails, without blocking, every event still sitting in
// f.applyCh. Called only after every pump has exited (so nothing can
// write to applyCh concurrently), making this the authoritative final
// sweep for events that made it past their source channel but were never
// applied before the actor terminated.
func drainApply[H any](f *ChannelFactory[H]) {
	for {
		select {
		case ev := <-f.applyCh:
			ev.Fail()
		default:
			return
		}
	}
}
