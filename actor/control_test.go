package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestControlShutdownIsIdempotent(t *testing.T) {
	t.Parallel()

	c := newControl()
	ctx := context.Background()

	// A bare Control has no driver loop backing it, so stand in for one:
	// a real driver observes the interrupt ping, notices the state
	// transition, and calls finish() exactly once.
	go func() {
		<-c.Interrupt()
		c.finish()
	}()

	require.NoError(t, c.shutdownAndWait(ctx, true))
	require.True(t, c.IsShutdown())

	// A second call against an already-terminal Control must not block
	// or error, and must not require the driver stand-in to run again.
	require.NoError(t, c.shutdownAndWait(ctx, true))
	require.NoError(t, c.shutdownAndWait(ctx, false))
}

func TestControlShutdownWaitsForFinish(t *testing.T) {
	t.Parallel()

	c := newControl()

	done := make(chan error, 1)
	go func() {
		done <- c.shutdownAndWait(context.Background(), false)
	}()

	// shutdownAndWait must not return before finish() is called.
	select {
	case err := <-done:
		t.Fatalf("shutdownAndWait returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	c.finish()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("shutdownAndWait never observed finish()")
	}
}

func TestControlShutdownRespectsContext(t *testing.T) {
	t.Parallel()

	c := newControl()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.shutdownAndWait(ctx, false)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The underlying shutdown request still went through even though
	// the caller stopped waiting for it.
	require.False(t, c.IsActive())
}

func TestControlStateNeverMovesBackwards(t *testing.T) {
	t.Parallel()

	c := newControl()
	c.requestShutdown(false)
	require.Equal(t, statePendingShutdown, c.snapshot())

	c.requestShutdown(false)
	require.Equal(t, statePendingShutdown, c.snapshot())

	c.requestShutdown(true)
	require.Equal(t, stateShutdown, c.snapshot())
}
