package actor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestActorInvokeSerializesAccess(t *testing.T) {
	t.Parallel()

	a, driver := New(DefaultConfig(), 0)
	go driver.Run()
	defer a.ShutdownImmediate(context.Background())

	ctx := context.Background()

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fut := Invoke(ctx, a, func(s *int) (int, error) {
				*s++
				return *s, nil
			})
			_, err := fut.Await(ctx).Unpack()
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	fut := Invoke(ctx, a, func(s *int) (int, error) { return *s, nil })
	v, err := fut.Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, n, v)
}

func TestActorInvokePropagatesHandlerError(t *testing.T) {
	t.Parallel()

	a, driver := New(DefaultConfig(), 0)
	go driver.Run()
	defer a.ShutdownImmediate(context.Background())

	boom := errors.New("boom")
	fut := Invoke(context.Background(), a, func(s *int) (int, error) {
		return 0, boom
	})

	_, err := fut.Await(context.Background()).Unpack()
	require.ErrorIs(t, err, boom)
}

func TestActorGracefulShutdownDrainsQueuedWork(t *testing.T) {
	t.Parallel()

	a, driver := New(DefaultConfig(), 0)
	go driver.Run()

	ctx := context.Background()
	fut := Invoke(ctx, a, func(s *int) (int, error) {
		time.Sleep(10 * time.Millisecond)
		*s = 42
		return *s, nil
	})

	require.NoError(t, a.Shutdown(ctx))

	v, err := fut.Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestActorShutdownObservableFromDriver(t *testing.T) {
	t.Parallel()

	a, driver := New(DefaultConfig(), 0)
	go driver.Run()

	require.NoError(t, a.ShutdownImmediate(context.Background()))

	select {
	case <-driver.Done():
	case <-time.After(time.Second):
		t.Fatal("driver.Done() never closed")
	}

	require.ErrorIs(t, Cast(a, func(*int) {}), ErrDisconnected)
}

func TestCloseQueueFailsPendingInvocations(t *testing.T) {
	t.Parallel()

	// Never run the driver: everything enqueued stays buffered, so
	// closing the queue must complete every pending caller with
	// ErrDisconnected rather than leave them awaiting forever.
	a, _ := New(DefaultConfig(), 0)

	ctx := context.Background()
	futs := make([]Future[int], 3)
	for i := range futs {
		futs[i] = Invoke(ctx, a, func(s *int) (int, error) {
			return *s, nil
		})
	}

	a.closeQueue()

	for _, fut := range futs {
		_, err := fut.Await(ctx).Unpack()
		require.ErrorIs(t, err, ErrDisconnected)
	}

	// The queue is closed for good: new work is refused outright.
	_, err := Invoke(ctx, a, func(s *int) (int, error) {
		return *s, nil
	}).Await(ctx).Unpack()
	require.ErrorIs(t, err, ErrDisconnected)
}

func TestCastDoesNotBlockOnFullQueue(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ChannelBound = 1
	a, driver := New(cfg, 0)

	// Don't run the driver: the single slot fills immediately.
	require.NoError(t, Cast(a, func(*int) {}))
	require.ErrorIs(t, Cast(a, func(*int) {}), ErrDisconnected)

	go driver.Run()
	require.NoError(t, a.ShutdownImmediate(context.Background()))
}

func TestInvokeAsyncRunsContinuationOutsideLock(t *testing.T) {
	t.Parallel()

	a, driver := New(DefaultConfig(), 0)
	go driver.Run()
	defer a.ShutdownImmediate(context.Background())

	ctx := context.Background()

	fut := InvokeAsync(ctx, a, func(s *int) (int, error, func(context.Context) (int, error)) {
		*s = 10
		snapshot := *s
		return 0, nil, func(context.Context) (int, error) {
			return snapshot * 2, nil
		}
	})

	v, err := fut.Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, 20, v)

	// The synchronous stage did run against the actor's state even
	// though the result came from the continuation.
	confirm := Invoke(ctx, a, func(s *int) (int, error) { return *s, nil })
	cv, err := confirm.Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, 10, cv)
}

func TestInvokeAsyncNilContinuationResolvesImmediately(t *testing.T) {
	t.Parallel()

	a, driver := New(DefaultConfig(), 0)
	go driver.Run()
	defer a.ShutdownImmediate(context.Background())

	ctx := context.Background()

	fut := InvokeAsync(ctx, a, func(s *int) (int, error, func(context.Context) (int, error)) {
		*s++
		return *s, nil, nil
	})

	v, err := fut.Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}
