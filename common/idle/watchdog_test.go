package idle_test

import (
	"context"
	"testing"
	"time"

	"github.com/weirlab/flume/common/idle"
	"github.com/weirlab/flume/common/stream"

	"github.com/stretchr/testify/require"
)

func TestWatchdogExpires(t *testing.T) {
	t.Parallel()
	ctx, watchdog := idle.NewWatchdog(context.Background(), 100*time.Millisecond)
	defer watchdog.Stop()
	require.Equal(t, 100*time.Millisecond, watchdog.Timeout())

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("watchdog did not expire")
	}
	require.ErrorIs(t, context.Cause(ctx), idle.ErrExpired)
	require.False(t, watchdog.Update())
}

func TestWatchdogUpdateExtends(t *testing.T) {
	t.Parallel()
	ctx, watchdog := idle.NewWatchdog(context.Background(), 150*time.Millisecond)
	defer watchdog.Stop()

	for i := 0; i < 4; i++ {
		time.Sleep(50 * time.Millisecond)
		require.True(t, watchdog.Update())
	}
	require.NoError(t, ctx.Err())

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("watchdog did not expire after feeding stopped")
	}
	require.ErrorIs(t, context.Cause(ctx), idle.ErrExpired)
}

func TestWatchdogStop(t *testing.T) {
	t.Parallel()
	ctx, watchdog := idle.NewWatchdog(context.Background(), 100*time.Millisecond)
	watchdog.Stop()
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, ctx.Err())
}

func TestWatchdogParentCancel(t *testing.T) {
	t.Parallel()
	parent, cancel := context.WithCancel(context.Background())
	ctx, watchdog := idle.NewWatchdog(parent, time.Hour)
	defer watchdog.Stop()
	cancel()
	<-ctx.Done()
	require.ErrorIs(t, context.Cause(ctx), context.Canceled)
}

func TestWatchdogSource(t *testing.T) {
	t.Parallel()
	source, writer := stream.NewPipe[int]()
	ctx, ws := idle.NewWatchdogSource[int](context.Background(), source, 150*time.Millisecond)
	defer ws.Close()

	go func() {
		for i := 1; i <= 3; i++ {
			time.Sleep(50 * time.Millisecond)
			writer.Send(context.Background(), i)
		}
	}()

	var items []int
	for {
		item, err := ws.Next(ctx)
		if err != nil {
			require.ErrorIs(t, err, context.Canceled)
			break
		}
		items = append(items, item)
	}
	require.Equal(t, []int{1, 2, 3}, items)
	require.ErrorIs(t, context.Cause(ctx), idle.ErrExpired)
	require.Same(t, source, ws.Upstream())
}
