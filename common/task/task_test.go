package task_test

import (
	"context"
	"testing"
	"time"

	E "github.com/weirlab/flume/common/exceptions"
	"github.com/weirlab/flume/common/task"

	"github.com/stretchr/testify/require"
)

func TestGroupRun(t *testing.T) {
	t.Parallel()
	var group task.Group
	results := make(chan int, 2)
	group.Append("one", func(ctx context.Context) error {
		results <- 1
		return nil
	})
	group.Append("two", func(ctx context.Context) error {
		results <- 2
		return nil
	})
	require.NoError(t, group.Run(context.Background()))
	require.Len(t, results, 2)
}

func TestGroupFirstErrorCancels(t *testing.T) {
	t.Parallel()
	testErr := E.New("boom")
	canceled := make(chan struct{})
	var group task.Group
	group.Append("failing", func(ctx context.Context) error {
		return testErr
	})
	group.Append("waiting", func(ctx context.Context) error {
		<-ctx.Done()
		close(canceled)
		return nil
	})
	err := group.Run(context.Background())
	require.ErrorIs(t, err, testErr)
	require.Contains(t, err.Error(), "failing")
	<-canceled
}

func TestGroupCleanup(t *testing.T) {
	t.Parallel()
	var cleaned bool
	var group task.Group
	group.Cleanup(func() {
		cleaned = true
	})
	group.Append0(func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, group.Run(context.Background()))
	require.True(t, cleaned)
}

func TestGroupFastFail(t *testing.T) {
	t.Parallel()
	testErr := E.New("fast")
	var group task.Group
	group.FastFail()
	group.Append0(func(ctx context.Context) error {
		return testErr
	})
	group.Append0(func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(200 * time.Millisecond)
		return nil
	})
	start := time.Now()
	err := group.Run(context.Background())
	require.ErrorIs(t, err, testErr)
	require.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestGroupContextCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	var group task.Group
	group.Append("waiting", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	go cancel()
	err := group.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
