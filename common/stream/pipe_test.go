package stream_test

import (
	"context"
	"io"
	"testing"
	"time"

	E "github.com/weirlab/flume/common/exceptions"
	"github.com/weirlab/flume/common/stream"

	"github.com/stretchr/testify/require"
)

func TestPipe(t *testing.T) {
	t.Parallel()
	source, writer := stream.NewPipe[int]()

	sendErrs := make(chan error, 4)
	go func() {
		for i := 1; i <= 3; i++ {
			sendErrs <- writer.Send(context.Background(), i)
		}
		sendErrs <- writer.Close()
		close(sendErrs)
	}()

	items, err := stream.Collect(context.Background(), source)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, items)
	for sendErr := range sendErrs {
		require.NoError(t, sendErr)
	}

	_, err = source.Next(context.Background())
	require.ErrorIs(t, err, io.EOF)
}

func TestPipeCloseWithError(t *testing.T) {
	t.Parallel()
	source, writer := stream.NewPipe[int]()
	testErr := E.New("upstream gone")
	require.NoError(t, writer.CloseWithError(testErr))

	_, err := source.Next(context.Background())
	require.ErrorIs(t, err, testErr)

	err = writer.Send(context.Background(), 1)
	require.ErrorIs(t, err, stream.ErrClosed)
}

func TestPipeSendUnblocksOnClose(t *testing.T) {
	t.Parallel()
	_, writer := stream.NewPipe[int]()

	errCh := make(chan error, 1)
	go func() {
		errCh <- writer.Send(context.Background(), 1)
	}()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, writer.Close())
	require.ErrorIs(t, <-errCh, stream.ErrClosed)
}

func TestPipeSendCancel(t *testing.T) {
	t.Parallel()
	_, writer := stream.NewPipe[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, writer.Send(ctx, 1), context.DeadlineExceeded)
}

func TestPipeNextCancel(t *testing.T) {
	t.Parallel()
	source, _ := stream.NewPipe[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := source.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
