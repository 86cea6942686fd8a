package exceptions_test

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	E "github.com/weirlab/flume/common/exceptions"
)

func TestNewAndCause(t *testing.T) {
	t.Parallel()
	err := E.New("parse entry ", 42)
	require.Equal(t, "parse entry 42", err.Error())

	inner := E.New("connection reset")
	wrapped := E.Cause(inner, "read frame")
	require.Equal(t, "read frame: connection reset", wrapped.Error())
	require.ErrorIs(t, wrapped, inner)
	require.Same(t, inner, wrapped.Cause())

	exception, loaded := E.Cast[E.Exception](E.Cause(wrapped, "outer"))
	require.True(t, loaded)
	require.NotNil(t, exception)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	require.NoError(t, E.Errors())
	require.NoError(t, E.Errors(nil, nil))

	single := E.New("only")
	require.Same(t, single, E.Errors(nil, single))

	first := E.New("first")
	second := E.New("second")
	multi := E.Errors(first, nil, second)
	require.ErrorIs(t, multi, first)
	require.ErrorIs(t, multi, second)
	require.Contains(t, multi.Error(), "first")
	require.Contains(t, multi.Error(), "second")

	unwrapped, loaded := E.Cast[E.MultiError](multi)
	require.True(t, loaded)
	require.Len(t, unwrapped.UnwrapMulti(), 2)
}

func TestIsClosedAndCanceled(t *testing.T) {
	t.Parallel()
	require.True(t, E.IsClosed(io.EOF))
	require.True(t, E.IsClosed(E.Cause(net.ErrClosed, "read")))
	require.True(t, E.IsClosed(E.Errors(io.EOF, os.ErrClosed)))
	require.False(t, E.IsClosed(E.New("broken")))

	require.True(t, E.IsCanceled(context.Canceled))
	require.True(t, E.IsCanceled(E.Cause(context.DeadlineExceeded, "poll")))
	require.False(t, E.IsCanceled(io.EOF))

	require.True(t, E.IsClosedOrCanceled(io.ErrClosedPipe))
	require.True(t, E.IsClosedOrCanceled(context.Canceled))
	require.False(t, E.IsClosedOrCanceled(errors.New("other")))
}

type stuckError struct{}

func (e stuckError) Error() string {
	return "stuck"
}

func (e stuckError) Timeout() bool {
	return true
}

func TestIsTimeout(t *testing.T) {
	t.Parallel()
	require.True(t, E.IsTimeout(os.ErrDeadlineExceeded))
	require.True(t, E.IsTimeout(E.Cause(stuckError{}, "dial")))
	require.False(t, E.IsTimeout(io.EOF))
}
