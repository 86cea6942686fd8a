package idle_test

import (
	"testing"

	E "github.com/weirlab/flume/common/exceptions"
	"github.com/weirlab/flume/common/idle"

	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()
	cause := E.New("connection torn")

	innerErr := idle.NewInnerError(cause)
	require.True(t, innerErr.IsInner())
	require.False(t, innerErr.IsTimer())
	require.Equal(t, "connection torn", innerErr.Error())
	require.ErrorIs(t, innerErr, cause)
	require.Equal(t, cause, innerErr.Cause())

	got, ok := innerErr.Inner()
	require.True(t, ok)
	require.Equal(t, cause, got)
	_, ok = innerErr.Timer()
	require.False(t, ok)

	timerErr := idle.NewTimerError(cause)
	require.True(t, timerErr.IsTimer())
	require.False(t, timerErr.IsInner())
	got, ok = timerErr.Timer()
	require.True(t, ok)
	require.Equal(t, cause, got)
	_, ok = timerErr.Inner()
	require.False(t, ok)
}

func TestErrorDefaultMessages(t *testing.T) {
	t.Parallel()
	require.Equal(t, "error polling stream", idle.NewInnerError(nil).Error())
	require.Equal(t, "timer error", idle.NewTimerError(nil).Error())
}

func TestErrorCast(t *testing.T) {
	t.Parallel()
	wrapped := E.Cause(idle.NewInnerError(E.New("deep")), "watch stream")
	timedErr, ok := E.Cast[*idle.Error](wrapped)
	require.True(t, ok)
	require.True(t, timedErr.IsInner())
	require.Equal(t, "watch stream: deep", wrapped.Error())
}
