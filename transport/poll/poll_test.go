package poll_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"lukechampine.com/blake3"

	"github.com/weirlab/flume/transport/poll"
)

func TestSourcePolls(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = fmt.Fprintf(writer, "v%d", hits.Add(1))
	}))
	defer server.Close()
	source := poll.NewSource(poll.Options{URL: server.URL, Interval: 10 * time.Millisecond})
	defer source.Close()
	for index := 1; index <= 3; index++ {
		result, err := source.Next(context.Background())
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("v%d", index), string(result.Body))
		require.Equal(t, http.StatusOK, result.StatusCode)
		require.Equal(t, blake3.Sum256(result.Body), result.Sum)
		require.False(t, result.At.IsZero())
	}
}

func TestSourceChangedOnly(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if hits.Add(1) < 4 {
			_, _ = io.WriteString(writer, "same")
		} else {
			_, _ = io.WriteString(writer, "diff")
		}
	}))
	defer server.Close()
	source := poll.NewSource(poll.Options{
		URL:         server.URL,
		Interval:    10 * time.Millisecond,
		ChangedOnly: true,
	})
	defer source.Close()
	result, err := source.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "same", string(result.Body))
	result, err = source.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "diff", string(result.Body))
	require.GreaterOrEqual(t, hits.Load(), int32(4))
}

func TestSourceCarriesStatus(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(writer, "upstream down")
	}))
	defer server.Close()
	source := poll.NewSource(poll.Options{URL: server.URL, Interval: 10 * time.Millisecond})
	defer source.Close()
	result, err := source.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, result.StatusCode)
	require.Equal(t, "upstream down", string(result.Body))
}

func TestSourceCancelDuringWait(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, "tick")
	}))
	defer server.Close()
	source := poll.NewSource(poll.Options{URL: server.URL, Interval: time.Hour})
	defer source.Close()
	_, err := source.Next(context.Background())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = source.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSourceClose(t *testing.T) {
	t.Parallel()
	source := poll.NewSource(poll.Options{URL: "http://127.0.0.1:0", Interval: time.Second})
	require.NoError(t, source.Close())
	_, err := source.Next(context.Background())
	require.ErrorIs(t, err, os.ErrClosed)
}
