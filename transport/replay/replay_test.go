package replay_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/weirlab/flume/common/stream"
	"github.com/weirlab/flume/transport/replay"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	recorder, err := replay.NewRecorder[string](&buffer)
	require.NoError(t, err)
	for _, item := range []string{"alpha", "beta", "gamma"} {
		require.NoError(t, recorder.Record(item))
	}
	_, err = uuid.Parse(recorder.Header().ID)
	require.NoError(t, err)
	source, err := replay.NewSource[string](&buffer)
	require.NoError(t, err)
	require.Equal(t, recorder.Header().ID, source.Header().ID)
	items, err := stream.Collect(context.Background(), source)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, items)
}

func TestReplayGaps(t *testing.T) {
	t.Parallel()
	raw := strings.Join([]string{
		`{"version":1,"id":"e4e95d9b-0217-4d41-a705-b85dc0a3ae13","created":"2024-01-01T00:00:00Z"}`,
		`{"at":30000000,"data":1}`,
		`{"at":60000000,"data":2}`,
	}, "\n")
	source, err := replay.NewSource[int](strings.NewReader(raw))
	require.NoError(t, err)
	started := time.Now()
	items, err := stream.Collect(context.Background(), source)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, items)
	require.GreaterOrEqual(t, time.Since(started), 60*time.Millisecond)
}

func TestReplayCancelKeepsEntry(t *testing.T) {
	t.Parallel()
	raw := strings.Join([]string{
		`{"version":1,"id":"e4e95d9b-0217-4d41-a705-b85dc0a3ae13","created":"2024-01-01T00:00:00Z"}`,
		`{"at":80000000,"data":42}`,
	}, "\n")
	source, err := replay.NewSource[int](strings.NewReader(raw))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = source.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	item, err := source.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, item)
}

func TestVersionMismatch(t *testing.T) {
	t.Parallel()
	raw := `{"version":99,"id":"x","created":"2024-01-01T00:00:00Z"}`
	_, err := replay.NewSource[int](strings.NewReader(raw))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported recording version")
}

func TestCompressedFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "stream.jsonl.xz")
	writer, err := replay.Create(path)
	require.NoError(t, err)
	recorder, err := replay.NewRecorder[int](writer)
	require.NoError(t, err)
	for _, item := range []int{1, 2, 3} {
		require.NoError(t, recorder.Record(item))
	}
	require.NoError(t, recorder.Close())
	reader, err := replay.OpenFile(path)
	require.NoError(t, err)
	source, err := replay.NewSource[int](reader)
	require.NoError(t, err)
	defer source.Close()
	items, err := stream.Collect(context.Background(), source)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, items)
	_, err = source.Next(context.Background())
	require.ErrorIs(t, err, io.EOF)
}
