package dedup_test

import (
	"context"
	"testing"
	"time"

	"github.com/weirlab/flume/common/dedup"
	"github.com/weirlab/flume/common/stream"

	"github.com/stretchr/testify/require"
)

func TestDedupSource(t *testing.T) {
	t.Parallel()
	source := stream.FromSlice([]string{"a", "b", "a", "c", "b", "d"})
	deduped := dedup.NewSource[string](source, dedup.NewCuckoo(time.Minute), func(item string) []byte {
		return []byte(item)
	})
	items, err := stream.Collect(context.Background(), deduped)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "d"}, items)
}

func TestCuckooFilter(t *testing.T) {
	t.Parallel()
	filter := dedup.NewCuckoo(time.Minute)
	require.True(t, filter.Check([]byte("first")))
	require.False(t, filter.Check([]byte("first")))
	require.True(t, filter.Check([]byte("second")))
}

func TestBloomRing(t *testing.T) {
	t.Parallel()
	filter := dedup.NewBloomRing()
	require.True(t, filter.Check([]byte("0123456789abcdef")))
	require.False(t, filter.Check([]byte("0123456789abcdef")))
	require.True(t, filter.Check([]byte("fedcba9876543210")))
}
