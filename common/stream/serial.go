package stream

import (
	"context"
	"sync"

	"github.com/weirlab/flume/common/debug"
)

// NewSerialSource panics on concurrent Next calls in debug builds,
// surfacing violations of the single-owner rule. In release builds it
// returns source unchanged.
func NewSerialSource[T any](source Source[T]) Source[T] {
	if !debug.Enabled {
		return source
	}
	return &serialSource[T]{source: source}
}

type serialSource[T any] struct {
	source Source[T]
	access sync.Mutex
}

func (s *serialSource[T]) Next(ctx context.Context) (T, error) {
	if !s.access.TryLock() {
		panic("concurrent next on serial source")
	}
	defer s.access.Unlock()
	return s.source.Next(ctx)
}

func (s *serialSource[T]) Upstream() any {
	return s.source
}
