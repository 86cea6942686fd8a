// Package dedup drops items a stream already delivered.
package dedup

import (
	"context"

	"github.com/weirlab/flume/common/stream"
)

// Filter reports whether a digest is seen for the first time.
type Filter interface {
	Check(sum []byte) bool
}

// NewSource drops items whose key was already observed. keyFunc must
// return a stable digest for equal items.
func NewSource[T any](source stream.Source[T], filter Filter, keyFunc func(item T) []byte) stream.Source[T] {
	return &dedupSource[T]{source: source, filter: filter, keyFunc: keyFunc}
}

type dedupSource[T any] struct {
	source  stream.Source[T]
	filter  Filter
	keyFunc func(item T) []byte
}

func (s *dedupSource[T]) Next(ctx context.Context) (T, error) {
	for {
		item, err := s.source.Next(ctx)
		if err != nil {
			return item, err
		}
		if s.filter.Check(s.keyFunc(item)) {
			return item, nil
		}
	}
}

func (s *dedupSource[T]) Upstream() any {
	return s.source
}
