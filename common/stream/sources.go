package stream

import (
	"context"
	"errors"
	"io"

	"github.com/weirlab/flume/common"
)

func FromSlice[T any](items []T) Source[T] {
	return &sliceSource[T]{items: items}
}

type sliceSource[T any] struct {
	items []T
}

func (s *sliceSource[T]) Next(ctx context.Context) (T, error) {
	if common.Done(ctx) {
		return common.DefaultValue[T](), ctx.Err()
	}
	if len(s.items) == 0 {
		return common.DefaultValue[T](), io.EOF
	}
	item := s.items[0]
	s.items = s.items[1:]
	return item, nil
}

// FromChannel yields items received from ch; a closed channel ends the
// sequence.
func FromChannel[T any](ch <-chan T) Source[T] {
	return &channelSource[T]{ch: ch}
}

type channelSource[T any] struct {
	ch <-chan T
}

func (s *channelSource[T]) Next(ctx context.Context) (T, error) {
	select {
	case item, loaded := <-s.ch:
		if !loaded {
			return common.DefaultValue[T](), io.EOF
		}
		return item, nil
	default:
	}
	select {
	case item, loaded := <-s.ch:
		if !loaded {
			return common.DefaultValue[T](), io.EOF
		}
		return item, nil
	case <-ctx.Done():
		return common.DefaultValue[T](), ctx.Err()
	}
}

// Prepend returns a source yielding items before anything from source.
func Prepend[T any](source Source[T], items ...T) Source[T] {
	if len(items) == 0 {
		return source
	}
	return &prependSource[T]{items: items, source: source}
}

type prependSource[T any] struct {
	items  []T
	source Source[T]
}

func (s *prependSource[T]) Next(ctx context.Context) (T, error) {
	if len(s.items) > 0 {
		item := s.items[0]
		s.items = s.items[1:]
		return item, nil
	}
	return s.source.Next(ctx)
}

func (s *prependSource[T]) Upstream() any {
	return s.source
}

// Map transforms each item, passing ends and failures through
// untouched.
func Map[S any, T any](source Source[S], transform func(S) T) Source[T] {
	return &mappedSource[S, T]{source: source, transform: transform}
}

type mappedSource[S any, T any] struct {
	source    Source[S]
	transform func(S) T
}

func (s *mappedSource[S, T]) Next(ctx context.Context) (T, error) {
	item, err := s.source.Next(ctx)
	if err != nil {
		return common.DefaultValue[T](), err
	}
	return s.transform(item), nil
}

func (s *mappedSource[S, T]) Upstream() any {
	return s.source
}

// Collect drains source into a slice. It returns the items collected so
// far alongside any failure; a clean end is not an error.
func Collect[T any](ctx context.Context, source Source[T]) ([]T, error) {
	var items []T
	for {
		item, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return items, nil
			}
			return items, err
		}
		items = append(items, item)
	}
}

// Drain consumes source until it ends, returning the number of items
// discarded.
func Drain[T any](ctx context.Context, source Source[T]) (int, error) {
	var count int
	for {
		_, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			return count, err
		}
		count++
	}
}
