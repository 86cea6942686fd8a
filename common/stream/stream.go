// Package stream provides a pull-based sequence abstraction.
//
// A Source yields items one at a time to a single owner. Next blocks
// until an item is ready, the sequence ends, or the source fails:
//
//	item ready      -> (item, nil)
//	end of sequence -> (zero, io.EOF)
//	failure         -> (zero, err)
//
// Canceling ctx abandons the wait with ctx.Err() without consuming an
// item and without ending the source; the owner may call Next again.
package stream

import "context"

type Source[T any] interface {
	Next(ctx context.Context) (T, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc[T any] func(ctx context.Context) (T, error)

func (f SourceFunc[T]) Next(ctx context.Context) (T, error) {
	return f(ctx)
}
