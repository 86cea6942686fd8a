package stream

import (
	"context"
	"io"
	"sync"

	"github.com/weirlab/flume/common"
	"github.com/weirlab/flume/common/atomic"
	E "github.com/weirlab/flume/common/exceptions"
)

// ErrClosed is returned by PipeWriter.Send after the pipe is closed.
var ErrClosed = E.New("stream: pipe closed")

// NewPipe creates a synchronous in-memory pipe: every Send blocks until
// the source side receives the item.
func NewPipe[T any]() (Source[T], *PipeWriter[T]) {
	p := &pipe[T]{
		ch:   make(chan T),
		done: make(chan struct{}),
	}
	return (*pipeSource[T])(p), (*PipeWriter[T])(p)
}

type pipe[T any] struct {
	ch        chan T
	done      chan struct{}
	closeOnce sync.Once
	err       atomic.TypedValue[error]
}

func (p *pipe[T]) closeWith(err error) {
	p.closeOnce.Do(func() {
		if err == nil {
			err = io.EOF
		}
		p.err.Store(err)
		close(p.done)
	})
}

type pipeSource[T any] pipe[T]

func (p *pipeSource[T]) Next(ctx context.Context) (T, error) {
	select {
	case item := <-p.ch:
		return item, nil
	default:
	}
	select {
	case item := <-p.ch:
		return item, nil
	case <-p.done:
		return common.DefaultValue[T](), p.err.Load()
	case <-ctx.Done():
		return common.DefaultValue[T](), ctx.Err()
	}
}

type PipeWriter[T any] pipe[T]

func (w *PipeWriter[T]) Send(ctx context.Context, item T) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}
	select {
	case w.ch <- item:
		return nil
	case <-w.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the sequence; the source side observes io.EOF.
func (w *PipeWriter[T]) Close() error {
	(*pipe[T])(w).closeWith(nil)
	return nil
}

// CloseWithError ends the sequence with err. A nil err behaves like
// Close.
func (w *PipeWriter[T]) CloseWithError(err error) error {
	(*pipe[T])(w).closeWith(err)
	return nil
}
