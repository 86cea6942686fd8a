// Package idle ends pull streams that stay quiet for too long.
package idle

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/weirlab/flume/common"
	"github.com/weirlab/flume/common/stream"
	"github.com/weirlab/flume/common/timer"
)

type result[T any] struct {
	item T
	err  error
}

// TimeoutSource wraps an exclusively owned source with an idle window:
// when no item arrives for timeout, the sequence ends cleanly with
// io.EOF, exactly as if the source had completed on its own.
//
// Every delivered item re-arms the window in full. An item that is
// ready is always delivered, even when the window has already elapsed;
// the timeout fires only on a cycle that pulled the source and found
// it quiet.
//
// A TimeoutSource is single-owner: Next, Unwrap and Close must not be
// called concurrently. Wrap with stream.NewSerialSource to check this
// in debug builds.
type TimeoutSource[T any] struct {
	source     stream.Source[T]
	timeout    time.Duration
	driver     timer.Driver
	delay      timer.Delay
	pumpCtx    context.Context
	pumpCancel context.CancelFunc
	results    chan result[T]
	pulling    bool
	terminal   error
	timedOut   bool
}

// NewTimeoutSource arms the first window immediately: a source that
// never yields ends timeout from now.
func NewTimeoutSource[T any](source stream.Source[T], timeout time.Duration) *TimeoutSource[T] {
	return NewTimeoutSourceWithDriver(source, timeout, timer.System)
}

func NewTimeoutSourceWithDriver[T any](source stream.Source[T], timeout time.Duration, driver timer.Driver) *TimeoutSource[T] {
	pumpCtx, pumpCancel := context.WithCancel(context.Background())
	return &TimeoutSource[T]{
		source:     source,
		timeout:    timeout,
		driver:     driver,
		delay:      driver.NewDelay(timeout),
		pumpCtx:    pumpCtx,
		pumpCancel: pumpCancel,
		results:    make(chan result[T], 1),
	}
}

// Next returns the next item, io.EOF when the source completed or the
// window elapsed, or an *Error when the source or the delay driver
// failed. Canceling ctx abandons the wait without consuming anything;
// the pull continues in the background and its result is delivered by
// a later call. Terminal outcomes repeat.
func (s *TimeoutSource[T]) Next(ctx context.Context) (T, error) {
	if s.terminal != nil {
		return common.DefaultValue[T](), s.terminal
	}
	s.startPull()
	select {
	case res := <-s.results:
		return s.deliver(res)
	default:
	}
	select {
	case res := <-s.results:
		return s.deliver(res)
	case <-s.delay.C():
		// The pull may have completed while both channels were
		// ready; the source still wins.
		select {
		case res := <-s.results:
			return s.deliver(res)
		default:
		}
		if err := s.delay.Err(); err != nil {
			s.delay = nil
			s.terminal = NewTimerError(err)
			return common.DefaultValue[T](), s.terminal
		}
		s.delay = nil
		s.timedOut = true
		s.terminal = io.EOF
		return common.DefaultValue[T](), io.EOF
	case <-ctx.Done():
		return common.DefaultValue[T](), ctx.Err()
	}
}

// startPull keeps a single pull outstanding across calls.
func (s *TimeoutSource[T]) startPull() {
	if s.pulling {
		return
	}
	s.pulling = true
	go func() {
		item, err := s.source.Next(s.pumpCtx)
		s.results <- result[T]{item, err}
	}()
}

func (s *TimeoutSource[T]) deliver(res result[T]) (T, error) {
	s.pulling = false
	switch {
	case res.err == nil:
		s.delay.Stop()
		s.delay = s.driver.NewDelay(s.timeout)
		return res.item, nil
	case errors.Is(res.err, io.EOF):
		s.delay.Stop()
		s.delay = nil
		s.terminal = io.EOF
		return common.DefaultValue[T](), io.EOF
	default:
		s.terminal = NewInnerError(res.err)
		return common.DefaultValue[T](), s.terminal
	}
}

// Timeout returns the configured window. It does not change over the
// life of the source.
func (s *TimeoutSource[T]) Timeout() time.Duration {
	return s.timeout
}

// TimedOut reports whether the sequence ended because the window
// elapsed, as opposed to the source completing on its own.
func (s *TimeoutSource[T]) TimedOut() bool {
	return s.timedOut
}

func (s *TimeoutSource[T]) Upstream() any {
	return s.source
}

// Unwrap releases and returns the inner source, discarding the window.
// An item the pump already pulled is pushed back in front of the
// returned source, and a pull still in flight is handed over to be
// delivered by the returned source's first Next, so nothing is lost
// and Unwrap itself never blocks. The TimeoutSource becomes unusable.
func (s *TimeoutSource[T]) Unwrap() stream.Source[T] {
	if s.delay != nil {
		s.delay.Stop()
		s.delay = nil
	}
	s.pumpCancel()
	source := s.source
	if s.pulling {
		select {
		case res := <-s.results:
			s.pulling = false
			if res.err == nil {
				source = stream.Prepend(source, res.item)
			} else if !errors.Is(res.err, context.Canceled) {
				source = &leftoverSource[T]{result: &res, source: source}
			}
		default:
			source = &pendingSource[T]{results: s.results, source: source}
		}
	}
	if s.terminal == nil {
		s.terminal = os.ErrClosed
	}
	return source
}

// Close stops the window, abandons any outstanding pull, and closes
// the inner source if it is closable.
func (s *TimeoutSource[T]) Close() error {
	if s.delay != nil {
		s.delay.Stop()
		s.delay = nil
	}
	s.pumpCancel()
	if s.terminal == nil {
		s.terminal = os.ErrClosed
	}
	return common.Close(s.source)
}

// leftoverSource replays a completed pull the owner never observed.
type leftoverSource[T any] struct {
	result *result[T]
	source stream.Source[T]
}

func (s *leftoverSource[T]) Next(ctx context.Context) (T, error) {
	if s.result != nil {
		res := *s.result
		s.result = nil
		return res.item, res.err
	}
	return s.source.Next(ctx)
}

func (s *leftoverSource[T]) Upstream() any {
	return s.source
}

// pendingSource waits out a pull that was still in flight at Unwrap.
// A pull the cancellation interrupted is dropped and the source is
// read again in the same call.
type pendingSource[T any] struct {
	results chan result[T]
	settled bool
	source  stream.Source[T]
}

func (s *pendingSource[T]) Next(ctx context.Context) (T, error) {
	if !s.settled {
		select {
		case res := <-s.results:
			s.settled = true
			if res.err == nil || !errors.Is(res.err, context.Canceled) {
				return res.item, res.err
			}
		case <-ctx.Done():
			return common.DefaultValue[T](), ctx.Err()
		}
	}
	return s.source.Next(ctx)
}

func (s *pendingSource[T]) Upstream() any {
	return s.source
}
