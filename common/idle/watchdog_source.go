package idle

import (
	"context"
	"time"

	"github.com/weirlab/flume/common"
	"github.com/weirlab/flume/common/stream"
)

// WatchdogSource feeds a watchdog on every delivered item.
type WatchdogSource[T any] struct {
	source   stream.Source[T]
	instance *Watchdog
}

// NewWatchdogSource wraps source so that the returned context is
// canceled with cause ErrExpired when no item is delivered for
// timeout. Unlike TimeoutSource it never ends the sequence itself;
// expiry is observed through the context.
func NewWatchdogSource[T any](ctx context.Context, source stream.Source[T], timeout time.Duration) (context.Context, *WatchdogSource[T]) {
	ctx, watchdog := NewWatchdog(ctx, timeout)
	return ctx, &WatchdogSource[T]{source: source, instance: watchdog}
}

func (s *WatchdogSource[T]) Next(ctx context.Context) (T, error) {
	item, err := s.source.Next(ctx)
	if err == nil {
		s.instance.Update()
	}
	return item, err
}

func (s *WatchdogSource[T]) Watchdog() *Watchdog {
	return s.instance
}

func (s *WatchdogSource[T]) Upstream() any {
	return s.source
}

func (s *WatchdogSource[T]) Close() error {
	s.instance.Stop()
	return common.Close(s.source)
}
