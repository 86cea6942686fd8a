package idle

import (
	"context"
	"sync"
	"time"

	E "github.com/weirlab/flume/common/exceptions"
)

// ErrExpired is the cancel cause of a watchdog context whose window
// elapsed.
var ErrExpired = E.New("idle: watchdog expired")

// Watchdog is the push-side counterpart of TimeoutSource: it cancels a
// context when it is not fed for a fixed window.
type Watchdog struct {
	cancel   context.CancelCauseFunc
	timer    *time.Timer
	timeout  time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatchdog returns a child context that is canceled with cause
// ErrExpired unless Update is called at least once every timeout.
func NewWatchdog(ctx context.Context, timeout time.Duration) (context.Context, *Watchdog) {
	ctx, cancel := context.WithCancelCause(ctx)
	watchdog := &Watchdog{
		cancel:  cancel,
		timer:   time.NewTimer(timeout),
		timeout: timeout,
		done:    make(chan struct{}),
	}
	go watchdog.loop(ctx)
	return ctx, watchdog
}

func (w *Watchdog) loop(ctx context.Context) {
	select {
	case <-w.timer.C:
		w.cancel(ErrExpired)
	case <-ctx.Done():
		w.timer.Stop()
	case <-w.done:
		w.timer.Stop()
	}
}

// Update re-arms the window in full. It reports false once the window
// already elapsed.
func (w *Watchdog) Update() bool {
	if !w.timer.Stop() {
		return false
	}
	w.timer.Reset(w.timeout)
	return true
}

// Stop releases the watchdog without canceling the context.
func (w *Watchdog) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

func (w *Watchdog) Timeout() time.Duration {
	return w.timeout
}
