package watch

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/weirlab/flume/common/dedup"
	E "github.com/weirlab/flume/common/exceptions"
	"github.com/weirlab/flume/common/idle"
	"github.com/weirlab/flume/common/instrument"
	"github.com/weirlab/flume/common/log"
	"github.com/weirlab/flume/common/stream"
	"github.com/weirlab/flume/common/task"
	"github.com/weirlab/flume/transport/line"
	"github.com/weirlab/flume/transport/poll"
	"github.com/weirlab/flume/transport/sse"
)

type Watcher struct {
	config Config
	client *sse.Client
	logger *logrus.Entry
}

func NewWatcher(config Config) *Watcher {
	return &Watcher{
		config: config,
		client: sse.NewClient(sse.Options{}),
		logger: log.NewLogger("watch"),
	}
}

// Run supervises every configured stream until all of them end or one
// of them fails.
func (w *Watcher) Run(ctx context.Context) error {
	var group task.Group
	for _, streamConfig := range w.config.Streams {
		currentConfig := streamConfig
		group.Append(currentConfig.Name, func(ctx context.Context) error {
			return w.watch(ctx, currentConfig)
		})
	}
	return group.Run(ctx)
}

func (w *Watcher) watch(ctx context.Context, config StreamConfig) error {
	for {
		idleEnd, err := w.watchOnce(ctx, config)
		if err != nil {
			return err
		}
		if !idleEnd || !config.Restart {
			return nil
		}
		w.logger.Info("restarting ", config.Name, " after idle end")
	}
}

func (w *Watcher) watchOnce(ctx context.Context, config StreamConfig) (bool, error) {
	source, err := w.open(ctx, config)
	if err != nil {
		return false, E.Cause(err, "open ", config.Name)
	}
	if config.Dedup {
		// Below the idle window: repeated items do not reset the clock.
		source = dedup.NewSource(source, dedup.NewBloomRing(), func(item string) []byte {
			return []byte(item)
		})
	}
	watched := idle.NewTimeoutSource[string](source, config.Timeout.Duration())
	defer watched.Close()
	var feed stream.Source[string] = watched
	if w.config.Metrics.Enabled {
		feed = instrument.NewSource(config.Name, feed)
	}
	logger := w.logger.WithField("stream", config.Name)
	for {
		item, err := feed.Next(ctx)
		switch {
		case err == nil:
			logger.Info(item)
		case errors.Is(err, io.EOF):
			if watched.TimedOut() {
				logger.Info("idle for ", config.Timeout.Duration(), ", ended")
				return true, nil
			}
			logger.Info("ended")
			return false, nil
		case E.IsCanceled(err):
			return false, err
		default:
			return false, E.Cause(err, config.Name)
		}
	}
}

func (w *Watcher) open(ctx context.Context, config StreamConfig) (stream.Source[string], error) {
	switch config.Kind {
	case KindTCP:
		source, err := line.Dial(ctx, "tcp", config.Address)
		if err != nil {
			return nil, err
		}
		return source, nil
	case KindSSE:
		events, err := w.client.Subscribe(ctx, config.URL)
		if err != nil {
			return nil, err
		}
		return stream.Map(events, func(event sse.Event) string {
			return event.Data
		}), nil
	case KindPoll:
		results := poll.NewSource(poll.Options{
			URL:         config.URL,
			Interval:    config.Interval.Duration(),
			ChangedOnly: true,
		})
		return stream.Map(results, func(result poll.Result) string {
			return string(result.Body)
		}), nil
	default:
		return nil, E.New("unknown kind ", config.Kind)
	}
}
