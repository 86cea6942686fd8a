// Package instrument decorates sources with prometheus metrics.
package instrument

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/weirlab/flume/common/stream"
)

var (
	ItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flume_source_items_total",
		Help: "Total items delivered, per source",
	}, []string{"source"})
	EndsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flume_source_ends_total",
		Help: "Total clean sequence ends, per source",
	}, []string{"source"})
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flume_source_errors_total",
		Help: "Total failures, per source",
	}, []string{"source"})
	GapSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flume_source_gap_seconds",
		Help:    "Gap between consecutive items, per source",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
	}, []string{"source"})
)

// Source counts items, ends and failures of the wrapped source and
// observes the gap between consecutive items, the datum an idle
// window is tuned against. Context abandons count as nothing.
type Source[T any] struct {
	source stream.Source[T]
	items  prometheus.Counter
	ends   prometheus.Counter
	errs   prometheus.Counter
	gaps   prometheus.Observer
	last   time.Time
}

func NewSource[T any](name string, source stream.Source[T]) *Source[T] {
	return &Source[T]{
		source: source,
		items:  ItemsTotal.WithLabelValues(name),
		ends:   EndsTotal.WithLabelValues(name),
		errs:   ErrorsTotal.WithLabelValues(name),
		gaps:   GapSeconds.WithLabelValues(name),
	}
}

func (s *Source[T]) Next(ctx context.Context) (T, error) {
	item, err := s.source.Next(ctx)
	switch {
	case err == nil:
		now := time.Now()
		if !s.last.IsZero() {
			s.gaps.Observe(now.Sub(s.last).Seconds())
		}
		s.last = now
		s.items.Inc()
	case errors.Is(err, io.EOF):
		s.ends.Inc()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	default:
		s.errs.Inc()
	}
	return item, err
}

func (s *Source[T]) Upstream() any {
	return s.source
}
