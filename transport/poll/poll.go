// Package poll fetches an HTTP resource on a fixed interval and
// emits each response as an item. With ChangedOnly set, responses
// whose body fingerprint matches the previous emission are skipped,
// so the stream goes quiet while the resource is unchanged.
package poll

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"lukechampine.com/blake3"

	"github.com/weirlab/flume/common"
	"github.com/weirlab/flume/common/stream"
	"github.com/weirlab/flume/common/timer"
)

type Result struct {
	Body       []byte
	StatusCode int
	Sum        [32]byte
	At         time.Time
}

type Options struct {
	Client      *resty.Client
	URL         string
	Interval    time.Duration
	ChangedOnly bool
}

var _ stream.Source[Result] = (*Source)(nil)

type Source struct {
	client      *resty.Client
	url         string
	interval    time.Duration
	changedOnly bool
	delay       *time.Timer
	lastSum     [32]byte
	hasSum      bool
	primed      bool
	terminal    error
	closed      chan struct{}
	closeOnce   sync.Once
}

func NewSource(options Options) *Source {
	client := options.Client
	if client == nil {
		client = resty.New()
	}
	return &Source{
		client:      client,
		url:         options.URL,
		interval:    options.Interval,
		changedOnly: options.ChangedOnly,
		closed:      make(chan struct{}),
	}
}

// Next fetches the next response. The first call fetches immediately,
// later calls wait out the interval first. Fetch errors and context
// cancellation are returned without ending the stream.
func (s *Source) Next(ctx context.Context) (Result, error) {
	if s.terminal != nil {
		return Result{}, s.terminal
	}
	for {
		select {
		case <-s.closed:
			s.terminal = os.ErrClosed
			return Result{}, s.terminal
		default:
		}
		if s.primed {
			if err := s.wait(ctx); err != nil {
				return Result{}, err
			}
		} else if common.Done(ctx) {
			return Result{}, ctx.Err()
		}
		s.primed = true
		response, err := s.client.R().SetContext(ctx).Get(s.url)
		if err != nil {
			return Result{}, err
		}
		body := response.Body()
		result := Result{
			Body:       body,
			StatusCode: response.StatusCode(),
			Sum:        blake3.Sum256(body),
			At:         time.Now(),
		}
		if s.changedOnly && s.hasSum && result.Sum == s.lastSum {
			continue
		}
		s.lastSum = result.Sum
		s.hasSum = true
		return result, nil
	}
}

func (s *Source) wait(ctx context.Context) error {
	if s.delay == nil {
		s.delay = time.NewTimer(s.interval)
	} else {
		s.delay.Reset(s.interval)
	}
	select {
	case <-s.delay.C:
		return nil
	case <-ctx.Done():
		timer.StopAndDrain(s.delay)
		return ctx.Err()
	case <-s.closed:
		timer.StopAndDrain(s.delay)
		s.terminal = os.ErrClosed
		return s.terminal
	}
}

func (s *Source) Interval() time.Duration {
	return s.interval
}

// Close unblocks a caller waiting out the interval. It leaves fields
// the polling goroutine owns alone, so it is safe while a Next call is
// still in flight.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	return nil
}
