// Package replay records timed item streams and plays them back with
// the original gaps. A recording is jsonl: a header line naming the
// format version, a fresh id and the creation time, then one entry
// per item holding its offset from the start of the recording.
package replay

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weirlab/flume/common"
	E "github.com/weirlab/flume/common/exceptions"
	"github.com/weirlab/flume/common/stream"
	"github.com/weirlab/flume/common/timer"
)

const Version = 1

type Header struct {
	Version int       `json:"version"`
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
}

type entry[T any] struct {
	At   time.Duration `json:"at"`
	Data T             `json:"data"`
}

type Recorder[T any] struct {
	encoder *json.Encoder
	writer  io.Writer
	header  Header
	start   time.Time
}

// NewRecorder writes the header immediately. Offsets count from the
// recorder's creation, not from the first item.
func NewRecorder[T any](writer io.Writer) (*Recorder[T], error) {
	header := Header{
		Version: Version,
		ID:      uuid.NewString(),
		Created: time.Now(),
	}
	encoder := json.NewEncoder(writer)
	if err := encoder.Encode(header); err != nil {
		return nil, E.Cause(err, "write recording header")
	}
	return &Recorder[T]{
		encoder: encoder,
		writer:  writer,
		header:  header,
		start:   time.Now(),
	}, nil
}

func (r *Recorder[T]) Record(item T) error {
	return r.encoder.Encode(entry[T]{At: time.Since(r.start), Data: item})
}

func (r *Recorder[T]) Header() Header {
	return r.header
}

func (r *Recorder[T]) Upstream() any {
	return r.writer
}

func (r *Recorder[T]) Close() error {
	return common.Close(r.writer)
}

var _ stream.Source[int] = (*Source[int])(nil)

// Source replays a recording. The clock starts at the first Next
// call, each entry is delivered once its offset has elapsed, and a
// wait abandoned by context cancellation keeps the entry pending for
// the next call.
type Source[T any] struct {
	decoder   *json.Decoder
	reader    io.Reader
	header    Header
	start     time.Time
	pending   *entry[T]
	delay     *time.Timer
	terminal  error
	closed    chan struct{}
	closeOnce sync.Once
}

func NewSource[T any](reader io.Reader) (*Source[T], error) {
	decoder := json.NewDecoder(reader)
	var header Header
	if err := decoder.Decode(&header); err != nil {
		return nil, E.Cause(err, "read recording header")
	}
	if header.Version != Version {
		return nil, E.New("unsupported recording version ", header.Version)
	}
	return &Source[T]{
		decoder: decoder,
		reader:  reader,
		header:  header,
		closed:  make(chan struct{}),
	}, nil
}

func (s *Source[T]) Header() Header {
	return s.header
}

func (s *Source[T]) Next(ctx context.Context) (T, error) {
	if s.terminal != nil {
		return common.DefaultValue[T](), s.terminal
	}
	select {
	case <-s.closed:
		s.terminal = os.ErrClosed
		return common.DefaultValue[T](), s.terminal
	default:
	}
	if s.start.IsZero() {
		s.start = time.Now()
	}
	if s.pending == nil {
		var next entry[T]
		if err := s.decoder.Decode(&next); err != nil {
			s.terminal = err
			return common.DefaultValue[T](), err
		}
		s.pending = &next
	}
	remaining := s.pending.At - time.Since(s.start)
	if remaining > 0 {
		if err := s.wait(ctx, remaining); err != nil {
			return common.DefaultValue[T](), err
		}
	} else if common.Done(ctx) {
		return common.DefaultValue[T](), ctx.Err()
	}
	item := s.pending.Data
	s.pending = nil
	return item, nil
}

func (s *Source[T]) wait(ctx context.Context, duration time.Duration) error {
	if s.delay == nil {
		s.delay = time.NewTimer(duration)
	} else {
		s.delay.Reset(duration)
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

func (s *Source[T]) Upstream() any {
	return s.reader
}

// Close unblocks a caller waiting out a gap, then closes the
// underlying reader. Fields the replaying goroutine owns are not
// touched, so it is safe while a Next call is still in flight.
func (s *Source[T]) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	return common.Close(s.reader)
}
