package sse

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/weirlab/flume/common"
	"github.com/weirlab/flume/common/stream"
)

var _ stream.Source[Event] = (*Source)(nil)

// Source parses a raw event stream. Events without data are not
// dispatched, the last event id sticks across events, and a partial
// event at end of stream is discarded.
type Source struct {
	reader   io.Reader
	scanner  *bufio.Scanner
	lastID   string
	terminal error
}

func NewSource(reader io.Reader) *Source {
	return &Source{
		reader:  reader,
		scanner: bufio.NewScanner(reader),
	}
}

func (s *Source) Next(ctx context.Context) (Event, error) {
	if s.terminal != nil {
		return Event{}, s.terminal
	}
	if common.Done(ctx) {
		return Event{}, ctx.Err()
	}
	var (
		eventType string
		retry     time.Duration
		data      []string
	)
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" {
			if len(data) == 0 {
				eventType = ""
				continue
			}
			return Event{
				ID:    s.lastID,
				Type:  eventType,
				Data:  strings.Join(data, "\n"),
				Retry: retry,
			}, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "data":
			data = append(data, value)
		case "event":
			eventType = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				s.lastID = value
			}
		case "retry":
			if interval, err := strconv.Atoi(value); err == nil {
				retry = time.Duration(interval) * time.Millisecond
			}
		}
	}
	err := s.scanner.Err()
	if err == nil {
		err = io.EOF
	}
	s.terminal = err
	return Event{}, err
}

func (s *Source) Upstream() any {
	return s.reader
}

func (s *Source) Close() error {
	return common.Close(s.reader)
}
