// Package line reads line-delimited text as an item stream. The
// scanner itself blocks in Read; wrap the source in an idle decorator
// when per-item cancellation or timeouts are needed.
package line

import (
	"bufio"
	"context"
	"io"
	"net"

	"github.com/weirlab/flume/common"
	"github.com/weirlab/flume/common/stream"
)

const maxLineSize = 1024 * 1024

var _ stream.Source[string] = (*Source)(nil)

type Source struct {
	reader   io.Reader
	scanner  *bufio.Scanner
	stop     func() bool
	terminal error
}

func NewSource(reader io.Reader) *Source {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Source{
		reader:  reader,
		scanner: scanner,
	}
}

// Dial connects to a line-delimited feed. The connection is closed
// when ctx is done, so a scan blocked in Read unblocks on cancel.
func Dial(ctx context.Context, network, address string) (*Source, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	source := NewSource(conn)
	source.stop = context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	return source, nil
}

func (s *Source) Next(ctx context.Context) (string, error) {
	if s.terminal != nil {
		return "", s.terminal
	}
	if common.Done(ctx) {
		return "", ctx.Err()
	}
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	err := s.scanner.Err()
	if err == nil {
		err = io.EOF
	}
	s.terminal = err
	return "", err
}

func (s *Source) Upstream() any {
	return s.reader
}

func (s *Source) Close() error {
	if s.stop != nil {
		s.stop()
	}
	return common.Close(s.reader)
}
