// Package pbstream reads and writes length-delimited protobuf
// messages, the framing protodelim defines: a varint length prefix
// before each wire-encoded message.
package pbstream

import (
	"bufio"
	"context"
	"io"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/proto"

	"github.com/weirlab/flume/common"
	"github.com/weirlab/flume/common/stream"
)

// Source decodes one message per call. A stream ending on a message
// boundary returns io.EOF, a stream ending mid-message returns
// io.ErrUnexpectedEOF.
type Source[M proto.Message] struct {
	reader   protodelim.Reader
	raw      io.Reader
	create   func() M
	options  protodelim.UnmarshalOptions
	terminal error
}

func NewSource[M proto.Message](reader io.Reader, create func() M) *Source[M] {
	buffered, isBuffered := reader.(protodelim.Reader)
	if !isBuffered {
		buffered = bufio.NewReader(reader)
	}
	return &Source[M]{
		reader: buffered,
		raw:    reader,
		create: create,
	}
}

func (s *Source[M]) Next(ctx context.Context) (M, error) {
	if s.terminal != nil {
		return common.DefaultValue[M](), s.terminal
	}
	if common.Done(ctx) {
		return common.DefaultValue[M](), ctx.Err()
	}
	message := s.create()
	err := s.options.UnmarshalFrom(s.reader, message)
	if err != nil {
		s.terminal = err
		return common.DefaultValue[M](), err
	}
	return message, nil
}

func (s *Source[M]) Upstream() any {
	return s.raw
}

func (s *Source[M]) Close() error {
	return common.Close(s.raw)
}

var _ stream.Source[proto.Message] = (*Source[proto.Message])(nil)

type Writer struct {
	writer  io.Writer
	options protodelim.MarshalOptions
}

func NewWriter(writer io.Writer) *Writer {
	return &Writer{writer: writer}
}

func (w *Writer) Write(message proto.Message) error {
	_, err := w.options.MarshalTo(w.writer, message)
	return err
}

func (w *Writer) Upstream() any {
	return w.writer
}

func (w *Writer) Close() error {
	return common.Close(w.writer)
}
