package exceptions

import (
	"context"
	"io"
	"net"
	"os"
)

func IsClosed(err error) bool {
	return IsMulti(err, io.EOF, net.ErrClosed, io.ErrClosedPipe, os.ErrClosed)
}

func IsCanceled(err error) bool {
	return IsMulti(err, context.Canceled, context.DeadlineExceeded)
}

func IsClosedOrCanceled(err error) bool {
	return IsClosed(err) || IsCanceled(err)
}
