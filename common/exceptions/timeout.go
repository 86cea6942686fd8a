package exceptions

import (
	"errors"
	"net"
	"os"
)

type TimeoutError interface {
	Timeout() bool
}

func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		//nolint:staticcheck
		return netErr.Temporary() && netErr.Timeout()
	}
	timeoutErr, isTimeout := Cast[TimeoutError](err)
	return isTimeout && timeoutErr.Timeout()
}
