package exceptions

import (
	"errors"

	F "github.com/weirlab/flume/common/format"
)

type Exception interface {
	error
	Cause() error
}

type exception struct {
	message string
	cause   error
}

func (e *exception) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *exception) Cause() error {
	return e.cause
}

func (e *exception) Unwrap() error {
	return e.cause
}

func New(message ...any) error {
	return errors.New(F.ToString(message...))
}

func Cause(cause error, message ...any) Exception {
	return &exception{F.ToString(message...), cause}
}
