package common

import (
	"context"
	"io"

	E "github.com/weirlab/flume/common/exceptions"
)

func All[T any](array []T, block func(it T) bool) bool {
	for _, it := range array {
		if !block(it) {
			return false
		}
	}
	return true
}

func Filter[T any](arr []T, block func(it T) bool) []T {
	var retArr []T
	for _, it := range arr {
		if block(it) {
			retArr = append(retArr, it)
		}
	}
	return retArr
}

func Done(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func DefaultValue[T any]() T {
	var defaultValue T
	return defaultValue
}

// Close closes each closer that is closable and follows upstream
// chains, so closing a decorator releases the resources underneath it.
// Failures from every level are aggregated into the returned error.
func Close(closers ...any) error {
	var retErr error
	for _, closer := range closers {
		if closer == nil {
			continue
		}
		switch c := closer.(type) {
		case io.Closer:
			if err := c.Close(); err != nil {
				retErr = E.Errors(retErr, err)
			}
		}
		switch c := closer.(type) {
		case WithUpstream:
			if err := Close(c.Upstream()); err != nil {
				retErr = E.Errors(retErr, err)
			}
		}
	}
	return retErr
}
