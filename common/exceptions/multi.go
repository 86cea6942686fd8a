package exceptions

import (
	"errors"
	"strings"

	F "github.com/weirlab/flume/common/format"
)

type MultiError interface {
	UnwrapMulti() []error
}

type multiError struct {
	errors []error
}

func (e *multiError) Error() string {
	return "multi error: (" + strings.Join(F.MapToString(e.errors), " | ") + ")"
}

func (e *multiError) Unwrap() []error {
	return e.errors
}

func (e *multiError) UnwrapMulti() []error {
	return e.errors
}

func Errors(errorList ...error) error {
	var retList []error
	for _, err := range errorList {
		if err != nil {
			retList = append(retList, err)
		}
	}
	switch len(retList) {
	case 0:
		return nil
	case 1:
		return retList[0]
	}
	return &multiError{errors: retList}
}

func IsMulti(err error, targetList ...error) bool {
	for _, target := range targetList {
		if errors.Is(err, target) {
			return true
		}
	}
	multiErr, isMulti := err.(MultiError)
	if !isMulti {
		if unwrapped := errors.Unwrap(err); unwrapped != nil {
			return IsMulti(unwrapped, targetList...)
		}
		return false
	}
	for _, innerErr := range multiErr.UnwrapMulti() {
		if !IsMulti(innerErr, targetList...) {
			return false
		}
	}
	return true
}
