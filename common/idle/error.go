package idle

type errorKind int

const (
	kindInner errorKind = iota
	kindTimer
)

// Error reports why a timed source failed: the wrapped source itself
// failed (inner), or the delay driver faulted (timer). Idle expiry is
// not an Error; it ends the sequence with io.EOF.
type Error struct {
	kind  errorKind
	cause error
}

func NewInnerError(cause error) *Error {
	return &Error{kind: kindInner, cause: cause}
}

func NewTimerError(cause error) *Error {
	return &Error{kind: kindTimer, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	if e.kind == kindTimer {
		return "timer error"
	}
	return "error polling stream"
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) IsInner() bool {
	return e.kind == kindInner
}

func (e *Error) IsTimer() bool {
	return e.kind == kindTimer
}

// Inner returns the wrapped source error when this is an inner failure.
func (e *Error) Inner() (error, bool) {
	if e.kind != kindInner {
		return nil, false
	}
	return e.cause, true
}

// Timer returns the driver fault when this is a timer failure.
func (e *Error) Timer() (error, bool) {
	if e.kind != kindTimer {
		return nil, false
	}
	return e.cause, true
}
