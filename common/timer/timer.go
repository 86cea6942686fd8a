package timer

import "time"

// Delay is a single-shot timer armed at creation. C fires exactly once,
// either when the duration elapses or when the driver fails; Err
// distinguishes the two after the fact.
type Delay interface {
	C() <-chan time.Time
	Err() error
	// Stop cancels the delay and reports whether it was still armed.
	Stop() bool
}

// Driver creates delays.
type Driver interface {
	NewDelay(duration time.Duration) Delay
}

// System drives delays with runtime timers. System delays never fail.
var System Driver = systemDriver{}

type systemDriver struct{}

func (systemDriver) NewDelay(duration time.Duration) Delay {
	return systemDelay{time.NewTimer(duration)}
}

type systemDelay struct {
	timer *time.Timer
}

func (d systemDelay) C() <-chan time.Time {
	return d.timer.C
}

func (d systemDelay) Err() error {
	return nil
}

func (d systemDelay) Stop() bool {
	return d.timer.Stop()
}
