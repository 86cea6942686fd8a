// Package timertest provides a manually driven timer.Driver for tests.
package timertest

import (
	"sync"
	"time"

	"github.com/weirlab/flume/common/timer"
)

// Driver hands out delays that fire only when the test advances the
// clock. The zero value is not usable; call NewDriver.
type Driver struct {
	access  sync.Mutex
	now     time.Time
	pending []*Delay
	armed   []time.Duration
	failure error
}

func NewDriver() *Driver {
	return &Driver{now: time.Unix(0, 0)}
}

func (d *Driver) NewDelay(duration time.Duration) timer.Delay {
	d.access.Lock()
	defer d.access.Unlock()
	delay := &Delay{
		driver:   d,
		deadline: d.now.Add(duration),
		ch:       make(chan time.Time, 1),
	}
	d.armed = append(d.armed, duration)
	if d.failure != nil {
		delay.fire(d.now, d.failure)
	} else {
		d.pending = append(d.pending, delay)
	}
	return delay
}

// Advance moves the clock forward and fires every due delay in deadline
// order.
func (d *Driver) Advance(duration time.Duration) {
	d.access.Lock()
	defer d.access.Unlock()
	d.now = d.now.Add(duration)
	for {
		index := -1
		for i, delay := range d.pending {
			if delay.deadline.After(d.now) {
				continue
			}
			if index == -1 || delay.deadline.Before(d.pending[index].deadline) {
				index = i
			}
		}
		if index == -1 {
			return
		}
		delay := d.pending[index]
		d.pending = append(d.pending[:index], d.pending[index+1:]...)
		delay.fire(delay.deadline, nil)
	}
}

// Fail fires every pending delay with err and makes delays armed later
// fail on creation.
func (d *Driver) Fail(err error) {
	d.access.Lock()
	defer d.access.Unlock()
	d.failure = err
	for _, delay := range d.pending {
		delay.fire(d.now, err)
	}
	d.pending = nil
}

// Pending reports how many delays are armed and not yet fired.
func (d *Driver) Pending() int {
	d.access.Lock()
	defer d.access.Unlock()
	return len(d.pending)
}

// Armed returns the durations of every delay armed so far, in order.
func (d *Driver) Armed() []time.Duration {
	d.access.Lock()
	defer d.access.Unlock()
	return append([]time.Duration(nil), d.armed...)
}

type Delay struct {
	driver   *Driver
	deadline time.Time
	ch       chan time.Time
	err      error
	fired    bool
	stopped  bool
}

func (d *Delay) C() <-chan time.Time {
	return d.ch
}

func (d *Delay) Err() error {
	d.driver.access.Lock()
	defer d.driver.access.Unlock()
	return d.err
}

func (d *Delay) Stop() bool {
	d.driver.access.Lock()
	defer d.driver.access.Unlock()
	if d.fired || d.stopped {
		return false
	}
	d.stopped = true
	for i, pending := range d.driver.pending {
		if pending == d {
			d.driver.pending = append(d.driver.pending[:i], d.driver.pending[i+1:]...)
			break
		}
	}
	return true
}

// fire requires the driver lock.
func (d *Delay) fire(at time.Time, err error) {
	if d.fired || d.stopped {
		return
	}
	d.fired = true
	d.err = err
	d.ch <- at
}
