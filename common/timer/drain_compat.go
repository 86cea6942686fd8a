//go:build !go1.23

package timer

import "time"

// StopAndDrain stops a reused time.Timer so the owner can Reset it,
// discarding a pending fire if the timer already went off. Only the
// calling goroutine may receive from t.C.
func StopAndDrain(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
