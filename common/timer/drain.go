//go:build go1.23

package timer

import "time"

// StopAndDrain stops a reused time.Timer so the owner can Reset it.
// Go 1.23 reworked timer channels so a stopped timer leaves no stale
// value behind; Stop alone is enough.
func StopAndDrain(t *time.Timer) {
	t.Stop()
}
