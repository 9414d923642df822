// Package epoch maps wall time onto the monotonically non-decreasing logical
// epoch counter the engine prices against.
package epoch

import "time"

type Clock struct {
	Genesis  time.Time
	Interval time.Duration
}

// Now returns the current epoch. Epochs before genesis clamp to zero so a
// misconfigured genesis can never produce a wrapped counter.
func (c Clock) Now() uint64 {
	interval := c.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	elapsed := time.Since(c.Genesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / interval)
}
