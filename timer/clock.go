// File: timer/clock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Monotonic clock built on the runtime's nanotime counter. time.Now carries
// wall-clock bookkeeping we never need; nanotime is a single VDSO call and is
// what the runtime itself schedules with.

package timer

import (
	"time"
	_ "unsafe" // for go:linkname
)

//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Monotonic is the process-wide monotonic clock. It satisfies api.Clock.
type Monotonic struct{}

// Now returns monotonic nanoseconds since an arbitrary start point.
func (Monotonic) Now() int64 {
	return nanotime()
}

// Frequency returns the counter rate: nanotime ticks in nanoseconds.
func (Monotonic) Frequency() int64 {
	return int64(time.Second)
}

// BusyWait spins on the monotonic counter until at least d has elapsed.
// It never yields to the scheduler; callers wanting a cooperative wait
// should use time.Sleep instead.
func (Monotonic) BusyWait(d time.Duration) {
	deadline := nanotime() + int64(d)
	for nanotime() < deadline {
	}
}

// Now is a package-level shortcut for Monotonic{}.Now.
func Now() int64 {
	return nanotime()
}
