// File: api/interfaces.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core contracts of the hioload-threads library. Implementations live in
// the sema and timer packages; the fake package provides test doubles.

package api

import "time"

// Semaphore is a counting semaphore with a blocking decrement.
// Post and TryWait never block; Wait blocks until the count is positive.
type Semaphore interface {
	// Post increments the count and wakes one blocked waiter if present.
	Post()

	// Wait blocks until the count is positive, then decrements it.
	Wait()

	// TryWait attempts a non-blocking decrement.
	// Returns true if the count was decremented.
	TryWait() bool
}

// Clock is a monotonic time source used by spin calibration.
type Clock interface {
	// Now returns the current monotonic counter value.
	Now() int64

	// Frequency returns how many counter units elapse per second.
	Frequency() int64

	// BusyWait spins until at least d has elapsed on this clock.
	BusyWait(d time.Duration)
}
