// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-threads/api"
)

var _ api.Clock = (*Clock)(nil)

// Clock is a manually advanced api.Clock for deterministic calibration
// tests. Every Now call auto-advances by Step so busy-wait loops terminate.
type Clock struct {
	now  atomic.Int64
	Step int64 // nanoseconds added per Now call; 0 freezes the clock
}

func (c *Clock) Now() int64 {
	if c.Step != 0 {
		return c.now.Add(c.Step)
	}
	return c.now.Load()
}

func (c *Clock) Frequency() int64 { return int64(time.Second) }

func (c *Clock) BusyWait(d time.Duration) {
	c.Advance(int64(d))
}

// Advance moves the clock forward by ns.
func (c *Clock) Advance(ns int64) {
	c.now.Add(ns)
}
