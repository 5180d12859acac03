// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync/atomic"

	"github.com/momentics/hioload-threads/api"
)

var _ api.Semaphore = (*Semaphore)(nil)

// Semaphore is a channel-backed api.Semaphore that records Post/Wait counts,
// for tests that must observe signalling without timing dependence.
type Semaphore struct {
	ch    chan struct{}
	Posts atomic.Uint64
	Waits atomic.Uint64
}

// NewSemaphore creates a fake semaphore with room for cap pending posts.
func NewSemaphore(cap int) *Semaphore {
	return &Semaphore{ch: make(chan struct{}, cap)}
}

func (s *Semaphore) Post() {
	s.Posts.Add(1)
	s.ch <- struct{}{}
}

func (s *Semaphore) Wait() {
	<-s.ch
	s.Waits.Add(1)
}

func (s *Semaphore) TryWait() bool {
	select {
	case <-s.ch:
		s.Waits.Add(1)
		return true
	default:
		return false
	}
}
