//go:build !linux && !windows
// +build !linux,!windows

// File: sema/sema_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback backend for platforms without a dedicated kernel
// primitive wired up. sync.Cond parks on the runtime semaphore, which is
// itself kernel-backed, so blocking behavior matches the other backends.

package sema

import "sync"

// Semaphore is a counting semaphore over a mutex and condition variable.
type Semaphore struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

// New creates a semaphore with an initial count of zero.
func New() *Semaphore {
	s := &Semaphore{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Usable reports whether the semaphore can be waited on.
func (s *Semaphore) Usable() bool {
	return s != nil
}

// Post increments the count and wakes one blocked waiter if present.
func (s *Semaphore) Post() {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	s.cond.Signal()
}

// Wait blocks until the count is positive, then decrements it.
func (s *Semaphore) Wait() {
	s.mu.Lock()
	for s.count == 0 {
		s.cond.Wait()
	}
	s.count--
	s.mu.Unlock()
}

// TryWait attempts a non-blocking decrement.
func (s *Semaphore) TryWait() bool {
	s.mu.Lock()
	ok := s.count > 0
	if ok {
		s.count--
	}
	s.mu.Unlock()
	return ok
}
