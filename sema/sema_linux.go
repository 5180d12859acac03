//go:build linux
// +build linux

// File: sema/sema_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Futex-backed counting semaphore. The count lives in userspace and the
// kernel is entered only when a waiter must actually block or be woken,
// which keeps the uncontended Post/TryWait paths syscall-free.

package sema

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Futex ops from <linux/futex.h>; x/sys/unix exports only the syscall
// number, not the op constants.
const (
	futexWaitOp      = 0
	futexWakeOp      = 1
	futexPrivateFlag = 128
)

// Semaphore is a counting semaphore blocking via FUTEX_WAIT_PRIVATE.
type Semaphore struct {
	count   int32
	waiters int32
}

// New creates a semaphore with an initial count of zero.
func New() *Semaphore {
	return &Semaphore{}
}

// Usable reports whether the semaphore can be waited on. The futex backend
// has no kernel object to create, so it is always usable.
func (s *Semaphore) Usable() bool {
	return s != nil
}

// Post increments the count and wakes one blocked waiter if present.
func (s *Semaphore) Post() {
	atomic.AddInt32(&s.count, 1)
	if atomic.LoadInt32(&s.waiters) > 0 {
		futexWake(&s.count, 1)
	}
}

// Wait blocks until the count is positive, then decrements it.
func (s *Semaphore) Wait() {
	for {
		c := atomic.LoadInt32(&s.count)
		if c > 0 {
			if atomic.CompareAndSwapInt32(&s.count, c, c-1) {
				return
			}
			continue
		}
		atomic.AddInt32(&s.waiters, 1)
		futexWait(&s.count, c)
		atomic.AddInt32(&s.waiters, -1)
	}
}

// TryWait attempts a non-blocking decrement.
func (s *Semaphore) TryWait() bool {
	for {
		c := atomic.LoadInt32(&s.count)
		if c <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(&s.count, c, c-1) {
			return true
		}
	}
}

// futexWait blocks until the word at addr no longer holds val or a wake
// arrives. Spurious returns are fine; callers re-check in a loop.
func futexWait(addr *int32, val int32) {
	unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWaitOp|futexPrivateFlag),
		uintptr(uint32(val)),
		0, 0, 0)
}

// futexWake wakes up to n waiters blocked on addr.
func futexWake(addr *int32, n int) {
	unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWakeOp|futexPrivateFlag),
		uintptr(n),
		0, 0, 0)
}
