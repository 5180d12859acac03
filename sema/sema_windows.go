//go:build windows
// +build windows

// File: sema/sema_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Kernel semaphore object backend for Windows.

package sema

import (
	"log"

	"golang.org/x/sys/windows"
)

var (
	modkernel32          = windows.NewLazySystemDLL("kernel32.dll")
	procCreateSemaphoreW = modkernel32.NewProc("CreateSemaphoreW")
	procReleaseSemaphore = modkernel32.NewProc("ReleaseSemaphore")
)

// maxCount caps the kernel-side semaphore count. Posts beyond it fail
// silently, which WorkSema never triggers (one token per sleeping waiter).
const maxCount = 1 << 30

// Semaphore wraps an anonymous kernel semaphore object.
type Semaphore struct {
	handle windows.Handle
}

// New creates a semaphore with an initial count of zero. On creation failure
// the returned semaphore is unusable; Usable reports it.
func New() *Semaphore {
	h, _, err := procCreateSemaphoreW.Call(0, 0, maxCount, 0)
	if h == 0 {
		log.Printf("sema: CreateSemaphoreW failed: %v", err)
		return &Semaphore{}
	}
	return &Semaphore{handle: windows.Handle(h)}
}

// Usable reports whether the kernel object was created.
func (s *Semaphore) Usable() bool {
	return s != nil && s.handle != 0
}

// Post increments the count and wakes one blocked waiter if present.
func (s *Semaphore) Post() {
	if s.handle == 0 {
		return
	}
	procReleaseSemaphore.Call(uintptr(s.handle), 1, 0)
}

// Wait blocks until the count is positive, then decrements it.
func (s *Semaphore) Wait() {
	if s.handle == 0 {
		return
	}
	windows.WaitForSingleObject(s.handle, windows.INFINITE)
}

// TryWait attempts a non-blocking decrement.
func (s *Semaphore) TryWait() bool {
	if s.handle == 0 {
		return false
	}
	ev, err := windows.WaitForSingleObject(s.handle, 0)
	return err == nil && ev == windows.WAIT_OBJECT_0
}

// Close releases the kernel object. The semaphore must have no waiters.
func (s *Semaphore) Close() {
	if s.handle != 0 {
		windows.CloseHandle(s.handle)
		s.handle = 0
	}
}
