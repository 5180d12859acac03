//go:build windows
// +build windows

// File: thread/handle_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows thread handles. A handle wraps a real kernel HANDLE opened with
// query+set access, so Clone duplicates it and Close releases it.
// SetThreadAffinityMask and GetThreadTimes are reached through lazy kernel32
// procs, same as the rest of the library's Windows backends.

package thread

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = modkernel32.NewProc("SetThreadAffinityMask")
	procGetThreadTimes        = modkernel32.NewProc("GetThreadTimes")
)

const (
	threadQueryInformation = 0x0040
	threadSetInformation   = 0x0020
)

// ThreadHandle references an OS thread via a duplicable kernel handle plus
// the numeric thread id. The zero value is an empty, inert handle.
type ThreadHandle struct {
	handle windows.Handle
	tid    uint32
}

// Current returns a handle for the calling OS thread. The handle never owns
// the thread's lifecycle, only the kernel HANDLE, which Close releases.
func Current() ThreadHandle {
	tid := windows.GetCurrentThreadId()
	h, err := windows.OpenThread(threadQueryInformation|threadSetInformation, false, tid)
	if err != nil {
		return ThreadHandle{}
	}
	return ThreadHandle{handle: h, tid: tid}
}

// Empty reports whether the handle references no thread.
func (h ThreadHandle) Empty() bool {
	return h.handle == 0
}

// ID returns the lightweight numeric thread id, 0 when empty.
func (h ThreadHandle) ID() uint64 {
	return uint64(h.tid)
}

// Clone duplicates the underlying kernel handle. On failure it returns an
// empty handle rather than an error.
func (h ThreadHandle) Clone() ThreadHandle {
	if h.handle == 0 {
		return ThreadHandle{}
	}
	var dup windows.Handle
	proc := windows.CurrentProcess()
	err := windows.DuplicateHandle(proc, h.handle, proc, &dup, 0, false, windows.DUPLICATE_SAME_ACCESS)
	if err != nil {
		return ThreadHandle{}
	}
	return ThreadHandle{handle: dup, tid: h.tid}
}

// Close releases the kernel handle and empties the handle.
func (h *ThreadHandle) Close() {
	if h.handle != 0 {
		windows.CloseHandle(h.handle)
	}
	h.handle = 0
	h.tid = 0
}

// CPUTime returns the thread's cumulative user+kernel CPU time in 100ns
// ticks (see CPUTimeTicksPerSecond). Returns 0 when unsupported or empty.
func (h ThreadHandle) CPUTime() uint64 {
	if h.handle == 0 {
		return 0
	}
	var creation, exit, kernel, user windows.Filetime
	r, _, _ := procGetThreadTimes.Call(
		uintptr(h.handle),
		uintptr(unsafe.Pointer(&creation)),
		uintptr(unsafe.Pointer(&exit)),
		uintptr(unsafe.Pointer(&kernel)),
		uintptr(unsafe.Pointer(&user)))
	if r == 0 {
		return 0
	}
	k := uint64(kernel.HighDateTime)<<32 | uint64(kernel.LowDateTime)
	u := uint64(user.HighDateTime)<<32 | uint64(user.LowDateTime)
	return k + u
}

// CPUTimeTicksPerSecond returns how many CPUTime ticks elapse per second of
// consumed CPU. FILETIME counts 100ns intervals.
func CPUTimeTicksPerSecond() uint64 {
	return 10_000_000
}

// SetAffinity restricts the referenced thread to CPUs whose bit is set in
// mask (bit i = logical CPU i). Mask 0 lifts the restriction. Returns
// whether the OS accepted the request.
func (h ThreadHandle) SetAffinity(mask uint64) bool {
	if h.handle == 0 {
		return false
	}
	if mask == 0 {
		mask = allCPUMask()
	}
	old, _, _ := procSetThreadAffinityMask.Call(uintptr(h.handle), uintptr(mask))
	return old != 0
}
