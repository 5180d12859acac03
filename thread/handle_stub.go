//go:build !linux && !windows
// +build !linux,!windows

// File: thread/handle_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub backend for platforms without thread query support wired up.
// Handles carry a synthetic id so lifecycle bookkeeping still works;
// CPU-time and affinity queries are best-effort no-ops.

package thread

import "sync/atomic"

var stubIDCounter uint64

// ThreadHandle references an OS thread by a synthetic id.
// The zero value is an empty, inert handle.
type ThreadHandle struct {
	tid uint64
}

// Current returns a handle for the calling thread with a synthetic id.
func Current() ThreadHandle {
	return ThreadHandle{tid: atomic.AddUint64(&stubIDCounter, 1)}
}

// Empty reports whether the handle references no thread.
func (h ThreadHandle) Empty() bool {
	return h.tid == 0
}

// ID returns the synthetic thread id, 0 when empty.
func (h ThreadHandle) ID() uint64 {
	return h.tid
}

// Clone duplicates the handle.
func (h ThreadHandle) Clone() ThreadHandle {
	return h
}

// Close empties the handle.
func (h *ThreadHandle) Close() {
	h.tid = 0
}

// CPUTime is unsupported here and returns 0.
func (h ThreadHandle) CPUTime() uint64 {
	return 0
}

// CPUTimeTicksPerSecond returns a nominal tick rate for the stub backend.
func CPUTimeTicksPerSecond() uint64 {
	return 1
}

// SetAffinity is unsupported here and reports false.
func (h ThreadHandle) SetAffinity(mask uint64) bool {
	return false
}
