//go:build linux
// +build linux

// File: thread/handle_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux thread handles. A handle is the kernel task id (tid); it carries no
// closeable OS object, so duplication is a plain copy. CPU time comes from
// /proc/self/task/<tid>/stat and affinity from sched_setaffinity, both pure
// Go via golang.org/x/sys/unix.

package thread

import (
	"bytes"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// userHz is the tick unit of utime/stime in procfs. The kernel exports
// these fields in USER_HZ, fixed at 100 for userspace ABI stability.
const userHz = 100

// ThreadHandle references an OS thread by kernel task id.
// The zero value is an empty, inert handle.
type ThreadHandle struct {
	tid int
}

// Current returns a handle for the calling OS thread. The handle never owns
// the thread's lifecycle. Callers should hold runtime.LockOSThread for the
// handle to keep referring to the goroutine's thread.
func Current() ThreadHandle {
	return ThreadHandle{tid: unix.Gettid()}
}

// Empty reports whether the handle references no thread.
func (h ThreadHandle) Empty() bool {
	return h.tid == 0
}

// ID returns the lightweight numeric thread id, 0 when empty.
func (h ThreadHandle) ID() uint64 {
	return uint64(h.tid)
}

// Clone duplicates the handle. Task ids are not closeable kernel objects on
// Linux, so the duplicate is a plain copy and cannot fail.
func (h ThreadHandle) Clone() ThreadHandle {
	return h
}

// Close releases the OS reference and empties the handle.
func (h *ThreadHandle) Close() {
	h.tid = 0
}

// CPUTime returns the thread's cumulative user+kernel CPU time in
// platform-native ticks (see CPUTimeTicksPerSecond). Returns 0 when the
// handle is empty or the thread has exited.
func (h ThreadHandle) CPUTime() uint64 {
	if h.tid == 0 {
		return 0
	}
	data, err := os.ReadFile("/proc/self/task/" + strconv.Itoa(h.tid) + "/stat")
	if err != nil {
		return 0
	}
	// comm may contain spaces; fields are positional after the last ')'.
	i := bytes.LastIndexByte(data, ')')
	if i < 0 || i+2 > len(data) {
		return 0
	}
	fields := bytes.Fields(data[i+2:])
	// stat(5): utime is field 14, stime 15; fields[0] here is field 3.
	if len(fields) < 13 {
		return 0
	}
	utime, err1 := strconv.ParseUint(string(fields[11]), 10, 64)
	stime, err2 := strconv.ParseUint(string(fields[12]), 10, 64)
	if err1 != nil || err2 != nil {
		return 0
	}
	return utime + stime
}

// CPUTimeTicksPerSecond returns how many CPUTime ticks elapse per second of
// consumed CPU.
func CPUTimeTicksPerSecond() uint64 {
	return userHz
}

// SetAffinity restricts the referenced thread to CPUs whose bit is set in
// mask (bit i = logical CPU i). Mask 0 lifts the restriction. Returns
// whether the kernel accepted the request.
func (h ThreadHandle) SetAffinity(mask uint64) bool {
	if h.tid == 0 {
		return false
	}
	if mask == 0 {
		mask = allCPUMask()
	}
	var set unix.CPUSet
	for i := 0; i < 64; i++ {
		if mask&(1<<uint(i)) != 0 {
			set.Set(i)
		}
	}
	return unix.SchedSetaffinity(h.tid, &set) == nil
}
