// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Convenience wrappers for pinning the calling goroutine's OS thread.
// The heavy lifting lives in the thread package; this package only bundles
// LockOSThread with the mask plumbing for the common single-CPU case.

package affinity

import (
	"runtime"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/thread"
)

// Pin locks the calling goroutine to its OS thread and restricts that
// thread to the given logical CPU. Returns an unpin function that lifts the
// restriction and unlocks the goroutine.
func Pin(cpuID int) (func(), error) {
	if cpuID < 0 || cpuID > 63 {
		return nil, api.ErrNotSupported
	}
	runtime.LockOSThread()
	h := thread.Current()
	if h.Empty() || !h.SetAffinity(uint64(1)<<uint(cpuID)) {
		runtime.UnlockOSThread()
		return nil, api.ErrNotSupported
	}
	return func() {
		h.SetAffinity(0)
		runtime.UnlockOSThread()
	}, nil
}

// SetMask restricts the calling thread to the CPUs set in mask (bit i =
// logical CPU i, 0 = no restriction). The caller must hold LockOSThread.
func SetMask(mask uint64) error {
	h := thread.Current()
	if h.Empty() || !h.SetAffinity(mask) {
		return api.ErrNotSupported
	}
	return nil
}
