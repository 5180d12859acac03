//go:build !amd64 && !arm64
// +build !amd64,!arm64

// File: spin/pause_noasm.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback for architectures without a wired-up pause instruction.
// A counted empty loop still yields execution units on SMT cores and keeps
// the calibration math meaningful.

package spin

import "sync/atomic"

var pauseSink atomic.Uint32

func procyield(cycles uint32) {
	var sink uint32
	for i := uint32(0); i < cycles; i++ {
		sink += i
	}
	// Defeat dead-code elimination of the loop.
	pauseSink.Store(sink)
}
