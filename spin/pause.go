//go:build amd64 || arm64
// +build amd64 arm64

// File: spin/pause.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package spin

// procyield executes cycles iterations of the CPU's low-power pause
// instruction (PAUSE on amd64, YIELD on arm64). Implemented in assembly;
// cycles must be at least 1.
func procyield(cycles uint32)
