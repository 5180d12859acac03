// File: sema/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package sema provides a thin wrapper over an OS blocking counting
// semaphore. Backend selection is resolved at build time: futex on Linux,
// kernel semaphore objects on Windows, a sync.Cond fallback elsewhere.
// The worksema package uses it as the blocking substrate under its
// lock-free state machine.
package sema
