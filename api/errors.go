// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared across the hioload-threads library.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrNotSupported      = fmt.Errorf("operation not supported on this platform")
	ErrResourceExhausted = fmt.Errorf("resource exhausted")
	ErrSemaphoreUnusable = fmt.Errorf("semaphore is unusable")
	ErrEmptyHandle       = fmt.Errorf("thread handle is empty")
)
