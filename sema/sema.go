// File: sema/sema.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral surface of the kernel semaphore. The Semaphore type and
// its methods are defined per platform (sema_linux.go, sema_windows.go,
// sema_stub.go) behind build tags.

package sema

import "github.com/momentics/hioload-threads/api"

var _ api.Semaphore = (*Semaphore)(nil)
