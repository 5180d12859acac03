// File: thread/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package thread provides OS thread handles and lifecycle ownership.
//
// ThreadHandle is a non-owning (or explicitly duplicated) reference to an OS
// thread, good for CPU-time queries and affinity control. Thread owns one
// spawned thread from Start to Join or Detach. Threads are goroutines locked
// to their OS thread for their whole lifetime, which is how Go expresses a
// dedicated preemptive thread.
//
// Platform backends are selected at build time: handle_linux.go,
// handle_windows.go, handle_stub.go.
package thread
