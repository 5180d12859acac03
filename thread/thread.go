// File: thread/thread.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread owns one OS thread from spawn to Join or Detach. The spawned
// goroutine locks itself to its OS thread, records a handle for itself and
// signals a rendezvous semaphore before the entry point runs, so CPUTime and
// SetAffinity are valid the moment Start returns.

package thread

import (
	"log"
	"runtime"

	"github.com/momentics/hioload-threads/sema"
)

// EntryPoint is invoked exactly once on the spawned thread; its return ends
// the thread.
type EntryPoint func()

// Thread is a ThreadHandle that owns the referenced thread's lifecycle.
// Lifecycle: Unstarted -> Started -> Joined or Detached. A started Thread
// must be Joined or Detached before it is dropped.
type Thread struct {
	ThreadHandle
	stackSize int
	started   bool
	done      chan struct{}
}

// NewThread starts a thread running fn and returns it. Start failure here is
// fatal: the construction form is for threads the process cannot run
// without. Use Start for recoverable spawning.
func NewThread(fn EntryPoint) *Thread {
	t := &Thread{}
	if !t.Start(fn) {
		log.Panicf("thread: failed to start thread")
	}
	// Constructor path gets the leaked-ownership check. Threads embedded in
	// larger structs cannot carry a finalizer, so Start alone does not.
	runtime.SetFinalizer(t, finalizeThread)
	return t
}

func finalizeThread(t *Thread) {
	if t.started {
		log.Panicf("thread: Thread dropped while still owning a running thread (missing Join or Detach)")
	}
}

// SetStackSize records the requested stack size in bytes. Legal only before
// Start. The Go runtime sizes thread stacks itself, so the value is
// advisory and kept for diagnostics.
func (t *Thread) SetStackSize(bytes int) {
	if t.started {
		log.Panicf("thread: SetStackSize called after Start")
	}
	t.stackSize = bytes
}

// StackSize returns the requested stack size, 0 when unset.
func (t *Thread) StackSize() int {
	return t.stackSize
}

// Started reports whether the Thread currently owns a running thread.
func (t *Thread) Started() bool {
	return t.started
}

// Start spawns one OS thread that invokes fn once. It blocks until the new
// thread has recorded its own handle, then returns. Returns false when fn is
// nil or the rendezvous semaphore cannot be created; goroutine spawn itself
// cannot fail at this level.
func (t *Thread) Start(fn EntryPoint) bool {
	if t.started {
		log.Panicf("thread: Start called on an already started Thread")
	}
	if fn == nil {
		return false
	}
	rendezvous := sema.New()
	if !rendezvous.Usable() {
		return false
	}
	done := make(chan struct{})
	t.done = done
	go func() {
		runtime.LockOSThread()
		t.ThreadHandle = Current()
		rendezvous.Post()
		fn()
		runtime.UnlockOSThread()
		close(done)
	}()
	rendezvous.Wait()
	t.started = true
	return true
}

// Join blocks until the entry point returns, then empties the handle.
// Calling Join without a live thread is a fatal contract violation.
func (t *Thread) Join() {
	if !t.started || t.done == nil {
		log.Panicf("thread: Join called without a live thread")
	}
	<-t.done
	t.Close()
	t.started = false
	t.done = nil
}

// Detach releases ownership without waiting; the OS thread continues
// independently and the handle becomes empty. Calling Detach without a live
// thread is a fatal contract violation.
func (t *Thread) Detach() {
	if !t.started || t.done == nil {
		log.Panicf("thread: Detach called without a live thread")
	}
	t.Close()
	t.started = false
	t.done = nil
}

// allCPUMask covers every available logical CPU, capped at 64 bits.
func allCPUMask() uint64 {
	n := runtime.NumCPU()
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}
