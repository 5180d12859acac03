package thread_test

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-threads/thread"
	"github.com/momentics/hioload-threads/timer"
)

func TestStartJoinNoOpEntryPoint(t *testing.T) {
	var ran atomic.Bool
	var th thread.Thread
	if !th.Start(func() { ran.Store(true) }) {
		t.Fatal("Start failed")
	}
	if th.ID() == 0 {
		t.Error("thread id must be available immediately after Start")
	}
	done := make(chan struct{})
	go func() {
		th.Join()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Join did not return promptly for a no-op entry point")
	}
	if !ran.Load() {
		t.Error("entry point did not run")
	}
	if !th.Empty() {
		t.Error("Thread must be empty after Join")
	}
	if th.Started() {
		t.Error("Thread must not report Started after Join")
	}
}

func TestNewThreadAutoStarts(t *testing.T) {
	ch := make(chan uint64, 1)
	th := thread.NewThread(func() {
		ch <- thread.Current().ID()
	})
	selfID := <-ch
	if got := th.ID(); got != selfID {
		t.Errorf("handle id %d does not match the thread's own id %d", got, selfID)
	}
	th.Join()
}

func TestStartNilEntryPoint(t *testing.T) {
	var th thread.Thread
	if th.Start(nil) {
		t.Error("Start(nil) must fail")
	}
	if th.Started() {
		t.Error("failed Start must leave the Thread unstarted")
	}
}

func TestDetachLeavesThreadRunning(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	var th thread.Thread
	if !th.Start(func() {
		<-release
		close(finished)
	}) {
		t.Fatal("Start failed")
	}
	th.Detach()
	if !th.Empty() {
		t.Error("Thread must be empty after Detach")
	}
	close(release)
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("detached thread did not keep running")
	}
}

func TestSetStackSizeAfterStartPanics(t *testing.T) {
	var th thread.Thread
	th.SetStackSize(1 << 20)
	if th.StackSize() != 1<<20 {
		t.Error("stack size not recorded")
	}
	if !th.Start(func() {}) {
		t.Fatal("Start failed")
	}
	defer th.Join()
	defer func() {
		if recover() == nil {
			t.Error("SetStackSize after Start must panic")
		}
	}()
	th.SetStackSize(1 << 21)
}

func TestJoinWithoutStartPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Join on an unstarted Thread must panic")
		}
	}()
	var th thread.Thread
	th.Join()
}

func TestCurrentHandleQueries(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := thread.Current()
	if h.Empty() {
		t.Fatal("Current returned an empty handle")
	}

	c := h.Clone()
	if c.Empty() || c.ID() != h.ID() {
		t.Error("Clone must reference the same thread")
	}
	c.Close()
	if !c.Empty() {
		t.Error("Close must empty the duplicated handle")
	}
	if h.Empty() {
		t.Error("closing the duplicate must not affect the original")
	}

	if thread.CPUTimeTicksPerSecond() == 0 {
		t.Fatal("tick rate must be positive")
	}
}

func TestCPUTimeAccrues(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := thread.Current()
	if h.Empty() {
		t.Skip("thread handles unsupported on this platform")
	}
	// Burn CPU until the tick counter moves; USER_HZ granularity means tens
	// of milliseconds of busy work.
	deadline := timer.Now() + int64(2*time.Second)
	for h.CPUTime() == 0 {
		if timer.Now() > deadline {
			t.Skip("CPU time not observable on this platform")
		}
		timer.Monotonic{}.BusyWait(10 * time.Millisecond)
	}
}

func TestSetAffinityMaskZeroMeansUnrestricted(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := thread.Current()
	if h.Empty() {
		t.Skip("thread handles unsupported on this platform")
	}
	if !h.SetAffinity(1) {
		t.Skip("affinity not accepted on this platform")
	}
	if !h.SetAffinity(0) {
		t.Error("mask 0 must restore an unrestricted affinity")
	}
}

func TestEmptyHandleQueriesAreInert(t *testing.T) {
	var h thread.ThreadHandle
	if !h.Empty() {
		t.Fatal("zero handle must be empty")
	}
	if h.CPUTime() != 0 {
		t.Error("CPUTime on an empty handle must be 0")
	}
	if h.SetAffinity(1) {
		t.Error("SetAffinity on an empty handle must report failure")
	}
}
