// File: workqueue/workqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// WorkQueue pairs a FIFO with a WorkSema: pushers from any goroutine, one
// popper thread. This is the intended consumption pattern for worksema —
// items travel through the queue, notifications through the register.

package workqueue

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-threads/control"
	"github.com/momentics/hioload-threads/worksema"
)

// WorkQueue is a multi-producer single-consumer job queue. Exactly one
// goroutine may call TryPop/PopWait; any number may Push.
type WorkQueue struct {
	mu   sync.Mutex
	fifo *queue.Queue
	ws   *worksema.WorkSema
}

// New creates an empty WorkQueue.
func New() *WorkQueue {
	return &WorkQueue{
		fifo: queue.New(),
		ws:   worksema.New(),
	}
}

// Push appends an item and notifies the consumer.
func (q *WorkQueue) Push(item any) {
	q.mu.Lock()
	q.fifo.Add(item)
	q.mu.Unlock()
	q.ws.Notify()
}

// TryPop removes the oldest item without blocking.
func (q *WorkQueue) TryPop() (any, bool) {
	q.ws.CheckForWork()
	return q.pop()
}

// PopWait removes the oldest item, blocking (spin first, then kernel wait)
// until one is available. Returns ok=false when the queue has been closed
// and drained.
func (q *WorkQueue) PopWait() (any, bool) {
	for {
		if item, ok := q.pop(); ok {
			return item, true
		}
		if !q.ws.WaitForWorkWithSpin() {
			// Killed: hand out the remaining backlog before reporting closed.
			return q.pop()
		}
	}
}

func (q *WorkQueue) pop() (any, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fifo.Length() == 0 {
		return nil, false
	}
	return q.fifo.Remove(), true
}

// Len returns the number of queued items.
func (q *WorkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fifo.Length()
}

// WaitIdle blocks until the consumer has gone idle (nothing pending in the
// notification register). Returns false if the queue was closed while
// waiting. At most one goroutine may wait at a time.
func (q *WorkQueue) WaitIdle() bool {
	return q.ws.WaitForEmptyWithSpin()
}

// Close kills the notification register, unblocking the consumer and any
// idle observer. Pending items remain poppable via TryPop/PopWait.
func (q *WorkQueue) Close() {
	q.ws.Kill()
}

// PublishStats writes the notification counters into reg under the given
// prefix.
func (q *WorkQueue) PublishStats(prefix string, reg *control.MetricsRegistry) {
	s := q.ws.Stats()
	reg.Set(prefix+".notifies", s.Notifies)
	reg.Set(prefix+".claims", s.Claims)
	reg.Set(prefix+".sleeps", s.Sleeps)
	reg.Set(prefix+".spins", s.Spins)
	reg.Set(prefix+".len", q.Len())
}

// RegisterDebugProbes installs live-inspection hooks for the queue under the
// given prefix. Probes stay valid for the queue's lifetime; callers remove
// them with dp.UnregisterProbe when the queue is discarded.
func (q *WorkQueue) RegisterDebugProbes(prefix string, dp *control.DebugProbes) {
	dp.RegisterProbe(prefix+".len", func() any { return q.Len() })
	dp.RegisterProbe(prefix+".idle", func() any { return q.ws.Idle() })
	dp.RegisterProbe(prefix+".stats", func() any { return q.ws.Stats() })
}
