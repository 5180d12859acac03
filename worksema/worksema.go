// File: worksema/worksema.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Register bit layout (packed int64):
//
//	raw = payload<<1 | waitingEmpty        bit 0: WaitingEmpty flag
//	payload >= 0   Running(payload)        consumer active, payload pending units
//	payload == -1  Spinning                consumer idle, bounded busy-wait
//	payload == -2  Sleeping                consumer idle, blocked on kernel sema
//	payload == -3  Dead                    terminal until Reset
//
// The arithmetic right shift in unpack keeps the sentinel signs intact.
// WaitingEmpty is cleared by whichever transition posts the empty semaphore,
// so one registration receives exactly one post.

package worksema

import (
	"log"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/sema"
	"github.com/momentics/hioload-threads/spin"
)

const (
	payloadSpinning int64 = -1
	payloadSleeping int64 = -2
	payloadDead     int64 = -3

	waitingEmptyBit int64 = 1
)

func pack(payload, waiting int64) int64 {
	return payload<<1 | waiting
}

func unpack(raw int64) (payload, waiting int64) {
	return raw >> 1, raw & waitingEmptyBit
}

// Stats are cumulative operation counters, safe to read concurrently.
type Stats struct {
	Notifies uint64 // Notify calls that landed on a live register
	Claims   uint64 // waits/polls that returned with work
	Sleeps   uint64 // kernel blocks entered by the consumer
	Spins    uint64 // spin phases entered by the consumer
}

// WorkSema is the adaptive work-notification state machine. Producers call
// Notify; exactly one consumer calls CheckForWork/WaitForWork*; at most one
// observer at a time calls WaitForEmpty*.
type WorkSema struct {
	_     cpu.CacheLinePad
	state atomic.Int64
	_     cpu.CacheLinePad

	work  api.Semaphore // wakes the sleeping consumer
	empty api.Semaphore // wakes the drain observer

	notifies atomic.Uint64
	claims   atomic.Uint64
	sleeps   atomic.Uint64
	spins    atomic.Uint64
}

// New creates a WorkSema in the Running(0) state backed by kernel
// semaphores.
func New() *WorkSema {
	return NewWithSemaphores(sema.New(), sema.New())
}

// NewWithSemaphores creates a WorkSema over caller-supplied semaphores:
// work wakes the sleeping consumer, empty wakes the drain observer. Used by
// tests to observe signalling deterministically.
func NewWithSemaphores(work, empty api.Semaphore) *WorkSema {
	return &WorkSema{
		work:  work,
		empty: empty,
	}
}

// Notify posts one unit of work. If the consumer was idle in the Spinning or
// Sleeping phase, the kernel semaphore is signalled so a sleeping (or
// about-to-sleep) consumer wakes. Safe from any number of producers.
// Notify on a Dead register is a no-op.
func (w *WorkSema) Notify() {
	for {
		raw := w.state.Load()
		payload, waiting := unpack(raw)
		if payload == payloadDead {
			return
		}
		next := payload + 1
		if payload < 0 {
			next = 1
		}
		if w.state.CompareAndSwap(raw, pack(next, waiting)) {
			w.notifies.Add(1)
			if payload == payloadSpinning || payload == payloadSleeping {
				// The spinning consumer may already have claimed and moved
				// on; the stale token is absorbed by the wake-path reset.
				w.work.Post()
			}
			return
		}
	}
}

// CheckForWork is the consumer's non-blocking poll. It claims the whole
// pending batch, resetting the register to Running(0), and returns true iff
// notifications had accumulated since the last claim. Polling an idle
// register re-activates it and, if an observer is registered, wakes the
// observer: the queue is provably empty at that instant. A Dead register
// stays Dead and polls false until an explicit Reset.
func (w *WorkSema) CheckForWork() bool {
	for {
		raw := w.state.Load()
		payload, waiting := unpack(raw)
		switch {
		case payload == payloadDead:
			return false
		case payload > 0:
			if w.state.CompareAndSwap(raw, pack(0, waiting)) {
				w.claims.Add(1)
				return true
			}
		case payload == 0:
			return false
		default:
			// Spinning or Sleeping: re-activate to Running(0).
			if w.state.CompareAndSwap(raw, pack(0, 0)) {
				if waiting != 0 {
					w.empty.Post()
				}
				return false
			}
		}
	}
}

// WaitForWork blocks until work is posted, with no spin phase. When pending
// work exists it is claimed and the call returns immediately. Otherwise the
// register transitions to Sleeping (waking a registered observer) and the
// consumer blocks on the kernel semaphore. Returns false iff the register is
// Dead.
func (w *WorkSema) WaitForWork() bool {
	for {
		raw := w.state.Load()
		payload, waiting := unpack(raw)
		switch {
		case payload == payloadDead:
			return false
		case payload > 0:
			if w.state.CompareAndSwap(raw, pack(0, waiting)) {
				w.claims.Add(1)
				return true
			}
		case payload == 0:
			if w.state.CompareAndSwap(raw, pack(payloadSleeping, 0)) {
				if waiting != 0 {
					w.empty.Post()
				}
				w.sleeps.Add(1)
				w.work.Wait()
				return w.wakeReset()
			}
		default:
			// Spinning/Sleeping can only be set by the one consumer.
			log.Panicf("worksema: concurrent consumer wait detected")
		}
	}
}

// WaitForWorkWithSpin behaves like WaitForWork but burns the configured spin
// budget polling in the Spinning state before falling back to the kernel
// block. Use it on dedicated consumer threads where wake latency matters
// more than idle CPU.
func (w *WorkSema) WaitForWorkWithSpin() bool {
	ok, done := w.enterSpinning()
	if done {
		return ok
	}
	w.spins.Add(1)
	budget := spin.Budget()
	var spent int64
	for spent < budget {
		raw := w.state.Load()
		payload, waiting := unpack(raw)
		if payload == payloadDead {
			return false
		}
		if payload > 0 {
			if w.state.CompareAndSwap(raw, pack(0, waiting)) {
				w.claims.Add(1)
				return true
			}
			continue
		}
		spent += spin.ShortSpin()
	}
	for {
		raw := w.state.Load()
		payload, waiting := unpack(raw)
		switch {
		case payload == payloadDead:
			return false
		case payload > 0:
			if w.state.CompareAndSwap(raw, pack(0, waiting)) {
				w.claims.Add(1)
				return true
			}
		default:
			// Still Spinning; observer was already woken on entry.
			if w.state.CompareAndSwap(raw, pack(payloadSleeping, waiting)) {
				w.sleeps.Add(1)
				w.work.Wait()
				return w.wakeReset()
			}
		}
	}
}

// enterSpinning claims pending work or transitions Running(0) to Spinning.
// done reports that the wait already resolved with result ok.
func (w *WorkSema) enterSpinning() (ok, done bool) {
	for {
		raw := w.state.Load()
		payload, waiting := unpack(raw)
		switch {
		case payload == payloadDead:
			return false, true
		case payload > 0:
			if w.state.CompareAndSwap(raw, pack(0, waiting)) {
				w.claims.Add(1)
				return true, true
			}
		case payload == 0:
			if w.state.CompareAndSwap(raw, pack(payloadSpinning, 0)) {
				if waiting != 0 {
					w.empty.Post()
				}
				return false, false
			}
		default:
			log.Panicf("worksema: concurrent consumer wait detected")
		}
	}
}

// wakeReset re-arms the register to Running(0) after a kernel wake,
// absorbing any notifications that raced in during wakeup. The WaitingEmpty
// flag is preserved.
func (w *WorkSema) wakeReset() bool {
	for {
		raw := w.state.Load()
		payload, waiting := unpack(raw)
		if payload == payloadDead {
			return false
		}
		if w.state.CompareAndSwap(raw, pack(0, waiting)) {
			if payload > 0 {
				w.claims.Add(1)
			}
			return true
		}
	}
}

// WaitForEmpty blocks the observer until the consumer is idle (Spinning,
// Sleeping or Dead). At most one observer may be registered at a time; a
// second concurrent registration is a fatal contract violation. Returns
// false iff the primitive was killed before or while waiting.
func (w *WorkSema) WaitForEmpty() bool {
	for {
		raw := w.state.Load()
		payload, waiting := unpack(raw)
		if payload < 0 {
			return payload != payloadDead
		}
		if waiting != 0 {
			log.Panicf("worksema: second concurrent WaitForEmpty observer")
		}
		if w.state.CompareAndSwap(raw, pack(payload, waitingEmptyBit)) {
			break
		}
	}
	w.empty.Wait()
	payload, _ := unpack(w.state.Load())
	return payload != payloadDead
}

// WaitForEmptyWithSpin is WaitForEmpty with a spin-phase pre-check: the
// observer burns up to the spin budget re-reading the register before
// registering and blocking.
func (w *WorkSema) WaitForEmptyWithSpin() bool {
	budget := spin.Budget()
	var spent int64
	for spent < budget {
		payload, _ := unpack(w.state.Load())
		if payload < 0 {
			return payload != payloadDead
		}
		spent += spin.ShortSpin()
	}
	return w.WaitForEmpty()
}

// Kill forces the register to Dead, unblocking a sleeping consumer and a
// registered observer. Dead is terminal until Reset; all wait calls observe
// it and return failure without blocking.
func (w *WorkSema) Kill() {
	for {
		raw := w.state.Load()
		payload, waiting := unpack(raw)
		if payload == payloadDead && waiting == 0 {
			return
		}
		if w.state.CompareAndSwap(raw, pack(payloadDead, 0)) {
			if payload == payloadSleeping {
				w.work.Post()
			}
			if waiting != 0 {
				w.empty.Post()
			}
			return
		}
	}
}

// Reset returns the register to Running(0), clearing Dead and any pending
// count. The caller must guarantee no waiter is blocked or registering at
// the moment of Reset.
func (w *WorkSema) Reset() {
	w.state.Store(pack(0, 0))
}

// Dead reports whether the register is in the terminal state.
func (w *WorkSema) Dead() bool {
	payload, _ := unpack(w.state.Load())
	return payload == payloadDead
}

// Idle reports whether the consumer is in an idle state (Spinning, Sleeping
// or Dead). Snapshot only; the consumer may re-activate immediately after.
func (w *WorkSema) Idle() bool {
	payload, _ := unpack(w.state.Load())
	return payload < 0
}

// WaitingEmpty reports whether a drain observer is currently registered.
func (w *WorkSema) WaitingEmpty() bool {
	_, waiting := unpack(w.state.Load())
	return waiting != 0
}

// Pending returns the current notified-but-unclaimed unit count, 0 when idle.
func (w *WorkSema) Pending() int64 {
	payload, _ := unpack(w.state.Load())
	if payload < 0 {
		return 0
	}
	return payload
}

// Stats returns a snapshot of the cumulative operation counters.
func (w *WorkSema) Stats() Stats {
	return Stats{
		Notifies: w.notifies.Load(),
		Claims:   w.claims.Load(),
		Sleeps:   w.sleeps.Load(),
		Spins:    w.spins.Load(),
	}
}
