// File: spin/spin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded low-power busy-waiting. The CPU pause instruction (see pause.go)
// costs a handful of nanoseconds per iteration, but the exact cost varies
// wildly across microarchitectures, so it is measured once at first use and
// cached.

package spin

import (
	"log"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/timer"
)

// shortSpinNs is the target duration of a single ShortSpin call.
const shortSpinNs = 500

// noiseFloorNs is the elapsed time a calibration batch must exceed before
// the clock reading is trusted over its own jitter.
const noiseFloorNs = 1000

// SpinTimeEnv overrides the spin budget, in microseconds.
const SpinTimeEnv = "HIOLOAD_SPIN_TIME_US"

// pauseTimeNs holds the calibrated cost of one pause iteration in
// nanoseconds. Zero means uncalibrated. Concurrent callers may race to
// calibrate; the measurement is deterministic within noise, so the race is
// benign and needs no once-guard.
var pauseTimeNs atomic.Int64

// spinBudgetNs is the total busy-wait budget before a consumer falls back to
// a blocking wait. Kernel block/wake round-trips cost microseconds, so a
// bounded spin trades CPU for latency on short producer/consumer handoffs.
var spinBudgetNs = loadSpinBudget()

func loadSpinBudget() int64 {
	if v := os.Getenv(SpinTimeEnv); v != "" {
		if us, err := strconv.ParseInt(v, 10, 64); err == nil && us > 0 {
			return us * int64(time.Microsecond)
		}
		log.Printf("spin: ignoring invalid %s=%q", SpinTimeEnv, v)
	}
	switch runtime.GOARCH {
	case "arm", "arm64":
		// Low-clock and power-efficient cores pay more per kernel wake.
		return 200 * int64(time.Microsecond)
	default:
		return 50 * int64(time.Microsecond)
	}
}

// Budget returns the configured spin budget in nanoseconds.
func Budget() int64 {
	return spinBudgetNs
}

// MeasurePauseTime measures the cost of one pause iteration in nanoseconds
// using the given clock. The batch size doubles until the elapsed time for a
// batch clears the clock noise floor.
func MeasurePauseTime(clk api.Clock) int64 {
	nsPerTick := int64(time.Second) / clk.Frequency()
	if nsPerTick <= 0 {
		nsPerTick = 1
	}
	batch := uint32(64)
	for {
		start := clk.Now()
		procyield(batch)
		elapsed := (clk.Now() - start) * nsPerTick
		if elapsed >= noiseFloorNs {
			perIter := elapsed / int64(batch)
			if perIter < 1 {
				perIter = 1
			}
			return perIter
		}
		if batch < 1<<24 {
			batch <<= 1
		}
	}
}

// calibrate measures the pause cost and publishes it. One warm-up
// measurement is discarded, then the minimum of four runs is kept to shed
// scheduler interference.
func calibrate() int64 {
	clk := timer.Monotonic{}
	MeasurePauseTime(clk) // warm-up, discarded
	best := MeasurePauseTime(clk)
	for i := 0; i < 3; i++ {
		if m := MeasurePauseTime(clk); m < best {
			best = m
		}
	}
	pauseTimeNs.Store(best)
	log.Printf("spin: calibrated pause cost %dns/iter, budget %dus", best, spinBudgetNs/int64(time.Microsecond))
	return best
}

// PauseTime returns the calibrated per-iteration pause cost, calibrating on
// first use.
func PauseTime() int64 {
	if v := pauseTimeNs.Load(); v != 0 {
		return v
	}
	return calibrate()
}

// ShortSpin busy-waits for roughly 500ns of pause instructions and returns
// the measured elapsed nanoseconds, so callers can accumulate a running spin
// budget across repeated calls.
func ShortSpin() int64 {
	per := PauseTime()
	iters := shortSpinNs / per
	if iters < 1 {
		iters = 1
	}
	start := timer.Now()
	procyield(uint32(iters))
	elapsed := timer.Now() - start
	if elapsed < 1 {
		elapsed = 1
	}
	return elapsed
}
