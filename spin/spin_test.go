package spin_test

import (
	"testing"
	"time"

	"github.com/momentics/hioload-threads/fake"
	"github.com/momentics/hioload-threads/spin"
	"github.com/momentics/hioload-threads/timer"
)

func TestMeasurePauseTimeDeterministic(t *testing.T) {
	// 6400ns per clock read against the initial batch of 64 pauses clears
	// the noise floor on the first round and yields exactly 100ns/iter.
	clk := &fake.Clock{Step: 6400}
	got := spin.MeasurePauseTime(clk)
	if got != 100 {
		t.Errorf("per-iteration cost = %dns, want 100ns", got)
	}
}

func TestPauseTimeCalibratesOnce(t *testing.T) {
	first := spin.PauseTime()
	if first <= 0 {
		t.Fatalf("calibrated pause cost = %d, want > 0", first)
	}
	if again := spin.PauseTime(); again != first {
		t.Errorf("stored calibration changed between reads: %d then %d", first, again)
	}
}

func TestShortSpinTerminatesAndReportsElapsed(t *testing.T) {
	for i := 0; i < 100; i++ {
		if el := spin.ShortSpin(); el <= 0 {
			t.Fatalf("ShortSpin returned non-positive elapsed %d", el)
		}
	}
}

func TestShortSpinAccumulatesTowardBudget(t *testing.T) {
	budget := spin.Budget()
	if budget <= 0 {
		t.Fatalf("spin budget = %d, want > 0", budget)
	}
	start := timer.Now()
	var spent int64
	for spent < budget {
		spent += spin.ShortSpin()
	}
	wall := timer.Now() - start
	// The accumulated budget must track wall time within calibration error;
	// scheduler preemption only makes wall longer, never shorter.
	if wall < budget/4 {
		t.Errorf("accumulated %dns of spin in only %dns wall time", spent, wall)
	}
	if wall > int64(5*time.Second) {
		t.Errorf("spin loop ran away: %dns wall for %dns budget", wall, budget)
	}
}
