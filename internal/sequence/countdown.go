package sequence

import (
	"math"
	"time"

	"example.com/balancetrainer/internal/tick"
)

// Countdown reports the remaining whole seconds of a timer once per tick.
type Countdown struct {
	Duration time.Duration
	// OnTick receives the ceiling of the remaining seconds.
	OnTick func(remaining int)
	// Cancel, when set, is checked before every tick; the countdown stops
	// early without reporting 0 once it returns true.
	Cancel func() bool
}

// Run drives the countdown. It reports whether the full duration elapsed.
func (c Countdown) Run(y *tick.Yielder) (bool, error) {
	remaining := c.Duration
	for remaining > 0 {
		if c.Cancel != nil && c.Cancel() {
			return false, nil
		}
		c.report(ceilSeconds(remaining))
		dt, err := y.Frame()
		if err != nil {
			return false, err
		}
		remaining -= dt
	}
	c.report(0)
	return true, nil
}

func (c Countdown) report(remaining int) {
	if c.OnTick != nil {
		c.OnTick(remaining)
	}
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
