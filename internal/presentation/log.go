package presentation

import (
	"log"

	"example.com/balancetrainer/internal/domain"
)

// LogAudio writes audio cues to a logger instead of playing them.
type LogAudio struct {
	Logger *log.Logger
}

func (a LogAudio) Play(cue domain.Cue) {
	a.logger().Printf("audio cue=%s", cue)
}

func (a LogAudio) PlaySwitchLeg(left bool, variant int) {
	leg := domain.LegRight
	if left {
		leg = domain.LegLeft
	}
	a.logger().Printf("audio cue=switch_leg leg=%s variant=%d", leg, variant)
}

func (a LogAudio) PlayZone(zone domain.ZoneCode) {
	a.logger().Printf("audio cue=zone zone=%d", zone)
}

func (a LogAudio) logger() *log.Logger {
	if a.Logger == nil {
		return log.Default()
	}
	return a.Logger
}

// LogWatcher returns a Board subscriber that logs changes relative to initial.
func LogWatcher(logger *log.Logger, initial View) func(View) {
	if logger == nil {
		logger = log.Default()
	}
	last := initial
	return func(v View) {
		if v.Instruction != last.Instruction {
			logger.Printf("instruction: %s", v.Instruction)
		}
		if v.Countdown != last.Countdown && v.Countdown != "" {
			logger.Printf("countdown: %s", v.Countdown)
		}
		if v.ActiveFoot != last.ActiveFoot {
			logger.Printf("active foot: %s", v.ActiveFoot)
		}
		last = v
	}
}
