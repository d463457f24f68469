package presentation

import (
	"time"

	"example.com/balancetrainer/internal/domain"
)

// DefaultClipLength is the playback time of a stance clip at normal speed.
const DefaultClipLength = time.Second

// SimAnimator is a two-pose animation state machine advanced by the session
// frame loop. Triggers take effect on the next Advance. It is not safe for
// concurrent use.
type SimAnimator struct {
	clip    time.Duration
	isLeft  bool
	pending map[string]bool
	state   string
	elapsed time.Duration
	speed   float64
}

// NewSimAnimator returns an animator in the idle state. A non-positive clip
// length uses DefaultClipLength.
func NewSimAnimator(clip time.Duration) *SimAnimator {
	if clip <= 0 {
		clip = DefaultClipLength
	}
	return &SimAnimator{
		clip:    clip,
		pending: make(map[string]bool),
		state:   domain.StateIdle,
		speed:   1,
	}
}

func (a *SimAnimator) SetBool(name string, value bool) {
	if name == domain.ParamIsLeftLeg {
		a.isLeft = value
	}
}

func (a *SimAnimator) SetTrigger(name string) {
	a.pending[name] = true
}

func (a *SimAnimator) ResetTrigger(name string) {
	delete(a.pending, name)
}

func (a *SimAnimator) SetSpeed(rate float64) {
	a.speed = rate
}

func (a *SimAnimator) Speed() float64 {
	return a.speed
}

func (a *SimAnimator) CurrentState() string {
	return a.state
}

// NormalizedTime is the clip progress of the current state; 1 means the clip
// has played through once.
func (a *SimAnimator) NormalizedTime() float64 {
	return float64(a.elapsed) / float64(a.clip)
}

// Advance consumes pending triggers and plays the current clip for dt scaled
// by the playback speed.
func (a *SimAnimator) Advance(dt time.Duration) {
	switch {
	case a.pending[domain.TriggerStartExercise]:
		delete(a.pending, domain.TriggerStartExercise)
		a.enter(domain.PoseFor(a.leg()))
	case a.pending[domain.TriggerIdle]:
		delete(a.pending, domain.TriggerIdle)
		a.enter(domain.StateIdle)
	default:
		a.elapsed += time.Duration(float64(dt) * a.speed)
	}
}

func (a *SimAnimator) enter(state string) {
	a.state = state
	a.elapsed = 0
}

func (a *SimAnimator) leg() domain.Leg {
	if a.isLeft {
		return domain.LegLeft
	}
	return domain.LegRight
}
