package sequence

import (
	"time"

	"example.com/balancetrainer/internal/tick"
)

// PoseGracePeriod bounds the wait for the animator to reach the target pose.
const PoseGracePeriod = 2 * time.Second

// Freeze waits for the animator to reach a pose, pauses playback on it and
// holds for a countdown. It never fails: if the pose is not reported within
// PoseGracePeriod the hold starts anyway.
type Freeze struct {
	Animator    Animator
	TargetState string
	Hold        time.Duration
	OnTick      func(remaining int)
	// Cancel ends the hold early, e.g. on a restart request.
	Cancel func() bool
}

// Run executes the freeze and reports whether the hold ran to completion.
func (f Freeze) Run(y *tick.Yielder) (bool, error) {
	var waited time.Duration
	for f.Animator.CurrentState() != f.TargetState && waited < PoseGracePeriod {
		dt, err := y.Frame()
		if err != nil {
			return false, err
		}
		waited += dt
	}

	if waited < PoseGracePeriod {
		err := y.WaitWhile(func() bool { return f.Animator.NormalizedTime() < 1.0 })
		if err != nil {
			return false, err
		}
	}

	f.Animator.SetSpeed(0)
	completed, err := Countdown{Duration: f.Hold, OnTick: f.OnTick, Cancel: f.Cancel}.Run(y)
	f.Animator.SetSpeed(1)
	if err != nil {
		return false, err
	}
	if !completed && f.OnTick != nil {
		f.OnTick(0)
	}
	return completed, nil
}
