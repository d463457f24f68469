// Package sequence drives a balance-training session through its phases.
package sequence

import (
	"strconv"
	"time"

	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/phrases"
	"example.com/balancetrainer/internal/store"
	"example.com/balancetrainer/internal/tick"
)

const (
	// Repetitions is the number of completed holds in the execution loop.
	Repetitions = 4
	// FallbackDuration replaces intro and demo timings when no configuration
	// has arrived yet.
	FallbackDuration = 50 * time.Second
	// PreRoll precedes every hold attempt.
	PreRoll = 2 * time.Second
	// RestartDelay is the pause before a restarted hold.
	RestartDelay = 4 * time.Second
	// ConnectionPollInterval is how often the connection flag is re-checked.
	ConnectionPollInterval = time.Second
	// ConnectionSettle is shown after the connection status resolves.
	ConnectionSettle = time.Second
)

// Phase names a top-level step of the session.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseAwaitConnection Phase = "await_connection"
	PhaseIntro           Phase = "intro"
	PhaseDemo            Phase = "demo"
	PhasePreparation     Phase = "preparation"
	PhaseHold            Phase = "hold"
	PhaseRelease         Phase = "release"
	PhaseSwitch          Phase = "switch"
	PhaseComplete        Phase = "complete"
)

// Phases lists every phase in session order.
var Phases = []Phase{
	PhaseIdle, PhaseAwaitConnection, PhaseIntro, PhaseDemo, PhasePreparation,
	PhaseHold, PhaseRelease, PhaseSwitch, PhaseComplete,
}

// Progress is a point-in-time view of the sequencer.
type Progress struct {
	Phase       Phase
	Repetition  int
	ConfigIndex int
	ExerciseID  int
}

// Deps are the collaborators of a Sequencer.
type Deps struct {
	Store        *store.Store
	State        *domain.SessionState
	Animator     Animator
	Countdown    TextSink
	Instructions TextSink
	Overlay      Overlay
	Audio        Audio
	Phrases      *phrases.Catalog
	Listener     Listener
}

// Options tune the session flow.
type Options struct {
	// BypassClientConnect skips waiting for the headset client.
	BypassClientConnect bool
}

// Sequencer is the session state machine. Run is meant to be executed as a
// tick.Task body; Progress may be read by the driver between ticks.
type Sequencer struct {
	Deps
	opts     Options
	progress Progress
}

// New constructs a Sequencer.
func New(deps Deps, opts Options) *Sequencer {
	if deps.Listener == nil {
		deps.Listener = Listeners(nil)
	}
	return &Sequencer{Deps: deps, opts: opts, progress: Progress{Phase: PhaseIdle}}
}

// Progress returns the current phase and repetition counters.
func (s *Sequencer) Progress() Progress {
	return s.progress
}

// Run executes the whole session once.
func (s *Sequencer) Run(y *tick.Yielder) error {
	steps := []func(*tick.Yielder) error{
		s.awaitConnection,
		s.intro,
		s.demo,
		s.prepare,
		s.execute,
	}
	for _, step := range steps {
		if err := step(y); err != nil {
			return err
		}
	}
	s.enter(PhaseComplete)
	s.instruct(phrases.SessionComplete)
	return nil
}

func (s *Sequencer) awaitConnection(y *tick.Yielder) error {
	s.enter(PhaseAwaitConnection)
	if s.opts.BypassClientConnect {
		s.instruct(phrases.StatusBypass)
		return y.Sleep(ConnectionSettle)
	}

	s.instruct(phrases.StatusWaiting)
	if err := y.Poll(ConnectionPollInterval, s.State.ClientConnected); err != nil {
		return err
	}
	s.instruct(phrases.StatusConnected)
	return y.Sleep(ConnectionSettle)
}

func (s *Sequencer) intro(y *tick.Yielder) error {
	s.enter(PhaseIntro)
	s.Overlay.SetActiveFoot(string(domain.LegNone))

	first, ok := s.Store.Get(0)
	if !ok {
		_, err := s.countdown(y, FallbackDuration)
		return err
	}
	s.Audio.Play(domain.CueIntro)
	s.instruct(phrases.IntroWelcome)
	_, err := s.countdown(y, domain.Seconds(first.Intro))
	return err
}

func (s *Sequencer) demo(y *tick.Yielder) error {
	s.enter(PhaseDemo)
	s.Overlay.SetActiveFoot(string(domain.LegNone))

	first, ok := s.Store.Get(0)
	if !ok {
		_, err := s.countdown(y, FallbackDuration)
		return err
	}
	s.adopt(0, first)
	s.Audio.Play(domain.CueDemo)
	s.instruct(phrases.DemoTitle)
	if _, err := s.perform(y, first.Demo); err != nil {
		return err
	}
	s.Animator.ResetTrigger(domain.TriggerStartExercise)
	s.returnToIdle()
	return nil
}

// prepare always succeeds after one pass: there is no preparation check to
// fail, but an external confirmation may also end the loop.
func (s *Sequencer) prepare(y *tick.Yielder) error {
	s.enter(PhasePreparation)
	s.State.ResetPreparation()

	for !s.State.PreparationSuccessful() {
		if s.State.Current() == nil {
			s.instruct(phrases.PrepGetReady)
			if err := s.Store.AwaitAtLeast(y, 1); err != nil {
				return err
			}
			first, _ := s.Store.Get(0)
			s.adopt(0, first)
		}
		current := *s.State.Current()

		s.Audio.Play(domain.CuePreparation)
		if current.Leg() == domain.LegRight {
			s.instruct(phrases.PrepStandRight)
		} else {
			s.instruct(phrases.PrepStandLeft)
		}
		s.showActiveFoot()

		if _, err := s.perform(y, current.PreparationCop); err != nil {
			return err
		}
		s.Animator.ResetTrigger(domain.TriggerStartExercise)
		s.returnToIdle()
		s.State.MarkPreparationSuccessful()
	}
	return nil
}

func (s *Sequencer) execute(y *tick.Yielder) error {
	reps, configIndex := 0, 0

	for reps < Repetitions {
		if err := s.Store.AwaitAtLeast(y, configIndex+1); err != nil {
			return err
		}
		current, _ := s.Store.Get(configIndex)
		s.adopt(configIndex, current)

		if err := s.hold(y, current); err != nil {
			return err
		}

		s.enter(PhaseRelease)
		s.Audio.Play(domain.CueReleaseLeg)
		s.instruct(phrases.ReleaseBothFeet)
		if _, err := s.countdown(y, domain.Seconds(current.Release)); err != nil {
			return err
		}

		reps++
		configIndex = (configIndex + 1) % 2
		s.progress.Repetition = reps
		s.Listener.RepetitionCompleted(s.progress)

		// Later configurations may still be streaming in while the first
		// repetition runs.
		if err := y.Poll(store.PollInterval, func() bool { return s.Store.Len() != 1 }); err != nil {
			return err
		}
		s.showActiveFoot()

		if reps == Repetitions {
			s.instruct(phrases.NextExercise)
			if _, err := s.countdown(y, domain.Seconds(current.Release)); err != nil {
				return err
			}
			break
		}

		next, _ := s.Store.Get(configIndex)
		s.enter(PhaseSwitch)
		if next.Leg() == domain.LegLeft {
			s.Audio.PlaySwitchLeg(true, 1)
			s.instruct(phrases.SwitchLeft)
		} else {
			s.Audio.PlaySwitchLeg(false, 2)
			s.instruct(phrases.SwitchRight)
		}
		if _, err := s.countdown(y, domain.Seconds(current.Switch)); err != nil {
			return err
		}
	}
	return nil
}

// hold repeats the pre-roll and timed hold until one attempt finishes without
// a restart request.
func (s *Sequencer) hold(y *tick.Yielder, current domain.ExerciseConfig) error {
	for {
		s.enter(PhaseHold)
		s.instruct(phrases.HoldBalance)
		if _, err := s.countdown(y, PreRoll); err != nil {
			return err
		}
		s.showActiveFoot()

		if _, err := s.perform(y, current.TimingCop); err != nil {
			return err
		}

		if !s.State.RestartRequested() {
			s.returnToIdle()
			return nil
		}
		s.State.ClearRestart()
		s.Listener.RestartTriggered(s.progress)
		s.instruct(phrases.HoldRestart)
		if err := y.Sleep(RestartDelay); err != nil {
			return err
		}
	}
}

// perform starts the stance animation for the current exercise and freezes it
// for holdSeconds.
func (s *Sequencer) perform(y *tick.Yielder, holdSeconds int) (bool, error) {
	current := s.State.Current()
	leg := current.Leg()

	s.Animator.SetBool(domain.ParamIsLeftLeg, leg == domain.LegLeft)
	if _, err := y.Frame(); err != nil {
		return false, err
	}
	s.Animator.SetTrigger(domain.TriggerStartExercise)

	return Freeze{
		Animator:    s.Animator,
		TargetState: domain.PoseFor(leg),
		Hold:        domain.Seconds(holdSeconds),
		OnTick:      s.showCount,
		Cancel:      s.State.RestartRequested,
	}.Run(y)
}

func (s *Sequencer) countdown(y *tick.Yielder, d time.Duration) (bool, error) {
	return Countdown{Duration: d, OnTick: s.showCount}.Run(y)
}

func (s *Sequencer) returnToIdle() {
	s.Animator.ResetTrigger(domain.TriggerIdle)
	s.Animator.SetTrigger(domain.TriggerIdle)
}

func (s *Sequencer) adopt(index int, cfg domain.ExerciseConfig) {
	s.State.SetCurrent(cfg)
	s.progress.ConfigIndex = index
	s.progress.ExerciseID = cfg.ID
}

func (s *Sequencer) showActiveFoot() {
	if current := s.State.Current(); current != nil {
		s.Overlay.SetActiveFoot(current.LegsUsed)
	}
}

func (s *Sequencer) showCount(remaining int) {
	s.Countdown.SetText(strconv.Itoa(remaining))
}

func (s *Sequencer) instruct(key phrases.Key) {
	s.Instructions.SetText(s.Phrases.Text(key))
}

func (s *Sequencer) enter(phase Phase) {
	s.progress.Phase = phase
	s.Listener.PhaseChanged(s.progress)
}
