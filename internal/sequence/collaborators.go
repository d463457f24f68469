package sequence

import "example.com/balancetrainer/internal/domain"

// Animator is the presentation layer's animation state machine.
type Animator interface {
	SetBool(name string, value bool)
	SetTrigger(name string)
	ResetTrigger(name string)
	SetSpeed(rate float64)
	Speed() float64
	CurrentState() string
	NormalizedTime() float64
}

// TextSink displays a single line of text.
type TextSink interface {
	SetText(text string)
}

// Overlay renders the foot zone indicators.
type Overlay interface {
	SetActiveFoot(leg string)
	UpdateForZone(zone domain.ZoneCode, foot domain.Foot)
}

// Audio plays fire-and-forget cues.
type Audio interface {
	Play(cue domain.Cue)
	PlaySwitchLeg(left bool, variant int)
	PlayZone(zone domain.ZoneCode)
}

// Listener observes sequencer progress. Implementations must not block; they
// are called from the tick goroutine.
type Listener interface {
	PhaseChanged(Progress)
	RepetitionCompleted(Progress)
	RestartTriggered(Progress)
}

// Listeners fans progress out to several listeners.
type Listeners []Listener

func (ls Listeners) PhaseChanged(p Progress) {
	for _, l := range ls {
		l.PhaseChanged(p)
	}
}

func (ls Listeners) RepetitionCompleted(p Progress) {
	for _, l := range ls {
		l.RepetitionCompleted(p)
	}
}

func (ls Listeners) RestartTriggered(p Progress) {
	for _, l := range ls {
		l.RestartTriggered(p)
	}
}
