package sequence

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/phrases"
	"example.com/balancetrainer/internal/store"
	"example.com/balancetrainer/internal/tick"
)

// trace records every collaborator call in order.
type trace struct {
	entries []string
}

func (tr *trace) add(format string, args ...any) {
	tr.entries = append(tr.entries, fmt.Sprintf(format, args...))
}

func (tr *trace) count(entry string) int {
	n := 0
	for _, e := range tr.entries {
		if e == entry {
			n++
		}
	}
	return n
}

func (tr *trace) indexAfter(start int, prefix string) int {
	for i := start; i < len(tr.entries); i++ {
		if len(tr.entries[i]) >= len(prefix) && tr.entries[i][:len(prefix)] == prefix {
			return i
		}
	}
	return -1
}

// fakeAnimator reaches the requested pose instantly and reports the clip as
// finished.
type fakeAnimator struct {
	isLeft     bool
	state      string
	normalized float64
	speed      float64
	speeds     []float64
	triggers   []string
}

func newFakeAnimator() *fakeAnimator {
	return &fakeAnimator{state: domain.StateIdle, speed: 1}
}

func (a *fakeAnimator) SetBool(name string, value bool) {
	if name == domain.ParamIsLeftLeg {
		a.isLeft = value
	}
}

func (a *fakeAnimator) SetTrigger(name string) {
	a.triggers = append(a.triggers, name)
	switch name {
	case domain.TriggerStartExercise:
		a.state = domain.StateOneStandRight
		if a.isLeft {
			a.state = domain.StateOneStandLeft
		}
		a.normalized = 1
	case domain.TriggerIdle:
		a.state = domain.StateIdle
		a.normalized = 0
	}
}

func (a *fakeAnimator) ResetTrigger(string) {}

func (a *fakeAnimator) SetSpeed(rate float64) {
	a.speed = rate
	a.speeds = append(a.speeds, rate)
}

func (a *fakeAnimator) Speed() float64          { return a.speed }
func (a *fakeAnimator) CurrentState() string    { return a.state }
func (a *fakeAnimator) NormalizedTime() float64 { return a.normalized }

type textRecorder struct {
	tr   *trace
	kind string
	last string
}

func (r *textRecorder) SetText(text string) {
	r.last = text
	r.tr.add("%s:%s", r.kind, text)
}

type overlayRecorder struct {
	tr *trace
}

func (o *overlayRecorder) SetActiveFoot(leg string) {
	o.tr.add("foot:%s", leg)
}

func (o *overlayRecorder) UpdateForZone(zone domain.ZoneCode, foot domain.Foot) {
	o.tr.add("zone:%d:%s", zone, foot)
}

type audioRecorder struct {
	tr *trace
}

func (a *audioRecorder) Play(cue domain.Cue) {
	a.tr.add("audio:%s", cue)
}

func (a *audioRecorder) PlaySwitchLeg(left bool, variant int) {
	a.tr.add("switch:%t:%d", left, variant)
}

func (a *audioRecorder) PlayZone(zone domain.ZoneCode) {
	a.tr.add("audio:zone:%d", zone)
}

type listenerRecorder struct {
	phases      []Phase
	repetitions []int
	restarts    int
}

func (l *listenerRecorder) PhaseChanged(p Progress) {
	l.phases = append(l.phases, p.Phase)
}

func (l *listenerRecorder) RepetitionCompleted(p Progress) {
	l.repetitions = append(l.repetitions, p.Repetition)
}

func (l *listenerRecorder) RestartTriggered(Progress) {
	l.restarts++
}

type harness struct {
	trace        *trace
	store        *store.Store
	state        *domain.SessionState
	animator     *fakeAnimator
	countdown    *textRecorder
	instructions *textRecorder
	listener     *listenerRecorder
	phrases      *phrases.Catalog
	seq          *Sequencer
	task         *tick.Task
}

const maxTicks = 100000

func newHarness(t *testing.T, opts Options, configs ...domain.ExerciseConfig) *harness {
	t.Helper()

	tr := &trace{}
	h := &harness{
		trace:        tr,
		store:        store.New(),
		state:        domain.NewSessionState(),
		animator:     newFakeAnimator(),
		countdown:    &textRecorder{tr: tr, kind: "count"},
		instructions: &textRecorder{tr: tr, kind: "text"},
		listener:     &listenerRecorder{},
		phrases:      phrases.New("en"),
	}
	for _, cfg := range configs {
		h.store.Add(cfg)
	}
	h.seq = New(Deps{
		Store:        h.store,
		State:        h.state,
		Animator:     h.animator,
		Countdown:    h.countdown,
		Instructions: h.instructions,
		Overlay:      &overlayRecorder{tr: tr},
		Audio:        &audioRecorder{tr: tr},
		Phrases:      h.phrases,
		Listener:     Listeners{h.listener},
	}, opts)
	h.task = tick.Start(h.seq.Run)
	t.Cleanup(h.task.Stop)
	return h
}

// step advances the session by n ticks and reports whether it is still running.
func (h *harness) step(n int, dt time.Duration) bool {
	for i := 0; i < n; i++ {
		if !h.task.Tick(dt) {
			return false
		}
	}
	return true
}

// runToEnd ticks until the session finishes, calling before ahead of every tick.
func (h *harness) runToEnd(t *testing.T, dt time.Duration, before func()) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if before != nil {
			before()
		}
		if !h.task.Tick(dt) {
			require.NoError(t, h.task.Err())
			return
		}
	}
	t.Fatal("session did not finish")
}

func (h *harness) text(key phrases.Key) string {
	return "text:" + h.phrases.Text(key)
}
