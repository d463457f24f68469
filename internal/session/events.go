package session

import (
	"sync"
	"time"

	"example.com/balancetrainer/internal/domain"
)

// Event is an external input applied to the session at the start of a frame.
type Event interface {
	apply(*Runner)
}

// ConfigArrived delivers an exercise configuration.
type ConfigArrived struct {
	Config     domain.ExerciseConfig
	ReceivedAt time.Time
}

// ZoneReported delivers a posture zone report for one foot.
type ZoneReported struct {
	Zone domain.ZoneCode
	Foot domain.Foot
}

// RestartRequested asks for the current hold to be restarted.
type RestartRequested struct{}

// PreparationConfirmed marks the preparation phase as successful.
type PreparationConfirmed struct{}

// ClientStatus reports whether the headset client is connected.
type ClientStatus struct {
	Connected bool
}

func (e ConfigArrived) apply(r *Runner) {
	r.acceptConfig(e.Config, e.ReceivedAt)
}

func (e ZoneReported) apply(r *Runner) {
	r.feedback.OnZoneReport(e.Zone, e.Foot)
}

func (RestartRequested) apply(r *Runner) {
	r.state.RequestRestart()
}

func (PreparationConfirmed) apply(r *Runner) {
	r.state.MarkPreparationSuccessful()
}

func (e ClientStatus) apply(r *Runner) {
	if e.Connected != r.state.ClientConnected() {
		r.logger.Printf("client connected=%t", e.Connected)
	}
	r.state.SetClientConnected(e.Connected)
}

// Inbox queues events from any goroutine until the next frame drains them.
type Inbox struct {
	mu     sync.Mutex
	events []Event
}

// Push appends an event.
func (i *Inbox) Push(ev Event) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.events = append(i.events, ev)
}

// Drain removes and returns all queued events in arrival order.
func (i *Inbox) Drain() []Event {
	i.mu.Lock()
	defer i.mu.Unlock()
	events := i.events
	i.events = nil
	return events
}
