// Package session runs one training session: it owns the sequencer task and
// applies external events between frames.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/feedback"
	"example.com/balancetrainer/internal/observability"
	"example.com/balancetrainer/internal/sequence"
	"example.com/balancetrainer/internal/store"
	"example.com/balancetrainer/internal/tick"
)

// FrameHook is advanced once per frame before the sequencer resumes.
type FrameHook interface {
	Advance(dt time.Duration)
}

// Display exposes the last texts shown to the subject.
type Display interface {
	Countdown() string
	Instruction() string
}

// Snapshot is a read-only view of the session for status queries.
type Snapshot struct {
	SessionID             string    `json:"session_id"`
	Phase                 string    `json:"phase"`
	Repetition            int       `json:"repetition"`
	ConfigIndex           int       `json:"config_index"`
	ExerciseID            int       `json:"exercise_id,omitempty"`
	Configs               int       `json:"configs"`
	RestartRequested      bool      `json:"restart_requested"`
	PreparationSuccessful bool      `json:"preparation_successful"`
	ClientConnected       bool      `json:"client_connected"`
	Countdown             string    `json:"countdown"`
	Instruction           string    `json:"instruction"`
	Running               bool      `json:"running"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Deps are the components a Runner drives.
type Deps struct {
	Store     *store.Store
	State     *domain.SessionState
	Sequencer *sequence.Sequencer
	Feedback  *feedback.Handler
	Display   Display
	Hooks     []FrameHook
}

// Option configures runner behaviour.
type Option func(*Runner)

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithID overrides the generated session identifier.
func WithID(id uuid.UUID) Option {
	return func(r *Runner) { r.id = id }
}

// Runner owns a session's sequencer task. Tick must be called from a single
// goroutine; Push, Snapshot and Configs are safe from any goroutine.
type Runner struct {
	id       uuid.UUID
	store    *store.Store
	state    *domain.SessionState
	seq      *sequence.Sequencer
	feedback *feedback.Handler
	display  Display
	hooks    []FrameHook
	logger   *log.Logger

	inbox Inbox
	task  *tick.Task

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewRunner constructs a runner. The sequencer does not start until the first
// Tick.
func NewRunner(deps Deps, opts ...Option) *Runner {
	r := &Runner{
		id:       uuid.New(),
		store:    deps.Store,
		state:    deps.State,
		seq:      deps.Sequencer,
		feedback: deps.Feedback,
		display:  deps.Display,
		hooks:    deps.Hooks,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.task = tick.Start(r.seq.Run)
	r.refresh(true)
	return r
}

// ID returns the session identifier.
func (r *Runner) ID() uuid.UUID {
	return r.id
}

// Push queues an event for the next frame.
func (r *Runner) Push(ev Event) {
	r.inbox.Push(ev)
}

// Tick applies queued events, advances frame hooks and resumes the sequencer
// for one frame. It returns false once the session has finished.
func (r *Runner) Tick(dt time.Duration) bool {
	start := time.Now()

	for _, ev := range r.inbox.Drain() {
		ev.apply(r)
	}
	for _, hook := range r.hooks {
		hook.Advance(dt)
	}
	running := r.task.Tick(dt)
	r.refresh(running)

	observability.ObserveTick(time.Since(start))
	return running
}

// Run drives Tick from a ticker until the session finishes or ctx is
// cancelled. Frame deltas are measured, not assumed.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Printf("session %s started", r.id)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.task.Stop()
			<-r.task.Done()
			r.refresh(false)
			r.logger.Printf("session %s stopped: %v", r.id, ctx.Err())
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if r.Tick(dt) {
				continue
			}
			if err := r.task.Err(); err != nil && !errors.Is(err, tick.ErrStopped) {
				r.logger.Printf("session %s failed: %v", r.id, err)
				return err
			}
			r.logger.Printf("session %s complete", r.id)
			return nil
		}
	}
}

// Stop abandons the session.
func (r *Runner) Stop() {
	r.task.Stop()
}

// Done is closed when the sequencer has returned.
func (r *Runner) Done() <-chan struct{} {
	return r.task.Done()
}

// Snapshot returns the state as of the end of the last frame.
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Configs returns the stored configurations in arrival order.
func (r *Runner) Configs() []domain.ExerciseConfig {
	return r.store.List()
}

func (r *Runner) acceptConfig(cfg domain.ExerciseConfig, receivedAt time.Time) {
	if !r.store.Add(cfg) {
		observability.RecordConfig(observability.ConfigDuplicate, receivedAt)
		r.logger.Printf("config %d ignored: duplicate id", cfg.ID)
		return
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	observability.RecordConfig(observability.ConfigAccepted, receivedAt)
	if err := cfg.Validate(); err != nil {
		r.logger.Printf("config %d: %v; negative durations count as zero", cfg.ID, err)
	}
	r.logger.Printf("config %d accepted (%s, leg=%s)", cfg.ID, cfg.Name, cfg.Leg())
}

func (r *Runner) refresh(running bool) {
	progress := r.seq.Progress()
	snap := Snapshot{
		SessionID:             r.id.String(),
		Phase:                 string(progress.Phase),
		Repetition:            progress.Repetition,
		ConfigIndex:           progress.ConfigIndex,
		ExerciseID:            progress.ExerciseID,
		Configs:               r.store.Len(),
		RestartRequested:      r.state.RestartRequested(),
		PreparationSuccessful: r.state.PreparationSuccessful(),
		ClientConnected:       r.state.ClientConnected(),
		Running:               running,
		UpdatedAt:             time.Now().UTC(),
	}
	if r.display != nil {
		snap.Countdown = r.display.Countdown()
		snap.Instruction = r.display.Instruction()
	}

	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()
}
