// Package journal records session progress and fans it out to durable sinks.
package journal

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"example.com/balancetrainer/internal/observability"
	"example.com/balancetrainer/internal/sequence"
)

// Entry kinds.
const (
	KindPhase      = "phase"
	KindRepetition = "repetition"
	KindRestart    = "restart"
)

// DefaultBuffer is the number of entries held while sinks catch up.
const DefaultBuffer = 256

// Entry is one recorded session transition.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	SessionID   string    `json:"session_id"`
	Kind        string    `json:"kind"`
	Phase       string    `json:"phase"`
	Repetition  int       `json:"repetition"`
	ConfigIndex int       `json:"config_index"`
	ExerciseID  int       `json:"exercise_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Sink persists entries.
type Sink interface {
	Write(context.Context, Entry) error
}

// Option configures journal behaviour.
type Option func(*Journal)

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(j *Journal) { j.logger = l }
}

// WithBuffer sets the entry buffer size.
func WithBuffer(n int) Option {
	return func(j *Journal) {
		if n > 0 {
			j.entries = make(chan Entry, n)
		}
	}
}

// Journal is a sequence.Listener that never blocks the session: entries that
// do not fit the buffer are dropped and counted.
type Journal struct {
	sessionID string
	sinks     []Sink
	entries   chan Entry
	logger    *log.Logger
	now       func() time.Time
}

var _ sequence.Listener = (*Journal)(nil)

// New constructs a journal for one session.
func New(sessionID string, sinks []Sink, opts ...Option) *Journal {
	j := &Journal{
		sessionID: sessionID,
		sinks:     sinks,
		entries:   make(chan Entry, DefaultBuffer),
		logger:    log.Default(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) PhaseChanged(p sequence.Progress) {
	j.record(KindPhase, p)
}

func (j *Journal) RepetitionCompleted(p sequence.Progress) {
	j.record(KindRepetition, p)
}

func (j *Journal) RestartTriggered(p sequence.Progress) {
	j.record(KindRestart, p)
}

func (j *Journal) record(kind string, p sequence.Progress) {
	entry := Entry{
		ID:          uuid.New(),
		SessionID:   j.sessionID,
		Kind:        kind,
		Phase:       string(p.Phase),
		Repetition:  p.Repetition,
		ConfigIndex: p.ConfigIndex,
		ExerciseID:  p.ExerciseID,
		OccurredAt:  j.now(),
	}
	select {
	case j.entries <- entry:
	default:
		observability.RecordJournalDrop()
	}
}

// Run writes entries to every sink until ctx is cancelled, then flushes what
// is still buffered.
func (j *Journal) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			j.flush()
			return ctx.Err()
		case entry := <-j.entries:
			j.write(ctx, entry)
		}
	}
}

func (j *Journal) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case entry := <-j.entries:
			j.write(ctx, entry)
		default:
			return
		}
	}
}

func (j *Journal) write(ctx context.Context, entry Entry) {
	for _, sink := range j.sinks {
		if err := sink.Write(ctx, entry); err != nil {
			j.logger.Printf("journal sink error (kind=%s phase=%s): %v", entry.Kind, entry.Phase, err)
		}
	}
}
