package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of pgxpool.Pool used by PostgresSink.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS session_journal (
    id           UUID PRIMARY KEY,
    session_id   TEXT        NOT NULL,
    kind         TEXT        NOT NULL,
    phase        TEXT        NOT NULL,
    repetition   INTEGER     NOT NULL,
    config_index INTEGER     NOT NULL,
    exercise_id  INTEGER     NOT NULL,
    occurred_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS session_journal_session_idx ON session_journal (session_id, occurred_at);
`

const insertSQL = `
INSERT INTO session_journal (id, session_id, kind, phase, repetition, config_index, exercise_id, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`

// PostgresSink stores entries in the session_journal table.
type PostgresSink struct {
	db Execer
}

// NewPostgresSink constructs a sink backed by db.
func NewPostgresSink(db Execer) *PostgresSink {
	return &PostgresSink{db: db}
}

// EnsureSchema creates the journal table if it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create session_journal: %w", err)
	}
	return nil
}

func (s *PostgresSink) Write(ctx context.Context, e Entry) error {
	_, err := s.db.Exec(ctx, insertSQL,
		e.ID, e.SessionID, e.Kind, e.Phase, e.Repetition, e.ConfigIndex, e.ExerciseID, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}
