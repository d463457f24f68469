// Package events defines the messages exchanged with the headset client and
// the session journal stream.
package events

import (
	"time"

	"example.com/balancetrainer/internal/domain"
)

// Event type identifiers carried in the Kafka event_type header and in the
// MessageType field of client payloads.
const (
	TypeExerciseConfig = "exercise.config"
	TypeFootFeedback   = "foot.feedback"
	TypeClientStatus   = "client.status"
	TypeSessionControl = "session.control"
	TypeSessionJournal = "session.journal"
)

// MessageType values used by the headset client.
const (
	MessageExerciseConfig = "ExerciseConfig"
	MessageFootFeedback   = "FootFeedback"
	MessageClientStatus   = "ClientStatus"
	MessageSessionControl = "SessionControl"
)

// Session control actions.
const (
	ActionRestart     = "restart"
	ActionPreparation = "preparation"
)

// Envelope reads only the discriminator of a client payload.
type Envelope struct {
	MessageType string `json:"MessageType"`
}

// Vector2 is a two-component value as serialised by the client.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ZoneSequenceItem mirrors domain.ZoneSequenceItem on the wire.
type ZoneSequenceItem struct {
	Duration   int     `json:"Duration"`
	GreenZoneX Vector2 `json:"GreenZoneX"`
	GreenZoneY Vector2 `json:"GreenZoneY"`
	RedZoneX   Vector2 `json:"RedZoneX"`
	RedZoneY   Vector2 `json:"RedZoneY"`
}

// ExerciseConfigMessage delivers one exercise configuration.
type ExerciseConfigMessage struct {
	MessageType    string             `json:"MessageType"`
	ExerciseID     int                `json:"ExerciseID"`
	Name           string             `json:"Name"`
	LegsUsed       string             `json:"LegsUsed"`
	Intro          int                `json:"Intro"`
	Demo           int                `json:"Demo"`
	PreparationCop int                `json:"PreparationCop"`
	TimingCop      int                `json:"TimingCop"`
	Release        int                `json:"Release"`
	Switch         int                `json:"Switch"`
	Sets           int                `json:"Sets"`
	ZoneSequence   []ZoneSequenceItem `json:"ZoneSequence"`
}

// FootFeedbackMessage reports the posture zone of one foot.
type FootFeedbackMessage struct {
	MessageType string `json:"MessageType"`
	Zone        int    `json:"Zone"`
	Foot        string `json:"Foot"`
}

// ClientStatusMessage reports the headset client's connection state.
type ClientStatusMessage struct {
	MessageType string `json:"MessageType"`
	Connected   bool   `json:"Connected"`
}

// SessionControlMessage carries an operator action.
type SessionControlMessage struct {
	MessageType string `json:"MessageType"`
	Action      string `json:"Action"`
}

// SessionJournalEvent is published for every recorded session transition.
type SessionJournalEvent struct {
	EntryID     string    `json:"entry_id"`
	SessionID   string    `json:"session_id"`
	Kind        string    `json:"kind"`
	Phase       string    `json:"phase"`
	Repetition  int       `json:"repetition"`
	ConfigIndex int       `json:"config_index"`
	ExerciseID  int       `json:"exercise_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ToDomain converts the message into an exercise configuration.
func (m ExerciseConfigMessage) ToDomain() domain.ExerciseConfig {
	cfg := domain.ExerciseConfig{
		ID:             m.ExerciseID,
		Name:           m.Name,
		LegsUsed:       m.LegsUsed,
		Intro:          m.Intro,
		Demo:           m.Demo,
		PreparationCop: m.PreparationCop,
		TimingCop:      m.TimingCop,
		Release:        m.Release,
		Switch:         m.Switch,
		Sets:           m.Sets,
	}
	for _, item := range m.ZoneSequence {
		cfg.ZoneSequence = append(cfg.ZoneSequence, domain.ZoneSequenceItem{
			Duration:   item.Duration,
			GreenZoneX: domain.Range{Min: item.GreenZoneX.X, Max: item.GreenZoneX.Y},
			GreenZoneY: domain.Range{Min: item.GreenZoneY.X, Max: item.GreenZoneY.Y},
			RedZoneX:   domain.Range{Min: item.RedZoneX.X, Max: item.RedZoneX.Y},
			RedZoneY:   domain.Range{Min: item.RedZoneY.X, Max: item.RedZoneY.Y},
		})
	}
	return cfg
}

// NewExerciseConfigMessage builds the wire form of cfg.
func NewExerciseConfigMessage(cfg domain.ExerciseConfig) ExerciseConfigMessage {
	m := ExerciseConfigMessage{
		MessageType:    MessageExerciseConfig,
		ExerciseID:     cfg.ID,
		Name:           cfg.Name,
		LegsUsed:       cfg.LegsUsed,
		Intro:          cfg.Intro,
		Demo:           cfg.Demo,
		PreparationCop: cfg.PreparationCop,
		TimingCop:      cfg.TimingCop,
		Release:        cfg.Release,
		Switch:         cfg.Switch,
		Sets:           cfg.Sets,
	}
	for _, item := range cfg.ZoneSequence {
		m.ZoneSequence = append(m.ZoneSequence, ZoneSequenceItem{
			Duration:   item.Duration,
			GreenZoneX: Vector2{X: item.GreenZoneX.Min, Y: item.GreenZoneX.Max},
			GreenZoneY: Vector2{X: item.GreenZoneY.Min, Y: item.GreenZoneY.Max},
			RedZoneX:   Vector2{X: item.RedZoneX.Min, Y: item.RedZoneX.Max},
			RedZoneY:   Vector2{X: item.RedZoneY.Min, Y: item.RedZoneY.Max},
		})
	}
	return m
}

// TypeForMessage maps a client MessageType to its event type, or "".
func TypeForMessage(messageType string) string {
	switch messageType {
	case MessageExerciseConfig:
		return TypeExerciseConfig
	case MessageFootFeedback:
		return TypeFootFeedback
	case MessageClientStatus:
		return TypeClientStatus
	case MessageSessionControl:
		return TypeSessionControl
	default:
		return ""
	}
}
