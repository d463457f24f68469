package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/events"
	"example.com/balancetrainer/internal/session"
)

// ErrMalformed marks a payload that cannot be decoded.
var ErrMalformed = errors.New("malformed message")

// Sink receives decoded session events.
type Sink interface {
	Push(session.Event)
}

// SessionHandler decodes client messages into session events.
type SessionHandler struct {
	sink Sink
}

// NewSessionHandler constructs a handler pushing into sink.
func NewSessionHandler(sink Sink) Handler {
	return &SessionHandler{sink: sink}
}

// Handle routes by the event_type header, falling back to the payload's
// MessageType. Messages of unknown type are ignored.
func (h *SessionHandler) Handle(_ context.Context, msg Message) error {
	payload := stripSchemaHeader(msg.Payload)

	eventType := msg.Headers["event_type"]
	if eventType == "" {
		var env events.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		eventType = events.TypeForMessage(env.MessageType)
	}

	var ev session.Event
	switch eventType {
	case events.TypeExerciseConfig:
		var m events.ExerciseConfigMessage
		if err := unmarshal(payload, &m); err != nil {
			return err
		}
		receivedAt := msg.Timestamp
		if receivedAt.IsZero() {
			receivedAt = time.Now().UTC()
		}
		ev = session.ConfigArrived{Config: m.ToDomain(), ReceivedAt: receivedAt}
	case events.TypeFootFeedback:
		var m events.FootFeedbackMessage
		if err := unmarshal(payload, &m); err != nil {
			return err
		}
		ev = session.ZoneReported{Zone: domain.ZoneCode(m.Zone), Foot: domain.ParseFoot(m.Foot)}
	case events.TypeClientStatus:
		var m events.ClientStatusMessage
		if err := unmarshal(payload, &m); err != nil {
			return err
		}
		ev = session.ClientStatus{Connected: m.Connected}
	case events.TypeSessionControl:
		var m events.SessionControlMessage
		if err := unmarshal(payload, &m); err != nil {
			return err
		}
		switch m.Action {
		case events.ActionRestart:
			ev = session.RestartRequested{}
		case events.ActionPreparation:
			ev = session.PreparationConfirmed{}
		default:
			return fmt.Errorf("%w: unknown action %q", ErrMalformed, m.Action)
		}
	default:
		return nil
	}

	h.sink.Push(ev)
	RecordProcessed(msg, eventType)
	return nil
}

func unmarshal(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// stripSchemaHeader drops the Confluent Schema Registry wire prefix (magic byte
// and 4-byte schema id) when present.
func stripSchemaHeader(payload []byte) []byte {
	if len(payload) >= 5 && payload[0] == 0x00 {
		return payload[5:]
	}
	return payload
}
