package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"example.com/balancetrainer/internal/events"
)

// MessageWriter is the kafka.Writer function KafkaSink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink publishes entries as SessionJournalEvent messages keyed by
// session ID.
type KafkaSink struct {
	writer MessageWriter
}

// NewKafkaSink constructs a sink publishing through writer.
func NewKafkaSink(writer MessageWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

// NewKafkaWriter returns a synchronous writer for the journal topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
	}
}

func (s *KafkaSink) Write(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(events.SessionJournalEvent{
		EntryID:     e.ID.String(),
		SessionID:   e.SessionID,
		Kind:        e.Kind,
		Phase:       e.Phase,
		Repetition:  e.Repetition,
		ConfigIndex: e.ConfigIndex,
		ExerciseID:  e.ExerciseID,
		OccurredAt:  e.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(e.SessionID),
		Value:   payload,
		Time:    e.OccurredAt,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(events.TypeSessionJournal)}},
	})
}
