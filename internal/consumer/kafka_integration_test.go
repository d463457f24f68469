//go:build integration

package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/events"
	"example.com/balancetrainer/internal/session"
	"example.com/balancetrainer/internal/testsupport"
)

type lockedSink struct {
	mu     sync.Mutex
	events []session.Event
}

func (s *lockedSink) Push(ev session.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *lockedSink) snapshot() []session.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]session.Event(nil), s.events...)
}

func TestKafkaClientMessagesReachSession(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	broker := testsupport.StartKafka(ctx, t)
	topic := "headset_client"
	testsupport.CreateTopics(t, broker, topic)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		GroupID:     "session-integration",
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	sink := &lockedSink{}
	consumerCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		_ = NewProcessor(reader, NewSessionHandler(sink)).Run(consumerCtx)
	}()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	cfg := domain.DefaultExercises()[0]
	configPayload, err := json.Marshal(events.NewExerciseConfigMessage(cfg))
	require.NoError(t, err)
	feedbackPayload, err := json.Marshal(events.FootFeedbackMessage{
		MessageType: events.MessageFootFeedback,
		Zone:        3,
		Foot:        "right",
	})
	require.NoError(t, err)

	err = writer.WriteMessages(ctx,
		kafka.Message{
			Key:     []byte("1"),
			Value:   configPayload,
			Headers: []kafka.Header{{Key: "event_type", Value: []byte(events.TypeExerciseConfig)}},
		},
		kafka.Message{Key: []byte("1"), Value: []byte("{broken")},
		kafka.Message{Key: []byte("1"), Value: feedbackPayload},
	)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(sink.snapshot()) == 2
	}, 30*time.Second, 250*time.Millisecond)

	got := sink.snapshot()
	arrived, ok := got[0].(session.ConfigArrived)
	require.True(t, ok)
	require.Equal(t, cfg.ID, arrived.Config.ID)
	require.Equal(t, session.ZoneReported{Zone: domain.ZoneShiftForward, Foot: domain.FootRight}, got[1])
}
