package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/balancetrainer/internal/config"
	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/events"
	"example.com/balancetrainer/internal/plan"
)

// main publishes exercise configurations and a connected status to the first
// consumer topic, standing in for the headset client.
func main() {
	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 || len(cfg.ConsumerTopics) == 0 {
		log.Fatalf("KAFKA_BROKERS and CONSUMER_TOPICS are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	configs := domain.DefaultExercises()
	if cfg.PlanPath != "" {
		loaded, err := plan.LoadFile(cfg.PlanPath)
		if err != nil {
			log.Fatalf("load plan: %v", err)
		}
		configs = loaded
	}

	topic := cfg.ConsumerTopics[0]
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("writer close: %v", err)
		}
	}()

	messages := make([]kafka.Message, 0, len(configs)+1)
	for _, c := range configs {
		msg, err := encode(strconv.Itoa(c.ID), events.TypeExerciseConfig, events.NewExerciseConfigMessage(c))
		if err != nil {
			log.Fatalf("encode config %d: %v", c.ID, err)
		}
		messages = append(messages, msg)
	}
	status, err := encode("client", events.TypeClientStatus, events.ClientStatusMessage{
		MessageType: events.MessageClientStatus,
		Connected:   true,
	})
	if err != nil {
		log.Fatalf("encode status: %v", err)
	}
	messages = append(messages, status)

	if err := writer.WriteMessages(ctx, messages...); err != nil {
		log.Fatalf("publish to %s: %v", topic, err)
	}
	log.Printf("published %d exercise configs and client status to %s", len(configs), topic)
}

func encode(key, eventType string, payload any) (kafka.Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
		Time:    time.Now().UTC(),
	}, nil
}
