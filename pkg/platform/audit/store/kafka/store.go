// Package kafka ships audit events to a Kafka topic as JSON records keyed by user.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"coldchain/internal/platform/kafka/producer"
	audit "coldchain/pkg/platform/audit"
)

// Producer is the subset of producer.Producer used here.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

type Store struct {
	producer Producer
	topic    string
}

func New(p Producer, topic string) *Store {
	return &Store{producer: p, topic: topic}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.UserID.String()),
		Value: payload,
		Headers: map[string]string{
			"action":     event.Action,
			"request_id": event.RequestID,
		},
	})
}
