package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaStore appends audit events to a Kafka topic. This is the sink for
// deployments where audit records feed a downstream compliance pipeline.
type KafkaStore struct {
	client *kgo.Client
	topic  string
}

// NewKafkaStore dials the given brokers. Close releases the client.
func NewKafkaStore(brokers []string, topic string) (*KafkaStore, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("dial kafka: %w", err)
	}
	return &KafkaStore{client: client, topic: topic}, nil
}

// Append produces the event synchronously. Keyed by event ID so replays of
// the same record land in one partition.
func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Key:   []byte(event.ID.String()),
		Value: value,
		Topic: s.topic,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (s *KafkaStore) Close() {
	s.client.Close()
}
