// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/ficmart-order-service/internal/config"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes lifecycle events to a Kafka topic. Delivery is
// at-least-once: the writer retries internally and duplicate delivery is
// acceptable to consumers.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

// Publish marshals the event and writes it keyed by topic-specific identity.
// The caller decides whether a failure is fatal; for creation events it is
// reported and retried out-of-band, never rolled back.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Value: payload,
	}
	if keyed, ok := event.(interface{ EventKey() string }); ok {
		msg.Key = []byte(keyed.EventKey())
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}

	p.logger.Debug("event published", "topic", topic, "bytes", len(payload))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
