// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for topic on the given brokers.
// Writes are asynchronous; delivery failures are logged by the completion
// callback.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Warn("category event delivery failed", "messages", len(messages), "error", err)
			}
		},
	}
	slog.Info("category events enabled", "brokers", brokers, "topic", topic)
	return &KafkaPublisher{writer: w}
}

// Publish queues e for delivery.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := e.Encode()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   e.Key(),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Close flushes pending events and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
