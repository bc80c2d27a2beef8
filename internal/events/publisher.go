// Package events publishes circle, ledger and audit events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/segmentio/kafka-go"
)

// ErrDisabled is returned by Publish when no Kafka writer is configured.
var ErrDisabled = errors.New("event publishing disabled")

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// Publisher serializes events as JSON and writes them to Kafka.
type Publisher struct {
	writer KafkaWriter
}

// NewPublisher creates a Publisher. A nil writer yields a publisher that reports ErrDisabled.
func NewPublisher(writer KafkaWriter) *Publisher {
	return &Publisher{writer: writer}
}

// NewKafkaWriter builds the kafka-go writer used in production.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// Publish writes value under key. Errors are returned so callers can retry.
func (p *Publisher) Publish(ctx context.Context, key string, value any) error {
	if p == nil || p.writer == nil {
		return ErrDisabled
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Log.Errorw("failed to marshal event for Kafka", "key", key, "error", err)
		return err
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data}); err != nil {
		logger.Log.Errorw("failed to publish event to Kafka", "key", key, "error", err)
		return err
	}

	logger.Log.Debugw("event published to Kafka", "key", key, "size", len(data))
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
