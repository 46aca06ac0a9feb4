// Package kafka publishes wildfire risk alerts to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/logger"
)

// Publisher produces alert messages to a Kafka topic.
// It implements dispatch.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger logger.Logger
}

// NewPublisher creates a Kafka producer for the configured alert topic.
func NewPublisher(brokers []string, topic string, log logger.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	if log == nil {
		log = logger.Get().Named("kafka")
	}
	return &Publisher{writer: w, logger: log}
}

// Publish serializes and writes a single alert to the alert topic, keyed
// by location so alerts for one region stay ordered.
func (p *Publisher) Publish(ctx context.Context, a model.Alert) error {
	msg, err := serializeToMessage(a)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write alert message: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Alert into a Kafka message.
func serializeToMessage(a model.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(a.LocationID.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(a.Level)},
			{Key: "generated_at", Value: []byte(a.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
