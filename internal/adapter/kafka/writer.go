// Package kafka publishes processing outcomes to a Kafka topic so that
// downstream consumers can track which locations produced data extracts.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/agriclim/meteo-extract/internal/config"
	"github.com/agriclim/meteo-extract/internal/domain"
)

// Writer produces outcome messages to a Kafka topic.
// It implements pipeline.OutcomePublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured outcome topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaOutcomeTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishOutcome serializes and publishes a single location outcome.
func (w *Writer) PublishOutcome(ctx context.Context, outcome domain.Outcome) error {
	msg, err := serializeToMessage(outcome)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Outcome into a Kafka message keyed by the
// location name so that outcomes for one location stay on one partition.
func serializeToMessage(outcome domain.Outcome) (kafkago.Message, error) {
	data, err := json.Marshal(outcome)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize outcome: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(outcome.Query.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(outcome.Status)},
			{Key: "processed_at", Value: []byte(outcome.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
