// Package kafka publishes cleaned training rows to a Kafka sink topic so
// downstream model-training consumers can pick them up without touching
// the filesystem.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/gridforge/load-forecast-prep/internal/config"
	"github.com/gridforge/load-forecast-prep/internal/pipeline"
)

// Writer produces cleaned rows to a Kafka topic. It implements
// pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Load serializes every cleaned row and publishes the batch in a single
// WriteMessages call. Keys are deterministic (run id + timestamp), so a
// replayed run overwrites rather than duplicates under log compaction.
func (w *Writer) Load(ctx context.Context, res *pipeline.Result) error {
	rows := res.Rows()
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i, row := range rows {
		msg, err := serializeToMessage(res, row)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish cleaned rows: %w", err)
	}
	w.logger.Info("published cleaned rows", "topic", w.writer.Topic, "rows", len(msgs), "run_id", res.RunID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one cleaned row into a Kafka message.
func serializeToMessage(res *pipeline.Result, row pipeline.Row) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize cleaned row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(res.RunID + "|" + row.DS.UTC().Format(time.RFC3339)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(res.RunID)},
			{Key: "processed_at", Value: []byte(res.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
