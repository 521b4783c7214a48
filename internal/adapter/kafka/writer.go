package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/firecad-etl/internal/domain"
)

// Writer produces incident messages to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Load publishes every incident in the snapshot in a single WriteMessages
// call. Messages are keyed by incident ID so re-sightings of the same call
// land on the same partition.
func (w *Writer) Load(ctx context.Context, snap domain.Snapshot) error {
	if len(snap.Incidents) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Incidents))
	for i := range snap.Incidents {
		msg, err := serializeToMessage(snap.Incidents[i], snap.FetchedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write incidents: %w", err)
	}
	w.logger.Debug("published incidents", "records", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Incident into a Kafka message.
func serializeToMessage(incident domain.Incident, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(incident)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize incident: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(incident.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "section", Value: []byte(incident.Section)},
			{Key: "incident_type", Value: []byte(incident.IncidentType)},
			{Key: "fetched_at", Value: []byte(fetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
