package events

import (
	"context"
	"encoding/json"
	"fmt"
	"mobility-route-service/internal/domain"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventTrafficSnapshot is the type header of every published record.
const EventTrafficSnapshot = "traffic.snapshot.collected"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// SnapshotPublisher publishes collected traffic records, one message per
// location keyed by location name so samples of a location stay ordered.
type SnapshotPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewSnapshotPublisher creates a publisher writing to topic on brokers.
func NewSnapshotPublisher(brokers []string, topic string, logger *zap.Logger) *SnapshotPublisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newSnapshotPublisher(w, topic, logger)
}

func newSnapshotPublisher(w messageWriter, topic string, logger *zap.Logger) *SnapshotPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotPublisher{writer: w, topic: topic, logger: logger}
}

// SaveRecords implements ports.TrafficRecordSink.
func (p *SnapshotPublisher) SaveRecords(ctx context.Context, records []domain.TrafficRecord) error {
	if len(records) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(records))
	for _, rec := range records {
		value, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("publish traffic records: encode %q: %w", rec.LocationName, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(rec.LocationName),
			Value: value,
			Time:  rec.CollectedAt,
			Headers: []kafkago.Header{
				{Key: "type", Value: []byte(EventTrafficSnapshot)},
				{Key: "batch_id", Value: []byte(rec.BatchID)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish traffic records to %s: %w", p.topic, err)
	}

	p.logger.Debug("published traffic records",
		zap.String("topic", p.topic),
		zap.Int("count", len(msgs)),
	)
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *SnapshotPublisher) Close() error {
	return p.writer.Close()
}
