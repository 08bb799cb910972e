package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/place-search/internal/config"
	"github.com/couchcryptid/place-search/internal/domain"
)

// Publisher produces search events to a Kafka topic.
// It implements search.EventPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured search event topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSearchTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSearch writes one event. Events are keyed by normalized query text
// so all events for a query land on the same partition.
func (p *Publisher) PublishSearch(ctx context.Context, event domain.SearchEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write search event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a SearchEvent into a Kafka message.
func serializeToMessage(event domain.SearchEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize search event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strings.ToLower(event.Query)),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "cache_hit", Value: []byte(strconv.FormatBool(event.CacheHit))},
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
