package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/finviz-tracker/internal/config"
	"github.com/trogers1052/finviz-tracker/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles publishing ticker events to Kafka
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// NewFromConfig returns a producer for the configured brokers, or nil when
// none are configured
func NewFromConfig(cfg config.KafkaConfig) *Producer {
	if len(cfg.Brokers) == 0 {
		slog.Debug("kafka disabled, no brokers configured")
		return nil
	}
	slog.Info("kafka producer enabled", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return NewProducer(cfg.Brokers, cfg.Topic)
}

// PublishTickerEvent publishes the outcome of a processed ticker keyed by ticker.
// A nil producer discards the event.
func (p *Producer) PublishTickerEvent(ctx context.Context, event models.TickerEvent) error {
	if p == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.publish(ctx, event.Ticker, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.TickerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
