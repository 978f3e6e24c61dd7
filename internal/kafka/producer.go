package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventSeedCompleted = "seed_completed"

type SeedEvent struct {
	Type       string    `json:"type"`
	RunID      string    `json:"run_id"`
	Databases  []string  `json:"databases"`
	Steps      int       `json:"steps"`
	FinishedAt time.Time `json:"finished_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	brokers    []string
	writer     messageWriter
	maxRetries int
	logger     *zap.SugaredLogger
}

func NewProducer(brokers []string, maxRetries int, logger *zap.SugaredLogger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &Producer{
		brokers:    brokers,
		writer:     writer,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Publish writes payload as JSON to topic, retrying with a linear backoff.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	var lastErr error
	for i := 0; i < p.maxRetries; i++ {
		if lastErr = p.writer.WriteMessages(ctx, message); lastErr == nil {
			p.logger.Debugw("published to kafka", "topic", topic, "key", key)
			return nil
		}
		p.logger.Warnw("kafka publish attempt failed", "topic", topic, "attempt", i+1, "error", lastErr)

		if i < p.maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
			}
		}
	}

	return fmt.Errorf("failed to write message to Kafka after %d attempts: %w", p.maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(); err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}
	return nil
}
