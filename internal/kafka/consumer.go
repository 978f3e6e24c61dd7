package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader messageReader
	logger *zap.SugaredLogger
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads seed events until ctx is done or handler fails.
// Messages that are not valid events are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, SeedEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var event SeedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warnw("skip undecodable seed event", "offset", msg.Offset, "error", err)
			continue
		}
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}
