package bootstrap

import (
	"context"
	"time"

	"github.com/Domenick1991/flightseed/config"
	"github.com/Domenick1991/flightseed/internal/cache"
	"github.com/Domenick1991/flightseed/internal/kafka"
	"github.com/Domenick1991/flightseed/internal/service/seeding"
	"github.com/Domenick1991/flightseed/internal/storage"
	"go.uber.org/zap"
)

// NewSeedingService wires the seeding service from cfg. The returned cleanup
// closes every connection it opened.
func NewSeedingService(cfg *config.Config, logger *zap.SugaredLogger) (*seeding.SeedingService, func(), error) {
	fixtures, err := seeding.LoadFixtures(cfg.Seed.FixturesPath)
	if err != nil {
		return nil, nil, err
	}

	registry := storage.NewRegistry(cfg.Databases)
	closers := []func() error{registry.Close}

	lockTTL := time.Duration(cfg.Seed.LockTTLSeconds) * time.Second
	opts := []seeding.SeedingServiceOption{seeding.WithLogger(logger)}
	if cfg.Redis.Addr != "" {
		locker := cache.NewRedisLocker(cfg.Redis)
		closers = append(closers, locker.Close)
		opts = append(opts, seeding.WithLocker(locker, lockTTL))
	} else {
		opts = append(opts, seeding.WithLocker(cache.NewMemoryLocker(), lockTTL))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.MaxRetries, logger)
		closers = append(closers, producer.Close)
		checkKafka(producer, logger)
		opts = append(opts, seeding.WithProducer(producer, cfg.Kafka.SeedTopic))
	}
	if cfg.Seed.CreateSchema {
		opts = append(opts, seeding.WithSchemaBootstrap())
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warnw("cleanup failed", "error", err)
			}
		}
	}
	return seeding.NewSeedingService(registry, fixtures, opts...), cleanup, nil
}

const kafkaCheckTimeout = 3 * time.Second

// checkKafka warns when no broker answers; seed events are optional.
func checkKafka(producer *kafka.Producer, logger *zap.SugaredLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), kafkaCheckTimeout)
	defer cancel()
	if err := producer.CheckConnection(ctx); err != nil {
		logger.Warnw("kafka is unreachable, seed events will not be delivered", "error", err)
	}
}
