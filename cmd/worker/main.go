package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightseed/config"
	"github.com/Domenick1991/flightseed/internal/bootstrap"
	"github.com/Domenick1991/flightseed/internal/kafka"
	"github.com/Domenick1991/flightseed/internal/logger"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	l, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seedService, cleanup, err := bootstrap.NewSeedingService(cfg, l)
	if err != nil {
		l.Fatalw("init seeding service", "error", err)
	}
	defer cleanup()

	if len(cfg.Kafka.Brokers) > 0 {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.SeedTopic, l)
		defer consumer.Close()

		go func() {
			if err := consumer.Consume(ctx, func(ctx context.Context, event kafka.SeedEvent) error {
				l.Infow("seed event received",
					"type", event.Type,
					"run_id", event.RunID,
					"databases", event.Databases,
					"steps", event.Steps,
					"finished_at", event.FinishedAt,
				)
				return nil
			}); err != nil && ctx.Err() == nil {
				l.Errorw("consumer stopped", "error", err)
			}
		}()
	}

	verifyTicker := time.NewTicker(time.Duration(cfg.Worker.VerifyIntervalSeconds) * time.Second)
	defer verifyTicker.Stop()

	for {
		select {
		case <-verifyTicker.C:
			report, err := seedService.Verify(ctx)
			if err != nil {
				l.Errorw("verify fixtures", "error", err)
				continue
			}
			if !report.OK {
				l.Warnw("fixture drift detected", "problems", report.Problems, "counts", report.Counts)
				continue
			}
			l.Debugw("fixtures verified", "counts", report.Counts)
		case <-ctx.Done():
			l.Infow("shutting down")
			return
		}
	}
}
