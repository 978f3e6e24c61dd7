package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightseed/config"
	"github.com/Domenick1991/flightseed/internal/bootstrap"
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

	if err := bootstrap.Run(ctx, cfg, seedService, l); err != nil {
		l.Fatalw("server error", "error", err)
	}
}
