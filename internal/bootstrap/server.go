package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightseed/api"
	"github.com/Domenick1991/flightseed/config"
	"github.com/Domenick1991/flightseed/internal/service/seeding"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Run serves the seeding HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, seedSvc seeding.SeedUseCase, logger *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(seedSvc, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("http server listening", "address", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(seedSvc seeding.SeedUseCase, logger *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	api.RegisterHealth(router)
	api.NewSeedHandler(seedSvc).Register(router.Group("/api/v1"))
	return router
}

func requestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.Infow("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(started),
		)
	}
}
