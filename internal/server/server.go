// Package server exposes the recommendation pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Saumya1404/SHL/internal/pipeline"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// Recommender is the pipeline as seen by the HTTP handlers.
type Recommender interface {
	Recommend(ctx context.Context, query string, opts pipeline.Options) (*pipeline.Result, error)
}

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(rec Recommender, defaults pipeline.Options, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		RequestID(),
		Logging(logger),
		Recovery(logger),
	)

	h := &handler{recommender: rec, defaults: defaults, logger: logger}
	r.GET("/health", h.health)
	r.POST("/recommend", h.recommend)

	return r
}

// Run serves handler on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// Addr normalizes the listen address.
func Addr(address string) string {
	if address == "" {
		return ":8080"
	}
	if address[0] == ':' {
		return address
	}
	for _, r := range address {
		if r < '0' || r > '9' {
			return address
		}
	}
	return ":" + address
}
