package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/handlers"
	"github.com/SAP-F-2025/interview-prep-service/internal/jobs"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	sweeper := jobs.NewTimeoutSweeper(a.services.Session(), jobs.SweeperConfig{
		Enabled:  a.cfg.TimeoutSweepEnabled,
		Schedule: a.cfg.TimeoutSweepSchedule,
	}, a.logger.Slog())
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	router := handlers.NewRouter(handlers.Dependencies{
		Services:        a.services,
		Store:           a.store,
		Verifier:        a.verifier(),
		Counter:         a.counter(),
		RateLimitMax:    a.cfg.RateLimitMax,
		RateLimitWindow: a.cfg.RateLimitWindow,
		Logger:          a.logger,
		Debug:           a.cfg.IsDevelopment(),
	})

	server := &http.Server{
		Addr:              a.cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", "addr", server.Addr, "environment", a.cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
