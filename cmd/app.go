package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/cache"
	"github.com/SAP-F-2025/interview-prep-service/internal/config"
	"github.com/SAP-F-2025/interview-prep-service/internal/events"
	"github.com/SAP-F-2025/interview-prep-service/internal/middleware"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/SAP-F-2025/interview-prep-service/internal/services"
	"github.com/SAP-F-2025/interview-prep-service/internal/utils"
	"github.com/SAP-F-2025/interview-prep-service/internal/validator"
	"github.com/SAP-F-2025/interview-prep-service/pkg"
	"github.com/redis/go-redis/v9"
)

const connectTimeout = 10 * time.Second

// app holds the process wide dependencies shared by the commands.
type app struct {
	cfg       *config.Config
	logger    utils.Logger
	store     repositories.Repository
	repo      repositories.Repository
	redis     *redis.Client
	publisher events.EventPublisher
	services  services.ServiceManager
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := utils.NewLogger(cfg.Environment)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	store, err := pkg.OpenRepository(connectCtx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to content store", "driver", cfg.StoreDriver)

	a := &app{cfg: cfg, logger: logger, store: store, repo: store}

	// Redis backs the question cache and the rate limiter; both are optional.
	client, err := pkg.NewRedisClient(connectCtx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache and rate limiting", "error", err)
	} else {
		a.redis = client
		a.repo = cache.WithQuestionCache(store, cache.NewRedisCache(client, "interview-prep:cache", logger.Slog()), cfg.QuestionCacheTTL, logger.Slog())
	}

	a.publisher, err = cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		logger.Error("Failed to create event publisher, events are only logged", "error", err)
		a.publisher = events.NewLogEventPublisher(logger.Slog())
	}

	a.services = services.NewServiceManager(a.repo, a.publisher, logger.Slog(), validator.New())
	return a, nil
}

func (a *app) counter() cache.Counter {
	if a.redis == nil {
		return nil
	}
	return cache.NewRedisCounter(a.redis, "interview-prep:ratelimit")
}

func (a *app) verifier() middleware.Verifier {
	if a.cfg.AuthProvider == "casdoor" {
		c := a.cfg.Casdoor
		return middleware.NewCasdoorVerifier(middleware.CasdoorConfig{
			Endpoint:         c.Endpoint,
			ClientID:         c.ClientID,
			ClientSecret:     c.ClientSecret,
			Certificate:      c.Certificate,
			OrganizationName: c.OrganizationName,
			ApplicationName:  c.ApplicationName,
		})
	}
	return middleware.NewJWTVerifier(a.cfg.JWTSecret)
}

func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("Failed to close event publisher", "error", err)
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("Failed to close content store", "error", err)
	}
}
