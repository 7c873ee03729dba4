package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/observability"
	"github.com/robfig/cron/v3"
)

// SessionExpirer closes timed out sessions. Satisfied by services.SessionService.
type SessionExpirer interface {
	ExpireSessions(ctx context.Context, now time.Time, limit int) (int, error)
}

// SweeperConfig controls the timeout sweep schedule.
type SweeperConfig struct {
	Enabled   bool
	Schedule  string // cron schedule, e.g. "@every 1m"
	BatchSize int
	Timeout   time.Duration
}

// TimeoutSweeper periodically completes expired test sessions with
// reason timeout.
type TimeoutSweeper struct {
	sessions SessionExpirer
	config   SweeperConfig
	logger   *slog.Logger
	cron     *cron.Cron
	now      func() time.Time

	mu      sync.Mutex
	running bool
}

func NewTimeoutSweeper(sessions SessionExpirer, config SweeperConfig, logger *slog.Logger) *TimeoutSweeper {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &TimeoutSweeper{
		sessions: sessions,
		config:   config,
		logger:   logger.With("component", "timeout_sweeper"),
		cron:     cron.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start schedules the sweep. It is a no-op when the sweeper is disabled.
func (s *TimeoutSweeper) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Timeout sweep is disabled, skipping scheduler")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("Timeout sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule timeout sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Timeout sweeper started", "schedule", s.config.Schedule)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *TimeoutSweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Timeout sweeper stopped")
}

// RunOnce performs a single sweep. Overlapping runs are skipped.
func (s *TimeoutSweeper) RunOnce(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Previous timeout sweep still running, skipping")
		return 0, nil
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	expired, err := s.sessions.ExpireSessions(ctx, s.now(), s.config.BatchSize)
	for i := 0; i < expired; i++ {
		observability.SessionSwept()
	}
	if err != nil {
		return expired, fmt.Errorf("failed to expire sessions: %w", err)
	}
	if expired > 0 {
		s.logger.Info("Expired timed out sessions", "count", expired)
	}
	return expired, nil
}
