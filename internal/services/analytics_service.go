package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/SAP-F-2025/interview-prep-service/internal/validator"
	"golang.org/x/sync/errgroup"
)

// consistencyDays is the trailing window behind the study consistency score.
const consistencyDays = 7

// AnalyticsService derives dashboards from stored sessions on every call.
type AnalyticsService interface {
	GetAnalytics(ctx context.Context, ownerID string, windowDays int) (*models.AnalyticsReport, error)
}

type analyticsService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
	now       func() time.Time
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AnalyticsService {
	return &analyticsService{
		repo:      repo,
		logger:    logger,
		ops:       NewServiceLogger(logger, "analytics"),
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type analyticsWindowRequest struct {
	Window int `json:"window" validate:"analytics_window"`
}

func (s *analyticsService) GetAnalytics(ctx context.Context, ownerID string, windowDays int) (report *models.AnalyticsReport, err error) {
	done := s.ops.Track(ctx, "get_analytics", ownerID, "", "analytics")
	defer func() { done(err) }()

	if err = s.validator.Validate(&analyticsWindowRequest{Window: windowDays}); err != nil {
		return nil, err
	}

	now := s.now()
	// The consistency score always looks back a week, even for shorter windows.
	lookback := windowDays
	if lookback < consistencyDays {
		lookback = consistencyDays
	}

	var (
		rows  []models.RollupRow
		stats *models.UserStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.Session().Rollup(gctx, ownerID, repositories.Since(now, lookback))
		if err != nil {
			return fmt.Errorf("failed to aggregate sessions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = s.repo.UserStats().Get(gctx, ownerID)
		if repositories.IsNotFoundError(err) {
			stats, err = nil, nil
		}
		if err != nil {
			return fmt.Errorf("failed to load user stats: %w", err)
		}
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return BuildReport(ownerID, windowDays, now, rows, stats), nil
}

// BuildReport folds rollup rows into a report. Rows older than the window
// only count towards study consistency.
func BuildReport(ownerID string, windowDays int, now time.Time, rows []models.RollupRow, stats *models.UserStats) *models.AnalyticsReport {
	windowStart := repositories.Since(now, windowDays).Format(models.DayLayout)
	weekStart := repositories.Since(now, consistencyDays).Format(models.DayLayout)

	report := &models.AnalyticsReport{
		OwnerID:    ownerID,
		WindowDays: windowDays,
		Categories: []models.CategoryBreakdown{},
		Trend:      []models.TrendPoint{},
	}

	type bucket struct {
		sessions int
		total    float64
	}
	var interviews, tests bucket
	categories := map[string]*bucket{}
	days := map[string]*bucket{}
	activeDays := map[string]struct{}{}

	for _, row := range rows {
		if row.Day >= weekStart {
			activeDays[row.Day] = struct{}{}
		}
		if row.Day < windowStart {
			continue
		}

		switch row.Variant {
		case models.VariantInterview:
			interviews.sessions += row.Sessions
			interviews.total += row.TotalScore
		case models.VariantTest:
			tests.sessions += row.Sessions
			tests.total += row.TotalScore
		}

		c, ok := categories[row.Category]
		if !ok {
			c = &bucket{}
			categories[row.Category] = c
		}
		c.sessions += row.Sessions
		c.total += row.TotalScore

		d, ok := days[row.Day]
		if !ok {
			d = &bucket{}
			days[row.Day] = d
		}
		d.sessions += row.Sessions
		d.total += row.TotalScore
	}

	report.Interviews = models.VariantTotals{Completed: interviews.sessions, AverageScore: mean(interviews.total, interviews.sessions)}
	report.Tests = models.VariantTotals{Completed: tests.sessions, AverageScore: mean(tests.total, tests.sessions)}

	for name, c := range categories {
		report.Categories = append(report.Categories, models.CategoryBreakdown{
			Category:     name,
			Sessions:     c.sessions,
			AverageScore: mean(c.total, c.sessions),
		})
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})

	for day, d := range days {
		report.Trend = append(report.Trend, models.TrendPoint{
			Day:          day,
			Sessions:     d.sessions,
			AverageScore: mean(d.total, d.sessions),
		})
	}
	sort.Slice(report.Trend, func(i, j int) bool {
		return report.Trend[i].Day < report.Trend[j].Day
	})

	report.Consistency = round2(float64(len(activeDays)) / consistencyDays)
	report.Progression = progression(report.Trend)
	report.StudyStreak = currentStreak(stats, now)
	return report
}

// progression is the mean of the second half of the trend minus the mean of
// the first half. An odd middle point belongs to the second half.
func progression(trend []models.TrendPoint) float64 {
	if len(trend) < 2 {
		return 0
	}
	half := len(trend) / 2
	var first, second float64
	for _, p := range trend[:half] {
		first += p.AverageScore
	}
	for _, p := range trend[half:] {
		second += p.AverageScore
	}
	return round2(second/float64(len(trend)-half) - first/float64(half))
}

// currentStreak drops a streak whose last active day is before yesterday.
func currentStreak(stats *models.UserStats, now time.Time) int {
	if stats == nil {
		return 0
	}
	today := now.UTC().Format(models.DayLayout)
	yesterday := now.UTC().AddDate(0, 0, -1).Format(models.DayLayout)
	if stats.LastActiveDay == today || stats.LastActiveDay == yesterday {
		return stats.StudyStreak
	}
	return 0
}

func mean(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return round2(total / float64(n))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
