package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	rows := []models.RollupRow{
		{Variant: models.VariantInterview, Category: "technical", Day: "2025-02-01", Sessions: 1, TotalScore: 10},
		{Variant: models.VariantInterview, Category: "technical", Day: "2025-03-01", Sessions: 2, TotalScore: 120},
		{Variant: models.VariantTest, Category: "databases", Day: "2025-03-05", Sessions: 1, TotalScore: 70},
		{Variant: models.VariantInterview, Category: "behavioral", Day: "2025-03-09", Sessions: 1, TotalScore: 80},
		{Variant: models.VariantTest, Category: "databases", Day: "2025-03-10", Sessions: 1, TotalScore: 90},
	}
	stats := &models.UserStats{OwnerID: "user-1", StudyStreak: 2, LastActiveDay: "2025-03-09"}

	report := BuildReport("user-1", 30, now, rows, stats)

	assert.Equal(t, 3, report.Interviews.Completed)
	assert.Equal(t, float64(66.67), report.Interviews.AverageScore)
	assert.Equal(t, 2, report.Tests.Completed)
	assert.Equal(t, float64(80), report.Tests.AverageScore)

	require.Len(t, report.Categories, 3)
	assert.Equal(t, "behavioral", report.Categories[0].Category)
	assert.Equal(t, "databases", report.Categories[1].Category)
	assert.Equal(t, float64(80), report.Categories[1].AverageScore)

	require.Len(t, report.Trend, 4)
	assert.Equal(t, "2025-03-01", report.Trend[0].Day)
	assert.Equal(t, float64(60), report.Trend[0].AverageScore)

	// 2025-03-05, 03-09 and 03-10 fall in the last seven days.
	assert.Equal(t, float64(0.43), report.Consistency)
	// (80+90)/2 - (60+70)/2
	assert.Equal(t, float64(20), report.Progression)
	assert.Equal(t, 2, report.StudyStreak)
}

func TestBuildReportEmpty(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	stale := &models.UserStats{StudyStreak: 4, LastActiveDay: "2025-03-01"}

	report := BuildReport("user-1", 7, now, nil, stale)

	assert.Zero(t, report.Interviews.Completed)
	assert.Empty(t, report.Categories)
	assert.Empty(t, report.Trend)
	assert.Zero(t, report.Consistency)
	assert.Zero(t, report.Progression)
	assert.Zero(t, report.StudyStreak)
}

func TestGetAnalytics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedChoice(t, "quiz", 1)
	svc := NewAnalyticsService(f.repo, f.logger, f.validator)

	started := f.start(t, "user-1", models.VariantTest, "quiz", 1)
	_, err := f.sessions.SubmitAnswer(ctx, "user-1", started.Token, &SubmitAnswerRequest{QuestionID: started.FirstQuestion.ID, Answer: "B"})
	require.NoError(t, err)
	_, err = f.sessions.CompleteSession(ctx, "user-1", started.Token, models.ReasonCompleted)
	require.NoError(t, err)

	abandoned := f.start(t, "user-1", models.VariantTest, "quiz", 1)
	_, err = f.sessions.CompleteSession(ctx, "user-1", abandoned.Token, models.ReasonAbandoned)
	require.NoError(t, err)

	report, err := svc.GetAnalytics(ctx, "user-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Tests.Completed)
	assert.Equal(t, float64(100), report.Tests.AverageScore)
	require.Len(t, report.Trend, 1)
	assert.Equal(t, time.Now().UTC().Format(models.DayLayout), report.Trend[0].Day)
	assert.Equal(t, float64(0.14), report.Consistency)

	_, err = svc.GetAnalytics(ctx, "user-1", 14)
	assert.True(t, IsValidation(err))
}
