package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func strPtr(s string) *string { return &s }

func seedQuestions(t *testing.T, repo *Repository, category string, difficulty models.Difficulty, n int) []*models.Question {
	t.Helper()
	var qs []*models.Question
	for i := 0; i < n; i++ {
		qs = append(qs, &models.Question{
			ID:               uuid.NewString(),
			Prompt:           fmt.Sprintf("Question %d", i),
			Kind:             models.KindTechnical,
			Category:         category,
			Difficulty:       difficulty,
			ExpectedKeywords: []string{"alpha", "beta"},
			TimeAllocated:    60,
			Points:           1,
			CreatedAt:        time.Now(),
		})
	}
	require.NoError(t, repo.Question().CreateBatch(context.Background(), qs))
	return qs
}

func newSession(ownerID string, qs []*models.Question) *models.Session {
	now := time.Now().UTC()
	s := &models.Session{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Token:          uuid.NewString(),
		Variant:        models.VariantInterview,
		Category:       "technical",
		Difficulty:     models.DifficultyBeginner,
		TotalQuestions: len(qs),
		Status:         models.SessionInProgress,
		TimeLimit:      60 * len(qs),
		StartedAt:      now,
		ExpiresAt:      now.Add(time.Duration(60*len(qs)) * time.Second),
		UpdatedAt:      now,
	}
	for i, q := range qs {
		s.Attempts = append(s.Attempts, models.QuestionAttempt{
			QuestionID:    q.ID,
			Order:         i,
			Kind:          q.Kind,
			Difficulty:    q.Difficulty,
			Points:        q.Points,
			TimeAllocated: q.TimeAllocated,
		})
	}
	return s
}

func TestQuestionSampleAndGet(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	seedQuestions(t, repo, "technical", models.DifficultyBeginner, 5)
	seedQuestions(t, repo, "behavioral", models.DifficultyBeginner, 2)

	sample, err := repo.Question().Sample(ctx, repositories.SampleFilters{
		Category: "technical", Difficulty: models.DifficultyBeginner, Count: 3,
	})
	require.NoError(t, err)
	assert.Len(t, sample, 3)
	for _, q := range sample {
		assert.Equal(t, "technical", q.Category)
	}

	empty, err := repo.Question().Sample(ctx, repositories.SampleFilters{
		Category: "technical", Difficulty: models.DifficultyAdvanced, Count: 3,
	})
	require.NoError(t, err)
	assert.Empty(t, empty)

	got, err := repo.Question().GetByID(ctx, sample[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, []string(got.ExpectedKeywords))

	_, err = repo.Question().GetByID(ctx, "missing")
	assert.True(t, repositories.IsNotFoundError(err))

	list, total, err := repo.Question().List(ctx, repositories.QuestionFilters{Category: "behavioral"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
}

func TestSessionRoundTrip(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	qs := seedQuestions(t, repo, "technical", models.DifficultyBeginner, 3)

	s := newSession("owner-1", qs)
	require.NoError(t, repo.Session().Create(ctx, s))

	_, err := repo.Session().GetByToken(ctx, s.Token, "someone-else")
	assert.True(t, repositories.IsNotFoundError(err))

	correct := true
	s.Attempts[1].Answered = true
	s.Attempts[1].Answer = "alpha beta"
	s.Attempts[1].Score = 72
	s.Attempts[1].IsCorrect = &correct
	s.AnsweredCount = 1
	s.Score = 72
	require.NoError(t, repo.Session().SaveAnswer(ctx, s, 1))

	loaded, err := repo.Session().GetByToken(ctx, s.Token, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, s.Score, loaded.Score)
	assert.Equal(t, s.Status, loaded.Status)
	require.Len(t, loaded.Attempts, 3)
	for i := range s.Attempts {
		assert.Equal(t, s.Attempts[i].QuestionID, loaded.Attempts[i].QuestionID)
		assert.Equal(t, s.Attempts[i].Order, loaded.Attempts[i].Order)
	}
	assert.Equal(t, "alpha beta", loaded.Attempts[1].Answer)
	require.NotNil(t, loaded.Attempts[1].IsCorrect)
	assert.Nil(t, loaded.Feedback)
}

func TestSessionCompleteIsGuarded(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	s := newSession("owner-1", seedQuestions(t, repo, "technical", models.DifficultyBeginner, 1))
	require.NoError(t, repo.Session().Create(ctx, s))

	now := time.Now().UTC()
	s.Status = models.SessionCompleted
	s.CompletedAt = &now
	s.CompletedDay = now.Format(models.DayLayout)
	s.Feedback = &models.FeedbackSummary{TotalScore: 80, Rating: models.RatingGood}
	require.NoError(t, repo.Session().Complete(ctx, s))

	err := repo.Session().Complete(ctx, s)
	assert.ErrorIs(t, err, repositories.ErrStaleSession)
	assert.ErrorIs(t, repo.Session().SaveAnswer(ctx, s, 0), repositories.ErrStaleSession)

	loaded, err := repo.Session().GetByToken(ctx, s.Token, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, loaded.Status)
	require.NotNil(t, loaded.Feedback)
	assert.Equal(t, models.RatingGood, loaded.Feedback.Rating)
	require.NotNil(t, loaded.CompletedAt)
}

func TestSessionRollupAndExpired(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	qs := seedQuestions(t, repo, "technical", models.DifficultyBeginner, 1)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	for i, score := range []float64{60, 80, 90} {
		s := newSession("owner-1", qs)
		s.Status = models.SessionCompleted
		s.Score = score
		day := now.AddDate(0, 0, -i/2)
		s.CompletedAt = &day
		s.CompletedDay = day.Format(models.DayLayout)
		require.NoError(t, repo.Session().Create(ctx, s))
	}

	old := newSession("owner-1", qs)
	old.Status = models.SessionCompleted
	old.Score = 10
	oldDay := now.AddDate(0, 0, -40)
	old.CompletedAt = &oldDay
	old.CompletedDay = oldDay.Format(models.DayLayout)
	require.NoError(t, repo.Session().Create(ctx, old))

	rows, err := repo.Session().Rollup(ctx, "owner-1", repositories.Since(now, 7))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-05-09", rows[0].Day)
	assert.Equal(t, 1, rows[0].Sessions)
	assert.Equal(t, 90.0, rows[0].TotalScore)
	assert.Equal(t, "2024-05-10", rows[1].Day)
	assert.Equal(t, 2, rows[1].Sessions)
	assert.Equal(t, 140.0, rows[1].TotalScore)

	expired := newSession("owner-2", qs)
	expired.Variant = models.VariantTest
	expired.ExpiresAt = now.Add(-time.Minute)
	require.NoError(t, repo.Session().Create(ctx, expired))

	list, err := repo.Session().ListExpired(ctx, models.VariantTest, now, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, expired.ID, list[0].ID)
}

func TestUserStatsUpsertAndTransaction(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, err := repo.UserStats().Get(ctx, "owner-1")
	assert.True(t, repositories.IsNotFoundError(err))

	stats := &models.UserStats{OwnerID: "owner-1"}
	stats.RecordCompletion(80, time.Now())
	require.NoError(t, repo.UserStats().Upsert(ctx, stats))
	stats.RecordCompletion(60, time.Now())
	require.NoError(t, repo.UserStats().Upsert(ctx, stats))

	got, err := repo.UserStats().Get(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CompletedInterviews)
	assert.Equal(t, 70.0, got.AverageScore)

	err = repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.UserStats().Upsert(ctx, &models.UserStats{OwnerID: "owner-2", CompletedInterviews: 1}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)
	_, err = repo.UserStats().Get(ctx, "owner-2")
	assert.True(t, repositories.IsNotFoundError(err))
}
