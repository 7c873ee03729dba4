package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// These tests need a running MongoDB; set MONGO_TEST_URI to enable them.
func setupRepository(t *testing.T) *Repository {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	dbName := "interview_prep_test_" + uuid.NewString()[:8]
	repo := NewRepository(client, dbName, Options{})
	require.NoError(t, repo.AutoMigrate(ctx))
	t.Cleanup(func() {
		_ = client.Database(dbName).Drop(context.Background())
		_ = repo.Close()
	})
	return repo
}

func TestMongoSessionLifecycle(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	var qs []*models.Question
	for i := 0; i < 3; i++ {
		qs = append(qs, &models.Question{
			ID:               uuid.NewString(),
			Prompt:           "Explain caching",
			Kind:             models.KindTechnical,
			Category:         "technical",
			Difficulty:       models.DifficultyBeginner,
			ExpectedKeywords: []string{"cache"},
			TimeAllocated:    60,
			Points:           1,
			CreatedAt:        time.Now().UTC(),
		})
	}
	require.NoError(t, repo.Question().CreateBatch(ctx, qs))

	sample, err := repo.Question().Sample(ctx, repositories.SampleFilters{Category: "technical", Difficulty: models.DifficultyBeginner, Count: 2})
	require.NoError(t, err)
	assert.Len(t, sample, 2)

	now := time.Now().UTC().Truncate(time.Millisecond)
	s := &models.Session{
		ID:             uuid.NewString(),
		OwnerID:        "owner-1",
		Token:          uuid.NewString(),
		Variant:        models.VariantInterview,
		Category:       "technical",
		Difficulty:     models.DifficultyBeginner,
		TotalQuestions: 2,
		Status:         models.SessionInProgress,
		StartedAt:      now,
		ExpiresAt:      now.Add(2 * time.Minute),
		UpdatedAt:      now,
	}
	for i, q := range sample {
		s.Attempts = append(s.Attempts, models.QuestionAttempt{QuestionID: q.ID, Order: i, Kind: q.Kind, Difficulty: q.Difficulty, Points: 1, TimeAllocated: 60})
	}
	require.NoError(t, repo.Session().Create(ctx, s))

	s.Attempts[0].Answered = true
	s.Attempts[0].Score = 70
	s.AnsweredCount = 1
	s.Score = 70
	require.NoError(t, repo.Session().SaveAnswer(ctx, s, 0))

	s.Status = models.SessionCompleted
	s.CompletedAt = &now
	s.CompletedDay = now.Format(models.DayLayout)
	require.NoError(t, repo.Session().Complete(ctx, s))
	assert.ErrorIs(t, repo.Session().Complete(ctx, s), repositories.ErrStaleSession)

	loaded, err := repo.Session().GetByToken(ctx, s.Token, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 70.0, loaded.Score)
	assert.Equal(t, models.SessionCompleted, loaded.Status)
	require.Len(t, loaded.Attempts, 2)
	assert.True(t, loaded.Attempts[0].Answered)

	rows, err := repo.Session().Rollup(ctx, "owner-1", repositories.Since(now, 7))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Sessions)
	assert.Equal(t, 70.0, rows[0].TotalScore)
}
