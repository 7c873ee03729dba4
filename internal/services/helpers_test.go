package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/events"
	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/interview-prep-service/internal/scoring"
	"github.com/SAP-F-2025/interview-prep-service/internal/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	sessions  *sessionService
	logger    *slog.Logger
	validator *validator.Validator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	repo := postgres.NewRepository(db)
	require.NoError(t, repo.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(log)
	v := validator.New()

	svc := NewSessionService(repo, scoring.NewEngine(log), NewSessionEventService(publisher, log), log, v).(*sessionService)
	return &fixture{db: db, repo: repo, publisher: publisher, sessions: svc, logger: log, validator: v}
}

func strPtr(s string) *string { return &s }

func (f *fixture) seedFreeText(t *testing.T, category string, difficulty models.Difficulty, n int) []*models.Question {
	t.Helper()
	var qs []*models.Question
	for i := 0; i < n; i++ {
		qs = append(qs, &models.Question{
			ID:               uuid.NewString(),
			Prompt:           fmt.Sprintf("Explain database indexing %d", i),
			Kind:             models.KindTechnical,
			Category:         category,
			Difficulty:       difficulty,
			ExpectedKeywords: []string{"index", "lookup", "b-tree", "write", "storage"},
			TimeAllocated:    120,
			Points:           10,
			CreatedAt:        time.Now().UTC(),
		})
	}
	require.NoError(t, f.repo.Question().CreateBatch(context.Background(), qs))
	return qs
}

func (f *fixture) seedChoice(t *testing.T, category string, n int) []*models.Question {
	t.Helper()
	var qs []*models.Question
	for i := 0; i < n; i++ {
		qs = append(qs, &models.Question{
			ID:            uuid.NewString(),
			Prompt:        fmt.Sprintf("Which letter %d?", i),
			Kind:          models.KindMultipleChoice,
			Category:      category,
			Difficulty:    models.DifficultyBeginner,
			Options:       []string{"A", "B", "C"},
			CorrectAnswer: strPtr("B"),
			TimeAllocated: 60,
			Points:        5,
			CreatedAt:     time.Now().UTC(),
		})
	}
	require.NoError(t, f.repo.Question().CreateBatch(context.Background(), qs))
	return qs
}

func (f *fixture) start(t *testing.T, owner string, variant models.SessionVariant, category string, count int) *StartSessionResponse {
	t.Helper()
	resp, err := f.sessions.StartSession(context.Background(), owner, &StartSessionRequest{
		Variant:       variant,
		Category:      category,
		Difficulty:    models.DifficultyBeginner,
		QuestionCount: count,
	})
	require.NoError(t, err)
	return resp
}
