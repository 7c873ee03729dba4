package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/SAP-F-2025/interview-prep-service/internal/validator"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuestionService manages the question bank. Stored questions are never
// updated, so cached reads stay valid until they expire.
type QuestionService interface {
	CreateQuestion(ctx context.Context, creatorID string, req *CreateQuestionRequest) (*models.Question, error)
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	ListQuestions(ctx context.Context, req *ListQuestionsRequest) (*QuestionListResponse, error)
}

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		logger:    logger,
		ops:       NewServiceLogger(logger, "question"),
		validator: validator,
	}
}

func (s *questionService) CreateQuestion(ctx context.Context, creatorID string, req *CreateQuestionRequest) (question *models.Question, err error) {
	done := s.ops.Track(ctx, "create_question", creatorID, "", "question")
	defer func() { done(err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	question = newQuestion(creatorID, req)
	if err = s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, err
	}

	if err = s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created", "question_id", question.ID, "kind", question.Kind, "category", question.Category)
	return question, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) ListQuestions(ctx context.Context, req *ListQuestionsRequest) (*QuestionListResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	filters := repositories.QuestionFilters{
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Kind:       req.Kind,
		Limit:      repositories.NormalizeLimit(req.Limit),
		Offset:     req.Offset,
	}
	questions, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	return &QuestionListResponse{
		Questions: questions,
		Total:     total,
		Limit:     filters.Limit,
		Offset:    filters.Offset,
	}, nil
}

// newQuestion builds a question from a request. True/false answers are stored
// in canonical lower case.
func newQuestion(creatorID string, req *CreateQuestionRequest) *models.Question {
	q := &models.Question{
		ID:               uuid.NewString(),
		Prompt:           strings.TrimSpace(req.Prompt),
		Kind:             req.Kind,
		Category:         strings.TrimSpace(req.Category),
		Difficulty:       req.Difficulty,
		Options:          datatypes.JSONSlice[string](req.Options),
		ExpectedKeywords: datatypes.JSONSlice[string](req.ExpectedKeywords),
		TimeAllocated:    req.TimeAllocated,
		Points:           req.Points,
		Explanation:      req.Explanation,
		CreatedBy:        creatorID,
		CreatedAt:        time.Now().UTC(),
	}
	if req.CorrectAnswer != nil {
		answer := req.CorrectAnswer.String()
		if req.Kind == models.KindTrueFalse {
			answer = strings.ToLower(strings.TrimSpace(answer))
		}
		q.CorrectAnswer = &answer
	}
	return q
}
