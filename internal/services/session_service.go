package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/feedback"
	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/observability"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/SAP-F-2025/interview-prep-service/internal/scoring"
	"github.com/SAP-F-2025/interview-prep-service/internal/validator"
	"github.com/google/uuid"
)

// SessionService drives interview and test sessions from start to completion.
type SessionService interface {
	StartSession(ctx context.Context, ownerID string, req *StartSessionRequest) (*StartSessionResponse, error)
	SubmitAnswer(ctx context.Context, ownerID, token string, req *SubmitAnswerRequest) (*SubmitAnswerResponse, error)
	CompleteSession(ctx context.Context, ownerID, token string, reason models.CompletionReason) (*CompleteSessionResponse, error)

	GetSession(ctx context.Context, ownerID, token string) (*SessionDetailResponse, error)
	ListSessions(ctx context.Context, ownerID string, req *ListSessionsRequest) (*SessionListResponse, error)

	// ExpireSessions closes in-progress test sessions whose time ran out
	// before now and returns how many were closed.
	ExpireSessions(ctx context.Context, now time.Time, limit int) (int, error)
}

type sessionService struct {
	repo      repositories.Repository
	engine    *scoring.Engine
	events    SessionEventService
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
	now       func() time.Time
}

func NewSessionService(
	repo repositories.Repository,
	engine *scoring.Engine,
	events SessionEventService,
	logger *slog.Logger,
	validator *validator.Validator,
) SessionService {
	return &sessionService{
		repo:      repo,
		engine:    engine,
		events:    events,
		logger:    logger,
		ops:       NewServiceLogger(logger, "session"),
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// sessionTokenBytes gives 64 hex characters of token.
const sessionTokenBytes = 32

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ===== LIFECYCLE =====

func (s *sessionService) StartSession(ctx context.Context, ownerID string, req *StartSessionRequest) (resp *StartSessionResponse, err error) {
	done := s.ops.Track(ctx, "start_session", ownerID, "", "session")
	defer func() { done(err) }()

	if ownerID == "" {
		return nil, ErrUserNotFound
	}
	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	questions, err := s.repo.Question().Sample(ctx, repositories.SampleFilters{
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Count:      req.QuestionCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	if len(questions) < req.QuestionCount {
		s.logger.Info("Question pool smaller than requested",
			"category", req.Category,
			"difficulty", req.Difficulty,
			"requested", req.QuestionCount,
			"available", len(questions))
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	attempts := make(models.QuestionAttempts, len(questions))
	allocated := 0
	for i, q := range questions {
		attempts[i] = models.QuestionAttempt{
			QuestionID:    q.ID,
			Order:         i + 1,
			Kind:          q.Kind,
			Difficulty:    q.Difficulty,
			Points:        q.Points,
			TimeAllocated: q.TimeAllocated,
		}
		allocated += q.TimeAllocated
	}
	if req.TimeLimit != nil {
		allocated = *req.TimeLimit
	}

	session := &models.Session{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Token:          token,
		Variant:        req.Variant,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
		Attempts:       attempts,
		TotalQuestions: len(attempts),
		Status:         models.SessionInProgress,
		TimeLimit:      allocated,
		StartedAt:      now,
		ExpiresAt:      now.Add(time.Duration(allocated) * time.Second),
		UpdatedAt:      now,
	}

	if err = s.repo.Session().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	observability.SessionStarted(string(session.Variant))
	s.events.NotifySessionStarted(ctx, session)
	s.logger.Info("Session started",
		"owner_id", ownerID,
		"session_id", session.ID,
		"variant", session.Variant,
		"total_questions", session.TotalQuestions)

	return &StartSessionResponse{
		Token:         token,
		Session:       session.Summary(),
		FirstQuestion: questions[0].PublicView(1),
		TimeLimit:     session.TimeLimit,
		ExpiresAt:     session.ExpiresAt,
	}, nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, ownerID, token string, req *SubmitAnswerRequest) (resp *SubmitAnswerResponse, err error) {
	done := s.ops.Track(ctx, "submit_answer", ownerID, token, "session")
	defer func() { done(err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, ownerID, token)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionInProgress {
		return nil, ErrSessionNotActive
	}

	index := session.AttemptIndex(req.QuestionID)
	if index < 0 {
		return nil, ErrQuestionNotFound
	}
	question, err := s.loadQuestion(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	result := s.engine.Score(question, req.Answer.String())
	observability.AnswerScored(string(question.Kind), result.Fallback)

	// Re-submitting an answered question replaces the earlier attempt.
	now := s.now()
	attempt := &session.Attempts[index]
	attempt.Answer = req.Answer.String()
	attempt.Answered = true
	attempt.TimeTaken = req.TimeTaken
	attempt.Score = result.Score
	attempt.PointsEarned = result.PointsEarned
	attempt.IsCorrect = result.IsCorrect
	attempt.Confidence = result.Confidence
	attempt.KeywordScore = result.KeywordScore
	attempt.Feedback = result.Feedback
	attempt.Fallback = result.Fallback
	attempt.AnsweredAt = &now

	session.AnsweredCount = models.CountAnswered(session.Attempts)
	session.Score = models.AggregateScore(session.Variant, session.Attempts)
	session.UpdatedAt = now

	if err = s.repo.Session().SaveAnswer(ctx, session, index); err != nil {
		if errors.Is(err, repositories.ErrStaleSession) {
			return nil, ErrSessionNotActive
		}
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	s.events.NotifyAnswerSubmitted(ctx, session, attempt)

	resp = &SubmitAnswerResponse{
		QuestionID:    attempt.QuestionID,
		Score:         attempt.Score,
		PointsEarned:  attempt.PointsEarned,
		IsCorrect:     attempt.IsCorrect,
		Feedback:      attempt.Feedback,
		FullyAnswered: session.FullyAnswered(),
		Session:       session.Summary(),
	}

	if next := session.NextUnanswered(); next != nil {
		// The answer is already stored, so a missing next question only
		// drops the preview.
		view, viewErr := s.publicView(ctx, next)
		if viewErr != nil {
			s.logger.Warn("Failed to load next question",
				"session_token", token,
				"question_id", next.QuestionID,
				"error", viewErr)
		} else {
			resp.NextQuestion = view
		}
	}
	return resp, nil
}

func (s *sessionService) CompleteSession(ctx context.Context, ownerID, token string, reason models.CompletionReason) (resp *CompleteSessionResponse, err error) {
	done := s.ops.Track(ctx, "complete_session", ownerID, token, "session")
	defer func() { done(err) }()

	if !reason.IsValid() {
		return nil, ErrInvalidCompletionReason
	}

	session, err := s.loadSession(ctx, ownerID, token)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, ErrSessionAlreadyTerminal
	}
	if !reason.AllowedFor(session.Variant) {
		return nil, ErrInvalidCompletionReason
	}

	now := s.now()
	session.Status = reason.Status()
	session.CompletedAt = &now
	session.CompletedDay = now.Format(models.DayLayout)
	session.Score = models.AggregateScore(session.Variant, session.Attempts)
	session.UpdatedAt = now

	if reason == models.ReasonCompleted {
		session.Feedback, err = feedback.Summarize(session)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize session: %w", err)
		}
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Session().Complete(ctx, session); err != nil {
			return err
		}
		if session.Variant != models.VariantInterview || reason != models.ReasonCompleted {
			return nil
		}
		return s.recordInterview(ctx, tx, session, now)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStaleSession) {
			return nil, ErrSessionAlreadyTerminal
		}
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	observability.SessionFinished(string(session.Variant), string(session.Status))
	s.events.NotifySessionCompleted(ctx, session, reason)
	s.logger.Info("Session completed",
		"owner_id", ownerID,
		"session_id", session.ID,
		"status", session.Status,
		"score", session.Score)

	return &CompleteSessionResponse{
		Session:  session.Summary(),
		Feedback: session.Feedback,
	}, nil
}

func (s *sessionService) recordInterview(ctx context.Context, tx repositories.Repository, session *models.Session, at time.Time) error {
	stats, err := tx.UserStats().Get(ctx, session.OwnerID)
	if repositories.IsNotFoundError(err) {
		stats = &models.UserStats{OwnerID: session.OwnerID}
	} else if err != nil {
		return fmt.Errorf("failed to load user stats: %w", err)
	}

	stats.RecordCompletion(session.Score, at)
	if err := tx.UserStats().Upsert(ctx, stats); err != nil {
		return fmt.Errorf("failed to save user stats: %w", err)
	}
	return nil
}

// ===== READS =====

func (s *sessionService) GetSession(ctx context.Context, ownerID, token string) (*SessionDetailResponse, error) {
	session, err := s.loadSession(ctx, ownerID, token)
	if err != nil {
		return nil, err
	}

	resp := &SessionDetailResponse{
		Session:   session.Summary(),
		Attempts:  session.Attempts,
		Feedback:  session.Feedback,
		TimeLimit: session.TimeLimit,
		ExpiresAt: session.ExpiresAt,
	}
	if session.Status == models.SessionInProgress {
		if next := session.NextUnanswered(); next != nil {
			if resp.CurrentQuestion, err = s.publicView(ctx, next); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}

func (s *sessionService) ListSessions(ctx context.Context, ownerID string, req *ListSessionsRequest) (*SessionListResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	filters := req.Filters()
	sessions, total, err := s.repo.Session().List(ctx, ownerID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]*models.SessionSummary, len(sessions))
	for i, session := range sessions {
		summaries[i] = session.Summary()
	}
	return &SessionListResponse{
		Sessions: summaries,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}, nil
}

// ===== TIMEOUT SWEEP =====

func (s *sessionService) ExpireSessions(ctx context.Context, now time.Time, limit int) (int, error) {
	expired, err := s.repo.Session().ListExpired(ctx, models.VariantTest, now, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired sessions: %w", err)
	}

	closed := 0
	for _, session := range expired {
		if ctx.Err() != nil {
			return closed, ctx.Err()
		}
		_, err := s.CompleteSession(ctx, session.OwnerID, session.Token, models.ReasonTimeout)
		switch {
		case err == nil:
			closed++
			observability.SessionSwept()
		case errors.Is(err, ErrSessionAlreadyTerminal):
			// finished by its owner in the meantime
		default:
			s.logger.Error("Failed to expire session",
				"session_id", session.ID,
				"owner_id", session.OwnerID,
				"error", err)
		}
	}
	return closed, nil
}

// ===== HELPERS =====

func (s *sessionService) loadSession(ctx context.Context, ownerID, token string) (*models.Session, error) {
	session, err := s.repo.Session().GetByToken(ctx, token, ownerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (s *sessionService) loadQuestion(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	return question, nil
}

func (s *sessionService) publicView(ctx context.Context, attempt *models.QuestionAttempt) (*models.QuestionPublicView, error) {
	question, err := s.loadQuestion(ctx, attempt.QuestionID)
	if err != nil {
		return nil, err
	}
	return question.PublicView(attempt.Order), nil
}
