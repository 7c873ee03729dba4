package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/events"
	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

// SessionEventService emits lifecycle events. Publishing is fire-and-forget:
// failures are logged and never reach the caller.
type SessionEventService interface {
	NotifySessionStarted(ctx context.Context, session *models.Session)
	NotifyAnswerSubmitted(ctx context.Context, session *models.Session, attempt *models.QuestionAttempt)
	NotifySessionCompleted(ctx context.Context, session *models.Session, reason models.CompletionReason)
}

type sessionEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewSessionEventService(eventPublisher events.EventPublisher, logger *slog.Logger) SessionEventService {
	return &sessionEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *sessionEventService) NotifySessionStarted(ctx context.Context, session *models.Session) {
	s.publish(ctx, events.NewSessionEvent(events.EventSessionStarted, session.OwnerID, session.Token, events.SessionStartedData{
		Variant:        session.Variant,
		Category:       session.Category,
		Difficulty:     session.Difficulty,
		TotalQuestions: session.TotalQuestions,
		TimeLimit:      session.TimeLimit,
		StartedAt:      session.StartedAt,
	}))
}

func (s *sessionEventService) NotifyAnswerSubmitted(ctx context.Context, session *models.Session, attempt *models.QuestionAttempt) {
	s.publish(ctx, events.NewSessionEvent(events.EventAnswerSubmitted, session.OwnerID, session.Token, events.AnswerSubmittedData{
		QuestionID:    attempt.QuestionID,
		Order:         attempt.Order,
		Score:         attempt.Score,
		IsCorrect:     attempt.IsCorrect,
		TimeTaken:     attempt.TimeTaken,
		AnsweredCount: session.AnsweredCount,
		SessionScore:  session.Score,
		Fallback:      attempt.Fallback,
	}))
}

func (s *sessionEventService) NotifySessionCompleted(ctx context.Context, session *models.Session, reason models.CompletionReason) {
	data := events.SessionCompletedData{
		Variant:        session.Variant,
		Status:         session.Status,
		Reason:         reason,
		Score:          session.Score,
		AnsweredCount:  session.AnsweredCount,
		TotalQuestions: session.TotalQuestions,
	}
	if session.CompletedAt != nil {
		data.DurationSeconds = int(session.CompletedAt.Sub(session.StartedAt) / time.Second)
	}
	if session.Feedback != nil {
		data.Rating = session.Feedback.Rating
	}
	s.publish(ctx, events.NewSessionEvent(events.EventSessionCompleted, session.OwnerID, session.Token, data))
}

func (s *sessionEventService) publish(ctx context.Context, event *events.SessionEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish session event",
			"event_id", event.ID,
			"event_type", event.Type,
			"owner_id", event.OwnerID,
			"error", err)
	}
}
