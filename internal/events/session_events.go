package events

import (
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the lifecycle events emitted by sessions
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventAnswerSubmitted  EventType = "answer.submitted"
	EventSessionCompleted EventType = "session.completed"
)

const (
	eventSource  = "interview-prep-service"
	eventVersion = "1.0"
)

// SessionEvent is the envelope of every outbound event
type SessionEvent struct {
	ID           string                 `json:"id"`
	Type         EventType              `json:"type"`
	Timestamp    time.Time              `json:"timestamp"`
	Source       string                 `json:"source"`
	Version      string                 `json:"version"`
	OwnerID      string                 `json:"owner_id"`
	SessionToken string                 `json:"session_token"`
	Data         interface{}            `json:"data"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

type SessionStartedData struct {
	Variant        models.SessionVariant `json:"variant"`
	Category       string                `json:"category"`
	Difficulty     models.Difficulty     `json:"difficulty"`
	TotalQuestions int                   `json:"total_questions"`
	TimeLimit      int                   `json:"time_limit"` // seconds
	StartedAt      time.Time             `json:"started_at"`
}

type AnswerSubmittedData struct {
	QuestionID    string  `json:"question_id"`
	Order         int     `json:"order"`
	Score         float64 `json:"score"`
	IsCorrect     *bool   `json:"is_correct,omitempty"`
	TimeTaken     int     `json:"time_taken"`
	AnsweredCount int     `json:"answered_count"`
	SessionScore  float64 `json:"session_score"`
	Fallback      bool    `json:"fallback,omitempty"`
}

type SessionCompletedData struct {
	Variant         models.SessionVariant   `json:"variant"`
	Status          models.SessionStatus    `json:"status"`
	Reason          models.CompletionReason `json:"reason"`
	Score           float64                 `json:"score"`
	AnsweredCount   int                     `json:"answered_count"`
	TotalQuestions  int                     `json:"total_questions"`
	DurationSeconds int                     `json:"duration_seconds"`
	Rating          models.Rating           `json:"rating,omitempty"`
}

// NewSessionEvent stamps a fresh envelope for data
func NewSessionEvent(eventType EventType, ownerID, token string, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		Source:       eventSource,
		Version:      eventVersion,
		OwnerID:      ownerID,
		SessionToken: token,
		Data:         data,
	}
}
