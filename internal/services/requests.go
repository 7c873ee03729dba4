package services

import (
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
)

// ===== SESSION REQUESTS =====

type StartSessionRequest struct {
	Variant       models.SessionVariant `json:"variant" validate:"required,session_variant"`
	Category      string                `json:"category" validate:"required,max=64"`
	Difficulty    models.Difficulty     `json:"difficulty" validate:"required,difficulty"`
	QuestionCount int                   `json:"question_count" validate:"required,min=1,max=50"`
	TimeLimit     *int                  `json:"time_limit,omitempty" validate:"omitempty,min=60,max=28800"` // seconds
}

type SubmitAnswerRequest struct {
	QuestionID string             `json:"question_id" validate:"required,max=64"`
	Answer     models.AnswerValue `json:"answer" validate:"max=20000"`
	TimeTaken  int                `json:"time_taken" validate:"min=0,max=86400"` // seconds
}

type CompleteSessionRequest struct {
	Reason models.CompletionReason `json:"reason" validate:"required,completion_reason"`
}

type ListSessionsRequest struct {
	Variant *models.SessionVariant `form:"variant" json:"variant,omitempty" validate:"omitempty,session_variant"`
	Status  *models.SessionStatus  `form:"status" json:"status,omitempty"`
	Limit   int                    `form:"limit" json:"limit" validate:"min=0,max=100"`
	Offset  int                    `form:"offset" json:"offset" validate:"min=0"`
}

func (r *ListSessionsRequest) Filters() repositories.SessionFilters {
	return repositories.SessionFilters{
		Variant: r.Variant,
		Status:  r.Status,
		Limit:   repositories.NormalizeLimit(r.Limit),
		Offset:  r.Offset,
	}
}

// ===== SESSION RESPONSES =====

type StartSessionResponse struct {
	Token         string                     `json:"token"`
	Session       *models.SessionSummary     `json:"session"`
	FirstQuestion *models.QuestionPublicView `json:"first_question"`
	TimeLimit     int                        `json:"time_limit"`
	ExpiresAt     time.Time                  `json:"expires_at"`
}

type SubmitAnswerResponse struct {
	QuestionID    string                     `json:"question_id"`
	Score         float64                    `json:"score"`
	PointsEarned  int                        `json:"points_earned"`
	IsCorrect     *bool                      `json:"is_correct,omitempty"`
	Feedback      models.AnswerFeedback      `json:"feedback"`
	NextQuestion  *models.QuestionPublicView `json:"next_question"`
	FullyAnswered bool                       `json:"fully_answered"`
	Session       *models.SessionSummary     `json:"session"`
}

type CompleteSessionResponse struct {
	Session  *models.SessionSummary  `json:"session"`
	Feedback *models.FeedbackSummary `json:"feedback,omitempty"`
}

type SessionDetailResponse struct {
	Session         *models.SessionSummary     `json:"session"`
	CurrentQuestion *models.QuestionPublicView `json:"current_question,omitempty"`
	Attempts        []models.QuestionAttempt   `json:"attempts"`
	Feedback        *models.FeedbackSummary    `json:"feedback,omitempty"`
	TimeLimit       int                        `json:"time_limit"`
	ExpiresAt       time.Time                  `json:"expires_at"`
}

type SessionListResponse struct {
	Sessions []*models.SessionSummary `json:"sessions"`
	Total    int64                    `json:"total"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

// ===== QUESTION BANK =====

type CreateQuestionRequest struct {
	Prompt           string              `json:"prompt" validate:"required,max=4000"`
	Kind             models.QuestionKind `json:"kind" validate:"required,question_kind"`
	Category         string              `json:"category" validate:"required,max=64"`
	Difficulty       models.Difficulty   `json:"difficulty" validate:"required,difficulty"`
	Options          []string            `json:"options,omitempty" validate:"omitempty,max=10,dive,required,max=500"`
	CorrectAnswer    *models.AnswerValue `json:"correct_answer,omitempty"`
	ExpectedKeywords []string            `json:"expected_keywords,omitempty" validate:"omitempty,max=50,dive,required,max=100"`
	TimeAllocated    int                 `json:"time_allocated" validate:"required"`
	Points           int                 `json:"points" validate:"required"`
	Explanation      *string             `json:"explanation,omitempty" validate:"omitempty,max=4000"`
}

type ListQuestionsRequest struct {
	Category   string               `form:"category" json:"category,omitempty" validate:"max=64"`
	Difficulty *models.Difficulty   `form:"difficulty" json:"difficulty,omitempty" validate:"omitempty,difficulty"`
	Kind       *models.QuestionKind `form:"kind" json:"kind,omitempty" validate:"omitempty,question_kind"`
	Limit      int                  `form:"limit" json:"limit" validate:"min=0,max=100"`
	Offset     int                  `form:"offset" json:"offset" validate:"min=0"`
}

type QuestionListResponse struct {
	Questions []*models.Question `json:"questions"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}
