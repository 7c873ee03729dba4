package models

import (
	"math"
	"time"
)

type SessionVariant string

const (
	VariantInterview SessionVariant = "interview"
	VariantTest      SessionVariant = "test"
)

func (v SessionVariant) IsValid() bool {
	return v == VariantInterview || v == VariantTest
}

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
	SessionTimeout    SessionStatus = "timeout"
)

// IsTerminal reports whether no further transition is allowed from this status.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionCompleted, SessionAbandoned, SessionTimeout:
		return true
	}
	return false
}

type CompletionReason string

const (
	ReasonCompleted CompletionReason = "completed"
	ReasonAbandoned CompletionReason = "abandoned"
	ReasonTimeout   CompletionReason = "timeout"
)

func (r CompletionReason) IsValid() bool {
	switch r {
	case ReasonCompleted, ReasonAbandoned, ReasonTimeout:
		return true
	}
	return false
}

// Status maps a completion reason to the terminal status it produces.
func (r CompletionReason) Status() SessionStatus {
	switch r {
	case ReasonAbandoned:
		return SessionAbandoned
	case ReasonTimeout:
		return SessionTimeout
	default:
		return SessionCompleted
	}
}

// AllowedFor reports whether the reason may close a session of the given variant.
func (r CompletionReason) AllowedFor(v SessionVariant) bool {
	if r == ReasonTimeout {
		return v == VariantTest
	}
	return r.IsValid()
}

// Session is one interview or practice test run.
type Session struct {
	ID             string           `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	OwnerID        string           `json:"owner_id" gorm:"size:255;not null;index:idx_session_owner" bson:"owner_id"`
	Token          string           `json:"token" gorm:"size:64;not null;uniqueIndex" bson:"token"`
	Variant        SessionVariant   `json:"variant" gorm:"size:16;not null;index:idx_session_owner" bson:"variant"`
	Category       string           `json:"category" gorm:"size:64;not null" bson:"category"`
	Difficulty     Difficulty       `json:"difficulty" gorm:"size:16;not null" bson:"difficulty"`
	Attempts       QuestionAttempts `json:"attempts" gorm:"serializer:json" bson:"attempts"`
	TotalQuestions int              `json:"total_questions" gorm:"not null" bson:"total_questions"`
	AnsweredCount  int              `json:"answered_count" gorm:"not null;default:0" bson:"answered_count"`
	Score          float64          `json:"score" gorm:"not null;default:0" bson:"score"`
	Status         SessionStatus    `json:"status" gorm:"size:16;not null;index" bson:"status"`
	TimeLimit      int              `json:"time_limit" gorm:"not null" bson:"time_limit"` // seconds
	Feedback       *FeedbackSummary `json:"feedback,omitempty" gorm:"serializer:json" bson:"feedback,omitempty"`
	StartedAt      time.Time        `json:"started_at" bson:"started_at"`
	ExpiresAt      time.Time        `json:"expires_at" gorm:"index" bson:"expires_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CompletedDay   string           `json:"-" gorm:"size:10;index" bson:"completed_day,omitempty"` // YYYY-MM-DD, UTC
	UpdatedAt      time.Time        `json:"updated_at" bson:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// AttemptIndex returns the position of the attempt for questionID, or -1.
func (s *Session) AttemptIndex(questionID string) int {
	for i := range s.Attempts {
		if s.Attempts[i].QuestionID == questionID {
			return i
		}
	}
	return -1
}

// NextUnanswered returns the first attempt in order that has no answer yet.
func (s *Session) NextUnanswered() *QuestionAttempt {
	for i := range s.Attempts {
		if !s.Attempts[i].Answered {
			return &s.Attempts[i]
		}
	}
	return nil
}

func (s *Session) FullyAnswered() bool {
	return s.AnsweredCount >= s.TotalQuestions
}

// CompletionRate is the answered share of the session in percent.
func (s *Session) CompletionRate() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return round2(float64(s.AnsweredCount) / float64(s.TotalQuestions) * 100)
}

// Summary builds the caller-facing digest of the session.
func (s *Session) Summary() *SessionSummary {
	return &SessionSummary{
		SessionID:         s.ID,
		Token:             s.Token,
		Variant:           s.Variant,
		Category:          s.Category,
		Difficulty:        s.Difficulty,
		Status:            s.Status,
		Score:             s.Score,
		TotalQuestions:    s.TotalQuestions,
		AnsweredQuestions: s.AnsweredCount,
		CompletionRate:    s.CompletionRate(),
		StartedAt:         s.StartedAt,
		CompletedAt:       s.CompletedAt,
	}
}

// QuestionAttempt is the per-question record embedded in a session. The
// question fields needed for aggregation are copied at session start so
// scoring a finished session never needs the question bank.
type QuestionAttempt struct {
	QuestionID    string         `json:"question_id" bson:"question_id"`
	Order         int            `json:"order" bson:"order"`
	Kind          QuestionKind   `json:"kind" bson:"kind"`
	Difficulty    Difficulty     `json:"difficulty" bson:"difficulty"`
	Points        int            `json:"points" bson:"points"`
	TimeAllocated int            `json:"time_allocated" bson:"time_allocated"`
	TimeTaken     int            `json:"time_taken" bson:"time_taken"`
	Answer        string         `json:"answer,omitempty" bson:"answer,omitempty"`
	Answered      bool           `json:"answered" bson:"answered"`
	Score         float64        `json:"score" bson:"score"`
	PointsEarned  int            `json:"points_earned" bson:"points_earned"`
	IsCorrect     *bool          `json:"is_correct,omitempty" bson:"is_correct,omitempty"`
	Confidence    int            `json:"confidence" bson:"confidence"`
	KeywordScore  float64        `json:"keyword_score" bson:"keyword_score"`
	Feedback      AnswerFeedback `json:"feedback" bson:"feedback"`
	Fallback      bool           `json:"fallback,omitempty" bson:"fallback,omitempty"`
	AnsweredAt    *time.Time     `json:"answered_at,omitempty" bson:"answered_at,omitempty"`
}

type QuestionAttempts []QuestionAttempt

// NormalizedScore puts closed-form and free-text attempts on the same 0-100 scale.
func (a *QuestionAttempt) NormalizedScore() float64 {
	if a.Kind.IsClosedForm() {
		if a.IsCorrect != nil && *a.IsCorrect {
			return 100
		}
		return 0
	}
	return a.Score
}

// PassingFreeTextScore is the free-text score at which a test attempt counts as correct.
const PassingFreeTextScore = 60

// Correct reports whether the attempt counts towards a test's correct total.
func (a *QuestionAttempt) Correct() bool {
	if !a.Answered {
		return false
	}
	if a.Kind.IsClosedForm() {
		return a.IsCorrect != nil && *a.IsCorrect
	}
	return a.Score >= PassingFreeTextScore
}

// AnswerFeedback is returned to the caller after every answer submission.
type AnswerFeedback struct {
	Score          float64  `json:"score" bson:"score"`
	Strengths      []string `json:"strengths" bson:"strengths"`
	Improvements   []string `json:"improvements" bson:"improvements"`
	Suggestions    []string `json:"suggestions" bson:"suggestions"`
	KeywordMatches int      `json:"keyword_matches" bson:"keyword_matches"`
	KeywordMissed  []string `json:"keyword_missed" bson:"keyword_missed"`
}

// AggregateScore derives the session score from its attempts. Interviews use
// the mean normalized score of answered attempts, tests the share of correct
// answers over every question.
func AggregateScore(variant SessionVariant, attempts []QuestionAttempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	if variant == VariantTest {
		correct := 0
		for i := range attempts {
			if attempts[i].Correct() {
				correct++
			}
		}
		return round2(float64(correct) / float64(len(attempts)) * 100)
	}

	var sum float64
	answered := 0
	for i := range attempts {
		if !attempts[i].Answered {
			continue
		}
		sum += attempts[i].NormalizedScore()
		answered++
	}
	if answered == 0 {
		return 0
	}
	return round2(sum / float64(answered))
}

// CountAnswered returns how many attempts carry an answer.
func CountAnswered(attempts []QuestionAttempt) int {
	n := 0
	for i := range attempts {
		if attempts[i].Answered {
			n++
		}
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
