package models

import "time"

// QuestionPublicView never carries the correct answer or expected keywords.
type QuestionPublicView struct {
	ID            string       `json:"id"`
	Prompt        string       `json:"prompt"`
	Kind          QuestionKind `json:"kind"`
	Options       []string     `json:"options,omitempty"`
	TimeAllocated int          `json:"time_allocated"`
	Order         int          `json:"order"`
}

type SessionSummary struct {
	SessionID         string         `json:"session_id"`
	Token             string         `json:"token"`
	Variant           SessionVariant `json:"variant"`
	Category          string         `json:"category"`
	Difficulty        Difficulty     `json:"difficulty"`
	Status            SessionStatus  `json:"status"`
	Score             float64        `json:"score"`
	TotalQuestions    int            `json:"total_questions"`
	AnsweredQuestions int            `json:"answered_questions"`
	CompletionRate    float64        `json:"completion_rate"`
	StartedAt         time.Time      `json:"started_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
}
