package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionKind string

const (
	KindBehavioral     QuestionKind = "behavioral"
	KindTechnical      QuestionKind = "technical"
	KindSituational    QuestionKind = "situational"
	KindSystemDesign   QuestionKind = "system-design"
	KindEssay          QuestionKind = "essay"
	KindMultipleChoice QuestionKind = "multiple-choice"
	KindTrueFalse      QuestionKind = "true-false"
	KindFillBlank      QuestionKind = "fill-blank"
	KindCoding         QuestionKind = "coding"
)

var questionKinds = []QuestionKind{
	KindBehavioral,
	KindTechnical,
	KindSituational,
	KindSystemDesign,
	KindEssay,
	KindMultipleChoice,
	KindTrueFalse,
	KindFillBlank,
	KindCoding,
}

// QuestionKinds returns every supported kind in declaration order.
func QuestionKinds() []QuestionKind {
	out := make([]QuestionKind, len(questionKinds))
	copy(out, questionKinds)
	return out
}

func (k QuestionKind) IsValid() bool {
	for _, kind := range questionKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// IsClosedForm reports whether answers of this kind are judged right or wrong
// against a stored correct answer.
func (k QuestionKind) IsClosedForm() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindFillBlank, KindCoding:
		return true
	}
	return false
}

// IsFreeText reports whether answers of this kind get a heuristic 0-100 score.
func (k QuestionKind) IsFreeText() bool {
	switch k {
	case KindBehavioral, KindTechnical, KindSituational, KindSystemDesign, KindEssay:
		return true
	}
	return false
}

// HasOptions reports whether the public view of the question lists choices.
func (k QuestionKind) HasOptions() bool {
	return k == KindMultipleChoice || k == KindTrueFalse
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Weight is the multiplier applied to a question score when a session total is computed.
func (d Difficulty) Weight() float64 {
	switch d {
	case DifficultyIntermediate:
		return 1.2
	case DifficultyAdvanced:
		return 1.5
	default:
		return 1.0
	}
}

// Question is an immutable entry of the question bank.
type Question struct {
	ID               string                      `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Prompt           string                      `json:"prompt" gorm:"type:text;not null" bson:"prompt"`
	Kind             QuestionKind                `json:"kind" gorm:"size:32;not null;index" bson:"kind"`
	Category         string                      `json:"category" gorm:"size:64;not null;index:idx_question_pool" bson:"category"`
	Difficulty       Difficulty                  `json:"difficulty" gorm:"size:16;not null;index:idx_question_pool" bson:"difficulty"`
	Options          datatypes.JSONSlice[string] `json:"options,omitempty" bson:"options,omitempty"`
	CorrectAnswer    *string                     `json:"correct_answer,omitempty" gorm:"type:text" bson:"correct_answer,omitempty"`
	ExpectedKeywords datatypes.JSONSlice[string] `json:"expected_keywords,omitempty" bson:"expected_keywords,omitempty"`
	TimeAllocated    int                         `json:"time_allocated" gorm:"not null;default:120" bson:"time_allocated"` // seconds
	Points           int                         `json:"points" gorm:"not null;default:1" bson:"points"`
	Explanation      *string                     `json:"explanation,omitempty" gorm:"type:text" bson:"explanation,omitempty"`
	CreatedBy        string                      `json:"created_by,omitempty" gorm:"size:255" bson:"created_by,omitempty"`
	CreatedAt        time.Time                   `json:"created_at" bson:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// PublicView strips the answer key so the question can be shown to a candidate.
func (q *Question) PublicView(order int) *QuestionPublicView {
	view := &QuestionPublicView{
		ID:            q.ID,
		Prompt:        q.Prompt,
		Kind:          q.Kind,
		TimeAllocated: q.TimeAllocated,
		Order:         order,
	}
	if q.Kind.HasOptions() {
		view.Options = append([]string(nil), q.Options...)
		if q.Kind == KindTrueFalse && len(view.Options) == 0 {
			view.Options = []string{"true", "false"}
		}
	}
	return view
}
