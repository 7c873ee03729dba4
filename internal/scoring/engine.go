// Package scoring judges a single answer against its question. Every scorer
// is a pure function of its inputs.
package scoring

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

var (
	ErrUnsupportedKind = errors.New("no scorer registered for question kind")
	ErrMissingAnswer   = errors.New("question has no correct answer")
	ErrMissingKeywords = errors.New("question has no expected keywords")
)

// Breakdown holds the free-text sub-scores.
type Breakdown struct {
	Keyword      float64 `json:"keyword"`
	Clarity      float64 `json:"clarity"`
	Completeness float64 `json:"completeness"`
	Relevance    float64 `json:"relevance"`
}

// Result is what a scorer produces for one answer. For closed-form kinds
// Score equals PointsEarned; for free-text kinds it is the 0-100 overall.
type Result struct {
	Score        float64
	PointsEarned int
	IsCorrect    *bool
	Confidence   int
	KeywordScore float64
	Breakdown    *Breakdown
	Feedback     models.AnswerFeedback
	Fallback     bool
}

// Scorer scores answers of one question kind.
type Scorer interface {
	Score(q *models.Question, answer string) (Result, error)
}

type ScorerFunc func(q *models.Question, answer string) (Result, error)

func (f ScorerFunc) Score(q *models.Question, answer string) (Result, error) {
	return f(q, answer)
}

// Engine dispatches to the scorer registered for the question kind and
// replaces any failure with a fixed fallback result.
type Engine struct {
	scorers map[models.QuestionKind]Scorer
	logger  *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		scorers: make(map[models.QuestionKind]Scorer),
		logger:  logger,
	}

	exact := ExactMatchScorer{}
	e.Register(models.KindMultipleChoice, exact)
	e.Register(models.KindTrueFalse, exact)
	e.Register(models.KindFillBlank, exact)
	e.Register(models.KindCoding, ContainsScorer{})

	text := NewFreeTextScorer(DefaultVocabulary)
	for _, kind := range []models.QuestionKind{
		models.KindBehavioral,
		models.KindTechnical,
		models.KindSituational,
		models.KindSystemDesign,
		models.KindEssay,
	} {
		e.Register(kind, text)
	}
	return e
}

// Register installs or replaces the scorer for kind.
func (e *Engine) Register(kind models.QuestionKind, scorer Scorer) {
	e.scorers[kind] = scorer
}

// Score never fails. Errors and panics raised by a scorer are logged and the
// fallback result for the kind is returned instead.
func (e *Engine) Score(q *models.Question, answer string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Scorer panicked, using fallback result",
				"question_id", questionID(q),
				"panic", fmt.Sprint(r))
			res = Fallback(q)
		}
	}()

	if q == nil {
		e.logger.Error("Scoring requested without a question")
		return Fallback(nil)
	}

	scorer, ok := e.scorers[q.Kind]
	if !ok {
		e.logger.Warn("Scoring fallback",
			"question_id", q.ID,
			"kind", q.Kind,
			"error", ErrUnsupportedKind)
		return Fallback(q)
	}

	result, err := scorer.Score(q, answer)
	if err != nil {
		e.logger.Warn("Scoring fallback",
			"question_id", q.ID,
			"kind", q.Kind,
			"error", err)
		return Fallback(q)
	}
	return result
}

// Fallback is the fixed result used when scoring fails: 50 for free text,
// zero for closed-form kinds, generic feedback and no keyword matches.
func Fallback(q *models.Question) Result {
	res := Result{
		Fallback: true,
		Feedback: models.AnswerFeedback{
			Strengths:     []string{"Thank you for your response"},
			Improvements:  []string{"Unable to fully evaluate this answer"},
			Suggestions:   []string{"Try rephrasing your answer with more specific details"},
			KeywordMissed: []string{},
		},
	}
	if q != nil && q.Kind.IsClosedForm() {
		incorrect := false
		res.IsCorrect = &incorrect
		return res
	}
	res.Score = 50
	res.Confidence = 50
	res.Feedback.Score = 50
	return res
}

func questionID(q *models.Question) string {
	if q == nil {
		return ""
	}
	return q.ID
}
