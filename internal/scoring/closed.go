package scoring

import (
	"strings"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

// Normalize trims surrounding whitespace and folds case.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ExactMatchScorer awards the full point weight when the normalized answer
// equals the normalized correct answer. Used for multiple-choice, true/false
// and fill-in-the-blank.
type ExactMatchScorer struct{}

func (ExactMatchScorer) Score(q *models.Question, answer string) (Result, error) {
	if q.CorrectAnswer == nil {
		return Result{}, ErrMissingAnswer
	}
	return binaryResult(q, Normalize(answer) == Normalize(*q.CorrectAnswer)), nil
}

// ContainsScorer awards the full point weight when the trimmed answer
// contains the trimmed correct answer. Matching is case-sensitive.
type ContainsScorer struct{}

func (ContainsScorer) Score(q *models.Question, answer string) (Result, error) {
	if q.CorrectAnswer == nil || strings.TrimSpace(*q.CorrectAnswer) == "" {
		return Result{}, ErrMissingAnswer
	}
	answer = strings.TrimSpace(answer)
	correct := answer != "" && strings.Contains(answer, strings.TrimSpace(*q.CorrectAnswer))
	return binaryResult(q, correct), nil
}

func binaryResult(q *models.Question, correct bool) Result {
	res := Result{IsCorrect: &correct}
	if correct {
		res.PointsEarned = q.Points
		res.Score = float64(q.Points)
		res.Confidence = 100
		res.Feedback = models.AnswerFeedback{
			Score:         res.Score,
			Strengths:     []string{"Correct answer"},
			Improvements:  []string{},
			Suggestions:   []string{},
			KeywordMissed: []string{},
		}
		return res
	}

	suggestions := []string{"Review the underlying concept before your next attempt"}
	if q.Explanation != nil && *q.Explanation != "" {
		suggestions = append(suggestions, *q.Explanation)
	}
	res.Feedback = models.AnswerFeedback{
		Score:         0,
		Strengths:     []string{},
		Improvements:  []string{"The submitted answer is not correct"},
		Suggestions:   suggestions,
		KeywordMissed: []string{},
	}
	return res
}
