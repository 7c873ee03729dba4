// Package feedback derives the summary attached to a completed session.
package feedback

import (
	"errors"
	"math"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

const (
	strengthThreshold    = 80
	improvementThreshold = 70
	neutralScore         = 70
)

var ErrSessionNotTerminal = errors.New("feedback requires a terminal session")

// Summarize builds the feedback of a terminal session. It refuses to run on a
// session that is still in progress.
func Summarize(s *models.Session) (*models.FeedbackSummary, error) {
	if !s.Status.IsTerminal() {
		return nil, ErrSessionNotTerminal
	}
	return FromAttempts(s.Attempts), nil
}

// FromAttempts is the pure derivation behind Summarize.
func FromAttempts(attempts []models.QuestionAttempt) *models.FeedbackSummary {
	total := totalScore(attempts)
	scores := models.CategoryScores{
		Communication:      kindAverage(attempts, models.KindBehavioral, models.KindSituational),
		TechnicalKnowledge: kindAverage(attempts, models.KindTechnical, models.KindSystemDesign),
		Confidence:         confidenceScore(attempts),
		Clarity:            clarityScore(attempts),
		ProblemSolving:     kindAverage(attempts, models.KindTechnical, models.KindSystemDesign, models.KindCoding),
		TimeManagement:     timeManagementScore(attempts),
	}

	summary := &models.FeedbackSummary{
		TotalScore:      total,
		Categories:      scores,
		Strengths:       []string{},
		Improvements:    []string{},
		Recommendations: []string{},
		Rating:          models.RatingFor(total),
	}

	values := map[category]float64{
		categoryCommunication:      scores.Communication,
		categoryTechnicalKnowledge: scores.TechnicalKnowledge,
		categoryConfidence:         scores.Confidence,
		categoryClarity:            scores.Clarity,
		categoryProblemSolving:     scores.ProblemSolving,
		categoryTimeManagement:     scores.TimeManagement,
	}
	for _, c := range categoryOrder {
		p := phrases[c]
		switch v := values[c]; {
		case v >= strengthThreshold:
			summary.Strengths = append(summary.Strengths, p.strength)
		case v < improvementThreshold:
			summary.Improvements = append(summary.Improvements, p.improvement)
			summary.Recommendations = append(summary.Recommendations, p.recommendation)
		}
	}

	if len(summary.Strengths) == 0 {
		summary.Strengths = append(summary.Strengths, genericStrength)
	}
	if len(summary.Improvements) == 0 {
		summary.Improvements = append(summary.Improvements, genericImprovement)
	}
	if len(summary.Recommendations) == 0 {
		summary.Recommendations = append(summary.Recommendations, genericRecommendation)
	}
	return summary
}

// totalScore is the difficulty-weighted mean of answered attempts scaled by
// the answered share of the session.
func totalScore(attempts []models.QuestionAttempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	var weighted, weights float64
	answered := 0
	for i := range attempts {
		a := &attempts[i]
		if !a.Answered {
			continue
		}
		w := a.Difficulty.Weight()
		weighted += a.NormalizedScore() * w
		weights += w
		answered++
	}
	if answered == 0 || weights == 0 {
		return 0
	}
	completion := float64(answered) / float64(len(attempts))
	return bound(math.Round(weighted / weights * completion))
}

func kindAverage(attempts []models.QuestionAttempt, kinds ...models.QuestionKind) float64 {
	var sum float64
	n := 0
	for i := range attempts {
		a := &attempts[i]
		if !a.Answered || !kindIn(a.Kind, kinds) {
			continue
		}
		sum += a.NormalizedScore()
		n++
	}
	return averageOrNeutral(sum, n)
}

// confidenceScore uses the scorer confidence for free-text answers and the
// share of allocated time used for closed-form answers.
func confidenceScore(attempts []models.QuestionAttempt) float64 {
	var sum float64
	n := 0
	for i := range attempts {
		a := &attempts[i]
		if !a.Answered {
			continue
		}
		if a.Kind.IsClosedForm() {
			sum += pacingConfidence(a.TimeTaken, a.TimeAllocated)
		} else {
			sum += float64(a.Confidence)
		}
		n++
	}
	return averageOrNeutral(sum, n)
}

func pacingConfidence(taken, allocated int) float64 {
	if allocated <= 0 {
		return 75
	}
	ratio := float64(taken) / float64(allocated)
	switch {
	case ratio <= 0.5:
		return 90
	case ratio <= 1:
		return 75
	default:
		return 55
	}
}

func clarityScore(attempts []models.QuestionAttempt) float64 {
	var sum float64
	n := 0
	for i := range attempts {
		a := &attempts[i]
		if !a.Answered || !a.Kind.IsFreeText() {
			continue
		}
		sum += a.KeywordScore
		n++
	}
	return averageOrNeutral(sum, n)
}

func timeManagementScore(attempts []models.QuestionAttempt) float64 {
	var sum float64
	n := 0
	for i := range attempts {
		a := &attempts[i]
		if !a.Answered {
			continue
		}
		efficiency := 1.0
		if a.TimeTaken > 0 && a.TimeAllocated > 0 {
			efficiency = math.Min(1, float64(a.TimeAllocated)/float64(a.TimeTaken))
		}
		sum += efficiency * 100
		n++
	}
	return averageOrNeutral(sum, n)
}

func averageOrNeutral(sum float64, n int) float64 {
	if n == 0 {
		return neutralScore
	}
	return bound(math.Round(sum / float64(n)))
}

func kindIn(k models.QuestionKind, kinds []models.QuestionKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func bound(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
