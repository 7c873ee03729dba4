package models

type Rating string

const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingAverage          Rating = "average"
	RatingNeedsImprovement Rating = "needs_improvement"
)

// RatingFor buckets a 0-100 total score.
func RatingFor(total float64) Rating {
	switch {
	case total >= 90:
		return RatingExcellent
	case total >= 75:
		return RatingGood
	case total >= 60:
		return RatingAverage
	default:
		return RatingNeedsImprovement
	}
}

type CategoryScores struct {
	Communication      float64 `json:"communication" bson:"communication"`
	TechnicalKnowledge float64 `json:"technical_knowledge" bson:"technical_knowledge"`
	Confidence         float64 `json:"confidence" bson:"confidence"`
	Clarity            float64 `json:"clarity" bson:"clarity"`
	ProblemSolving     float64 `json:"problem_solving" bson:"problem_solving"`
	TimeManagement     float64 `json:"time_management" bson:"time_management"`
}

// FeedbackSummary is derived from the attempts of a completed session.
type FeedbackSummary struct {
	TotalScore      float64        `json:"total_score" bson:"total_score"`
	Categories      CategoryScores `json:"categories" bson:"categories"`
	Strengths       []string       `json:"strengths" bson:"strengths"`
	Improvements    []string       `json:"improvements" bson:"improvements"`
	Recommendations []string       `json:"recommendations" bson:"recommendations"`
	Rating          Rating         `json:"overall_rating" bson:"overall_rating"`
}
