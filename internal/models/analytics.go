package models

// RollupRow is one aggregation bucket of completed sessions.
type RollupRow struct {
	Variant    SessionVariant `json:"variant" bson:"variant"`
	Category   string         `json:"category" bson:"category"`
	Day        string         `json:"day" bson:"day"`
	Sessions   int            `json:"sessions" bson:"sessions"`
	TotalScore float64        `json:"total_score" bson:"total_score"`
}

type CategoryBreakdown struct {
	Category     string  `json:"category"`
	Sessions     int     `json:"sessions"`
	AverageScore float64 `json:"average_score"`
}

type TrendPoint struct {
	Day          string  `json:"day"`
	Sessions     int     `json:"sessions"`
	AverageScore float64 `json:"average_score"`
}

type VariantTotals struct {
	Completed    int     `json:"completed"`
	AverageScore float64 `json:"average_score"`
}

type AnalyticsReport struct {
	OwnerID     string              `json:"owner_id"`
	WindowDays  int                 `json:"window_days"`
	Interviews  VariantTotals       `json:"interviews"`
	Tests       VariantTotals       `json:"tests"`
	Categories  []CategoryBreakdown `json:"categories"`
	Trend       []TrendPoint        `json:"trend"`
	Consistency float64             `json:"study_consistency"`
	Progression float64             `json:"progression"`
	StudyStreak int                 `json:"study_streak"`
}
