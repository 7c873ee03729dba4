package models

import "time"

// UserStats holds the running interview statistics of one user.
type UserStats struct {
	OwnerID             string    `json:"owner_id" gorm:"primaryKey;size:255" bson:"_id"`
	CompletedInterviews int       `json:"completed_interviews" gorm:"not null;default:0" bson:"completed_interviews"`
	TotalScore          float64   `json:"total_score" gorm:"not null;default:0" bson:"total_score"`
	AverageScore        float64   `json:"average_score" gorm:"not null;default:0" bson:"average_score"`
	StudyStreak         int       `json:"study_streak" gorm:"not null;default:0" bson:"study_streak"`
	LastActiveDay       string    `json:"last_active_day" gorm:"size:10" bson:"last_active_day"` // YYYY-MM-DD, UTC
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

// RecordCompletion folds one completed interview into the stats. The streak
// grows when the previous active day was yesterday, stays when it is today
// and restarts otherwise.
func (u *UserStats) RecordCompletion(score float64, at time.Time) {
	day := at.UTC().Format(DayLayout)
	yesterday := at.UTC().AddDate(0, 0, -1).Format(DayLayout)

	u.CompletedInterviews++
	u.TotalScore = round2(u.TotalScore + score)
	u.AverageScore = round2(u.TotalScore / float64(u.CompletedInterviews))

	switch u.LastActiveDay {
	case day:
		if u.StudyStreak == 0 {
			u.StudyStreak = 1
		}
	case yesterday:
		u.StudyStreak++
	default:
		u.StudyStreak = 1
	}
	u.LastActiveDay = day
	u.UpdatedAt = at
}

// DayLayout is the format of day buckets stored on sessions and stats.
const DayLayout = "2006-01-02"
