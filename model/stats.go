package model

import "time"

// Stats is the per-user rollup refreshed from focus_sessions.
type Stats struct {
	UserID            string     `json:"user_id" gorm:"primaryKey"`
	TotalSessions     int        `json:"total_sessions" gorm:"not null;default:0"`
	CompletedSessions int        `json:"completed_sessions" gorm:"not null;default:0"`
	TotalStudyTime    string     `json:"total_study_time" gorm:"not null;default:'00:00:00';size:16"`
	AverageEfficiency float64    `json:"average_efficiency" gorm:"not null;default:0"`
	CurrentStreak     int        `json:"current_streak" gorm:"not null;default:0"`
	LongestStreak     int        `json:"longest_streak" gorm:"not null;default:0"`
	LastSessionDate   *time.Time `json:"last_session_date"`
	CreatedAt         time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"not null"`
}

func (Stats) TableName() string {
	return "stats"
}
