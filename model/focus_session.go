package model

import "time"

// FocusSession is a timed focus run. ActualTime is HH:MM:SS elapsed focus
// time capped by Duration, which is the planned length in seconds.
type FocusSession struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;index"`
	Status      string     `json:"status" gorm:"not null;size:20;index"`
	StartedAt   *time.Time `json:"started_at" gorm:"index"`
	CompletedAt *time.Time `json:"completed_at"`
	ActualTime  *string    `json:"actual_time" gorm:"size:16"`
	Duration    int        `json:"duration" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null"`
}
