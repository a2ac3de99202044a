package dto

import "time"

// WeeklyInsight is focus time per weekday in HH:MM:SS, Monday first.
type WeeklyInsight struct {
	Monday    string `json:"monday" example:"01:30:00"`
	Tuesday   string `json:"tuesday" example:"00:00:00"`
	Wednesday string `json:"wednesday" example:"00:00:00"`
	Thursday  string `json:"thursday" example:"00:00:00"`
	Friday    string `json:"friday" example:"00:00:00"`
	Saturday  string `json:"saturday" example:"00:00:00"`
	Sunday    string `json:"sunday" example:"00:00:00"`
}

type Achievement struct {
	ID          int    `json:"id" example:"1"`
	Name        string `json:"name" example:"Focus Master"`
	Description string `json:"description" example:"Complete 10 focus sessions"`
	Icon        string `json:"icon" example:"Award"`
	Target      int    `json:"target" example:"10"`
	Current     int    `json:"current" example:"12"`
	Achieved    bool   `json:"achieved" example:"true"`
	Progress    int    `json:"progress" example:"100"`
	Level       int    `json:"level" example:"1"`
}

type StatsSnapshot struct {
	TotalTime         string        `json:"total_time" example:"02:15:00"`
	BestFocusTime     string        `json:"best_focus_time" example:"2:00pm"`
	MostProductiveDay string        `json:"most_productive_day" example:"Tuesday"`
	AverageEfficiency float64       `json:"average_efficiency" example:"87.5"`
	WeeklyInsight     WeeklyInsight `json:"weekly_insight"`
	Achievements      []Achievement `json:"achievements"`
	CurrentStreak     int           `json:"current_streak" example:"3"`
	LongestStreak     int           `json:"longest_streak" example:"7"`
	TotalSessions     int           `json:"total_sessions" example:"14"`
	CompletedSessions int           `json:"completed_sessions" example:"12"`
	LastSessionDate   *time.Time    `json:"last_session_date"`
}

type ActualTimeResponse struct {
	TotalTime    string `json:"total_time" example:"02:45:30"`
	SessionCount int    `json:"session_count" example:"4"`
}

type PublicStatsResponse struct {
	TotalUsers         int64   `json:"total_users" example:"120"`
	TotalSessions      int64   `json:"total_sessions" example:"3400"`
	CompletedSessions  int64   `json:"completed_sessions" example:"2900"`
	TotalStudyTime     string  `json:"total_study_time" example:"1520:10:05"`
	AverageSessionTime string  `json:"average_session_time" example:"00:26:49"`
	CompletionRate     float64 `json:"completion_rate" example:"85.3"`
}

type StatsHealthResponse struct {
	Status             string    `json:"status" example:"healthy"`
	Timestamp          time.Time `json:"timestamp"`
	TotalUsers         int64     `json:"total_users"`
	TotalSessions      int64     `json:"total_sessions"`
	DatabaseConnection string    `json:"database_connection" example:"ok"`
	StatsTableExists   bool      `json:"stats_table_exists"`
	Version            string    `json:"version" example:"1.0.0"`
}
