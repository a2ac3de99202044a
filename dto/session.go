package dto

import "time"

type StartSessionRequest struct {
	Duration int `json:"duration" validate:"required,min=60,max=86400"`
}

type CompleteSessionRequest struct {
	ActualTime string `json:"actual_time" validate:"omitempty,hhmmss"`
}

type FocusSessionResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ActualTime  *string    `json:"actual_time"`
	Duration    int        `json:"duration"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SessionListResponse struct {
	Sessions []FocusSessionResponse `json:"sessions"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	Limit    int                    `json:"limit"`
}

func (r StartSessionRequest) Validate() error {
	return GetValidator().Struct(r)
}

func (r CompleteSessionRequest) Validate() error {
	return GetValidator().Struct(r)
}
