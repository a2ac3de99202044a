package handlers

import (
	"context"
	"mime/multipart"

	"github.com/focusflow/focusflow_api/dto"
)

type StatsServiceInterface interface {
	GetStats(ctx context.Context, userID string) (*dto.StatsSnapshot, error)
	GetStatsByUUID(ctx context.Context, userUUID string) (*dto.StatsSnapshot, error)
	GetTotalActualTime(ctx context.Context, userID string) (*dto.ActualTimeResponse, error)
	GetTotalActualTimeByUUID(ctx context.Context, userUUID string) (*dto.ActualTimeResponse, error)
	GetPublicAggregate(ctx context.Context) (*dto.PublicStatsResponse, error)
	Health(ctx context.Context) *dto.StatsHealthResponse
}

type SessionServiceInterface interface {
	StartSession(ctx context.Context, userID string, req dto.StartSessionRequest) (*dto.FocusSessionResponse, error)
	CompleteSession(ctx context.Context, userID, sessionID string, req dto.CompleteSessionRequest) (*dto.FocusSessionResponse, error)
	GetActiveSession(ctx context.Context, userID string) (*dto.FocusSessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.FocusSessionResponse, error)
	ListSessions(ctx context.Context, userID string, page, limit int) (*dto.SessionListResponse, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
}

type UserServiceInterface interface {
	GetUserByID(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type CourseServiceInterface interface {
	GetDashboardCourses(ctx context.Context, userUUID string) (*dto.CourseListResponse, error)
	GetCoursesByUUID(ctx context.Context, userUUID string) (*dto.CourseListResponse, error)
	GetCourseDetail(ctx context.Context, courseID string) (*dto.UpstreamCourse, error)
	CreateCourse(ctx context.Context, ownerUUID string, req dto.CreateCourseRequest, image *multipart.FileHeader) (*dto.CreateCourseResponse, error)
	CreateModule(ctx context.Context, req dto.CreateModuleRequest) error
	UpdateSettings(ctx context.Context, req dto.CourseSettingsRequest) error
}
