package services

import (
	"context"

	"github.com/focusflow/focusflow_api/model"
)

// UserStore is the user lookup the stats, session and course services need.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByUUID(ctx context.Context, userUUID string) (*model.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type SessionStore interface {
	StartSession(ctx context.Context, session *model.FocusSession) (*model.FocusSession, error)
	UpdateSession(ctx context.Context, session *model.FocusSession) error
	DeleteSession(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*model.FocusSession, error)
	GetActiveSession(ctx context.Context, userID string) (*model.FocusSession, error)
	GetUserSessions(ctx context.Context, userID string) ([]model.FocusSession, error)
	GetUserSessionsPage(ctx context.Context, userID string, offset, limit int) ([]model.FocusSession, int64, error)
	GetUserIDsWithSessions(ctx context.Context) ([]string, error)
	CountSessions(ctx context.Context) (total int64, completed int64, err error)
	GetAllActualTimes(ctx context.Context) ([]string, error)
}

type StatsStore interface {
	GetStats(ctx context.Context, userID string) (*model.Stats, error)
	UpsertStats(ctx context.Context, stats *model.Stats) error
	TableExists() bool
}
