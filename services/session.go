package services

import (
	"context"
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/services/repositories"
	"github.com/focusflow/focusflow_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	SESSION_SVC = "session_svc"

	defaultSessionPageSize = 20
	maxSessionPageSize     = 100
)

// RollupRefresher rebuilds the stored stats of one user.
type RollupRefresher interface {
	RefreshRollup(ctx context.Context, userID string) (*model.Stats, error)
}

type FocusSessionService struct {
	appContext.DefaultService

	sessions SessionStore
	rollups  RollupRefresher

	now func() time.Time
}

func (svc FocusSessionService) Id() string {
	return SESSION_SVC
}

func (svc *FocusSessionService) Configure(ctx *appContext.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *FocusSessionService) Start() error {
	svc.sessions = svc.Service(DATABASE_SVC).(*DatabaseService).Sessions()
	svc.rollups = svc.Service(STATS_SVC).(*StatsService)
	return nil
}

func (svc *FocusSessionService) StartSession(ctx context.Context, userID string, req dto.StartSessionRequest) (*dto.FocusSessionResponse, error) {
	now := svc.now().UTC()
	session, err := svc.sessions.StartSession(ctx, &model.FocusSession{
		UserID:    userID,
		Status:    shared.SessionStatusActive,
		StartedAt: &now,
		Duration:  req.Duration,
	})
	if errors.Is(err, repositories.ErrActiveSessionExists) {
		return nil, shared.NewConflictError(err, "A focus session is already running")
	}
	if err != nil {
		return nil, shared.NewInternalError(handleDBError(err), "Failed to start focus session. Please try again later.")
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"session_id": session.ID,
		"duration":   session.Duration,
	}).Info("Focus session started")

	svc.refreshRollup(ctx, userID)
	return toSessionResponse(session), nil
}

// CompleteSession closes an active session. A missing actual_time defaults to
// the elapsed time; either way it never exceeds the planned duration.
func (svc *FocusSessionService) CompleteSession(ctx context.Context, userID, sessionID string, req dto.CompleteSessionRequest) (*dto.FocusSessionResponse, error) {
	session, err := svc.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != shared.SessionStatusActive {
		return nil, shared.NewConflictError(nil, "Focus session is not active")
	}

	now := svc.now().UTC()
	seconds := 0
	if req.ActualTime != "" {
		seconds = shared.TimeToSeconds(req.ActualTime)
	} else if session.StartedAt != nil {
		seconds = int(now.Sub(*session.StartedAt).Seconds())
	}
	if session.Duration > 0 && seconds > session.Duration {
		seconds = session.Duration
	}

	actual := shared.SecondsToTime(seconds)
	session.ActualTime = &actual
	session.CompletedAt = &now
	session.Status = shared.SessionStatusCompleted

	if err := svc.sessions.UpdateSession(ctx, session); err != nil {
		return nil, shared.NewInternalError(handleDBError(err), "Failed to complete focus session. Please try again later.")
	}

	log.WithFields(log.Fields{
		"user_id":     userID,
		"session_id":  session.ID,
		"actual_time": actual,
	}).Info("Focus session completed")

	svc.refreshRollup(ctx, userID)
	return toSessionResponse(session), nil
}

func (svc *FocusSessionService) GetActiveSession(ctx context.Context, userID string) (*dto.FocusSessionResponse, error) {
	session, err := svc.sessions.GetActiveSession(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewNotFoundError(err, "No active focus session")
	}
	if err != nil {
		return nil, shared.NewInternalError(handleDBError(err), "")
	}
	return toSessionResponse(session), nil
}

func (svc *FocusSessionService) GetSession(ctx context.Context, userID, sessionID string) (*dto.FocusSessionResponse, error) {
	session, err := svc.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

// ListSessions returns the user's sessions newest first. page starts at 1.
func (svc *FocusSessionService) ListSessions(ctx context.Context, userID string, page, limit int) (*dto.SessionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultSessionPageSize
	}
	if limit > maxSessionPageSize {
		limit = maxSessionPageSize
	}

	sessions, total, err := svc.sessions.GetUserSessionsPage(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, shared.NewInternalError(handleDBError(err), "")
	}

	resp := &dto.SessionListResponse{
		Sessions: make([]dto.FocusSessionResponse, 0, len(sessions)),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, *toSessionResponse(&sessions[i]))
	}
	return resp, nil
}

func (svc *FocusSessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if _, err := svc.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := svc.sessions.DeleteSession(ctx, sessionID); err != nil {
		return shared.NewInternalError(handleDBError(err), "")
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"session_id": sessionID,
	}).Info("Focus session deleted")

	svc.refreshRollup(ctx, userID)
	return nil
}

// ownedSession hides sessions of other users behind the same 404 as missing ones.
func (svc *FocusSessionService) ownedSession(ctx context.Context, userID, sessionID string) (*model.FocusSession, error) {
	session, err := svc.sessions.GetSession(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && session.UserID != userID) {
		return nil, shared.NewNotFoundError(err, "Focus session not found")
	}
	if err != nil {
		return nil, shared.NewInternalError(handleDBError(err), "")
	}
	return session, nil
}

// refreshRollup keeps the stored stats in step with the session table.
// Failures are logged only.
func (svc *FocusSessionService) refreshRollup(ctx context.Context, userID string) {
	if svc.rollups == nil {
		return
	}
	if _, err := svc.rollups.RefreshRollup(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to refresh stats rollup")
	}
}

func toSessionResponse(session *model.FocusSession) *dto.FocusSessionResponse {
	return &dto.FocusSessionResponse{
		ID:          session.ID,
		Status:      session.Status,
		StartedAt:   session.StartedAt,
		CompletedAt: session.CompletedAt,
		ActualTime:  session.ActualTime,
		Duration:    session.Duration,
		CreatedAt:   session.CreatedAt,
	}
}
