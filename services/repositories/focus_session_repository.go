package repositories

import (
	"context"
	"errors"

	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrActiveSessionExists = errors.New("active session already exists")

// FocusSessionRepository handles focus session database operations
type FocusSessionRepository struct {
	BaseRepository
}

func NewFocusSessionRepository(db *gorm.DB) *FocusSessionRepository {
	return &FocusSessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *FocusSessionRepository) CreateSession(ctx context.Context, session *model.FocusSession) (*model.FocusSession, error) {
	if session.ID == "" {
		id, _ := uuid.NewV7()
		session.ID = id.String()
	}
	if err := ds.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, activeSessionConflict(session, err)
	}
	return session, nil
}

// StartSession inserts session unless the user already has an active one, in
// which case it returns ErrActiveSessionExists. The count gives the common
// case a clean error; concurrent starts are caught by the unique index.
func (ds *FocusSessionRepository) StartSession(ctx context.Context, session *model.FocusSession) (*model.FocusSession, error) {
	if session.ID == "" {
		id, _ := uuid.NewV7()
		session.ID = id.String()
	}

	err := ds.Transaction(ctx, func(tx *gorm.DB) error {
		var active int64
		err := tx.Model(&model.FocusSession{}).
			Where("user_id = ? AND status = ?", session.UserID, shared.SessionStatusActive).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveSessionExists
		}
		return tx.Create(session).Error
	})
	if err != nil {
		return nil, activeSessionConflict(session, err)
	}
	return session, nil
}

// activeSessionConflict maps a violation of the one-active-session index to
// ErrActiveSessionExists. Needs gorm's TranslateError.
func activeSessionConflict(session *model.FocusSession, err error) error {
	if session.Status == shared.SessionStatusActive && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrActiveSessionExists
	}
	return err
}

func (ds *FocusSessionRepository) UpdateSession(ctx context.Context, session *model.FocusSession) error {
	return ds.db.WithContext(ctx).Save(session).Error
}

func (ds *FocusSessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return ds.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&model.FocusSession{}).Error
}

func (ds *FocusSessionRepository) GetSession(ctx context.Context, sessionID string) (*model.FocusSession, error) {
	var session model.FocusSession
	if err := ds.db.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetActiveSession returns gorm.ErrRecordNotFound when the user has no running session.
func (ds *FocusSessionRepository) GetActiveSession(ctx context.Context, userID string) (*model.FocusSession, error) {
	var session model.FocusSession
	err := ds.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, shared.SessionStatusActive).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetUserSessions loads every session of a user, oldest first.
func (ds *FocusSessionRepository) GetUserSessions(ctx context.Context, userID string) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	err := ds.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (ds *FocusSessionRepository) GetUserSessionsPage(ctx context.Context, userID string, offset, limit int) ([]model.FocusSession, int64, error) {
	var total int64
	query := ds.db.WithContext(ctx).Model(&model.FocusSession{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.FocusSession
	err := ds.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (ds *FocusSessionRepository) GetUserIDsWithSessions(ctx context.Context) ([]string, error) {
	var ids []string
	err := ds.db.WithContext(ctx).
		Model(&model.FocusSession{}).
		Distinct().
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (ds *FocusSessionRepository) CountSessions(ctx context.Context) (total int64, completed int64, err error) {
	if err = ds.db.WithContext(ctx).Model(&model.FocusSession{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = ds.db.WithContext(ctx).
		Model(&model.FocusSession{}).
		Where("status = ?", shared.SessionStatusCompleted).
		Count(&completed).Error
	if err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

// GetAllActualTimes returns every non-null actual_time across all users.
func (ds *FocusSessionRepository) GetAllActualTimes(ctx context.Context) ([]string, error) {
	var values []string
	err := ds.db.WithContext(ctx).
		Model(&model.FocusSession{}).
		Where("actual_time IS NOT NULL").
		Pluck("actual_time", &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}
