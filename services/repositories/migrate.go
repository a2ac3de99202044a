package repositories

import (
	"fmt"

	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/shared"
	"gorm.io/gorm"
)

const activeSessionIndex = "idx_focus_sessions_one_active"

// Migrate creates the tables and the partial unique index that keeps a user
// at one active focus session. Postgres and SQLite both accept the index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.FocusSession{}, &model.Stats{}); err != nil {
		return err
	}

	err := db.Exec(fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON focus_sessions (user_id) WHERE status = '%s'",
		activeSessionIndex, shared.SessionStatusActive,
	)).Error
	if err != nil {
		return fmt.Errorf("create %s: %w", activeSessionIndex, err)
	}
	return nil
}
