package repositories

import (
	"context"

	"github.com/focusflow/focusflow_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository stores the per-user stats rollup
type StatsRepository struct {
	BaseRepository
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *StatsRepository) GetStats(ctx context.Context, userID string) (*model.Stats, error) {
	var stats model.Stats
	if err := ds.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// UpsertStats inserts the row or overwrites every rollup column of an existing one.
func (ds *StatsRepository) UpsertStats(ctx context.Context, stats *model.Stats) error {
	return ds.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_sessions",
			"completed_sessions",
			"total_study_time",
			"average_efficiency",
			"current_streak",
			"longest_streak",
			"last_session_date",
			"updated_at",
		}),
	}).Create(stats).Error
}

func (ds *StatsRepository) TableExists() bool {
	return ds.db.Migrator().HasTable(&model.Stats{})
}
