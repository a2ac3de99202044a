package services

import (
	"context"
	"errors"
	"math"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	STATS_SVC = "stats_svc"

	publicStatsCacheKey = "stats:public"
	publicStatsCacheTTL = 60 * time.Second

	statsFailedMessage = "Failed to retrieve user stats. Please try again later."
)

type StatsService struct {
	appContext.DefaultService

	users    UserStore
	sessions SessionStore
	stats    StatsStore
	redisSvc *RedisService

	loc *time.Location
	now func() time.Time
}

func (svc StatsService) Id() string {
	return STATS_SVC
}

func (svc *StatsService) Configure(ctx *appContext.Context) error {
	loc, err := loadAppLocation()
	if err != nil {
		return err
	}
	svc.loc = loc
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *StatsService) Start() error {
	dbSvc := svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.users = dbSvc.Users()
	svc.sessions = dbSvc.Sessions()
	svc.stats = dbSvc.Stats()
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// NewStatsService builds the aggregator outside the service container.
func NewStatsService(dbSvc *DatabaseService, loc *time.Location) *StatsService {
	return &StatsService{
		users:    dbSvc.Users(),
		sessions: dbSvc.Sessions(),
		stats:    dbSvc.Stats(),
		loc:      loc,
		now:      time.Now,
	}
}

func loadAppLocation() (*time.Location, error) {
	name := os.Getenv("APP_TIMEZONE")
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

func (svc *StatsService) GetStats(ctx context.Context, userID string) (*dto.StatsSnapshot, error) {
	user, err := svc.users.GetUser(ctx, userID)
	if err != nil {
		return nil, userLookupError(err, userID)
	}
	return svc.ComputeSnapshot(ctx, user.ID)
}

func (svc *StatsService) GetStatsByUUID(ctx context.Context, userUUID string) (*dto.StatsSnapshot, error) {
	user, err := svc.users.GetUserByUUID(ctx, userUUID)
	if err != nil {
		return nil, userLookupError(err, userUUID)
	}
	return svc.ComputeSnapshot(ctx, user.ID)
}

// ComputeSnapshot reads the user's sessions once, refreshes the stored rollup
// from them and derives the remaining fields from the same rows.
func (svc *StatsService) ComputeSnapshot(ctx context.Context, userID string) (*dto.StatsSnapshot, error) {
	start := time.Now()
	defer func() { observeSnapshot(time.Since(start)) }()

	sessions, err := svc.sessions.GetUserSessions(ctx, userID)
	if err != nil {
		return nil, shared.NewInternalError(handleDBError(err), statsFailedMessage)
	}

	if len(sessions) == 0 {
		log.WithField("user_id", userID).Info("No focus sessions found for user")
		return ZeroSnapshot(), nil
	}

	now := svc.now()
	rollup := BuildRollup(userID, sessions, now, svc.loc)
	if err := svc.stats.UpsertStats(ctx, rollup); err != nil {
		return nil, shared.NewInternalError(handleDBError(err), statsFailedMessage)
	}

	snapshot := &dto.StatsSnapshot{
		TotalTime:         rollup.TotalStudyTime,
		BestFocusTime:     BestFocusTime(sessions, now, svc.loc),
		MostProductiveDay: MostProductiveDay(sessions, svc.loc),
		AverageEfficiency: rollup.AverageEfficiency,
		WeeklyInsight:     WeeklyInsight(sessions, now, svc.loc),
		Achievements:      Achievements(sessions, svc.loc),
		CurrentStreak:     rollup.CurrentStreak,
		LongestStreak:     rollup.LongestStreak,
		TotalSessions:     rollup.TotalSessions,
		CompletedSessions: rollup.CompletedSessions,
		LastSessionDate:   rollup.LastSessionDate,
	}

	log.WithFields(log.Fields{
		"user_id":            userID,
		"total_sessions":     snapshot.TotalSessions,
		"completed_sessions": snapshot.CompletedSessions,
		"total_time":         snapshot.TotalTime,
		"current_streak":     snapshot.CurrentStreak,
	}).Debug("Stats snapshot computed")

	return snapshot, nil
}

func (svc *StatsService) GetTotalActualTime(ctx context.Context, userID string) (*dto.ActualTimeResponse, error) {
	user, err := svc.users.GetUser(ctx, userID)
	if err != nil {
		return nil, userLookupError(err, userID)
	}
	return svc.totalActualTime(ctx, user.ID)
}

func (svc *StatsService) GetTotalActualTimeByUUID(ctx context.Context, userUUID string) (*dto.ActualTimeResponse, error) {
	user, err := svc.users.GetUserByUUID(ctx, userUUID)
	if err != nil {
		return nil, userLookupError(err, userUUID)
	}
	return svc.totalActualTime(ctx, user.ID)
}

func (svc *StatsService) totalActualTime(ctx context.Context, userID string) (*dto.ActualTimeResponse, error) {
	sessions, err := svc.sessions.GetUserSessions(ctx, userID)
	if err != nil {
		return nil, shared.NewInternalError(handleDBError(err), "Failed to retrieve total actual time. Please try again later.")
	}

	return &dto.ActualTimeResponse{
		TotalTime:    shared.SecondsToTime(TotalActualSeconds(sessions)),
		SessionCount: len(sessions),
	}, nil
}

// GetPublicAggregate returns platform-wide totals, cached briefly when Redis is on.
func (svc *StatsService) GetPublicAggregate(ctx context.Context) (*dto.PublicStatsResponse, error) {
	if svc.redisSvc.Enabled() {
		var cached dto.PublicStatsResponse
		found, err := svc.redisSvc.GetJSON(ctx, publicStatsCacheKey, &cached)
		if err != nil {
			log.WithError(err).Warn("Failed to read public stats cache")
		} else if found {
			return &cached, nil
		}
	}

	const failed = "Failed to retrieve public stats. Please try again later."

	totalUsers, err := svc.users.CountUsers(ctx)
	if err != nil {
		return nil, shared.NewInternalError(handleDBError(err), failed)
	}
	totalSessions, completedSessions, err := svc.sessions.CountSessions(ctx)
	if err != nil {
		return nil, shared.NewInternalError(handleDBError(err), failed)
	}
	actualTimes, err := svc.sessions.GetAllActualTimes(ctx)
	if err != nil {
		return nil, shared.NewInternalError(handleDBError(err), failed)
	}

	totalSeconds := 0
	for _, value := range actualTimes {
		totalSeconds += shared.TimeToSeconds(value)
	}

	resp := &dto.PublicStatsResponse{
		TotalUsers:         totalUsers,
		TotalSessions:      totalSessions,
		CompletedSessions:  completedSessions,
		TotalStudyTime:     shared.SecondsToTime(totalSeconds),
		AverageSessionTime: shared.ZeroDuration,
	}
	if totalSessions > 0 {
		resp.AverageSessionTime = shared.SecondsToTime(int(int64(totalSeconds) / totalSessions))
		resp.CompletionRate = math.Round(float64(completedSessions)/float64(totalSessions)*100*10) / 10
	}

	if svc.redisSvc.Enabled() {
		if err := svc.redisSvc.Set(ctx, publicStatsCacheKey, resp, publicStatsCacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache public stats")
		}
	}

	return resp, nil
}

// Health never fails; store problems show up as a degraded status.
func (svc *StatsService) Health(ctx context.Context) *dto.StatsHealthResponse {
	resp := &dto.StatsHealthResponse{
		Timestamp:          svc.now().UTC(),
		DatabaseConnection: "ok",
		Version:            shared.AppVersion,
	}

	var err error
	if resp.TotalUsers, err = svc.users.CountUsers(ctx); err == nil {
		resp.TotalSessions, _, err = svc.sessions.CountSessions(ctx)
	}
	if err != nil {
		resp.DatabaseConnection = "error"
		log.WithError(err).Warn("Database connection issue during stats health check")
	}

	resp.StatsTableExists = svc.stats.TableExists()

	resp.Status = "degraded"
	if resp.DatabaseConnection == "ok" && resp.StatsTableExists {
		resp.Status = "healthy"
	}
	return resp
}

func (svc *StatsService) RefreshRollup(ctx context.Context, userID string) (*model.Stats, error) {
	sessions, err := svc.sessions.GetUserSessions(ctx, userID)
	if err != nil {
		return nil, handleDBError(err)
	}

	rollup := BuildRollup(userID, sessions, svc.now(), svc.loc)
	if err := svc.stats.UpsertStats(ctx, rollup); err != nil {
		return nil, handleDBError(err)
	}
	return rollup, nil
}

// RefreshAllRollups refreshes every user that has sessions. A failing user is
// logged and skipped; the joined errors are returned with the refreshed count.
func (svc *StatsService) RefreshAllRollups(ctx context.Context) (int, error) {
	userIDs, err := svc.sessions.GetUserIDsWithSessions(ctx)
	if err != nil {
		return 0, handleDBError(err)
	}

	refreshed := 0
	var errs []error
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if _, err := svc.RefreshRollup(ctx, userID); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("Failed to refresh stats rollup")
			errs = append(errs, err)
			continue
		}
		refreshed++
	}

	return refreshed, errors.Join(errs...)
}

func userLookupError(err error, identifier string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithField("user", identifier).Warn("User not found")
		return shared.NewNotFoundError(err, "User not found")
	}
	return shared.NewInternalError(handleDBError(err), "")
}
