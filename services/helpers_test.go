package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Wednesday 6 August 2025, 10:00 UTC.
var testNow = time.Date(2025, 8, 6, 10, 0, 0, 0, time.UTC)

func newTestDatabase(t *testing.T) *DatabaseService {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	dbSvc := &DatabaseService{}
	require.NoError(t, dbSvc.Attach(db))
	return dbSvc
}

// newTestRedis backs a RedisService with an in-process miniredis server.
func newTestRedis(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2})
	t.Cleanup(func() { _ = client.Close() })
	return &RedisService{redis: client}, mr
}

func newTestStatsService(t *testing.T) (*StatsService, *DatabaseService) {
	dbSvc := newTestDatabase(t)
	return &StatsService{
		users:    dbSvc.Users(),
		sessions: dbSvc.Sessions(),
		stats:    dbSvc.Stats(),
		loc:      time.UTC,
		now:      func() time.Time { return testNow },
	}, dbSvc
}

func seedUser(t *testing.T, dbSvc *DatabaseService, name string) *model.User {
	t.Helper()
	user, err := dbSvc.Users().CreateUser(context.Background(), &model.User{
		Name:  name,
		Email: strings.ToLower(name) + "@example.com",
	})
	require.NoError(t, err)
	return user
}

func seedSession(t *testing.T, dbSvc *DatabaseService, userID string, startedAt time.Time, actual string, duration int) *model.FocusSession {
	t.Helper()
	session := completedSession(startedAt, actual, duration)
	session.UserID = userID
	created, err := dbSvc.Sessions().CreateSession(context.Background(), &session)
	require.NoError(t, err)
	return created
}

func completedSession(startedAt time.Time, actual string, duration int) model.FocusSession {
	started := startedAt
	completed := startedAt.Add(time.Duration(duration) * time.Second)
	session := model.FocusSession{
		Status:      shared.SessionStatusCompleted,
		StartedAt:   &started,
		CompletedAt: &completed,
		Duration:    duration,
	}
	if actual != "" {
		session.ActualTime = &actual
	}
	return session
}
