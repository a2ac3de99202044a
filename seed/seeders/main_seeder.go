package seeders

import (
	"context"
	"log"
	"time"

	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/services"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db    *services.DatabaseService
	loc   *time.Location
	now   time.Time
	seed  uint64
	weeks int
}

func NewMainSeeder(db *services.DatabaseService, loc *time.Location, seed uint64, weeks int) *MainSeeder {
	return &MainSeeder{
		db:    db,
		loc:   loc,
		now:   time.Now().In(loc),
		seed:  seed,
		weeks: weeks,
	}
}

// SeedAll seeds users, their sessions and the stats rollups, and returns the users.
func (s *MainSeeder) SeedAll(ctx context.Context) ([]model.User, error) {
	log.Println("Starting database seeding...")

	users, err := NewUserSeeder(s.db).SeedUsers(ctx)
	if err != nil {
		log.Printf("User seeding failed: %v", err)
		return nil, err
	}

	if err := s.seedSessions(ctx, users); err != nil {
		log.Printf("Session seeding failed: %v", err)
		return nil, err
	}

	if err := s.RefreshRollups(ctx); err != nil {
		log.Printf("Rollup refresh failed: %v", err)
		return nil, err
	}

	log.Println("Database seeding completed successfully!")
	return users, nil
}

// SeedUsersOnly seeds only users
func (s *MainSeeder) SeedUsersOnly(ctx context.Context) ([]model.User, error) {
	return NewUserSeeder(s.db).SeedUsers(ctx)
}

// SeedSessionsOnly seeds sessions for the demo users, creating them if needed.
func (s *MainSeeder) SeedSessionsOnly(ctx context.Context) ([]model.User, error) {
	users, err := NewUserSeeder(s.db).SeedUsers(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.seedSessions(ctx, users); err != nil {
		return nil, err
	}
	return users, s.RefreshRollups(ctx)
}

func (s *MainSeeder) RefreshRollups(ctx context.Context) error {
	refreshed, err := services.NewStatsService(s.db, s.loc).RefreshAllRollups(ctx)
	log.Printf("Refreshed stats for %d users", refreshed)
	return err
}

func (s *MainSeeder) seedSessions(ctx context.Context, users []model.User) error {
	created, err := NewSessionSeeder(s.db, s.seed, s.now, s.weeks).SeedSessions(ctx, users)
	if err != nil {
		return err
	}
	log.Printf("Created %d focus sessions", created)
	return nil
}
