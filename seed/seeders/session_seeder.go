package seeders

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/services"
	"github.com/focusflow/focusflow_api/shared"
)

var sessionLengths = []int{15 * 60, 25 * 60, 25 * 60, 45 * 60, 50 * 60, 90 * 60}

// Hours people tend to focus at. 7 and 22 feed the early bird and night owl
// achievements.
var focusHours = []int{7, 8, 9, 10, 11, 14, 15, 16, 19, 20, 22}

// SessionSeeder handles seeding focus sessions
type SessionSeeder struct {
	db    *services.DatabaseService
	rng   *rand.Rand
	now   time.Time
	weeks int
}

func NewSessionSeeder(db *services.DatabaseService, seed uint64, now time.Time, weeks int) *SessionSeeder {
	return &SessionSeeder{
		db:    db,
		rng:   rand.New(rand.NewPCG(seed, seed^0x5eed)),
		now:   now,
		weeks: weeks,
	}
}

// SeedSessions gives every user without sessions a history over the last
// weeks. Users with sessions are left alone.
func (s *SessionSeeder) SeedSessions(ctx context.Context, users []model.User) (int, error) {
	total := 0
	for _, user := range users {
		existing, err := s.db.Sessions().GetUserSessions(ctx, user.ID)
		if err != nil {
			return total, err
		}
		if len(existing) > 0 {
			log.Printf("User %s already has %d sessions, skipping", user.Email, len(existing))
			continue
		}

		sessions := s.history(user.ID)
		for i := range sessions {
			if _, err := s.db.Sessions().CreateSession(ctx, &sessions[i]); err != nil {
				log.Printf("Error creating session for %s: %v", user.Email, err)
				return total, err
			}
		}
		log.Printf("Created %d sessions for %s", len(sessions), user.Email)
		total += len(sessions)
	}
	return total, nil
}

func (s *SessionSeeder) history(userID string) []model.FocusSession {
	var sessions []model.FocusSession

	days := s.weeks * 7
	for offset := days; offset >= 0; offset-- {
		// Skip roughly one day in four so streaks break now and then.
		if offset > 0 && s.rng.IntN(4) == 0 {
			continue
		}

		day := s.now.AddDate(0, 0, -offset)
		perDay := 1 + s.rng.IntN(3)
		for i := 0; i < perDay; i++ {
			hour := focusHours[s.rng.IntN(len(focusHours))]
			started := time.Date(day.Year(), day.Month(), day.Day(), hour, s.rng.IntN(60), 0, 0, day.Location())
			if started.After(s.now) {
				continue
			}
			sessions = append(sessions, s.session(userID, started))
		}
	}

	return sessions
}

func (s *SessionSeeder) session(userID string, started time.Time) model.FocusSession {
	duration := sessionLengths[s.rng.IntN(len(sessionLengths))]
	session := model.FocusSession{
		UserID:    userID,
		StartedAt: &started,
		Duration:  duration,
		CreatedAt: started,
		UpdatedAt: started,
	}

	// One in eight sessions is abandoned without a recorded time.
	if s.rng.IntN(8) == 0 {
		session.Status = shared.SessionStatusCancelled
		return session
	}

	// Focused time lands between 70% and 100% of the plan.
	actualSeconds := duration * (70 + s.rng.IntN(31)) / 100
	completed := started.Add(time.Duration(actualSeconds) * time.Second)
	actual := shared.SecondsToTime(actualSeconds)

	session.Status = shared.SessionStatusCompleted
	session.CompletedAt = &completed
	session.ActualTime = &actual
	session.UpdatedAt = completed
	return session
}
