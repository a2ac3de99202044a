package services

import (
	"math"
	"sort"
	"time"

	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/shared"
)

// BuildRollup derives the stored stats row of a user from all their sessions.
func BuildRollup(userID string, sessions []model.FocusSession, now time.Time, loc *time.Location) *model.Stats {
	stats := &model.Stats{
		UserID:         userID,
		TotalSessions:  len(sessions),
		TotalStudyTime: shared.SecondsToTime(TotalActualSeconds(sessions)),
	}

	for _, session := range sessions {
		if session.Status == shared.SessionStatusCompleted {
			stats.CompletedSessions++
		}
		if session.StartedAt != nil {
			if stats.LastSessionDate == nil || session.StartedAt.After(*stats.LastSessionDate) {
				last := session.StartedAt.UTC()
				stats.LastSessionDate = &last
			}
		}
	}

	stats.AverageEfficiency = AverageEfficiency(sessions)
	stats.CurrentStreak, stats.LongestStreak = Streaks(sessions, now, loc)
	return stats
}

// AverageEfficiency is the mean share of the planned duration actually spent
// focusing, capped at 100 per session and rounded to two decimals.
func AverageEfficiency(sessions []model.FocusSession) float64 {
	sum, n := 0.0, 0
	for _, session := range sessions {
		if session.Duration <= 0 || session.ActualTime == nil {
			continue
		}
		efficiency := float64(shared.TimeToSeconds(*session.ActualTime)) / float64(session.Duration) * 100
		sum += math.Min(100, efficiency)
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}

// Streaks counts runs of consecutive calendar days with at least one started
// session. The current streak is zero unless its last day is today or yesterday.
func Streaks(sessions []model.FocusSession, now time.Time, loc *time.Location) (current int, longest int) {
	seen := make(map[time.Time]struct{})
	for _, session := range sessions {
		if session.StartedAt == nil {
			continue
		}
		seen[dayOf(*session.StartedAt, loc)] = struct{}{}
	}
	if len(seen) == 0 {
		return 0, 0
	}

	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today := dayOf(now, loc)
	last := days[len(days)-1]
	if last.Equal(today) || last.AddDate(0, 0, 1).Equal(today) {
		current = run
	}
	return current, longest
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
