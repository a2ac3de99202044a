package services

import (
	"fmt"
	"math"
	"time"

	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/shared"
)

const (
	earlyBirdBeforeHour = 9
	nightOwlFromHour    = 21
	tasksPerSession     = 2
)

type achievementDef struct {
	id          int
	name        string
	description string
	icon        string
	target      int
}

var achievementCatalog = []achievementDef{
	{1, "Focus Master", "Complete 10 focus sessions", "Award", 10},
	{2, "Task Champion", "Complete 50 tasks", "CheckCircle", 50},
	{3, "Early Bird", "5 focus sessions before 9am", "Zap", 5},
	{4, "Night Owl", "Complete 5 sessions after 9pm", "Brain", 5},
	{5, "Productivity Guru", "Complete 100 tasks", "Activity", 100},
	{6, "Knowledge Seeker", "Complete 3 courses", "BookOpen", 3},
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// ZeroSnapshot is the snapshot of a user without any focus session.
func ZeroSnapshot() *dto.StatsSnapshot {
	return &dto.StatsSnapshot{
		TotalTime:         shared.ZeroDuration,
		BestFocusTime:     shared.NoData,
		MostProductiveDay: shared.NoData,
		WeeklyInsight:     weeklyInsightFromTotals([7]int{}),
		Achievements:      []dto.Achievement{},
	}
}

// sessionSeconds is the focus time a session contributes to time charts:
// actual_time unless it is missing or zero, otherwise the planned duration.
func sessionSeconds(session model.FocusSession) int {
	if session.ActualTime != nil {
		if seconds := shared.TimeToSeconds(*session.ActualTime); seconds > 0 {
			return seconds
		}
	}
	if session.Duration > 0 {
		return session.Duration
	}
	return 0
}

func countsForCharts(session model.FocusSession) bool {
	return session.ActualTime != nil || session.Duration > 0
}

// TotalActualSeconds sums actual_time over every session that has one.
func TotalActualSeconds(sessions []model.FocusSession) int {
	total := 0
	for _, session := range sessions {
		if session.ActualTime != nil {
			total += shared.TimeToSeconds(*session.ActualTime)
		}
	}
	return total
}

// BestFocusTime returns the start hour with the most sessions in the seven days
// before now, or over all sessions when that week is empty. Ties go to the
// earliest hour.
func BestFocusTime(sessions []model.FocusSession, now time.Time, loc *time.Location) string {
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var recent, started []time.Time
	for _, session := range sessions {
		if session.StartedAt == nil {
			continue
		}
		started = append(started, *session.StartedAt)
		if !session.StartedAt.Before(weekAgo) {
			recent = append(recent, *session.StartedAt)
		}
	}

	pool := recent
	if len(pool) == 0 {
		pool = started
	}
	if len(pool) == 0 {
		return shared.NoData
	}

	var counts [24]int
	for _, t := range pool {
		counts[t.In(loc).Hour()]++
	}

	best := 0
	for hour := 1; hour < 24; hour++ {
		if counts[hour] > counts[best] {
			best = hour
		}
	}
	return FormatHour(best)
}

// FormatHour renders a 0-23 hour as "1:00am" style twelve-hour text.
func FormatHour(hour24 int) string {
	period := "am"
	if hour24 >= 12 {
		period = "pm"
	}
	hour12 := hour24
	if hour24 > 12 {
		hour12 = hour24 - 12
	} else if hour24 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:00%s", hour12, period)
}

// WeekBounds returns Monday 00:00 and the last instant of Sunday of the
// calendar week containing now.
func WeekBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// WeeklyInsight totals each weekday of the current calendar week.
func WeeklyInsight(sessions []model.FocusSession, now time.Time, loc *time.Location) dto.WeeklyInsight {
	start, end := WeekBounds(now, loc)

	var totals [7]int
	for _, session := range sessions {
		if session.StartedAt == nil || !countsForCharts(session) {
			continue
		}
		started := session.StartedAt.In(loc)
		if started.Before(start) || started.After(end) {
			continue
		}
		totals[weekdayIndex(started.Weekday())] += sessionSeconds(session)
	}
	return weeklyInsightFromTotals(totals)
}

// MostProductiveDay is the weekday with the largest all-time focus total,
// Monday first on ties.
func MostProductiveDay(sessions []model.FocusSession, loc *time.Location) string {
	var totals [7]int
	for _, session := range sessions {
		if session.StartedAt == nil || !countsForCharts(session) {
			continue
		}
		totals[weekdayIndex(session.StartedAt.In(loc).Weekday())] += sessionSeconds(session)
	}

	best := 0
	for i := 1; i < len(totals); i++ {
		if totals[i] > totals[best] {
			best = i
		}
	}
	if totals[best] == 0 {
		return shared.NoData
	}
	return weekdayOrder[best].String()
}

func weekdayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}

func weeklyInsightFromTotals(totals [7]int) dto.WeeklyInsight {
	return dto.WeeklyInsight{
		Monday:    shared.SecondsToTime(totals[0]),
		Tuesday:   shared.SecondsToTime(totals[1]),
		Wednesday: shared.SecondsToTime(totals[2]),
		Thursday:  shared.SecondsToTime(totals[3]),
		Friday:    shared.SecondsToTime(totals[4]),
		Saturday:  shared.SecondsToTime(totals[5]),
		Sunday:    shared.SecondsToTime(totals[6]),
	}
}

// Achievements evaluates the fixed catalog. Task counts are estimated from
// completed sessions and course completion is not tracked yet.
func Achievements(sessions []model.FocusSession, loc *time.Location) []dto.Achievement {
	completed, earlyBird, nightOwl := 0, 0, 0
	for _, session := range sessions {
		if session.Status != shared.SessionStatusCompleted {
			continue
		}
		completed++
		if session.StartedAt == nil {
			continue
		}
		hour := session.StartedAt.In(loc).Hour()
		if hour < earlyBirdBeforeHour {
			earlyBird++
		}
		if hour >= nightOwlFromHour {
			nightOwl++
		}
	}

	tasks := completed * tasksPerSession
	currents := map[int]int{
		1: completed,
		2: tasks,
		3: earlyBird,
		4: nightOwl,
		5: tasks,
		6: 0,
	}

	achievements := make([]dto.Achievement, 0, len(achievementCatalog))
	for _, def := range achievementCatalog {
		current := currents[def.id]
		achievements = append(achievements, dto.Achievement{
			ID:          def.id,
			Name:        def.name,
			Description: def.description,
			Icon:        def.icon,
			Target:      def.target,
			Current:     current,
			Achieved:    current >= def.target,
			Progress:    achievementProgress(current, def.target),
			Level:       AchievementLevel(current, def.target),
		})
	}
	return achievements
}

func achievementProgress(current, target int) int {
	if target <= 0 {
		return 0
	}
	progress := int(math.Round(float64(current) / float64(target) * 100))
	if progress > 100 {
		return 100
	}
	if progress < 0 {
		return 0
	}
	return progress
}

// AchievementLevel grades an achieved goal by how far current exceeds target.
// Ratios below 3 all grade as level 1.
func AchievementLevel(current, target int) int {
	if target <= 0 || current < target {
		return 0
	}

	ratio := float64(current) / float64(target)
	switch {
	case ratio >= 5:
		return 3
	case ratio >= 3:
		return 2
	case ratio >= 1.5:
		return 1
	default:
		return 1
	}
}
