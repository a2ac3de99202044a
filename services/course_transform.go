package services

import (
	"math"
	"strconv"
	"time"

	"github.com/focusflow/focusflow_api/dto"
)

const (
	dashboardCourseLimit = 4
	averageCourseHours   = 8.0
	newCourseWindow      = 8 * 24 * time.Hour

	defaultCourseTitle      = "Untitled Course"
	defaultCourseDifficulty = "Beginner"
)

// TimeLeft estimates the remaining study time of a course from its progress,
// assuming an eight hour course.
func TimeLeft(progress int) string {
	if progress >= 100 {
		return "Completed"
	}

	hours := averageCourseHours * float64(100-progress) / 100
	switch {
	case hours < 1:
		return strconv.Itoa(int(math.Round(hours*60))) + " minutes"
	case hours < 2:
		return "1 hour"
	default:
		return strconv.FormatFloat(math.Round(hours*10)/10, 'f', -1, 64) + " hours"
	}
}

func nextLesson(course dto.UpstreamCourse) string {
	switch {
	case len(course.Modules) > 0:
		return "Continue Module"
	case len(course.Folders) > 0:
		return "Explore Content"
	default:
		return "Start Learning"
	}
}

// isNewCourse reports whether the course was created less than eight whole
// days from now, in either direction.
func isNewCourse(createdAt *string, now time.Time) bool {
	if createdAt == nil {
		return false
	}
	created, ok := parseCourseTime(*createdAt)
	if !ok {
		return false
	}
	diff := now.Sub(created)
	if diff < 0 {
		diff = -diff
	}
	return diff < newCourseWindow
}

func parseCourseTime(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func courseProgress(course dto.UpstreamCourse) int {
	if course.Progress == nil {
		return 0
	}
	return int(*course.Progress)
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func toUserCourse(course dto.UpstreamCourse, now time.Time) dto.UserCourse {
	progress := courseProgress(course)
	modules := course.Modules
	if modules == nil {
		modules = []dto.CourseModule{}
	}
	folders := course.Folders
	if folders == nil {
		folders = []dto.CourseFolder{}
	}

	return dto.UserCourse{
		ID:          course.ID,
		UUID:        course.UUID,
		Title:       stringOr(course.Title, defaultCourseTitle),
		Progress:    progress,
		Description: stringOr(course.Description, ""),
		Difficulty:  stringOr(course.DifficultyLevel, defaultCourseDifficulty),
		Thumbnail:   course.Image,
		IsNew:       isNewCourse(course.CreatedAt, now),
		NextLesson:  nextLesson(course),
		TimeLeft:    TimeLeft(progress),
		Modules:     modules,
		Folders:     folders,
	}
}

// toDashboardCourses drops courses without an id and keeps the first four.
func toDashboardCourses(courses []dto.UpstreamCourse, now time.Time) []dto.DashboardCourse {
	result := make([]dto.DashboardCourse, 0, dashboardCourseLimit)
	for _, course := range courses {
		if course.ID == nil {
			continue
		}
		if len(result) == dashboardCourseLimit {
			break
		}

		progress := courseProgress(course)
		lastAccessed := now.UTC().Format(time.RFC3339Nano)
		if course.UpdatedAt != nil {
			lastAccessed = *course.UpdatedAt
		} else if course.CreatedAt != nil {
			lastAccessed = *course.CreatedAt
		}
		categories := course.Categories
		if categories == nil {
			categories = []dto.CourseCategory{}
		}

		result = append(result, dto.DashboardCourse{
			ID:           *course.ID,
			UUID:         course.UUID,
			Title:        stringOr(course.Title, defaultCourseTitle),
			Progress:     progress,
			Description:  stringOr(course.Description, ""),
			Difficulty:   stringOr(course.DifficultyLevel, defaultCourseDifficulty),
			Thumbnail:    course.Image,
			IsNew:        isNewCourse(course.CreatedAt, now),
			NextLesson:   nextLesson(course),
			TimeLeft:     TimeLeft(progress),
			LastAccessed: lastAccessed,
			ModulesCount: len(course.Modules),
			Categories:   categories,
		})
	}
	return result
}

func ptr[T any](v T) *T {
	return &v
}

// fallbackCourses is the sample catalogue served when the course service
// cannot be reached.
func fallbackCourses() []dto.UpstreamCourse {
	created := "2025-08-07T21:43:57.000000Z"
	return []dto.UpstreamCourse{
		{
			ID:          ptr(1),
			UUID:        ptr("657fbf44-02d8-446a-b517-4203571aeeb2"),
			Title:       ptr("Quibusdam et volupta"),
			Description: ptr("Autem dolores non quisquam assumenda totam sit aliquid qui eveniet"),
			Image:       ptr("https://picsum.photos/800/450?random=596"),
			Progress:    ptr(0.0),
			CreatedAt:   ptr(created),
			UpdatedAt:   ptr(created),
			UserUUIDs: []dto.CourseMember{
				{ID: 1, CourseID: 1, UserUUID: "4d7c7b14-0344-4029-a489-28d5d24bc030"},
			},
			Categories: []dto.CourseCategory{
				{ID: 34, Title: "Virtual Reality (VR)"},
			},
			Modules: []dto.CourseModule{},
			Folders: []dto.CourseFolder{
				{ID: 1, Name: "Quibusdam et volupta Folder", CourseID: 1},
			},
		},
	}
}
