package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/stretchr/testify/require"
)

func newTestCourseService(t *testing.T, handler http.HandlerFunc) (*CourseService, *DatabaseService) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dbSvc := newTestDatabase(t)
	return &CourseService{
		baseURL:    server.URL,
		httpClient: server.Client(),
		cacheTTL:   time.Minute,
		users:      dbSvc.Users(),
		now:        func() time.Time { return testNow },
	}, dbSvc
}

func TestTimeLeft(t *testing.T) {
	require.Equal(t, "8 hours", TimeLeft(0))
	require.Equal(t, "4 hours", TimeLeft(50))
	require.Equal(t, "2.4 hours", TimeLeft(70))
	require.Equal(t, "2 hours", TimeLeft(75))
	require.Equal(t, "1 hour", TimeLeft(80))
	require.Equal(t, "58 minutes", TimeLeft(88))
	require.Equal(t, "5 minutes", TimeLeft(99))
	require.Equal(t, "Completed", TimeLeft(100))
	require.Equal(t, "Completed", TimeLeft(120))
}

func TestToDashboardCoursesDefaultsAndLimit(t *testing.T) {
	recent := testNow.Add(-3 * 24 * time.Hour).Format(time.RFC3339Nano)
	old := "2025-07-01T08:00:00.000000Z"

	courses := []dto.UpstreamCourse{
		{ID: nil, Title: ptr("no id")},
		{ID: ptr(1), CreatedAt: ptr(recent), Modules: []dto.CourseModule{{ID: 9}}},
		{ID: ptr(2), Title: ptr("Go"), Progress: ptr(42.9), CreatedAt: ptr(old), Folders: []dto.CourseFolder{{ID: 1}}},
		{ID: ptr(3), DifficultyLevel: ptr("Advanced")},
		{ID: ptr(4)},
		{ID: ptr(5)},
	}

	result := toDashboardCourses(courses, testNow)
	require.Len(t, result, 4)

	first := result[0]
	require.Equal(t, 1, first.ID)
	require.Equal(t, "Untitled Course", first.Title)
	require.Equal(t, "Beginner", first.Difficulty)
	require.Equal(t, "", first.Description)
	require.True(t, first.IsNew)
	require.Equal(t, "Continue Module", first.NextLesson)
	require.Equal(t, 1, first.ModulesCount)
	require.Equal(t, recent, first.LastAccessed)
	require.NotNil(t, first.Categories)

	second := result[1]
	require.Equal(t, 42, second.Progress)
	require.False(t, second.IsNew)
	require.Equal(t, "Explore Content", second.NextLesson)
	require.Equal(t, "4.6 hours", second.TimeLeft)

	third := result[2]
	require.Equal(t, "Advanced", third.Difficulty)
	require.Equal(t, "Start Learning", third.NextLesson)
	require.Equal(t, testNow.Format(time.RFC3339Nano), third.LastAccessed)

	require.Equal(t, 4, result[3].ID)
}

func TestFallbackCoursesTransform(t *testing.T) {
	result := toDashboardCourses(fallbackCourses(), testNow)
	require.Len(t, result, 1)

	course := result[0]
	require.Equal(t, 1, course.ID)
	require.Equal(t, "657fbf44-02d8-446a-b517-4203571aeeb2", *course.UUID)
	require.Equal(t, "Quibusdam et volupta", course.Title)
	require.Equal(t, "Explore Content", course.NextLesson)
	require.Equal(t, "8 hours", course.TimeLeft)
	require.Equal(t, "2025-08-07T21:43:57.000000Z", course.LastAccessed)
	require.True(t, course.IsNew)
	require.Equal(t, 0, course.ModulesCount)
	require.Len(t, course.Categories, 1)
	require.Equal(t, "Virtual Reality (VR)", course.Categories[0].Title)
}

func TestGetDashboardCourses(t *testing.T) {
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/courses/user-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":7,"uuid":"c-7","title":"Rust","progress":100,"categories":[{"id":1,"title":"Systems"}]}]`)
	})

	resp, err := svc.GetDashboardCourses(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, resp.Fallback)

	courses := resp.Courses.([]dto.DashboardCourse)
	require.Len(t, courses, 1)
	require.Equal(t, "Rust", courses[0].Title)
	require.Equal(t, "Completed", courses[0].TimeLeft)
	require.Equal(t, "Systems", courses[0].Categories[0].Title)
}

func TestGetDashboardCoursesRetriesThenFallsBack(t *testing.T) {
	var calls int32
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	resp, err := svc.GetDashboardCourses(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))

	courses := resp.Courses.([]dto.DashboardCourse)
	require.Len(t, courses, 1)
	require.Equal(t, "Quibusdam et volupta", courses[0].Title)
}

func TestGetDashboardCoursesRetrySucceeds(t *testing.T) {
	var calls int32
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[{"id":3,"title":"Retry"}]`)
	})

	resp, err := svc.GetDashboardCourses(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, resp.Fallback)
	require.Equal(t, "Retry", resp.Courses.([]dto.DashboardCourse)[0].Title)
}

func TestGetDashboardCoursesClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	resp, err := svc.GetDashboardCourses(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetDashboardCoursesUnreachableFallsBack(t *testing.T) {
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {})
	svc.baseURL = "http://127.0.0.1:1"

	resp, err := svc.GetDashboardCourses(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, resp.Fallback)
}

func TestGetDashboardCoursesMalformedBody(t *testing.T) {
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"`)
	})

	_, err := svc.GetDashboardCourses(context.Background(), "user-1")
	require.Error(t, err)
	require.True(t, shared.IsStatus(err, http.StatusInternalServerError))
}

func TestGetCoursesByUUID(t *testing.T) {
	svc, dbSvc := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"title":"Go","folders":[{"id":2,"name":"Intro","course_id":1}]}]`)
	})
	user := seedUser(t, dbSvc, "Ada")

	resp, err := svc.GetCoursesByUUID(context.Background(), user.UUID)
	require.NoError(t, err)
	require.False(t, resp.Fallback)

	courses := resp.Courses.([]dto.UserCourse)
	require.Len(t, courses, 1)
	require.Equal(t, "Explore Content", courses[0].NextLesson)
	require.Len(t, courses[0].Folders, 1)
	require.NotNil(t, courses[0].Modules)
}

func TestGetCoursesByUUIDUnknownUser(t *testing.T) {
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})

	_, err := svc.GetCoursesByUUID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.True(t, shared.IsStatus(err, http.StatusNotFound))
}

func TestGetCoursesByUUIDDevelopmentMode(t *testing.T) {
	var calls int32
	svc, dbSvc := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	svc.devMode = true
	user := seedUser(t, dbSvc, "Grace")

	resp, err := svc.GetCoursesByUUID(context.Background(), user.UUID)
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.Equal(t, "Using fallback data (development mode)", resp.Message)
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestGetCoursesByUUIDUpstreamDown(t *testing.T) {
	svc, dbSvc := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	user := seedUser(t, dbSvc, "Linus")

	_, err := svc.GetCoursesByUUID(context.Background(), user.UUID)
	require.True(t, shared.IsStatus(err, http.StatusServiceUnavailable))

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	require.Equal(t, "Course service is temporarily unavailable", appErr.Message)
}

func TestGetCourseDetailNotFound(t *testing.T) {
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/courses/details/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := svc.GetCourseDetail(context.Background(), "42")
	require.True(t, shared.IsStatus(err, http.StatusNotFound))
}

func TestCreateCourseAppendsOwnerAndUsesPlaceholder(t *testing.T) {
	var received dto.CreateCourseRequest
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/courses", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, shared.JSONAPI.Unmarshal(body, &received))
		w.WriteHeader(http.StatusCreated)
	})

	resp, err := svc.CreateCourse(context.Background(), "owner-uuid", dto.CreateCourseRequest{
		Title:       "Deep Work",
		Description: "Focus without distraction",
		Categories:  []string{"productivity"},
		UserUUIDs:   []string{"member-uuid"},
	}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, resp.UUID)
	require.True(t, strings.HasPrefix(resp.Image, "https://picsum.photos/800/450?random="))

	require.Equal(t, resp.UUID, received.UUID)
	require.Equal(t, []string{"member-uuid", "owner-uuid"}, received.UserUUIDs)
	require.Equal(t, resp.Image, received.Image)
}

func TestCreateCourseDoesNotRepeatListedOwner(t *testing.T) {
	var received dto.CreateCourseRequest
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, shared.JSONAPI.Unmarshal(body, &received))
		w.WriteHeader(http.StatusCreated)
	})

	_, err := svc.CreateCourse(context.Background(), "owner-uuid", dto.CreateCourseRequest{
		Title:       "Deep Work",
		Description: "Focus without distraction",
		Categories:  []string{"productivity"},
		UserUUIDs:   []string{"owner-uuid", "member-uuid"},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"owner-uuid", "member-uuid"}, received.UserUUIDs)
}

func TestCreateCourseUpstreamFailure(t *testing.T) {
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	_, err := svc.CreateCourse(context.Background(), "owner-uuid", dto.CreateCourseRequest{
		Title:       "Deep Work",
		Description: "Focus without distraction",
		Categories:  []string{"productivity"},
	}, nil)
	require.True(t, shared.IsStatus(err, http.StatusServiceUnavailable))
}

func TestUpdateSettingsPath(t *testing.T) {
	const courseID = "6f1c2a9e-3b7d-4c55-9a0e-2d8b1f4e7c31"
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/courses/uuid/"+courseID, r.URL.Path)
	})

	require.NoError(t, svc.UpdateSettings(context.Background(), dto.CourseSettingsRequest{CourseID: courseID}))
}

func TestUpstreamPathSegmentsAreEscaped(t *testing.T) {
	var uris []string
	svc, dbSvc := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		uris = append(uris, r.RequestURI)
		if strings.HasPrefix(r.RequestURI, "/courses/a") {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	})
	ctx := context.Background()

	require.NoError(t, svc.UpdateSettings(ctx, dto.CourseSettingsRequest{CourseID: "1/../../users"}))
	_, err := svc.GetCourseDetail(ctx, "7/../../admin?x=1")
	require.NoError(t, err)

	user := seedUser(t, dbSvc, "Escaper")
	user.UUID = "a/b"
	require.NoError(t, dbSvc.Db().Save(user).Error)
	_, err = svc.GetCoursesByUUID(ctx, "a/b")
	require.NoError(t, err)

	require.Equal(t, []string{
		"/courses/uuid/1%2F..%2F..%2Fusers",
		"/courses/details/7%2F..%2F..%2Fadmin%3Fx=1",
		"/courses/a%2Fb",
	}, uris)
}

func TestCourseIDValidation(t *testing.T) {
	require.Error(t, dto.CourseSettingsRequest{CourseID: "1/../../users"}.Validate())
	require.NoError(t, dto.CourseSettingsRequest{CourseID: "6f1c2a9e-3b7d-4c55-9a0e-2d8b1f4e7c31"}.Validate())

	require.Error(t, dto.CreateModuleRequest{CourseID: "9/../x", Title: "Week 1"}.Validate())
	require.NoError(t, dto.CreateModuleRequest{CourseID: "9", Title: "Week 1"}.Validate())
	require.NoError(t, dto.CreateModuleRequest{CourseID: "6f1c2a9e-3b7d-4c55-9a0e-2d8b1f4e7c31", Title: "Week 1"}.Validate())
}

func TestCreateModulePath(t *testing.T) {
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/modules", r.URL.Path)
	})

	require.NoError(t, svc.CreateModule(context.Background(), dto.CreateModuleRequest{CourseID: "9", Title: "Week 1"}))
}

func TestDashboardCoursesCacheAndInvalidation(t *testing.T) {
	var gets int32
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			return
		}
		atomic.AddInt32(&gets, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":7,"uuid":"c-7","title":"Rust","progress":50}]`)
	})
	redisSvc, mr := newTestRedis(t)
	svc.redisSvc = redisSvc
	ctx := context.Background()
	cacheKey := dashboardCacheKeyPrefix + "user-1"

	_, err := svc.GetDashboardCourses(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, mr.Exists(cacheKey))
	require.Equal(t, time.Minute, mr.TTL(cacheKey))

	resp, err := svc.GetDashboardCourses(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&gets))
	courses := resp.Courses.([]dto.DashboardCourse)
	require.Len(t, courses, 1)
	require.Equal(t, "Rust", courses[0].Title)

	_, err = svc.CreateCourse(ctx, "owner-uuid", dto.CreateCourseRequest{
		Title:       "Deep Work",
		Description: "Focus without distraction",
		Categories:  []string{"productivity"},
		UserUUIDs:   []string{"user-1"},
	}, nil)
	require.NoError(t, err)
	require.False(t, mr.Exists(cacheKey))

	_, err = svc.GetDashboardCourses(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&gets))
}

func TestDashboardFallbackIsNotCached(t *testing.T) {
	svc, _ := newTestCourseService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	redisSvc, mr := newTestRedis(t)
	svc.redisSvc = redisSvc

	resp, err := svc.GetDashboardCourses(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.False(t, mr.Exists(dashboardCacheKeyPrefix+"user-1"))
}
