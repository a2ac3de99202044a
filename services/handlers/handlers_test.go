package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type mockStatsService struct {
	snapshot *dto.StatsSnapshot
	err      error
	userID   string
}

func (m *mockStatsService) GetStats(ctx context.Context, userID string) (*dto.StatsSnapshot, error) {
	m.userID = userID
	return m.snapshot, m.err
}

func (m *mockStatsService) GetStatsByUUID(ctx context.Context, userUUID string) (*dto.StatsSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockStatsService) GetTotalActualTime(ctx context.Context, userID string) (*dto.ActualTimeResponse, error) {
	return &dto.ActualTimeResponse{TotalTime: "01:15:00", SessionCount: 3}, m.err
}

func (m *mockStatsService) GetTotalActualTimeByUUID(ctx context.Context, userUUID string) (*dto.ActualTimeResponse, error) {
	return &dto.ActualTimeResponse{TotalTime: "00:00:00"}, m.err
}

func (m *mockStatsService) GetPublicAggregate(ctx context.Context) (*dto.PublicStatsResponse, error) {
	return &dto.PublicStatsResponse{TotalUsers: 2}, m.err
}

func (m *mockStatsService) Health(ctx context.Context) *dto.StatsHealthResponse {
	return &dto.StatsHealthResponse{Status: "healthy", Timestamp: time.Now()}
}

type mockSessionService struct {
	started  *dto.StartSessionRequest
	complete *dto.CompleteSessionRequest
	err      error
}

func (m *mockSessionService) StartSession(ctx context.Context, userID string, req dto.StartSessionRequest) (*dto.FocusSessionResponse, error) {
	m.started = &req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.FocusSessionResponse{ID: "s-1", Status: shared.SessionStatusActive, Duration: req.Duration}, nil
}

func (m *mockSessionService) CompleteSession(ctx context.Context, userID, sessionID string, req dto.CompleteSessionRequest) (*dto.FocusSessionResponse, error) {
	m.complete = &req
	return &dto.FocusSessionResponse{ID: sessionID, Status: shared.SessionStatusCompleted}, m.err
}

func (m *mockSessionService) GetActiveSession(ctx context.Context, userID string) (*dto.FocusSessionResponse, error) {
	return nil, shared.NewNotFoundError(nil, "No active focus session")
}

func (m *mockSessionService) GetSession(ctx context.Context, userID, sessionID string) (*dto.FocusSessionResponse, error) {
	return &dto.FocusSessionResponse{ID: sessionID}, m.err
}

func (m *mockSessionService) ListSessions(ctx context.Context, userID string, page, limit int) (*dto.SessionListResponse, error) {
	return &dto.SessionListResponse{Sessions: []dto.FocusSessionResponse{}, Page: page, Limit: limit}, m.err
}

func (m *mockSessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	return m.err
}

type mockUserService struct{}

func (m *mockUserService) GetUserByID(ctx context.Context, userID string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID, UUID: "uuid-" + userID, Name: "Ada"}, nil
}

type mockCourseService struct {
	ownerUUID string
	created   *dto.CreateCourseRequest
	image     *multipart.FileHeader
	settings  *dto.CourseSettingsRequest
}

func (m *mockCourseService) GetDashboardCourses(ctx context.Context, userUUID string) (*dto.CourseListResponse, error) {
	m.ownerUUID = userUUID
	return &dto.CourseListResponse{Courses: []dto.DashboardCourse{}, Message: "Courses retrieved successfully"}, nil
}

func (m *mockCourseService) GetCoursesByUUID(ctx context.Context, userUUID string) (*dto.CourseListResponse, error) {
	return nil, shared.NewUpstreamUnavailableError(nil, "")
}

func (m *mockCourseService) GetCourseDetail(ctx context.Context, courseID string) (*dto.UpstreamCourse, error) {
	id := 5
	return &dto.UpstreamCourse{ID: &id}, nil
}

func (m *mockCourseService) CreateCourse(ctx context.Context, ownerUUID string, req dto.CreateCourseRequest, image *multipart.FileHeader) (*dto.CreateCourseResponse, error) {
	m.ownerUUID = ownerUUID
	m.created = &req
	m.image = image
	return &dto.CreateCourseResponse{UUID: "c-1", Image: "https://cdn/courses/c-1.png"}, nil
}

func (m *mockCourseService) CreateModule(ctx context.Context, req dto.CreateModuleRequest) error {
	return nil
}

func (m *mockCourseService) UpdateSettings(ctx context.Context, req dto.CourseSettingsRequest) error {
	m.settings = &req
	return nil
}

func fakeAuth(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return shared.NewUnauthorizedError(nil, "")
	}
	c.Locals(shared.UserID, "user-1")
	return c.Next()
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: shared.ErrorHandler})
}

func decode(t *testing.T, resp *http.Response) shared.Response {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out shared.Response
	require.NoError(t, shared.JSONAPI.Unmarshal(body, &out))
	return out
}

func TestGetStatsRequiresAuth(t *testing.T) {
	app := newTestApp()
	h := NewStatsHandler(&mockStatsService{})
	app.Get("/api/v1/stats", h.GetStats)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, shared.StatsLoginMessage, decode(t, resp).Message)
}

func TestSessionRoutesUseGenericLoginMessage(t *testing.T) {
	app := newTestApp()
	h := NewSessionHandler(&mockSessionService{})
	app.Get("/api/v1/sessions/active", fakeAuth, h.GetActiveSession)
	app.Get("/api/v1/sessions", h.ListSessions)

	for _, path := range []string{"/api/v1/sessions/active", "/api/v1/sessions"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Please log in to continue.", decode(t, resp).Message)
	}
}

func TestGetStatsUsesTokenSubject(t *testing.T) {
	stats := &mockStatsService{snapshot: &dto.StatsSnapshot{TotalTime: "00:50:00"}}
	app := newTestApp()
	h := NewStatsHandler(stats)
	app.Get("/api/v1/stats", fakeAuth, h.GetStats)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "user-1", stats.userID)

	out := decode(t, resp)
	require.Equal(t, 200, out.Code)
	require.Equal(t, "00:50:00", out.Data.(map[string]interface{})["total_time"])
}

func TestGetStatsByUUIDNotFound(t *testing.T) {
	app := newTestApp()
	h := NewStatsHandler(&mockStatsService{err: shared.NewNotFoundError(nil, "User not found")})
	app.Get("/api/v1/stats/uuid/:uuid", h.GetStatsByUUID)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/stats/uuid/missing", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	out := decode(t, resp)
	require.Equal(t, 404, out.Code)
	require.Equal(t, "User not found", out.Message)
}

func TestStartSessionValidation(t *testing.T) {
	sessions := &mockSessionService{}
	app := newTestApp()
	h := NewSessionHandler(sessions)
	app.Post("/api/v1/sessions", fakeAuth, h.StartSession)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"duration":10}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Nil(t, sessions.started)

	out := decode(t, resp)
	require.Equal(t, "Validation failed", out.Message)
	require.NotNil(t, out.Data)
}

func TestStartSessionCreated(t *testing.T) {
	sessions := &mockSessionService{}
	app := newTestApp()
	h := NewSessionHandler(sessions)
	app.Post("/api/v1/sessions", fakeAuth, h.StartSession)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"duration":1500}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 1500, sessions.started.Duration)
}

func TestStartSessionConflict(t *testing.T) {
	sessions := &mockSessionService{err: shared.NewConflictError(nil, "A focus session is already running")}
	app := newTestApp()
	h := NewSessionHandler(sessions)
	app.Post("/api/v1/sessions", fakeAuth, h.StartSession)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"duration":1500}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCompleteSessionWithoutBody(t *testing.T) {
	sessions := &mockSessionService{}
	app := newTestApp()
	h := NewSessionHandler(sessions)
	app.Post("/api/v1/sessions/:id/complete", fakeAuth, h.CompleteSession)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s-9/complete", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "", sessions.complete.ActualTime)
}

func TestCompleteSessionRejectsBadActualTime(t *testing.T) {
	sessions := &mockSessionService{}
	app := newTestApp()
	h := NewSessionHandler(sessions)
	app.Post("/api/v1/sessions/:id/complete", fakeAuth, h.CompleteSession)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s-9/complete", strings.NewReader(`{"actual_time":"25 minutes"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Nil(t, sessions.complete)
}

func TestGetActiveSessionNotFound(t *testing.T) {
	app := newTestApp()
	h := NewSessionHandler(&mockSessionService{})
	app.Get("/api/v1/sessions/active", fakeAuth, h.GetActiveSession)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/active", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "No active focus session", decode(t, resp).Message)
}

func TestDashboardCoursesResolvesUserUUID(t *testing.T) {
	courses := &mockCourseService{}
	app := newTestApp()
	h := NewCourseHandler(courses, &mockUserService{})
	app.Get("/api/v1/courses", fakeAuth, h.GetDashboardCourses)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "uuid-user-1", courses.ownerUUID)
	require.Equal(t, "Courses retrieved successfully", decode(t, resp).Message)
}

func TestCoursesByUUIDUpstreamUnavailable(t *testing.T) {
	app := newTestApp()
	h := NewCourseHandler(&mockCourseService{}, &mockUserService{})
	app.Get("/api/v1/courses/uuid/:uuid", h.GetCoursesByUUID)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses/uuid/u-1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, "Course service is temporarily unavailable", decode(t, resp).Message)
}

func TestCreateCourseMultipart(t *testing.T) {
	courses := &mockCourseService{}
	app := newTestApp()
	h := NewCourseHandler(courses, &mockUserService{})
	app.Post("/api/v1/courses", fakeAuth, h.CreateCourse)

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("title", "Deep Work"))
	require.NoError(t, writer.WriteField("description", "Focus without distraction"))
	require.NoError(t, writer.WriteField("categories", "productivity"))
	part, err := writer.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses", strings.NewReader(body.String()))
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Equal(t, "uuid-user-1", courses.ownerUUID)
	require.Equal(t, "Deep Work", courses.created.Title)
	require.Equal(t, []string{"productivity"}, courses.created.Categories)
	require.NotNil(t, courses.image)
	require.Equal(t, "cover.png", courses.image.Filename)
}

func TestCreateCourseRequiresCategories(t *testing.T) {
	courses := &mockCourseService{}
	app := newTestApp()
	h := NewCourseHandler(courses, &mockUserService{})
	app.Post("/api/v1/courses", fakeAuth, h.CreateCourse)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses", strings.NewReader(`{"title":"Deep Work","description":"Focus without distraction"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Nil(t, courses.created)
}

func TestUpdateSettingsValidatesDates(t *testing.T) {
	courses := &mockCourseService{}
	app := newTestApp()
	h := NewCourseHandler(courses, &mockUserService{})
	app.Put("/api/v1/courses/settings", fakeAuth, h.UpdateSettings)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/courses/settings", strings.NewReader(`{"course_id":"6f1c2a9e-3b7d-4c55-9a0e-2d8b1f4e7c31","start_date":"next week"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/courses/settings", strings.NewReader(`{"course_id":"6f1c2a9e-3b7d-4c55-9a0e-2d8b1f4e7c31","start_date":"2025-09-01"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "2025-09-01", courses.settings.StartDate)
}

func TestUnknownErrorRendersGenericInternal(t *testing.T) {
	app := newTestApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "Internal Server Error", decode(t, resp).Message)
}
