package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	COURSE_SVC = "course_svc"

	defaultCourseAPIURL     = "http://localhost:8081/api/v1"
	courseRetryDelay        = 500 * time.Millisecond
	maxCourseImageSize      = 5 << 20
	dashboardCacheKeyPrefix = "courses:dashboard:"
)

// ErrCourseUnreachable wraps transport failures (timeouts, refused connections).
var ErrCourseUnreachable = errors.New("course service unreachable")

var allowedCourseImageExts = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// UpstreamStatusError is returned when the course service answers with a
// non-2xx status.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("course service returned status %d", e.StatusCode)
}

type CourseService struct {
	appContext.DefaultService

	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration
	devMode    bool

	users    UserStore
	redisSvc *RedisService
	minioSvc *MinIOService

	now func() time.Time
}

func (svc CourseService) Id() string {
	return COURSE_SVC
}

func (svc *CourseService) Configure(ctx *appContext.Context) error {
	svc.baseURL = strings.TrimRight(os.Getenv("COURSE_API_URL"), "/")
	if svc.baseURL == "" {
		svc.baseURL = defaultCourseAPIURL
	}

	timeout := envDuration("COURSE_API_TIMEOUT", 15*time.Second)
	connectTimeout := envDuration("COURSE_API_CONNECT_TIMEOUT", 5*time.Second)
	svc.httpClient = newCourseHTTPClient(timeout, connectTimeout)
	svc.cacheTTL = envDuration("COURSE_CACHE_TTL", 5*time.Minute)

	env := os.Getenv("APP_ENV")
	svc.devMode = env == "local" || env == "testing" || os.Getenv("APP_DEBUG") == "true"
	svc.now = time.Now

	log.WithFields(log.Fields{
		"base_url": svc.baseURL,
		"timeout":  timeout,
		"dev_mode": svc.devMode,
	}).Info("Course service configured")

	return svc.DefaultService.Configure(ctx)
}

func (svc *CourseService) Start() error {
	svc.users = svc.Service(DATABASE_SVC).(*DatabaseService).Users()
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

func newCourseHTTPClient(timeout, connectTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": raw}).Warn("Invalid duration, using default")
		return fallback
	}
	return d
}

// GetDashboardCourses returns up to four course cards for the user. Any
// upstream failure is answered with the sample catalogue.
func (svc *CourseService) GetDashboardCourses(ctx context.Context, userUUID string) (*dto.CourseListResponse, error) {
	cacheKey := dashboardCacheKeyPrefix + userUUID
	if svc.redisSvc.Enabled() {
		var cached []dto.DashboardCourse
		found, err := svc.redisSvc.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			log.WithError(err).WithField("user_uuid", userUUID).Warn("Failed to read course cache")
		}
		if found {
			return &dto.CourseListResponse{Courses: cached, Message: "Courses retrieved successfully"}, nil
		}
	}

	var upstream []dto.UpstreamCourse
	err := svc.do(ctx, "dashboard", http.MethodGet, "/courses/"+url.PathEscape(userUUID), nil, &upstream)
	if err != nil {
		if isUpstreamFailure(err) {
			log.WithError(err).WithField("user_uuid", userUUID).Warn("Course service unavailable, using fallback data")
			return &dto.CourseListResponse{
				Courses:  toDashboardCourses(fallbackCourses(), svc.now()),
				Fallback: true,
				Message:  "Using fallback data (external API unavailable)",
			}, nil
		}
		return nil, shared.NewInternalError(err, "An error occurred while loading courses")
	}

	courses := toDashboardCourses(upstream, svc.now())
	log.WithFields(log.Fields{
		"user_uuid": userUUID,
		"upstream":  len(upstream),
		"returned":  len(courses),
	}).Info("Transformed courses for dashboard")

	if svc.redisSvc.Enabled() {
		if err := svc.redisSvc.Set(ctx, cacheKey, courses, svc.cacheTTL); err != nil {
			log.WithError(err).WithField("user_uuid", userUUID).Warn("Failed to cache courses")
		}
	}

	return &dto.CourseListResponse{Courses: courses, Message: "Courses retrieved successfully"}, nil
}

// GetCoursesByUUID lists every course of an existing user, content included.
func (svc *CourseService) GetCoursesByUUID(ctx context.Context, userUUID string) (*dto.CourseListResponse, error) {
	if _, err := svc.users.GetUserByUUID(ctx, userUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "User not found")
		}
		return nil, shared.NewInternalError(handleDBError(err), "Failed to retrieve courses. Please try again later.")
	}

	if svc.devMode {
		log.WithField("user_uuid", userUUID).Info("Development mode: returning fallback course data")
		return &dto.CourseListResponse{
			Courses:  toDashboardCourses(fallbackCourses(), svc.now()),
			Fallback: true,
			Message:  "Using fallback data (development mode)",
		}, nil
	}

	var upstream []dto.UpstreamCourse
	if err := svc.do(ctx, "list", http.MethodGet, "/courses/"+url.PathEscape(userUUID), nil, &upstream); err != nil {
		if isUpstreamFailure(err) {
			return nil, shared.NewUpstreamUnavailableError(err, "")
		}
		return nil, shared.NewInternalError(err, "Failed to retrieve courses. Please try again later.")
	}

	now := svc.now()
	courses := make([]dto.UserCourse, 0, len(upstream))
	for _, course := range upstream {
		courses = append(courses, toUserCourse(course, now))
	}
	return &dto.CourseListResponse{Courses: courses, Message: "Courses retrieved successfully"}, nil
}

func (svc *CourseService) GetCourseDetail(ctx context.Context, courseID string) (*dto.UpstreamCourse, error) {
	var course dto.UpstreamCourse
	err := svc.do(ctx, "detail", http.MethodGet, "/courses/details/"+url.PathEscape(courseID), nil, &course)
	if err != nil {
		var statusErr *UpstreamStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, shared.NewNotFoundError(err, "Course not found")
		}
		if isUpstreamFailure(err) {
			return nil, shared.NewUpstreamUnavailableError(err, "Failed to load course details. Please try again later.")
		}
		return nil, shared.NewInternalError(err, "An error occurred while loading the course details.")
	}
	return &course, nil
}

// CreateCourse stores the image, if any, and forwards the course with the
// owner added to its members.
func (svc *CourseService) CreateCourse(ctx context.Context, ownerUUID string, req dto.CreateCourseRequest, image *multipart.FileHeader) (*dto.CreateCourseResponse, error) {
	if req.UUID == "" {
		req.UUID = uuid.New().String()
	}
	if !slices.Contains(req.UserUUIDs, ownerUUID) {
		req.UserUUIDs = append(req.UserUUIDs, ownerUUID)
	}

	imageURL, objectName, err := svc.courseImage(ctx, req.UUID, image)
	if err != nil {
		return nil, err
	}
	req.Image = imageURL

	if err := svc.do(ctx, "create", http.MethodPost, "/courses", req, nil); err != nil {
		svc.removeCourseImage(ctx, objectName)
		return nil, shared.NewUpstreamUnavailableError(err, "Failed to save course")
	}

	svc.invalidateDashboards(ctx, req.UserUUIDs)

	log.WithFields(log.Fields{
		"course_uuid": req.UUID,
		"owner_uuid":  ownerUUID,
		"members":     len(req.UserUUIDs),
	}).Info("Course created")

	return &dto.CreateCourseResponse{UUID: req.UUID, Image: imageURL}, nil
}

// courseImage returns the image URL and, when the file went to object
// storage, the object name.
func (svc *CourseService) courseImage(ctx context.Context, courseUUID string, image *multipart.FileHeader) (string, string, error) {
	if image == nil {
		return placeholderImage(), "", nil
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(image.Filename), "."))
	contentType, ok := allowedCourseImageExts[ext]
	if !ok {
		return "", "", shared.NewValidationError(nil, []dto.ValidationError{
			{Field: "image", Message: "image must be a file of type: jpeg, png, jpg, gif"},
		})
	}
	if image.Size > maxCourseImageSize {
		return "", "", shared.NewValidationError(nil, []dto.ValidationError{
			{Field: "image", Message: "image must not be greater than 5120 kilobytes"},
		})
	}

	if !svc.minioSvc.Enabled() {
		log.WithField("course_uuid", courseUUID).Warn("Object storage disabled, using placeholder image")
		return placeholderImage(), "", nil
	}

	file, err := image.Open()
	if err != nil {
		return "", "", shared.NewBadRequestError(err, "Unable to read uploaded image")
	}
	defer file.Close()

	objectName := fmt.Sprintf("courses/%s-%d.%s", courseUUID, svc.now().Unix(), ext)
	url, err := svc.minioSvc.UploadFile(ctx, objectName, file, image.Size, contentType)
	if err != nil {
		return "", "", shared.NewInternalError(err, "Failed to upload course image")
	}

	log.WithField("url", url).Info("Course image uploaded")
	return url, objectName, nil
}

// removeCourseImage drops an uploaded image whose course was never saved.
func (svc *CourseService) removeCourseImage(ctx context.Context, objectName string) {
	if objectName == "" {
		return
	}
	if err := svc.minioSvc.DeleteFile(ctx, objectName); err != nil {
		log.WithError(err).WithField("object", objectName).Warn("Failed to remove orphaned course image")
	}
}

func placeholderImage() string {
	return fmt.Sprintf("https://picsum.photos/800/450?random=%d", rand.IntN(1000)+1)
}

func (svc *CourseService) CreateModule(ctx context.Context, req dto.CreateModuleRequest) error {
	if err := svc.do(ctx, "module", http.MethodPost, "/modules", req, nil); err != nil {
		return shared.NewUpstreamUnavailableError(err, "Failed to save course content")
	}
	return nil
}

func (svc *CourseService) UpdateSettings(ctx context.Context, req dto.CourseSettingsRequest) error {
	if err := svc.do(ctx, "settings", http.MethodPut, "/courses/uuid/"+url.PathEscape(req.CourseID), req, nil); err != nil {
		return shared.NewUpstreamUnavailableError(err, "Failed to update course settings")
	}
	return nil
}

func (svc *CourseService) invalidateDashboards(ctx context.Context, userUUIDs []string) {
	if !svc.redisSvc.Enabled() || len(userUUIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userUUIDs))
	for _, id := range userUUIDs {
		keys = append(keys, dashboardCacheKeyPrefix+id)
	}
	if err := svc.redisSvc.Delete(ctx, keys...); err != nil {
		log.WithError(err).Warn("Failed to invalidate course cache")
	}
}

func isUpstreamFailure(err error) bool {
	var statusErr *UpstreamStatusError
	return errors.Is(err, ErrCourseUnreachable) || errors.As(err, &statusErr)
}

// do sends one JSON request, retrying once after a short delay when the
// transport fails or the service answers 5xx. A nil out discards the body.
func (svc *CourseService) do(ctx context.Context, operation, method, path string, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = shared.JSONAPI.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", operation, err)
		}
	}

	var (
		data []byte
		err  error
	)
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				recordCourseCall(operation, "error")
				return fmt.Errorf("%w: %v", ErrCourseUnreachable, ctx.Err())
			case <-time.After(courseRetryDelay):
			}
		}

		data, err = svc.send(ctx, method, path, body)
		if !retryable(err) {
			break
		}
		log.WithError(err).WithFields(log.Fields{
			"operation": operation,
			"attempt":   attempt + 1,
		}).Warn("Course request failed")
	}

	if err != nil {
		outcome := "unreachable"
		if _, ok := err.(*UpstreamStatusError); ok {
			outcome = "status"
		}
		recordCourseCall(operation, outcome)
		return err
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := shared.JSONAPI.Unmarshal(data, out); err != nil {
			recordCourseCall(operation, "error")
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
	}

	recordCourseCall(operation, "ok")
	return nil
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	if statusErr, ok := err.(*UpstreamStatusError); ok {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}
	return errors.Is(err, ErrCourseUnreachable)
}

func (svc *CourseService) send(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, svc.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCourseUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCourseUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
