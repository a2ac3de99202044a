package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/focusflow/focusflow_api/docs"
	"github.com/focusflow/focusflow_api/services/handlers"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"
)

const (
	HTTP_SVC = "http_svc"

	maxRequestBodySize = 6 << 20
)

type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	statsHandler   *handlers.StatsHandler
	sessionHandler *handlers.SessionHandler
	courseHandler  *handlers.CourseHandler
	userHandler    *handlers.UserHandler

	port int
	app  *fiber.App
}

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	userSvc := svc.Service(USER_SVC).(*UserService)
	svc.statsHandler = handlers.NewStatsHandler(svc.Service(STATS_SVC).(*StatsService))
	svc.sessionHandler = handlers.NewSessionHandler(svc.Service(SESSION_SVC).(*FocusSessionService))
	svc.courseHandler = handlers.NewCourseHandler(svc.Service(COURSE_SVC).(*CourseService), userSvc)
	svc.userHandler = handlers.NewUserHandler(userSvc)

	svc.app = svc.newApp()

	log.WithField("port", svc.port).Info("HTTP server listening")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               shared.AppName,
		DisableStartupMessage: os.Getenv("LOG_LEVEL") == "INFO",
		BodyLimit:             maxRequestBodySize,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          shared.ErrorHandler,
	})

	docs.SwaggerInfo.BasePath = "/"

	app.Use(recover.New())
	if os.Getenv("LOG_LEVEL") == "TRACE" {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	svc.registerRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "Page not found")
	})

	return app
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	auth := svc.authSvc.RequiredAuth()
	statsAuth := svc.authSvc.RequiredAuthWithMessage(shared.StatsLoginMessage)
	publicLimit := svc.rateLimitSvc.IPRateLimit(RateLimitPublic)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	users := v1.Group("/users")
	users.Get("/me", auth, svc.userHandler.GetCurrentUser)

	stats := v1.Group("/stats")
	stats.Get("/", statsAuth, svc.statsHandler.GetStats)
	stats.Get("/actual-time", statsAuth, svc.statsHandler.GetTotalActualTime)
	stats.Get("/uuid/:uuid", publicLimit, svc.statsHandler.GetStatsByUUID)
	stats.Get("/actual-time/uuid/:uuid", publicLimit, svc.statsHandler.GetTotalActualTimeByUUID)
	stats.Get("/public", svc.rateLimitSvc.IPRateLimit(RateLimitPublicStats), svc.statsHandler.GetPublicStats)
	stats.Get("/health", svc.statsHandler.Health)

	sessions := v1.Group("/sessions", auth)
	sessions.Get("/", svc.sessionHandler.ListSessions)
	sessions.Post("/", svc.sessionHandler.StartSession)
	sessions.Get("/active", svc.sessionHandler.GetActiveSession)
	sessions.Get("/:id", svc.sessionHandler.GetSession)
	sessions.Post("/:id/complete", svc.sessionHandler.CompleteSession)
	sessions.Delete("/:id", svc.sessionHandler.DeleteSession)

	courseWrite := svc.rateLimitSvc.UserBasedRateLimit(RateLimitCourseWrite)

	courses := v1.Group("/courses")
	courses.Get("/", auth, svc.courseHandler.GetDashboardCourses)
	courses.Get("/uuid/:uuid", publicLimit, svc.courseHandler.GetCoursesByUUID)
	courses.Get("/details/:id", publicLimit, svc.courseHandler.GetCourseDetail)
	courses.Post("/", auth, courseWrite, svc.courseHandler.CreateCourse)
	courses.Post("/modules", auth, courseWrite, svc.courseHandler.CreateModule)
	courses.Put("/settings", auth, courseWrite, svc.courseHandler.UpdateSettings)
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}
