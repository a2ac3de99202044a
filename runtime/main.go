package main

import (
	"os"
	"strings"

	"github.com/focusflow/focusflow_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
)

// @title FocusFlow API
// @version 1.0.0
// @description Focus sessions, study statistics and course proxy.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using environment")
	}

	configureLogrus(os.Getenv("LOG_LEVEL"))

	ctx, err := context.NewCtx(
		&services.DatabaseService{},
		&services.RedisService{},
		&services.MinIOService{},

		&services.JWTService{},
		&services.AuthService{},
		&services.RateLimitService{},
		&services.MonitoringService{},

		&services.UserService{},
		&services.StatsService{},
		&services.FocusSessionService{},
		&services.CourseService{},
		&services.SchedulerService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service stopped")
		return
	}
}

func configureLogrus(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	if level == "" {
		return
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown LOG_LEVEL, keeping info")
		return
	}
	logrus.SetLevel(parsed)
}
