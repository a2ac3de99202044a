package services

import (
	"github.com/alphabatem/common/context"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type AuthService struct {
	context.DefaultService

	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

// RequiredAuth resolves the caller from the bearer token and stores the user
// id under shared.UserID for the handlers.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return svc.RequiredAuthWithMessage("")
}

// RequiredAuthWithMessage is RequiredAuth with a route specific 401 message.
func (svc *AuthService) RequiredAuthWithMessage(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.NewUnauthorizedError(err, message)
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			log.WithError(err).WithField("ip", c.IP()).Debug("Rejected bearer token")
			return shared.NewUnauthorizedError(err, message)
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}
