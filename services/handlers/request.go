package handlers

import (
	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/gofiber/fiber/v2"
)

func parseRequest(c *fiber.Ctx, req dto.Validator) error {
	if err := c.BodyParser(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return shared.NewValidationError(err, dto.FormatValidationErrors(err))
	}
	return nil
}

func currentUserID(c *fiber.Ctx) (string, error) {
	return requireUserID(c, "")
}

// requireUserID is currentUserID with a custom 401 message.
func requireUserID(c *fiber.Ctx, message string) (string, error) {
	userID, ok := c.Locals(shared.UserID).(string)
	if !ok || userID == "" {
		return "", shared.NewUnauthorizedError(nil, message)
	}
	return userID, nil
}
