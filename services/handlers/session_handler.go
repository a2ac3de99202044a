package handlers

import (
	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	sessionSvc SessionServiceInterface
}

func NewSessionHandler(sessionSvc SessionServiceInterface) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
	}
}

// @Summary List focus sessions
// @Description Newest first
// @Tags sessions
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} shared.Response{data=dto.SessionListResponse}
// @Router /api/v1/sessions [get]
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	sessions, err := h.sessionSvc.ListSessions(c.UserContext(), userID, c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", sessions)
}

// @Summary Start a focus session
// @Tags sessions
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.StartSessionRequest true "Planned duration in seconds"
// @Success 201 {object} shared.Response{data=dto.FocusSessionResponse}
// @Failure 409 {object} shared.Response
// @Router /api/v1/sessions [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.StartSessionRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	session, err := h.sessionSvc.StartSession(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseCreated(c, session)
}

// @Summary Get the running focus session
// @Tags sessions
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.FocusSessionResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/sessions/active [get]
func (h *SessionHandler) GetActiveSession(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	session, err := h.sessionSvc.GetActiveSession(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Get a focus session
// @Tags sessions
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.FocusSessionResponse}
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	session, err := h.sessionSvc.GetSession(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Complete a focus session
// @Tags sessions
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Session ID"
// @Param request body dto.CompleteSessionRequest false "Focused time as HH:MM:SS"
// @Success 200 {object} shared.Response{data=dto.FocusSessionResponse}
// @Failure 409 {object} shared.Response
// @Router /api/v1/sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CompleteSessionRequest
	if len(c.Body()) > 0 {
		if err := parseRequest(c, &req); err != nil {
			return err
		}
	}

	session, err := h.sessionSvc.CompleteSession(c.UserContext(), userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Focus session completed", session)
}

// @Summary Delete a focus session
// @Tags sessions
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.sessionSvc.DeleteSession(c.UserContext(), userID, c.Params("id")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
