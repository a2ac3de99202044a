package handlers

import (
	"github.com/focusflow/focusflow_api/shared"
	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	statsSvc StatsServiceInterface
}

func NewStatsHandler(statsSvc StatsServiceInterface) *StatsHandler {
	return &StatsHandler{
		statsSvc: statsSvc,
	}
}

// @Summary Get my stats
// @Description Full statistics snapshot of the authenticated user
// @Tags stats
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.StatsSnapshot}
// @Failure 401 {object} shared.Response
// @Router /api/v1/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	userID, err := requireUserID(c, shared.StatsLoginMessage)
	if err != nil {
		return err
	}

	stats, err := h.statsSvc.GetStats(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}

// @Summary Get stats by user UUID
// @Tags stats
// @Produce json
// @Param uuid path string true "User UUID"
// @Success 200 {object} shared.Response{data=dto.StatsSnapshot}
// @Failure 404 {object} shared.Response
// @Router /api/v1/stats/uuid/{uuid} [get]
func (h *StatsHandler) GetStatsByUUID(c *fiber.Ctx) error {
	stats, err := h.statsSvc.GetStatsByUUID(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}

// @Summary Get my total focus time
// @Tags stats
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.ActualTimeResponse}
// @Router /api/v1/stats/actual-time [get]
func (h *StatsHandler) GetTotalActualTime(c *fiber.Ctx) error {
	userID, err := requireUserID(c, shared.StatsLoginMessage)
	if err != nil {
		return err
	}

	total, err := h.statsSvc.GetTotalActualTime(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", total)
}

// @Summary Get total focus time by user UUID
// @Tags stats
// @Produce json
// @Param uuid path string true "User UUID"
// @Success 200 {object} shared.Response{data=dto.ActualTimeResponse}
// @Router /api/v1/stats/actual-time/uuid/{uuid} [get]
func (h *StatsHandler) GetTotalActualTimeByUUID(c *fiber.Ctx) error {
	total, err := h.statsSvc.GetTotalActualTimeByUUID(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", total)
}

// @Summary Public platform stats
// @Tags stats
// @Produce json
// @Success 200 {object} shared.Response{data=dto.PublicStatsResponse}
// @Router /api/v1/stats/public [get]
func (h *StatsHandler) GetPublicStats(c *fiber.Ctx) error {
	stats, err := h.statsSvc.GetPublicAggregate(c.UserContext())
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}

// @Summary Stats health
// @Tags health
// @Produce json
// @Success 200 {object} shared.Response{data=dto.StatsHealthResponse}
// @Router /api/v1/stats/health [get]
func (h *StatsHandler) Health(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", h.statsSvc.Health(c.UserContext()))
}
