package handler

import (
	"github.com/gofiber/fiber/v2"

	"student-housing/internal/middleware"
	"student-housing/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
