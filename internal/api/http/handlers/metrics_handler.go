package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fixora/helpdesk/internal/service"
)

// MetricsHandler serves dashboard statistics.
type MetricsHandler struct {
	dashboard *service.DashboardService
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(dashboard *service.DashboardService) *MetricsHandler {
	return &MetricsHandler{dashboard: dashboard}
}

// Dashboard GET /metrics/dashboard.
func (h *MetricsHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// TicketsByCategory GET /metrics/tickets-by-category.
func (h *MetricsHandler) TicketsByCategory(c *fiber.Ctx) error {
	counts, err := h.dashboard.TicketsByCategory(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// TicketsByStatus GET /metrics/tickets-by-status.
func (h *MetricsHandler) TicketsByStatus(c *fiber.Ctx) error {
	counts, err := h.dashboard.TicketsByStatus(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// TicketsByPriority GET /metrics/tickets-by-priority.
func (h *MetricsHandler) TicketsByPriority(c *fiber.Ctx) error {
	counts, err := h.dashboard.TicketsByPriority(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}
