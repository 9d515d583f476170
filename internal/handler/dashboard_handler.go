package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sendfleet/campaigner/internal/service"
)

type DashboardService interface {
	Stats(ctx context.Context) (*service.DashboardStats, error)
	RecentActivity(ctx context.Context) (*service.RecentActivity, error)
	ChartData(ctx context.Context) ([]service.ChartPoint, error)
	Analytics(ctx context.Context) (*service.Analytics, error)
}

type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(dashboardService DashboardService) (*DashboardHandler, error) {
	if dashboardService == nil {
		return nil, fmt.Errorf("dashboard service is required")
	}
	return &DashboardHandler{service: dashboardService}, nil
}

func RegisterDashboardRoutes(router fiber.Router, dashboardService DashboardService) error {
	h, err := NewDashboardHandler(dashboardService)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/dashboard/stats", h.Stats)
	v1.Get("/dashboard/recent-activity", h.RecentActivity)
	v1.Get("/dashboard/chart-data", h.ChartData)
	v1.Get("/analytics", h.Analytics)

	return nil
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *DashboardHandler) RecentActivity(c *fiber.Ctx) error {
	activity, err := h.service.RecentActivity(c.Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(activity)
}

func (h *DashboardHandler) ChartData(c *fiber.Ctx) error {
	points, err := h.service.ChartData(c.Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": points})
}

func (h *DashboardHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.service.Analytics(c.Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(analytics)
}
