package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type SettingService interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, values map[string]string) error
}

type SettingHandler struct {
	service SettingService
}

func NewSettingHandler(settingService SettingService) (*SettingHandler, error) {
	if settingService == nil {
		return nil, fmt.Errorf("setting service is required")
	}
	return &SettingHandler{service: settingService}, nil
}

func RegisterSettingRoutes(router fiber.Router, settingService SettingService) error {
	h, err := NewSettingHandler(settingService)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/settings", h.GetSettings)
	v1.Put("/settings", h.UpdateSettings)

	return nil
}

func (h *SettingHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetAll(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(settings)
}

func (h *SettingHandler) UpdateSettings(c *fiber.Ctx) error {
	var values map[string]string
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Update(c.Context(), values); err != nil {
		return toHTTPError(err)
	}

	settings, err := h.service.GetAll(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(settings)
}
