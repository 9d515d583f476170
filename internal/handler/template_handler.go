package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/service"
)

type TemplateService interface {
	Create(ctx context.Context, input service.CreateTemplateInput) (*domain.Template, error)
	Get(ctx context.Context, id string) (*domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
	Update(ctx context.Context, id string, input service.CreateTemplateInput) (*domain.Template, error)
	Delete(ctx context.Context, id string) error
}

type TemplateHandler struct {
	service TemplateService
}

func NewTemplateHandler(templateService TemplateService) (*TemplateHandler, error) {
	if templateService == nil {
		return nil, fmt.Errorf("template service is required")
	}
	return &TemplateHandler{service: templateService}, nil
}

func RegisterTemplateRoutes(router fiber.Router, templateService TemplateService) error {
	h, err := NewTemplateHandler(templateService)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/templates", h.CreateTemplate)
	v1.Get("/templates", h.ListTemplates)
	v1.Get("/templates/:id", h.GetTemplate)
	v1.Put("/templates/:id", h.UpdateTemplate)
	v1.Delete("/templates/:id", h.DeleteTemplate)

	return nil
}

type templateRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

type templateResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *TemplateHandler) CreateTemplate(c *fiber.Ctx) error {
	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	template, err := h.service.Create(c.Context(), service.CreateTemplateInput(req))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTemplateResponse(template))
}

func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.service.List(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]templateResponse, 0, len(templates))
	for i := range templates {
		data = append(data, toTemplateResponse(&templates[i]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

func (h *TemplateHandler) GetTemplate(c *fiber.Ctx) error {
	template, err := h.service.Get(c.Context(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toTemplateResponse(template))
}

func (h *TemplateHandler) UpdateTemplate(c *fiber.Ctx) error {
	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	template, err := h.service.Update(c.Context(), strings.TrimSpace(c.Params("id")), service.CreateTemplateInput(req))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toTemplateResponse(template))
}

func (h *TemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if err := h.service.Delete(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deleted": id})
}

func toTemplateResponse(template *domain.Template) templateResponse {
	if template == nil {
		return templateResponse{}
	}

	return templateResponse{
		ID:        template.ID,
		Title:     template.Title,
		Body:      template.Body,
		Category:  template.Category,
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
}
