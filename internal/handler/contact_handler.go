package handler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/service"
)

type ContactService interface {
	Create(ctx context.Context, input service.CreateContactInput) (*domain.Contact, error)
	Get(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, group string, search string) ([]domain.Contact, error)
	Update(ctx context.Context, id string, input service.CreateContactInput) (*domain.Contact, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	History(ctx context.Context, contactID string) ([]domain.Message, error)
	ImportCSV(ctx context.Context, r io.Reader) (*service.ImportResult, error)
}

type ContactHandler struct {
	service ContactService
}

func NewContactHandler(contactService ContactService) (*ContactHandler, error) {
	if contactService == nil {
		return nil, fmt.Errorf("contact service is required")
	}
	return &ContactHandler{service: contactService}, nil
}

func RegisterContactRoutes(router fiber.Router, contactService ContactService) error {
	h, err := NewContactHandler(contactService)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/contacts", h.CreateContact)
	v1.Get("/contacts", h.ListContacts)
	v1.Post("/contacts/import", h.ImportContacts)
	v1.Post("/contacts/bulk-delete", h.BulkDeleteContacts)
	v1.Get("/contacts/:id", h.GetContact)
	v1.Put("/contacts/:id", h.UpdateContact)
	v1.Delete("/contacts/:id", h.DeleteContact)
	v1.Get("/contacts/:id/messages", h.ContactHistory)

	return nil
}

type contactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Group string `json:"group"`
	Email string `json:"email"`
}

type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Group     string    `json:"group"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *ContactHandler) CreateContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	contact, err := h.service.Create(c.Context(), service.CreateContactInput(req))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toContactResponse(contact))
}

func (h *ContactHandler) ListContacts(c *fiber.Ctx) error {
	contacts, err := h.service.List(c.Context(), c.Query("group"), c.Query("search"))
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]contactResponse, 0, len(contacts))
	for i := range contacts {
		data = append(data, toContactResponse(&contacts[i]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

func (h *ContactHandler) GetContact(c *fiber.Ctx) error {
	contact, err := h.service.Get(c.Context(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toContactResponse(contact))
}

func (h *ContactHandler) UpdateContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	contact, err := h.service.Update(c.Context(), strings.TrimSpace(c.Params("id")), service.CreateContactInput(req))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toContactResponse(contact))
}

func (h *ContactHandler) DeleteContact(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if err := h.service.Delete(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deleted": id})
}

func (h *ContactHandler) BulkDeleteContacts(c *fiber.Ctx) error {
	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	deleted, err := h.service.DeleteMany(c.Context(), req.IDs)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deleted": deleted})
}

func (h *ContactHandler) ContactHistory(c *fiber.Ctx) error {
	messages, err := h.service.History(c.Context(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": toMessageResponses(messages)})
}

// ImportContacts accepts a multipart CSV upload under the "file" field.
func (h *ContactHandler) ImportContacts(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "csv file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unreadable csv upload")
	}
	defer file.Close()

	result, err := h.service.ImportCSV(c.Context(), file)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func toContactResponse(contact *domain.Contact) contactResponse {
	if contact == nil {
		return contactResponse{}
	}

	return contactResponse{
		ID:        contact.ID,
		Name:      contact.Name,
		Phone:     contact.Phone,
		Group:     contact.Group,
		Email:     contact.Email,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
}
