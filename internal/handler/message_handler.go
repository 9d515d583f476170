package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sendfleet/campaigner/internal/domain"
)

type MessageService interface {
	SendDirect(ctx context.Context, contactID string, body string) (*domain.Message, error)
	ListByContact(ctx context.Context, contactID string) ([]domain.Message, error)
	Get(ctx context.Context, id string) (*domain.Message, error)
}

type MessageHandler struct {
	service MessageService
}

func NewMessageHandler(messageService MessageService) (*MessageHandler, error) {
	if messageService == nil {
		return nil, fmt.Errorf("message service is required")
	}
	return &MessageHandler{service: messageService}, nil
}

func RegisterMessageRoutes(router fiber.Router, messageService MessageService) error {
	h, err := NewMessageHandler(messageService)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/messages", h.SendMessage)
	v1.Get("/messages", h.ListMessages)
	v1.Get("/messages/:id", h.GetMessage)

	return nil
}

type sendMessageRequest struct {
	ContactID string `json:"contact_id"`
	Body      string `json:"body"`
}

type messageResponse struct {
	ID                string     `json:"id"`
	CampaignID        *string    `json:"campaign_id,omitempty"`
	ContactID         string     `json:"contact_id"`
	Body              string     `json:"body"`
	Status            string     `json:"status"`
	Type              string     `json:"type"`
	ProviderMessageID *string    `json:"provider_message_id,omitempty"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.ContactID) == "" {
		return toHTTPError(fmt.Errorf("%w: contact_id is required", domain.ErrValidation))
	}

	msg, err := h.service.SendDirect(c.Context(), req.ContactID, req.Body)
	if err != nil {
		// The failed row is persisted, the client only sees the error.
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toMessageResponse(msg))
}

func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	contactID := strings.TrimSpace(c.Query("contactId"))
	if contactID == "" {
		return toHTTPError(fmt.Errorf("%w: contactId query parameter is required", domain.ErrValidation))
	}

	messages, err := h.service.ListByContact(c.Context(), contactID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": toMessageResponses(messages)})
}

func (h *MessageHandler) GetMessage(c *fiber.Ctx) error {
	msg, err := h.service.Get(c.Context(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toMessageResponse(msg))
}

func toMessageResponse(msg *domain.Message) messageResponse {
	if msg == nil {
		return messageResponse{}
	}

	return messageResponse{
		ID:                msg.ID,
		CampaignID:        msg.CampaignID,
		ContactID:         msg.ContactID,
		Body:              msg.Body,
		Status:            msg.Status.String(),
		Type:              msg.Type.String(),
		ProviderMessageID: msg.ProviderMessageID,
		SentAt:            msg.SentAt,
		CreatedAt:         msg.CreatedAt,
	}
}

func toMessageResponses(messages []domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, toMessageResponse(&messages[i]))
	}
	return out
}
