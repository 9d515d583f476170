package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sendfleet/campaigner/internal/gateway"
)

type SessionManager interface {
	State() gateway.SessionState
	Status(ctx context.Context) (*gateway.SessionStatus, error)
	Initialize(ctx context.Context) (gateway.SessionState, error)
	Disconnect(ctx context.Context) error
	Reset(ctx context.Context) error
}

type SessionHandler struct {
	sessions SessionManager
}

func NewSessionHandler(sessions SessionManager) (*SessionHandler, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &SessionHandler{sessions: sessions}, nil
}

func RegisterSessionRoutes(router fiber.Router, sessions SessionManager) error {
	h, err := NewSessionHandler(sessions)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/session/status", h.SessionStatus)
	v1.Post("/session/initialize", h.InitializeSession)
	v1.Post("/session/disconnect", h.DisconnectSession)
	v1.Post("/session/reset", h.ResetSession)

	return nil
}

// SessionStatus reports the live gateway session. When the gateway is
// unreachable the last locally observed state is returned instead of an
// error, so the UI keeps rendering.
func (h *SessionHandler) SessionStatus(c *fiber.Ctx) error {
	status, err := h.sessions.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(gateway.SessionStatus{State: h.sessions.State()})
	}
	return c.Status(fiber.StatusOK).JSON(status)
}

func (h *SessionHandler) InitializeSession(c *fiber.Ctx) error {
	state, err := h.sessions.Initialize(c.Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": state})
}

func (h *SessionHandler) DisconnectSession(c *fiber.Ctx) error {
	if err := h.sessions.Disconnect(c.Context()); err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": gateway.SessionDisconnected})
}

func (h *SessionHandler) ResetSession(c *fiber.Ctx) error {
	if err := h.sessions.Reset(c.Context()); err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": gateway.SessionDisconnected})
}
