package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/gateway"
	"github.com/sendfleet/campaigner/internal/observability"
	"github.com/sendfleet/campaigner/internal/ratelimit"
	"github.com/sendfleet/campaigner/internal/repository"
	"go.uber.org/zap"
)

// MessageService handles ad-hoc sends outside any campaign. The message row
// is created first so a gateway failure still leaves an auditable record.
type MessageService struct {
	messages    repository.MessageRepository
	contacts    repository.ContactRepository
	gateway     gateway.Client
	rateLimiter ratelimit.RateLimiter
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
	newID       func() string
}

func NewMessageService(
	messages repository.MessageRepository,
	contacts repository.ContactRepository,
	gatewayClient gateway.Client,
	rateLimiter ratelimit.RateLimiter,
	logger *zap.Logger,
) (*MessageService, error) {
	if messages == nil || contacts == nil {
		return nil, fmt.Errorf("message and contact repositories are required")
	}
	if gatewayClient == nil {
		return nil, fmt.Errorf("gateway client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MessageService{
		messages:    messages,
		contacts:    contacts,
		gateway:     gatewayClient,
		rateLimiter: rateLimiter,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}, nil
}

func (s *MessageService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// SendDirect sends one message to a contact synchronously and returns the
// stored row in its terminal state.
func (s *MessageService) SendDirect(ctx context.Context, contactID string, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: message body is required", domain.ErrValidation)
	}

	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if !contact.HasUsablePhone() {
		return nil, fmt.Errorf("%w: contact has no phone number", domain.ErrValidation)
	}

	msg := &domain.Message{
		ID:        s.newID(),
		ContactID: contact.ID,
		Body:      body,
		Status:    domain.MessageStatusPending,
		Type:      domain.MessageTypeText,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx, ratelimit.GatewayKey); err != nil {
			s.logger.Warn("rate limiter wait failed, continuing",
				zap.String("messageId", msg.ID),
				zap.Error(err),
			)
		}
	}

	sendStart := s.now()
	resp, sendErr := s.gateway.Send(ctx, gateway.SendRequest{
		To:   contact.Phone,
		Body: domain.RenderBody(body, contact.Name),
	})
	if s.metrics != nil {
		s.metrics.ObserveGatewaySendDuration(msg.Type.String(), s.now().Sub(sendStart))
	}

	if sendErr != nil {
		if err := s.messages.MarkFailed(ctx, msg.ID); err != nil {
			s.logger.Error("failed to mark message failed",
				zap.String("messageId", msg.ID),
				zap.Error(err),
			)
		}
		if s.metrics != nil {
			reason := "transport"
			if gateway.IsRejected(sendErr) {
				reason = "rejected"
			}
			s.metrics.IncMessageFailed(reason)
		}
		msg.Status = domain.MessageStatusFailed
		return msg, fmt.Errorf("failed to send message: %w", sendErr)
	}

	sentAt := s.now().UTC()
	messageID := ""
	if resp != nil {
		messageID = resp.MessageID
	}
	if err := s.messages.MarkSent(ctx, msg.ID, messageID, sentAt); err != nil {
		s.logger.Error("failed to mark message sent",
			zap.String("messageId", msg.ID),
			zap.Error(err),
		)
	}
	if s.metrics != nil {
		s.metrics.IncMessageSent()
	}

	msg.Status = domain.MessageStatusSent
	msg.SentAt = &sentAt
	if messageID != "" {
		msg.ProviderMessageID = &messageID
	}

	return msg, nil
}

// ListByContact returns a contact's message history oldest first.
func (s *MessageService) ListByContact(ctx context.Context, contactID string) ([]domain.Message, error) {
	return s.messages.ListByContact(ctx, contactID)
}

func (s *MessageService) Get(ctx context.Context, id string) (*domain.Message, error) {
	return s.messages.GetByID(ctx, id)
}
