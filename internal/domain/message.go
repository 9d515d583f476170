package domain

import (
	"fmt"
	"strings"
	"time"
)

// MessageStatus represents the delivery state of a message.
type MessageStatus string

const (
	MessageStatusPending MessageStatus = "pending"
	// MessageStatusSending is the transitional claimed state a dispatcher
	// moves rows through between fetch and outcome, so concurrent batch
	// calls never dispatch the same row twice.
	MessageStatusSending MessageStatus = "sending"
	MessageStatusSent    MessageStatus = "sent"
	MessageStatusFailed  MessageStatus = "failed"
)

func (s MessageStatus) String() string { return string(s) }

func (s MessageStatus) IsValid() bool {
	switch s {
	case MessageStatusPending, MessageStatusSending, MessageStatusSent, MessageStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further delivery attempt mutates the status.
func (s MessageStatus) IsTerminal() bool {
	return s == MessageStatusSent || s == MessageStatusFailed
}

// CanTransitionTo reports whether the status may move to next. Statuses are
// monotonic for a send attempt: sent and failed are terminal, and nothing
// moves back to pending.
func (s MessageStatus) CanTransitionTo(next MessageStatus) bool {
	if s == next {
		// Repeating a terminal write is a no-op, not a violation.
		return s.IsTerminal()
	}
	switch s {
	case MessageStatusPending:
		return next == MessageStatusSending || next == MessageStatusSent || next == MessageStatusFailed
	case MessageStatusSending:
		return next == MessageStatusSent || next == MessageStatusFailed
	}
	return false
}

func ParseMessageStatusFromString(s string) (MessageStatus, error) {
	st := MessageStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid message status %q", ErrValidation, s)
	}
	return st, nil
}

// MessageType distinguishes text-only sends from sends carrying media.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeMedia MessageType = "media"
)

func (t MessageType) String() string { return string(t) }

func (t MessageType) IsValid() bool {
	return t == MessageTypeText || t == MessageTypeMedia
}

// Message is one outbound delivery owed to a contact. CampaignID is nil for
// ad-hoc/direct messages sent outside any campaign.
type Message struct {
	ID                string
	CampaignID        *string
	ContactID         string
	Body              string
	Status            MessageStatus
	Type              MessageType
	ProviderMessageID *string
	SentAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (m *Message) Validate() error {
	if strings.TrimSpace(m.ContactID) == "" {
		return fmt.Errorf("%w: contact id is required", ErrValidation)
	}
	if strings.TrimSpace(m.Body) == "" {
		return fmt.Errorf("%w: message body is required", ErrValidation)
	}
	if !m.Status.IsValid() {
		return fmt.Errorf("%w: invalid message status %q", ErrValidation, m.Status)
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("%w: invalid message type %q", ErrValidation, m.Type)
	}
	return nil
}
