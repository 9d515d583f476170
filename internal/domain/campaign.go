package domain

import (
	"fmt"
	"strings"
	"time"
)

// CampaignStatus represents the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
)

func (s CampaignStatus) String() string { return string(s) }

func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next. Transitions are
// forward-only: draft -> active -> completed. A completed campaign is never
// reopened; duplication creates a fresh draft instead.
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	switch s {
	case CampaignStatusDraft:
		return next == CampaignStatusActive || next == CampaignStatusCompleted
	case CampaignStatusActive:
		return next == CampaignStatusCompleted
	}
	return false
}

func ParseCampaignStatusFromString(s string) (CampaignStatus, error) {
	st := CampaignStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid campaign status %q", ErrValidation, s)
	}
	return st, nil
}

// TargetGroupAll selects every contact regardless of group label.
const TargetGroupAll = "All Contacts"

// PlaceholderName is the template token substituted with the contact name at
// send time.
const PlaceholderName = "{name}"

// FallbackContactName replaces PlaceholderName when a contact has no name.
const FallbackContactName = "Friend"

// Campaign is a named bulk-send job targeting a contact group with one
// message template. It exclusively owns its messages.
type Campaign struct {
	ID           string
	Name         string
	TemplateBody string
	MediaPath    *string
	TargetGroup  string
	Status       CampaignStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c *Campaign) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: campaign name is required", ErrValidation)
	}
	if strings.TrimSpace(c.TemplateBody) == "" {
		return fmt.Errorf("%w: template body is required", ErrValidation)
	}
	if strings.TrimSpace(c.TargetGroup) == "" {
		return fmt.Errorf("%w: target group is required", ErrValidation)
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("%w: invalid campaign status %q", ErrValidation, c.Status)
	}
	return nil
}

// HasMedia reports whether sends for this campaign carry a media payload.
func (c *Campaign) HasMedia() bool {
	return c.MediaPath != nil && strings.TrimSpace(*c.MediaPath) != ""
}

// RenderBody substitutes the {name} placeholder in body with the contact
// display name, falling back to "Friend" when the name is blank.
func RenderBody(body string, contactName string) string {
	name := strings.TrimSpace(contactName)
	if name == "" {
		name = FallbackContactName
	}
	return strings.ReplaceAll(body, PlaceholderName, name)
}
