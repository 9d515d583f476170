package repository

import (
	"time"

	"github.com/sendfleet/campaigner/internal/domain"
)

// CampaignModel is the persistence model for the campaigns table.
type CampaignModel struct {
	ID           string                `gorm:"type:uuid;primaryKey"`
	Name         string                `gorm:"type:varchar(255);not null"`
	TemplateBody string                `gorm:"type:text;not null"`
	MediaPath    *string               `gorm:"type:varchar(512)"`
	TargetGroup  string                `gorm:"type:varchar(255);not null"`
	Status       domain.CampaignStatus `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CampaignModel) TableName() string {
	return "campaigns"
}

// MessageModel is the persistence model for the messages table.
type MessageModel struct {
	ID                string               `gorm:"type:uuid;primaryKey"`
	CampaignID        *string              `gorm:"type:uuid;index"`
	ContactID         string               `gorm:"type:uuid;not null"`
	Body              string               `gorm:"type:text;not null"`
	Status            domain.MessageStatus `gorm:"type:varchar(20);not null"`
	Type              domain.MessageType   `gorm:"type:varchar(10);not null"`
	ProviderMessageID *string              `gorm:"type:varchar(255)"`
	SentAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (MessageModel) TableName() string {
	return "messages"
}

// ContactModel is the persistence model for the contacts table.
type ContactModel struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	Name      string  `gorm:"type:varchar(255);not null"`
	Phone     string  `gorm:"type:varchar(32);not null;uniqueIndex"`
	Group     string  `gorm:"column:contact_group;type:varchar(255);not null"`
	Email     *string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ContactModel) TableName() string {
	return "contacts"
}

// TemplateModel is the persistence model for the templates table.
type TemplateModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Title     string `gorm:"type:varchar(255);not null"`
	Body      string `gorm:"type:text;not null"`
	Category  string `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TemplateModel) TableName() string {
	return "templates"
}

// SettingModel is the persistence model for the settings table.
type SettingModel struct {
	Key       string `gorm:"type:varchar(255);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SettingModel) TableName() string {
	return "settings"
}

func campaignModelFromDomain(c *domain.Campaign) *CampaignModel {
	if c == nil {
		return nil
	}

	return &CampaignModel{
		ID:           c.ID,
		Name:         c.Name,
		TemplateBody: c.TemplateBody,
		MediaPath:    c.MediaPath,
		TargetGroup:  c.TargetGroup,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func campaignModelToDomain(m *CampaignModel) *domain.Campaign {
	if m == nil {
		return nil
	}

	return &domain.Campaign{
		ID:           m.ID,
		Name:         m.Name,
		TemplateBody: m.TemplateBody,
		MediaPath:    m.MediaPath,
		TargetGroup:  m.TargetGroup,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func messageModelFromDomain(msg *domain.Message) *MessageModel {
	if msg == nil {
		return nil
	}

	return &MessageModel{
		ID:                msg.ID,
		CampaignID:        msg.CampaignID,
		ContactID:         msg.ContactID,
		Body:              msg.Body,
		Status:            msg.Status,
		Type:              msg.Type,
		ProviderMessageID: msg.ProviderMessageID,
		SentAt:            msg.SentAt,
		CreatedAt:         msg.CreatedAt,
		UpdatedAt:         msg.UpdatedAt,
	}
}

func messageModelToDomain(m *MessageModel) *domain.Message {
	if m == nil {
		return nil
	}

	return &domain.Message{
		ID:                m.ID,
		CampaignID:        m.CampaignID,
		ContactID:         m.ContactID,
		Body:              m.Body,
		Status:            m.Status,
		Type:              m.Type,
		ProviderMessageID: m.ProviderMessageID,
		SentAt:            m.SentAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func contactModelFromDomain(c *domain.Contact) *ContactModel {
	if c == nil {
		return nil
	}

	return &ContactModel{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Group:     c.Group,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func contactModelToDomain(m *ContactModel) *domain.Contact {
	if m == nil {
		return nil
	}

	return &domain.Contact{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Group:     m.Group,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func templateModelFromDomain(t *domain.Template) *TemplateModel {
	if t == nil {
		return nil
	}

	return &TemplateModel{
		ID:        t.ID,
		Title:     t.Title,
		Body:      t.Body,
		Category:  t.Category,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func templateModelToDomain(m *TemplateModel) *domain.Template {
	if m == nil {
		return nil
	}

	return &domain.Template{
		ID:        m.ID,
		Title:     m.Title,
		Body:      m.Body,
		Category:  m.Category,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
