package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/repository"
	"go.uber.org/zap"
)

// MediaStore is the media persistence port used by campaign flows.
type MediaStore interface {
	Save(fileName string, data []byte) (string, error)
	Load(path string) (fileName string, mimeType string, data []byte, err error)
	Remove(path string) error
}

// MediaUpload is an incoming campaign attachment.
type MediaUpload struct {
	FileName string
	Data     []byte
}

// CreateCampaignInput carries everything needed to create a campaign and its
// per-contact message rows.
type CreateCampaignInput struct {
	Name         string
	TemplateBody string
	TargetGroup  string
	Media        *MediaUpload
}

// CampaignDetail is a campaign with its full message list.
type CampaignDetail struct {
	Campaign domain.Campaign
	Messages []domain.Message
}

type CampaignService struct {
	campaigns repository.CampaignRepository
	messages  repository.MessageRepository
	contacts  repository.ContactRepository
	media     MediaStore
	logger    *zap.Logger
	newID     func() string
}

func NewCampaignService(
	campaigns repository.CampaignRepository,
	messages repository.MessageRepository,
	contacts repository.ContactRepository,
	media MediaStore,
	logger *zap.Logger,
) (*CampaignService, error) {
	if campaigns == nil || messages == nil || contacts == nil {
		return nil, fmt.Errorf("campaign, message, and contact repositories are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CampaignService{
		campaigns: campaigns,
		messages:  messages,
		contacts:  contacts,
		media:     media,
		logger:    logger,
		newID:     uuid.NewString,
	}, nil
}

// Create stores the campaign as a draft and builds one pending message per
// contact in the target group. A group with no contacts still yields a valid
// campaign; its first batch run completes it immediately.
func (s *CampaignService) Create(ctx context.Context, input CreateCampaignInput) (*domain.Campaign, int, error) {
	campaign := &domain.Campaign{
		ID:           s.newID(),
		Name:         strings.TrimSpace(input.Name),
		TemplateBody: input.TemplateBody,
		TargetGroup:  strings.TrimSpace(input.TargetGroup),
		Status:       domain.CampaignStatusDraft,
	}
	if err := campaign.Validate(); err != nil {
		return nil, 0, err
	}

	if input.Media != nil {
		if s.media == nil {
			return nil, 0, fmt.Errorf("media store is not configured")
		}
		path, err := s.media.Save(input.Media.FileName, input.Media.Data)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to store campaign media: %w", err)
		}
		campaign.MediaPath = &path
	}

	recipients, err := s.contacts.ListByGroup(ctx, campaign.TargetGroup)
	if err != nil {
		s.cleanupMedia(campaign)
		return nil, 0, fmt.Errorf("failed to resolve target group: %w", err)
	}

	if err := s.campaigns.Create(ctx, campaign); err != nil {
		s.cleanupMedia(campaign)
		return nil, 0, fmt.Errorf("failed to create campaign: %w", err)
	}

	built, err := s.buildMessages(ctx, campaign, recipients)
	if err != nil {
		return nil, 0, err
	}

	s.logger.Info("campaign created",
		zap.String("campaignId", campaign.ID),
		zap.String("targetGroup", campaign.TargetGroup),
		zap.Int("messageCount", built),
	)

	return campaign, built, nil
}

func (s *CampaignService) List(ctx context.Context, page int, pageSize int) ([]repository.CampaignWithCounts, int64, error) {
	return s.campaigns.List(ctx, page, pageSize)
}

func (s *CampaignService) Get(ctx context.Context, id string) (*CampaignDetail, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign messages: %w", err)
	}

	return &CampaignDetail{Campaign: *campaign, Messages: messages}, nil
}

// Delete removes the campaign, its messages, and its stored media file.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.campaigns.Delete(ctx, id); err != nil {
		return err
	}

	s.cleanupMedia(campaign)

	s.logger.Info("campaign deleted", zap.String("campaignId", id))
	return nil
}

// Duplicate creates a fresh draft copy of a campaign with new pending
// messages built against the group's current membership. The media file is
// shared with the source campaign, not copied.
func (s *CampaignService) Duplicate(ctx context.Context, id string) (*domain.Campaign, int, error) {
	source, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	clone := &domain.Campaign{
		ID:           s.newID(),
		Name:         source.Name + " (Copy)",
		TemplateBody: source.TemplateBody,
		MediaPath:    source.MediaPath,
		TargetGroup:  source.TargetGroup,
		Status:       domain.CampaignStatusDraft,
	}

	recipients, err := s.contacts.ListByGroup(ctx, clone.TargetGroup)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve target group: %w", err)
	}

	if err := s.campaigns.Create(ctx, clone); err != nil {
		return nil, 0, fmt.Errorf("failed to create campaign copy: %w", err)
	}

	built, err := s.buildMessages(ctx, clone, recipients)
	if err != nil {
		return nil, 0, err
	}

	s.logger.Info("campaign duplicated",
		zap.String("sourceId", id),
		zap.String("campaignId", clone.ID),
	)

	return clone, built, nil
}

func (s *CampaignService) buildMessages(ctx context.Context, campaign *domain.Campaign, recipients []domain.Contact) (int, error) {
	if len(recipients) == 0 {
		return 0, nil
	}

	messageType := domain.MessageTypeText
	if campaign.HasMedia() {
		messageType = domain.MessageTypeMedia
	}

	rows := make([]*domain.Message, 0, len(recipients))
	for i := range recipients {
		rows = append(rows, &domain.Message{
			ID:         s.newID(),
			CampaignID: &campaign.ID,
			ContactID:  recipients[i].ID,
			Body:       campaign.TemplateBody,
			Status:     domain.MessageStatusPending,
			Type:       messageType,
		})
	}

	if err := s.messages.CreateBatch(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to create campaign messages: %w", err)
	}
	return len(rows), nil
}

// cleanupMedia best-effort removes a campaign's media file. Duplicated
// campaigns share the source file, so removal errors are only logged.
func (s *CampaignService) cleanupMedia(campaign *domain.Campaign) {
	if s.media == nil || campaign == nil || !campaign.HasMedia() {
		return
	}
	if err := s.media.Remove(*campaign.MediaPath); err != nil {
		s.logger.Warn("failed to remove campaign media",
			zap.String("campaignId", campaign.ID),
			zap.Error(err),
		)
	}
}
