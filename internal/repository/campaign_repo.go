package repository

import (
	"context"
	"errors"

	"github.com/sendfleet/campaigner/internal/domain"
	"gorm.io/gorm"
)

// CampaignWithCounts is a campaign list row enriched with message totals.
type CampaignWithCounts struct {
	Campaign     domain.Campaign
	MessageCount int
	SentCount    int
}

type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, page int, pageSize int) ([]CampaignWithCounts, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Campaign, error)
}

type GormCampaignRepo struct {
	db *gorm.DB
}

func NewGormCampaignRepo(db *gorm.DB) *GormCampaignRepo {
	return &GormCampaignRepo{db: db}
}

func (r *GormCampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	model := campaignModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if c != nil {
		*c = *campaignModelToDomain(model)
	}
	return nil
}

func (r *GormCampaignRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	var model CampaignModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return campaignModelToDomain(&model), nil
}

type campaignCountRow struct {
	CampaignModel
	MessageCount int `gorm:"column:message_count"`
	SentCount    int `gorm:"column:sent_count"`
}

func (r *GormCampaignRepo) List(ctx context.Context, page int, pageSize int) ([]CampaignWithCounts, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&CampaignModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = max(page, 1)
	if pageSize < 1 {
		pageSize = 20
	}
	pageSize = min(pageSize, 100)

	var rows []campaignCountRow
	err := r.db.WithContext(ctx).
		Model(&CampaignModel{}).
		Select(`campaigns.*,
			COUNT(messages.id) AS message_count,
			COUNT(messages.id) FILTER (WHERE messages.status = ?) AS sent_count`,
			domain.MessageStatusSent).
		Joins("LEFT JOIN messages ON messages.campaign_id = campaigns.id").
		Group("campaigns.id").
		Order("campaigns.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	campaigns := make([]CampaignWithCounts, 0, len(rows))
	for i := range rows {
		campaigns = append(campaigns, CampaignWithCounts{
			Campaign:     *campaignModelToDomain(&rows[i].CampaignModel),
			MessageCount: rows[i].MessageCount,
			SentCount:    rows[i].SentCount,
		})
	}

	return campaigns, total, nil
}

func (r *GormCampaignRepo) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	result := r.db.WithContext(ctx).
		Model(&CampaignModel{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a campaign and all messages it owns.
func (r *GormCampaignRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&MessageModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&CampaignModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *GormCampaignRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&CampaignModel{}).Count(&total).Error
	return total, err
}

func (r *GormCampaignRepo) ListRecent(ctx context.Context, limit int) ([]domain.Campaign, error) {
	if limit < 1 {
		limit = 3
	}

	var models []CampaignModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	campaigns := make([]domain.Campaign, 0, len(models))
	for i := range models {
		campaigns = append(campaigns, *campaignModelToDomain(&models[i]))
	}
	return campaigns, nil
}
