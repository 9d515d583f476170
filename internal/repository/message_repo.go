package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sendfleet/campaigner/internal/domain"
	"gorm.io/gorm"
)

// StatusCount is one row of a status breakdown aggregate.
type StatusCount struct {
	Status domain.MessageStatus `gorm:"column:status"`
	Count  int                  `gorm:"column:count"`
}

// DayCount is one day's message volume for dashboard charts.
type DayCount struct {
	Day    time.Time            `gorm:"column:day"`
	Status domain.MessageStatus `gorm:"column:status"`
	Count  int                  `gorm:"column:count"`
}

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	CreateBatch(ctx context.Context, messages []*domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	ListByContact(ctx context.Context, contactID string) ([]domain.Message, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Message, error)

	// ClaimPendingBatch atomically moves up to limit of the campaign's oldest
	// pending messages to the sending state and returns them oldest first.
	// Rows claimed here are invisible to concurrent claims.
	ClaimPendingBatch(ctx context.Context, campaignID string, limit int) ([]domain.Message, error)
	CountPending(ctx context.Context, campaignID string) (int64, error)

	UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) error
	MarkSent(ctx context.Context, id string, providerMessageID string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string) error

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByDay(ctx context.Context, since time.Time) ([]DayCount, error)
}

type GormMessageRepo struct {
	db *gorm.DB
}

func NewGormMessageRepo(db *gorm.DB) *GormMessageRepo {
	return &GormMessageRepo{db: db}
}

func (r *GormMessageRepo) Create(ctx context.Context, m *domain.Message) error {
	model := messageModelFromDomain(m)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if m != nil {
		*m = *messageModelToDomain(model)
	}
	return nil
}

func (r *GormMessageRepo) CreateBatch(ctx context.Context, messages []*domain.Message) error {
	models := make([]MessageModel, 0, len(messages))
	for _, m := range messages {
		if model := messageModelFromDomain(m); model != nil {
			models = append(models, *model)
		}
	}
	if len(models) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).CreateInBatches(&models, 500).Error
}

func (r *GormMessageRepo) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	var model MessageModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return messageModelToDomain(&model), nil
}

func (r *GormMessageRepo) ListByContact(ctx context.Context, contactID string) ([]domain.Message, error) {
	var models []MessageModel
	err := r.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(models))
	for i := range models {
		messages = append(messages, *messageModelToDomain(&models[i]))
	}
	return messages, nil
}

func (r *GormMessageRepo) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Message, error) {
	var models []MessageModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(models))
	for i := range models {
		messages = append(messages, *messageModelToDomain(&models[i]))
	}
	return messages, nil
}

func (r *GormMessageRepo) ClaimPendingBatch(ctx context.Context, campaignID string, limit int) ([]domain.Message, error) {
	if limit < 1 {
		return nil, nil
	}

	var models []MessageModel
	err := r.db.WithContext(ctx).Raw(`
		UPDATE messages SET status = ?, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM messages
			WHERE campaign_id = ? AND status = ?
			ORDER BY created_at ASC, id ASC
			LIMIT ?
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`,
		domain.MessageStatusSending, campaignID, domain.MessageStatusPending, limit,
	).Scan(&models).Error
	if err != nil {
		return nil, err
	}

	// RETURNING does not guarantee order; restore FIFO here.
	sort.Slice(models, func(i, j int) bool {
		if models[i].CreatedAt.Equal(models[j].CreatedAt) {
			return models[i].ID < models[j].ID
		}
		return models[i].CreatedAt.Before(models[j].CreatedAt)
	})

	messages := make([]domain.Message, 0, len(models))
	for i := range models {
		messages = append(messages, *messageModelToDomain(&models[i]))
	}
	return messages, nil
}

func (r *GormMessageRepo) CountPending(ctx context.Context, campaignID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("campaign_id = ? AND status = ?", campaignID, domain.MessageStatusPending).
		Count(&total).Error
	return total, err
}

func (r *GormMessageRepo) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) error {
	result := r.db.WithContext(ctx).
		Model(&MessageModel{}).
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

func (r *GormMessageRepo) MarkSent(ctx context.Context, id string, providerMessageID string, sentAt time.Time) error {
	updates := map[string]any{
		"status":  domain.MessageStatusSent,
		"sent_at": sentAt,
	}
	if providerMessageID != "" {
		updates["provider_message_id"] = providerMessageID
	}

	result := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormMessageRepo) MarkFailed(ctx context.Context, id string) error {
	return r.UpdateStatus(ctx, id, domain.MessageStatusFailed)
}

func (r *GormMessageRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&MessageModel{}).Count(&total).Error
	return total, err
}

func (r *GormMessageRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *GormMessageRepo) CountByDay(ctx context.Context, since time.Time) ([]DayCount, error) {
	var counts []DayCount
	err := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Select("DATE_TRUNC('day', created_at) AS day, status, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("day, status").
		Order("day ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
