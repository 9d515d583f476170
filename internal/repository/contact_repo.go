package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sendfleet/campaigner/internal/domain"
	"gorm.io/gorm"
)

// ContactFilter narrows contact listings.
type ContactFilter struct {
	Group  string
	Search string
}

type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, filter ContactFilter) ([]domain.Contact, error)
	ListByGroup(ctx context.Context, group string) ([]domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Contact, error)
}

type GormContactRepo struct {
	db *gorm.DB
}

func NewGormContactRepo(db *gorm.DB) *GormContactRepo {
	return &GormContactRepo{db: db}
}

func (r *GormContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	model := contactModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if c != nil {
		*c = *contactModelToDomain(model)
	}
	return nil
}

func (r *GormContactRepo) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	var model ContactModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return contactModelToDomain(&model), nil
}

func (r *GormContactRepo) List(ctx context.Context, filter ContactFilter) ([]domain.Contact, error) {
	query := r.db.WithContext(ctx).Model(&ContactModel{})

	if filter.Group != "" {
		query = query.Where("contact_group = ?", filter.Group)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone LIKE ?", like, like)
	}

	var models []ContactModel
	if err := query.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	contacts := make([]domain.Contact, 0, len(models))
	for i := range models {
		contacts = append(contacts, *contactModelToDomain(&models[i]))
	}
	return contacts, nil
}

// ListByGroup resolves a campaign target group to its contacts. The
// "All Contacts" group selects everyone.
func (r *GormContactRepo) ListByGroup(ctx context.Context, group string) ([]domain.Contact, error) {
	filter := ContactFilter{}
	if group != domain.TargetGroupAll {
		filter.Group = group
	}
	return r.List(ctx, filter)
}

func (r *GormContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	model := contactModelFromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&ContactModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":          model.Name,
			"phone":         model.Phone,
			"contact_group": model.Group,
			"email":         model.Email,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormContactRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&ContactModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormContactRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Delete(&ContactModel{}, "id IN ?", ids)
	return result.RowsAffected, result.Error
}

func (r *GormContactRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ContactModel{}).
		Where("phone = ?", phone).
		Count(&count).Error
	return count > 0, err
}

func (r *GormContactRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&ContactModel{}).Count(&total).Error
	return total, err
}

func (r *GormContactRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&ContactModel{}).
		Where("created_at >= ?", since).
		Count(&total).Error
	return total, err
}

func (r *GormContactRepo) ListRecent(ctx context.Context, limit int) ([]domain.Contact, error) {
	if limit < 1 {
		limit = 3
	}

	var models []ContactModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	contacts := make([]domain.Contact, 0, len(models))
	for i := range models {
		contacts = append(contacts, *contactModelToDomain(&models[i]))
	}
	return contacts, nil
}
