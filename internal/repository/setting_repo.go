package repository

import (
	"context"

	"github.com/sendfleet/campaigner/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key string, value string) error
}

type GormSettingRepo struct {
	db *gorm.DB
}

func NewGormSettingRepo(db *gorm.DB) *GormSettingRepo {
	return &GormSettingRepo{db: db}
}

func (r *GormSettingRepo) GetAll(ctx context.Context) (map[string]string, error) {
	var models []SettingModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(models)+1)
	for _, m := range models {
		settings[m.Key] = m.Value
	}
	if _, ok := settings[domain.SettingKeySendingDelay]; !ok {
		settings[domain.SettingKeySendingDelay] = domain.DefaultSendingDelay
	}

	return settings, nil
}

func (r *GormSettingRepo) Set(ctx context.Context, key string, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&SettingModel{Key: key, Value: value}).Error
}
