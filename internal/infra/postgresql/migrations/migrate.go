package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/sendfleet/campaigner/internal/repository"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "000001_create_contacts",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.ContactModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_contacts_group ON contacts (contact_group)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.ContactModel{})
			},
		},
		{
			ID: "000002_create_campaigns",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.CampaignModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_campaigns_status_created ON campaigns (status, created_at)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.CampaignModel{})
			},
		},
		{
			ID: "000003_create_messages",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.MessageModel{}); err != nil {
					return err
				}
				indexes := []string{
					// Serves the batch claim: oldest pending rows per campaign.
					`CREATE INDEX IF NOT EXISTS idx_messages_claim ON messages (campaign_id, created_at, id) WHERE status = 'pending'`,
					`CREATE INDEX IF NOT EXISTS idx_messages_contact_id ON messages (contact_id)`,
					`CREATE INDEX IF NOT EXISTS idx_messages_status_created ON messages (status, created_at)`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.MessageModel{})
			},
		},
		{
			ID: "000004_create_templates",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&repository.TemplateModel{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.TemplateModel{})
			},
		},
		{
			ID: "000005_create_settings",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&repository.SettingModel{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.SettingModel{})
			},
		},
	})

	return m.Migrate()
}
