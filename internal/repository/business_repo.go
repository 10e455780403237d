package repository

import (
	"context"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"gorm.io/gorm"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	var b domain.Business
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, wrapStoreErr("get business", err)
	}
	return &b, nil
}

// Ensure creates the business row if missing and refreshes its mutable
// fields otherwise; used by the config sync at startup.
func (r *BusinessRepository) Ensure(ctx context.Context, b *domain.Business) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Business
		err := tx.First(&existing, b.ID).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(b).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).
			Updates(map[string]any{
				"name":     b.Name,
				"type":     b.Type,
				"phone":    b.Phone,
				"timezone": b.Timezone,
			}).Error
	})
	return wrapStoreErr("ensure business", err)
}
