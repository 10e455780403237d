package repository

import (
	"context"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, wrapStoreErr("get service", err)
	}
	return &s, nil
}

func (r *ServiceRepository) GetByName(ctx context.Context, businessID int64, name string) (*domain.Service, error) {
	var s domain.Service
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND LOWER(name) = LOWER(?)", businessID, name).
		First(&s).Error
	if err != nil {
		return nil, wrapStoreErr("get service", err)
	}
	return &s, nil
}

func (r *ServiceRepository) ListActive(ctx context.Context, businessID int64) ([]domain.Service, error) {
	var services []domain.Service
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND active = ?", businessID, true).
		Order("name").
		Find(&services).Error
	if err != nil {
		return nil, wrapStoreErr("list services", err)
	}
	return services, nil
}

// Mirror upserts the configured service catalog, keyed on (business, name).
func (r *ServiceRepository) Mirror(ctx context.Context, services []domain.Service) error {
	if len(services) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"duration_minutes", "price", "active"}),
	}).Create(&services).Error
	return wrapStoreErr("mirror services", err)
}
