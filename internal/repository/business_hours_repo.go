package repository

import (
	"context"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BusinessHoursRepository struct {
	db *gorm.DB
}

func NewBusinessHoursRepository(db *gorm.DB) *BusinessHoursRepository {
	return &BusinessHoursRepository{db: db}
}

// GetForDay returns the hours row for a day of week, or nil when the
// business never configured that day (which callers treat as closed).
func (r *BusinessHoursRepository) GetForDay(ctx context.Context, businessID int64, dayOfWeek int) (*domain.BusinessHours, error) {
	var h domain.BusinessHours
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND day_of_week = ?", businessID, dayOfWeek).
		First(&h).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr("get business hours", err)
	}
	return &h, nil
}

func (r *BusinessHoursRepository) GetWeek(ctx context.Context, businessID int64) ([]domain.BusinessHours, error) {
	var hours []domain.BusinessHours
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("day_of_week").
		Find(&hours).Error
	if err != nil {
		return nil, wrapStoreErr("list business hours", err)
	}
	return hours, nil
}

// Mirror replaces the stored weekly hours with the configured ones,
// upserting per (business, day) so ids stay stable across syncs.
func (r *BusinessHoursRepository) Mirror(ctx context.Context, hours []domain.BusinessHours) error {
	if len(hours) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}, {Name: "day_of_week"}},
		DoUpdates: clause.AssignmentColumns([]string{"open_time", "close_time", "is_closed"}),
	}).Create(&hours).Error
	return wrapStoreErr("mirror business hours", err)
}
