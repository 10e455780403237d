package repository

import (
	"context"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	var s domain.Staff
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, wrapStoreErr("get staff", err)
	}
	return &s, nil
}

// List returns every staff member of the business, available or not.
// Staff taken off the roster can still hold previously booked appointments.
func (r *StaffRepository) List(ctx context.Context, businessID int64) ([]domain.Staff, error) {
	var staff []domain.Staff
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("name").
		Find(&staff).Error
	if err != nil {
		return nil, wrapStoreErr("list staff", err)
	}
	return staff, nil
}

// ListAvailable returns only staff that may be offered or booked.
func (r *StaffRepository) ListAvailable(ctx context.Context, businessID int64) ([]domain.Staff, error) {
	var staff []domain.Staff
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND available = ?", businessID, true).
		Order("name").
		Find(&staff).Error
	if err != nil {
		return nil, wrapStoreErr("list staff", err)
	}
	return staff, nil
}

// Mirror upserts the configured roster, keyed on (business, name).
func (r *StaffRepository) Mirror(ctx context.Context, staff []domain.Staff) error {
	if len(staff) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "available"}),
	}).Create(&staff).Error
	return wrapStoreErr("mirror staff", err)
}
