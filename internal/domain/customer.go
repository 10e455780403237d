package domain

import "time"

// Customer is keyed by phone number within a business; bookings upsert the
// record rather than requiring registration first.
type Customer struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"business_id" gorm:"uniqueIndex:idx_business_phone"`
	Phone      string    `json:"phone" gorm:"uniqueIndex:idx_business_phone" validate:"required"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Notes      string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
