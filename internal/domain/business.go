package domain

import "time"

type Business struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Type      string    `json:"type,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Business) TableName() string { return "businesses" }

// BusinessHours holds the weekly operating window for one day of the week
// (Monday=0..Sunday=6). At most one row per (business, day). A day with
// IsClosed set, or without both open and close times, is unbookable.
type BusinessHours struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"business_id" gorm:"uniqueIndex:idx_business_day"`
	DayOfWeek  int    `json:"day_of_week" gorm:"uniqueIndex:idx_business_day"`
	OpenTime   string `json:"open_time"`  // 15:04, empty when unset
	CloseTime  string `json:"close_time"` // 15:04, empty when unset
	IsClosed   bool   `json:"is_closed"`
}

func (BusinessHours) TableName() string { return "business_hours" }

// Bookable reports whether the day accepts appointments at all.
func (h *BusinessHours) Bookable() bool {
	return !h.IsClosed && h.OpenTime != "" && h.CloseTime != ""
}

type Service struct {
	ID              int64     `json:"id"`
	BusinessID      int64     `json:"business_id" gorm:"uniqueIndex:idx_business_service"`
	Name            string    `json:"name" gorm:"uniqueIndex:idx_business_service" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
	Price           float64   `json:"price"`
	Active          bool      `json:"active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Service) TableName() string { return "services" }

type Staff struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"business_id" gorm:"uniqueIndex:idx_business_staff"`
	Name       string    `json:"name" gorm:"uniqueIndex:idx_business_staff" validate:"required"`
	Email      string    `json:"email,omitempty"`
	Available  bool      `json:"available" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Staff) TableName() string { return "staff" }
