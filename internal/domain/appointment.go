package domain

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// Appointment is a time-boxed slot on a staff member's (or the shared
// unassigned) schedule. No end time is persisted; it is derived from
// StartTime + DurationMinutes on read.
type Appointment struct {
	ID              int64             `json:"id"`
	BusinessID      int64             `json:"business_id" validate:"required"`
	CustomerID      *int64            `json:"customer_id,omitempty"`
	StaffID         *int64            `json:"staff_id,omitempty"`
	ServiceID       *int64            `json:"service_id,omitempty"`
	Date            string            `json:"date" validate:"required"`       // 2006-01-02
	StartTime       string            `json:"start_time" validate:"required"` // 15:04
	DurationMinutes int               `json:"duration_minutes" validate:"required,gt=0"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Interval returns the appointment's occupied window as minutes since
// midnight, half-open [start, end).
func (a *Appointment) Interval() (start, end int) {
	start, _ = ParseClock(a.StartTime)
	return start, start + a.DurationMinutes
}

// Terminal reports whether the appointment is in a state that must never
// be reopened.
func (a *Appointment) Terminal() bool {
	return a.Status != AppointmentScheduled
}
