package reschedule

import "github.com/anthonykurieh/voice-facilitator/internal/modules/schedule"

// State of the short-lived reschedule workflow. It lives only for one call:
// the caller keeps the conversation, not the engine.
type State string

const (
	StateNeedDate  State = "need_date"
	StateNeedTime  State = "need_time"
	StateCommitted State = "committed"
)

// RescheduleRequest locates an appointment either by id or by the
// customer's phone (earliest upcoming wins). NewDate/NewTime may be blank;
// the outcome then tells the caller what to ask for next.
type RescheduleRequest struct {
	BusinessID    int64  `json:"business_id"`
	AppointmentID int64  `json:"appointment_id"`
	CustomerPhone string `json:"customer_phone"`
	NewDate       string `json:"new_date"`
	NewTime       string `json:"new_time"`
}

// Snapshot of the appointment being moved, presented back to the caller
// before asking for a replacement slot.
type Snapshot struct {
	AppointmentID   int64  `json:"appointment_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	StaffID         *int64 `json:"staff_id,omitempty"`
	ServiceID       *int64 `json:"service_id,omitempty"`
	StaffName       string `json:"staff_name,omitempty"`
	ServiceName     string `json:"service_name,omitempty"`
}

type Result struct {
	OldAppointmentID int64  `json:"old_appointment_id"`
	NewAppointmentID int64  `json:"new_appointment_id"`
	NewDate          string `json:"new_date"`
	NewTime          string `json:"new_time"`
}

type Outcome struct {
	State        State                     `json:"state"`
	Current      *Snapshot                 `json:"current,omitempty"`
	Availability *schedule.DayAvailability `json:"availability,omitempty"`
	Result       *Result                   `json:"result,omitempty"`
}
