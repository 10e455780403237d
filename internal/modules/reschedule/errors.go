package reschedule

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("no appointment to reschedule")

// PartialRescheduleError means the new appointment committed but cancelling
// the original failed: the customer now holds two scheduled appointments.
// This is recoverable by cancelling OldAppointmentID manually and must
// never be reported as plain success.
type PartialRescheduleError struct {
	OldAppointmentID int64
	NewAppointmentID int64
	Err              error
}

func (e *PartialRescheduleError) Error() string {
	return fmt.Sprintf("new appointment %d booked but cancelling %d failed: %v",
		e.NewAppointmentID, e.OldAppointmentID, e.Err)
}

func (e *PartialRescheduleError) Unwrap() error { return e.Err }
