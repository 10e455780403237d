package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// SlotUnavailableError reports that the requested start time is not
// bookable. It carries the current alternatives so the caller can offer
// them without a second round trip.
type SlotUnavailableError struct {
	Date           string
	RequestedTime  string
	ConflictingID  int64
	AvailableSlots []string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot %s on %s is no longer available", e.RequestedTime, e.Date)
}
