package domain

import "fmt"

// ClosedDayError is returned whenever an operation targets a date whose
// day of week has no bookable hours. It carries the day name so callers
// can phrase a useful follow-up.
type ClosedDayError struct {
	DayName string
}

func (e *ClosedDayError) Error() string {
	return fmt.Sprintf("business is closed on %ss", e.DayName)
}

// SlotConflictError reports that a requested interval overlaps an existing
// scheduled appointment on the same resource.
type SlotConflictError struct {
	ConflictingID int64
	Date          string
	StartTime     string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %s %s conflicts with appointment %d", e.Date, e.StartTime, e.ConflictingID)
}

// InvalidInputError covers malformed dates/times, non-positive durations
// and missing identifiers.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreUnavailableError wraps transport or database failures at the
// persistence boundary. Reads may be retried; writes must be re-checked
// first because the underlying transaction may have committed.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }
