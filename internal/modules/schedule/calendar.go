package schedule

import (
	"context"
	"errors"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
)

// Calendar is a read-only view of the weekly operating hours. It has no
// side effects; a day's answer only changes when the mirrored hours do.
type Calendar struct {
	hours HoursRepository
}

func NewCalendar(hours HoursRepository) *Calendar {
	return &Calendar{hours: hours}
}

// IsOpen reports whether the business accepts bookings on the date.
func (c *Calendar) IsOpen(ctx context.Context, businessID int64, date string) (bool, error) {
	_, _, err := c.HoursFor(ctx, businessID, date)
	if err != nil {
		var closed *domain.ClosedDayError
		if errors.As(err, &closed) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// HoursFor resolves the open/close window for a date as minutes since
// midnight. A closed day, or one whose hours were never configured, fails
// with ClosedDayError carrying the day name.
func (c *Calendar) HoursFor(ctx context.Context, businessID int64, date string) (open, close int, err error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return 0, 0, &domain.InvalidInputError{Field: "date", Reason: err.Error()}
	}

	dayOfWeek := domain.DayOfWeek(day)
	hours, err := c.hours.GetForDay(ctx, businessID, dayOfWeek)
	if err != nil {
		return 0, 0, err
	}
	if hours == nil || !hours.Bookable() {
		return 0, 0, &domain.ClosedDayError{DayName: domain.DayName(dayOfWeek)}
	}

	open, err = domain.ParseClock(hours.OpenTime)
	if err != nil {
		return 0, 0, &domain.InvalidInputError{Field: "open_time", Reason: err.Error()}
	}
	close, err = domain.ParseClock(hours.CloseTime)
	if err != nil {
		return 0, 0, &domain.InvalidInputError{Field: "close_time", Reason: err.Error()}
	}
	return open, close, nil
}
