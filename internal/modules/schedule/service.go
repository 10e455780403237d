package schedule

import (
	"context"
	"errors"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"go.uber.org/zap"
)

// DayAvailability is the outcome of an availability query. A closed day is
// a distinct result, not an empty slot list: callers must be able to tell
// "we're shut on Sundays" apart from "Monday is fully booked".
type DayAvailability struct {
	Date     string   `json:"date"`
	DayName  string   `json:"day_name"`
	IsClosed bool     `json:"is_closed"`
	Slots    []string `json:"available_slots"`
}

// Service enumerates bookable start times. Results are advisory: the
// booking guard re-checks inside its own transaction before committing.
type Service struct {
	calendar     *Calendar
	appointments AppointmentReader
	log          *zap.Logger
}

func NewService(calendar *Calendar, appointments AppointmentReader, log *zap.Logger) *Service {
	return &Service{calendar: calendar, appointments: appointments, log: log}
}

func (s *Service) Calendar() *Calendar { return s.calendar }

// AvailableSlots enumerates start times on the fixed 15-minute grid from
// the day's opening time, keeping those whose half-open interval fits
// before closing and touches no scheduled appointment. The grid is global
// and independent of existing bookings, so slot times stay stable across
// repeated queries. Everything is recomputed per call.
func (s *Service) AvailableSlots(ctx context.Context, businessID int64, date string, staffID *int64, durationMinutes int) (*DayAvailability, error) {
	if durationMinutes <= 0 {
		return nil, &domain.InvalidInputError{Field: "duration_minutes", Reason: "must be positive"}
	}

	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, &domain.InvalidInputError{Field: "date", Reason: err.Error()}
	}
	dayName := domain.DayName(domain.DayOfWeek(day))

	open, closeAt, err := s.calendar.HoursFor(ctx, businessID, date)
	if err != nil {
		var closed *domain.ClosedDayError
		if errors.As(err, &closed) {
			s.log.Debug("availability on closed day",
				zap.String("date", date), zap.String("day", closed.DayName))
			return &DayAvailability{Date: date, DayName: closed.DayName, IsClosed: true, Slots: []string{}}, nil
		}
		return nil, err
	}

	occupied, err := s.appointments.GetSlotsRaw(ctx, businessID, date, staffID)
	if err != nil {
		return nil, err
	}

	slots := []string{}
	for start := open; start+durationMinutes <= closeAt; start += domain.SlotGridMinutes {
		end := start + durationMinutes
		free := true
		for _, o := range occupied {
			if domain.Overlaps(start, end, o.StartMinutes, o.EndMinutes) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, domain.FormatClock(start))
		}
	}

	s.log.Debug("computed availability",
		zap.String("date", date),
		zap.Int("occupied", len(occupied)),
		zap.Int("slots", len(slots)))

	return &DayAvailability{Date: date, DayName: dayName, Slots: slots}, nil
}
