package reschedule

import (
	"context"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/booking"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/schedule"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"
)

// BookingGuard commits the replacement slot; the orchestrator never
// inserts appointments itself.
type BookingGuard interface {
	Book(ctx context.Context, req booking.BookAppointmentRequest) (*domain.Appointment, error)
}

type AppointmentStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64) (bool, error)
	GetForCustomer(ctx context.Context, customerID int64, upcomingOnly bool) ([]repository.AppointmentDetails, error)
}

type CustomerStore interface {
	GetByPhone(ctx context.Context, businessID int64, phone string) (*domain.Customer, error)
}

type Availability interface {
	AvailableSlots(ctx context.Context, businessID int64, date string, staffID *int64, durationMinutes int) (*schedule.DayAvailability, error)
}

// EventPublisher hears about completed moves. May be nil. The booking and
// cancellation legs are announced by the guard and the store path already;
// this is the single combined event for calendar consumers.
type EventPublisher interface {
	AppointmentRescheduled(oldID int64, replacement *domain.Appointment)
}
