package booking

import (
	"context"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/schedule"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"
)

// AppointmentStore is the persistence boundary the guard writes through.
// Create runs the authoritative conflict re-check inside its own
// transaction; the guard's earlier availability pass is advisory only.
type AppointmentStore interface {
	Create(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64) (bool, error)
	GetForCustomer(ctx context.Context, customerID int64, upcomingOnly bool) ([]repository.AppointmentDetails, error)
}

type CustomerStore interface {
	Upsert(ctx context.Context, businessID int64, phone, name, email string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, businessID int64, phone string) (*domain.Customer, error)
}

type ServiceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type StaffRoster interface {
	GetByID(ctx context.Context, id int64) (*domain.Staff, error)
}

// Availability narrows choices before the transactional check and supplies
// the fresh alternatives carried on SlotUnavailableError.
type Availability interface {
	AvailableSlots(ctx context.Context, businessID int64, date string, staffID *int64, durationMinutes int) (*schedule.DayAvailability, error)
}

// EventPublisher receives appointment lifecycle transitions for the
// dashboard and calendar-mirroring consumers. May be nil.
type EventPublisher interface {
	AppointmentBooked(a *domain.Appointment)
	AppointmentCancelled(id int64, date, startTime string)
}
