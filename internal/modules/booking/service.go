package booking

import (
	"context"
	"errors"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"

	"go.uber.org/zap"
)

const defaultDurationMinutes = 30

// Service is the conflict-safe write path. Callers may narrow their choice
// with the availability calculator first, but the only check that counts
// is the one the store re-runs inside the insert transaction: under
// concurrent bookings for the same slot exactly one commit wins and the
// loser gets SlotUnavailableError with fresh alternatives.
type Service struct {
	appointments AppointmentStore
	customers    CustomerStore
	services     ServiceCatalog
	staff        StaffRoster
	availability Availability
	events       EventPublisher
	log          *zap.Logger
}

func NewService(
	appointments AppointmentStore,
	customers CustomerStore,
	services ServiceCatalog,
	staff StaffRoster,
	availability Availability,
	events EventPublisher,
	log *zap.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		customers:    customers,
		services:     services,
		staff:        staff,
		availability: availability,
		events:       events,
		log:          log,
	}
}

func (s *Service) Book(ctx context.Context, req BookAppointmentRequest) (*domain.Appointment, error) {
	if req.BusinessID <= 0 {
		return nil, &domain.InvalidInputError{Field: "business_id", Reason: "required"}
	}
	if _, err := domain.ParseDate(req.Date); err != nil {
		return nil, &domain.InvalidInputError{Field: "date", Reason: err.Error()}
	}
	start, err := domain.ParseClock(req.StartTime)
	if err != nil {
		return nil, &domain.InvalidInputError{Field: "start_time", Reason: err.Error()}
	}
	if req.DurationMinutes < 0 {
		return nil, &domain.InvalidInputError{Field: "duration_minutes", Reason: "must be positive"}
	}

	duration, err := s.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.StaffID != nil {
		st, err := s.staff.GetByID(ctx, *req.StaffID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &domain.InvalidInputError{Field: "staff_id", Reason: "unknown staff member"}
			}
			return nil, err
		}
		if !st.Available {
			return nil, &domain.InvalidInputError{Field: "staff_id", Reason: "staff member is not available for booking"}
		}
	}

	// Closed day is checked before any availability work so the caller
	// hears "we're closed on Sundays", not "fully booked".
	day, err := s.availability.AvailableSlots(ctx, req.BusinessID, req.Date, req.StaffID, duration)
	if err != nil {
		return nil, err
	}
	if day.IsClosed {
		return nil, &domain.ClosedDayError{DayName: day.DayName}
	}

	requested := domain.FormatClock(start)
	if !containsSlot(day.Slots, requested) {
		s.log.Warn("requested slot not offered",
			zap.String("date", req.Date), zap.String("time", requested))
		return nil, &SlotUnavailableError{
			Date:           req.Date,
			RequestedTime:  requested,
			AvailableSlots: day.Slots,
		}
	}

	appt := &domain.Appointment{
		BusinessID:      req.BusinessID,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		StartTime:       requested,
		DurationMinutes: duration,
		Notes:           req.Notes,
	}

	if req.CustomerPhone != "" {
		customer, err := s.customers.Upsert(ctx, req.BusinessID, req.CustomerPhone, req.CustomerName, req.CustomerEmail)
		if err != nil {
			return nil, err
		}
		appt.CustomerID = &customer.ID
	} else if req.CustomerID != nil {
		appt.CustomerID = req.CustomerID
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		var conflict *domain.SlotConflictError
		if errors.As(err, &conflict) {
			// Lost the race between the advisory pass and the commit.
			// Recompute so the error carries a current slot list.
			fresh, availErr := s.availability.AvailableSlots(ctx, req.BusinessID, req.Date, req.StaffID, duration)
			slots := []string{}
			if availErr == nil {
				slots = fresh.Slots
			}
			s.log.Warn("booking lost slot race",
				zap.String("date", req.Date),
				zap.String("time", requested),
				zap.Int64("conflicting_id", conflict.ConflictingID))
			return nil, &SlotUnavailableError{
				Date:           req.Date,
				RequestedTime:  requested,
				ConflictingID:  conflict.ConflictingID,
				AvailableSlots: slots,
			}
		}
		return nil, err
	}

	s.log.Info("appointment booked",
		zap.Int64("id", appt.ID),
		zap.String("date", appt.Date),
		zap.String("time", appt.StartTime),
		zap.Int("duration_minutes", appt.DurationMinutes))

	if s.events != nil {
		s.events.AppointmentBooked(appt)
	}
	return appt, nil
}

func (s *Service) resolveDuration(ctx context.Context, req BookAppointmentRequest) (int, error) {
	if req.DurationMinutes > 0 {
		return req.DurationMinutes, nil
	}
	if req.ServiceID != nil {
		svc, err := s.services.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return 0, &domain.InvalidInputError{Field: "service_id", Reason: "unknown service"}
			}
			return 0, err
		}
		return svc.DurationMinutes, nil
	}
	return defaultDurationMinutes, nil
}

// Cancel marks an appointment cancelled by id.
func (s *Service) Cancel(ctx context.Context, appointmentID int64) error {
	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	done, err := s.appointments.Cancel(ctx, appointmentID)
	if err != nil {
		return err
	}
	if !done {
		// Already completed, cancelled or marked no-show.
		return ErrNotFound
	}

	s.log.Info("appointment cancelled", zap.Int64("id", appointmentID))
	if s.events != nil {
		s.events.AppointmentCancelled(appointmentID, a.Date, a.StartTime)
	}
	return nil
}

// CancelNextForPhone cancels the customer's earliest upcoming appointment,
// the phone-only cancellation path used by the dialogue agent.
func (s *Service) CancelNextForPhone(ctx context.Context, businessID int64, phone string) (int64, error) {
	next, err := s.nextUpcoming(ctx, businessID, phone)
	if err != nil {
		return 0, err
	}
	if err := s.Cancel(ctx, next.ID); err != nil {
		return 0, err
	}
	return next.ID, nil
}

// UpcomingForPhone lists the customer's upcoming scheduled appointments,
// ordered by date then time.
func (s *Service) UpcomingForPhone(ctx context.Context, businessID int64, phone string) ([]repository.AppointmentDetails, error) {
	customer, err := s.customers.GetByPhone(ctx, businessID, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []repository.AppointmentDetails{}, nil
		}
		return nil, err
	}
	return s.appointments.GetForCustomer(ctx, customer.ID, true)
}

func (s *Service) nextUpcoming(ctx context.Context, businessID int64, phone string) (*repository.AppointmentDetails, error) {
	customer, err := s.customers.GetByPhone(ctx, businessID, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	upcoming, err := s.appointments.GetForCustomer(ctx, customer.ID, true)
	if err != nil {
		return nil, err
	}
	if len(upcoming) == 0 {
		return nil, ErrNotFound
	}
	return &upcoming[0], nil
}

func containsSlot(slots []string, want string) bool {
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}
