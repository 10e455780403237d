package reschedule

import (
	"context"
	"errors"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/booking"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"

	"go.uber.org/zap"
)

// Service relocates an existing appointment to a new slot. The commit
// order is the crash-safety invariant: the replacement is booked first and
// the original cancelled only after that succeeds, so a failed attempt
// always leaves the customer with their existing booking. A reschedule is
// a new row plus a cancellation, never an in-place time update.
type Service struct {
	guard        BookingGuard
	appointments AppointmentStore
	customers    CustomerStore
	availability Availability
	events       EventPublisher
	log          *zap.Logger
}

func NewService(
	guard BookingGuard,
	appointments AppointmentStore,
	customers CustomerStore,
	availability Availability,
	events EventPublisher,
	log *zap.Logger,
) *Service {
	return &Service{
		guard:        guard,
		appointments: appointments,
		customers:    customers,
		availability: availability,
		events:       events,
		log:          log,
	}
}

func (s *Service) Reschedule(ctx context.Context, req RescheduleRequest) (*Outcome, error) {
	if req.BusinessID <= 0 {
		return nil, &domain.InvalidInputError{Field: "business_id", Reason: "required"}
	}

	current, err := s.locate(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.NewDate == "" {
		return &Outcome{State: StateNeedDate, Current: current}, nil
	}

	if req.NewTime == "" {
		// Duration and staff are inherited from the original appointment,
		// never re-derived, so a reschedule cannot silently change the
		// service assignment.
		day, err := s.availability.AvailableSlots(ctx, req.BusinessID, req.NewDate,
			current.StaffID, current.DurationMinutes)
		if err != nil {
			return nil, err
		}
		return &Outcome{State: StateNeedTime, Current: current, Availability: day}, nil
	}

	return s.commit(ctx, req, current)
}

// locate resolves the appointment to move: an explicit id, or the
// customer's earliest upcoming scheduled appointment by phone.
func (s *Service) locate(ctx context.Context, req RescheduleRequest) (*Snapshot, error) {
	if req.AppointmentID != 0 {
		a, err := s.appointments.GetByID(ctx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if a.Terminal() {
			return nil, ErrNotFound
		}
		return &Snapshot{
			AppointmentID:   a.ID,
			Date:            a.Date,
			StartTime:       a.StartTime,
			DurationMinutes: a.DurationMinutes,
			StaffID:         a.StaffID,
			ServiceID:       a.ServiceID,
		}, nil
	}

	if req.CustomerPhone == "" {
		return nil, &domain.InvalidInputError{Field: "appointment_id", Reason: "appointment_id or customer_phone required"}
	}

	customer, err := s.customers.GetByPhone(ctx, req.BusinessID, req.CustomerPhone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
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

	next := upcoming[0]
	return &Snapshot{
		AppointmentID:   next.ID,
		Date:            next.Date,
		StartTime:       next.StartTime,
		DurationMinutes: next.DurationMinutes,
		StaffID:         next.StaffID,
		ServiceID:       next.ServiceID,
		StaffName:       next.StaffName,
		ServiceName:     next.ServiceName,
	}, nil
}

func (s *Service) commit(ctx context.Context, req RescheduleRequest, current *Snapshot) (*Outcome, error) {
	original, err := s.appointments.GetByID(ctx, current.AppointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Book the replacement first. If this fails for any reason the
	// original appointment is untouched.
	replacement, err := s.guard.Book(ctx, booking.BookAppointmentRequest{
		BusinessID:      req.BusinessID,
		Date:            req.NewDate,
		StartTime:       req.NewTime,
		DurationMinutes: original.DurationMinutes,
		StaffID:         original.StaffID,
		ServiceID:       original.ServiceID,
		CustomerID:      original.CustomerID,
		Notes:           original.Notes,
	})
	if err != nil {
		return nil, err
	}

	done, err := s.appointments.Cancel(ctx, original.ID)
	if err != nil || !done {
		if err == nil {
			err = errors.New("appointment already in a terminal state")
		}
		s.log.Error("reschedule left two scheduled appointments",
			zap.Int64("old_id", original.ID),
			zap.Int64("new_id", replacement.ID),
			zap.Error(err))
		return nil, &PartialRescheduleError{
			OldAppointmentID: original.ID,
			NewAppointmentID: replacement.ID,
			Err:              err,
		}
	}

	s.log.Info("appointment rescheduled",
		zap.Int64("old_id", original.ID),
		zap.Int64("new_id", replacement.ID),
		zap.String("new_date", replacement.Date),
		zap.String("new_time", replacement.StartTime))

	if s.events != nil {
		s.events.AppointmentRescheduled(original.ID, replacement)
	}

	return &Outcome{
		State:   StateCommitted,
		Current: current,
		Result: &Result{
			OldAppointmentID: original.ID,
			NewAppointmentID: replacement.ID,
			NewDate:          replacement.Date,
			NewTime:          replacement.StartTime,
		},
	}, nil
}
