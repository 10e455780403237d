package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"

	"go.uber.org/zap"
)

// Mailer delivers a rendered digest to one recipient.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// Schedule exposes the day's bookings per staff member.
type Schedule interface {
	GetForStaffOnDate(ctx context.Context, staffID int64, date string) ([]repository.AppointmentDetails, error)
}

// Roster lists the staff members who receive digests. The full roster is
// used, not just the bookable staff: a member marked unavailable can still
// hold appointments booked earlier.
type Roster interface {
	List(ctx context.Context, businessID int64) ([]domain.Staff, error)
}

// Service emails each staff member their schedule for the day. It runs
// from the cron binary every morning before opening.
type Service struct {
	schedule Schedule
	roster   Roster
	mailer   Mailer
	log      *zap.Logger
}

func NewService(schedule Schedule, roster Roster, mailer Mailer, log *zap.Logger) *Service {
	return &Service{schedule: schedule, roster: roster, mailer: mailer, log: log}
}

// SendDaily sends the digest for the given date to every staff member
// of the business who has an email on file. A delivery failure for one
// staff member does not stop the rest.
func (s *Service) SendDaily(ctx context.Context, businessID int64, date string) error {
	if _, err := domain.ParseDate(date); err != nil {
		return &domain.InvalidInputError{Field: "date", Reason: err.Error()}
	}

	staff, err := s.roster.List(ctx, businessID)
	if err != nil {
		return err
	}

	var failed int
	for _, member := range staff {
		if member.Email == "" {
			continue
		}
		appts, err := s.schedule.GetForStaffOnDate(ctx, member.ID, date)
		if err != nil {
			s.log.Error("digest schedule lookup failed",
				zap.Int64("staff_id", member.ID), zap.Error(err))
			failed++
			continue
		}
		subject, body := renderDigest(member.Name, date, appts)
		if err := s.mailer.Send(member.Email, subject, body); err != nil {
			s.log.Error("digest delivery failed",
				zap.Int64("staff_id", member.ID),
				zap.String("email", member.Email), zap.Error(err))
			failed++
			continue
		}
		s.log.Info("digest sent",
			zap.Int64("staff_id", member.ID),
			zap.String("date", date),
			zap.Int("appointments", len(appts)))
	}

	if failed > 0 {
		return fmt.Errorf("digest: %d of %d staff deliveries failed", failed, len(staff))
	}
	return nil
}

// SendToday is the cron entrypoint.
func (s *Service) SendToday(ctx context.Context, businessID int64) error {
	return s.SendDaily(ctx, businessID, time.Now().Format(domain.DateLayout))
}

func renderDigest(staffName, date string, appts []repository.AppointmentDetails) (subject, body string) {
	subject = fmt.Sprintf("Your schedule for %s", date)

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Hi %s,</h2>", staffName)
	if len(appts) == 0 {
		fmt.Fprintf(&b, "<p>No appointments are booked for %s. Enjoy the quiet day!</p>", date)
		return subject, b.String()
	}

	fmt.Fprintf(&b, "<p>You have %d appointment(s) on %s:</p><ul>", len(appts), date)
	for _, a := range appts {
		service := a.ServiceName
		if service == "" {
			service = "Appointment"
		}
		customer := a.CustomerName
		if customer == "" {
			customer = "walk-in"
		}
		fmt.Fprintf(&b, "<li><b>%s</b> %s (%d min) with %s</li>",
			a.StartTime, service, a.DurationMinutes, customer)
	}
	b.WriteString("</ul>")
	return subject, b.String()
}
