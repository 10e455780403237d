package digest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

/* ==================== MOCKS ==================== */

type MockRoster struct{ mock.Mock }

func (m *MockRoster) List(ctx context.Context, businessID int64) ([]domain.Staff, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Staff), args.Error(1)
}

type MockSchedule struct{ mock.Mock }

func (m *MockSchedule) GetForStaffOnDate(ctx context.Context, staffID int64, date string) ([]repository.AppointmentDetails, error) {
	args := m.Called(ctx, staffID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AppointmentDetails), args.Error(1)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

func newDigestService() (*Service, *MockRoster, *MockSchedule, *MockMailer) {
	roster := new(MockRoster)
	schedule := new(MockSchedule)
	mailer := new(MockMailer)
	return NewService(schedule, roster, mailer, zap.NewNop()), roster, schedule, mailer
}

func detail(startTime string, minutes int, service, customer string) repository.AppointmentDetails {
	return repository.AppointmentDetails{
		Appointment:  domain.Appointment{StartTime: startTime, DurationMinutes: minutes},
		ServiceName:  service,
		CustomerName: customer,
	}
}

/* ==================== TESTS ==================== */

func TestSendDailyIncludesUnavailableStaff(t *testing.T) {
	svc, roster, schedule, mailer := newDigestService()

	// Riley is off the bookable roster but still holds an earlier booking.
	roster.On("List", mock.Anything, int64(1)).Return([]domain.Staff{
		{ID: 1, Name: "Alex", Email: "alex@glow.test", Available: true},
		{ID: 2, Name: "Riley", Email: "riley@glow.test", Available: false},
	}, nil)
	schedule.On("GetForStaffOnDate", mock.Anything, int64(1), "2030-01-07").
		Return([]repository.AppointmentDetails{}, nil)
	schedule.On("GetForStaffOnDate", mock.Anything, int64(2), "2030-01-07").
		Return([]repository.AppointmentDetails{detail("10:00", 45, "Haircut", "Dana")}, nil)
	mailer.On("Send", "alex@glow.test", mock.Anything, mock.Anything).Return(nil)
	mailer.On("Send", "riley@glow.test", mock.Anything,
		mock.MatchedBy(func(body string) bool {
			return containsAll(body, "Riley", "10:00", "Haircut", "Dana")
		})).Return(nil)

	require.NoError(t, svc.SendDaily(context.Background(), 1, "2030-01-07"))
	mailer.AssertNumberOfCalls(t, "Send", 2)
}

func TestSendDailySkipsStaffWithoutEmail(t *testing.T) {
	svc, roster, schedule, mailer := newDigestService()

	roster.On("List", mock.Anything, int64(1)).Return([]domain.Staff{
		{ID: 1, Name: "Alex", Email: "alex@glow.test"},
		{ID: 2, Name: "Riley"},
	}, nil)
	schedule.On("GetForStaffOnDate", mock.Anything, int64(1), "2030-01-07").
		Return([]repository.AppointmentDetails{}, nil)
	mailer.On("Send", "alex@glow.test", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.SendDaily(context.Background(), 1, "2030-01-07"))
	mailer.AssertNumberOfCalls(t, "Send", 1)
	schedule.AssertNotCalled(t, "GetForStaffOnDate", mock.Anything, int64(2), mock.Anything)
}

func TestSendDailyCountsDeliveryFailures(t *testing.T) {
	svc, roster, schedule, mailer := newDigestService()

	roster.On("List", mock.Anything, int64(1)).Return([]domain.Staff{
		{ID: 1, Name: "Alex", Email: "alex@glow.test"},
		{ID: 2, Name: "Riley", Email: "riley@glow.test"},
	}, nil)
	schedule.On("GetForStaffOnDate", mock.Anything, mock.Anything, "2030-01-07").
		Return([]repository.AppointmentDetails{}, nil)
	mailer.On("Send", "alex@glow.test", mock.Anything, mock.Anything).
		Return(errors.New("smtp refused"))
	mailer.On("Send", "riley@glow.test", mock.Anything, mock.Anything).Return(nil)

	err := svc.SendDaily(context.Background(), 1, "2030-01-07")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	mailer.AssertNumberOfCalls(t, "Send", 2)
}

func TestSendDailyRejectsBadDate(t *testing.T) {
	svc, roster, _, _ := newDigestService()

	err := svc.SendDaily(context.Background(), 1, "next tuesday")
	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	roster.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
