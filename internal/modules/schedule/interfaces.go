package schedule

import (
	"context"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"
)

// HoursRepository reads the mirrored weekly operating hours.
type HoursRepository interface {
	GetForDay(ctx context.Context, businessID int64, dayOfWeek int) (*domain.BusinessHours, error)
}

// AppointmentReader exposes the occupied intervals on a date. A nil staff
// filter means every resource, the unassigned pool included.
type AppointmentReader interface {
	GetSlotsRaw(ctx context.Context, businessID int64, date string, staffID *int64) ([]repository.OccupiedInterval, error)
}
