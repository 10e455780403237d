package catalog

import (
	"context"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"
)

// Service exposes the read-only catalog the dialogue agent offers from:
// active services, bookable staff and the weekly hours. All of it is
// mirrored from the business config; nothing here mutates.
type Service struct {
	services *repository.ServiceRepository
	staff    *repository.StaffRepository
	hours    *repository.BusinessHoursRepository
}

func NewService(
	services *repository.ServiceRepository,
	staff *repository.StaffRepository,
	hours *repository.BusinessHoursRepository,
) *Service {
	return &Service{services: services, staff: staff, hours: hours}
}

func (s *Service) ListServices(ctx context.Context, businessID int64) ([]domain.Service, error) {
	return s.services.ListActive(ctx, businessID)
}

// ListStaff returns only staff who may be offered to callers.
func (s *Service) ListStaff(ctx context.Context, businessID int64) ([]domain.Staff, error) {
	return s.staff.ListAvailable(ctx, businessID)
}

func (s *Service) WeeklyHours(ctx context.Context, businessID int64) ([]domain.BusinessHours, error) {
	return s.hours.GetWeek(ctx, businessID)
}
