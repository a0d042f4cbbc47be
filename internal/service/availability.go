package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

type availabilityService struct {
	vehicleRepo repository.VehicleRepository
	bookingRepo repository.BookingRepository
	now         func() time.Time
}

func NewAvailabilityService(
	vehicleRepo repository.VehicleRepository,
	bookingRepo repository.BookingRepository,
) AvailabilityService {
	return &availabilityService{
		vehicleRepo: vehicleRepo,
		bookingRepo: bookingRepo,
		now:         time.Now,
	}
}

func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", domain.ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", domain.ErrValidation)
	}
	return nil
}

func (s *availabilityService) FindAvailable(ctx context.Context, q repository.AvailabilityQuery) ([]domain.Vehicle, error) {
	if err := validateInterval(q.Start, q.End); err != nil {
		return nil, err
	}
	return s.vehicleRepo.FindAvailable(ctx, q, s.now())
}

// IsAvailable checks a single vehicle: catalog status must be available and
// no committing reservation may overlap [start, end]. Expired holds are
// excluded by the conflict query itself.
func (s *availabilityService) IsAvailable(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error) {
	if err := validateInterval(start, end); err != nil {
		return false, err
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	if vehicle.Status != domain.VehicleStatusAvailable {
		return false, nil
	}
	conflicts, err := s.bookingRepo.CountConflicts(ctx, vehicleID, start, end, 0, s.now())
	if err != nil {
		return false, err
	}
	return conflicts == 0, nil
}
