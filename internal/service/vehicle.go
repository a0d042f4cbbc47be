package service

import (
	"context"
	"fmt"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

type vehicleService struct {
	vehicleRepo  repository.VehicleRepository
	locationRepo repository.LocationRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, locationRepo repository.LocationRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo, locationRepo: locationRepo}
}

func (s *vehicleService) AddVehicle(ctx context.Context, actor Actor, v *domain.Vehicle) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: staff operation", domain.ErrForbidden)
	}
	if v.Make == "" || v.Model == "" || v.PlateNumber == "" {
		return fmt.Errorf("%w: make, model and plate number are required", domain.ErrValidation)
	}
	if v.DailyRate <= 0 {
		return fmt.Errorf("%w: daily rate must be positive", domain.ErrValidation)
	}
	if _, err := s.locationRepo.GetByID(ctx, v.LocationID); err != nil {
		return err
	}
	if v.BaseDailyRate == 0 {
		v.BaseDailyRate = v.DailyRate
	}
	if v.Status == "" {
		v.Status = domain.VehicleStatusAvailable
	}
	return s.vehicleRepo.Create(ctx, v)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, actor Actor, v *domain.Vehicle) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: staff operation", domain.ErrForbidden)
	}
	if v.DailyRate <= 0 {
		return fmt.Errorf("%w: daily rate must be positive", domain.ErrValidation)
	}
	return s.vehicleRepo.Update(ctx, v)
}

func (s *vehicleService) SetVehicleStatus(ctx context.Context, actor Actor, id int64, status domain.VehicleStatus) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: staff operation", domain.ErrForbidden)
	}
	switch status {
	case domain.VehicleStatusAvailable, domain.VehicleStatusReserved, domain.VehicleStatusRented,
		domain.VehicleStatusMaintenance, domain.VehicleStatusRetired:
	default:
		return fmt.Errorf("%w: unknown vehicle status %q", domain.ErrValidation, status)
	}
	return s.vehicleRepo.UpdateStatus(ctx, id, status)
}

func (s *vehicleService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.locationRepo.List(ctx)
}
