package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

func newAvailabilityFixture() (*MockVehicleRepo, *MockBookingRepo, *availabilityService) {
	vehicles := new(MockVehicleRepo)
	bookings := new(MockBookingRepo)
	svc := NewAvailabilityService(vehicles, bookings).(*availabilityService)
	svc.now = func() time.Time { return testNow }
	return vehicles, bookings, svc
}

func TestIsAvailable(t *testing.T) {
	ctx := context.Background()
	start := testNow.AddDate(0, 0, 5)
	end := testNow.AddDate(0, 0, 8)

	t.Run("FreeInterval", func(t *testing.T) {
		vehicles, bookings, svc := newAvailabilityFixture()
		vehicles.On("GetByID", mock.Anything, int64(7)).Return(testVehicle(), nil)
		bookings.On("CountConflicts", mock.Anything, int64(7), start, end, int64(0), testNow).Return(0, nil)

		ok, err := svc.IsAvailable(ctx, 7, start, end)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("OverlappingReservation", func(t *testing.T) {
		vehicles, bookings, svc := newAvailabilityFixture()
		vehicles.On("GetByID", mock.Anything, int64(7)).Return(testVehicle(), nil)
		bookings.On("CountConflicts", mock.Anything, int64(7), start, end, int64(0), testNow).Return(1, nil)

		ok, err := svc.IsAvailable(ctx, 7, start, end)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("VehicleInMaintenance", func(t *testing.T) {
		vehicles, bookings, svc := newAvailabilityFixture()
		vehicle := testVehicle()
		vehicle.Status = domain.VehicleStatusMaintenance
		vehicles.On("GetByID", mock.Anything, int64(7)).Return(vehicle, nil)

		ok, err := svc.IsAvailable(ctx, 7, start, end)
		assert.NoError(t, err)
		assert.False(t, ok)
		bookings.AssertNotCalled(t, "CountConflicts", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		_, _, svc := newAvailabilityFixture()
		_, err := svc.IsAvailable(ctx, 7, end, start)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestFindAvailable(t *testing.T) {
	vehicles, _, svc := newAvailabilityFixture()
	q := repository.AvailabilityQuery{
		Start:    testNow.AddDate(0, 0, 5),
		End:      testNow.AddDate(0, 0, 8),
		Category: "economy",
	}
	vehicles.On("FindAvailable", mock.Anything, q, testNow).Return([]domain.Vehicle{*testVehicle()}, nil)

	result, err := svc.FindAvailable(context.Background(), q)
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(7), result[0].ID)
}
