package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) CreateHold(ctx context.Context, b *domain.Booking, now time.Time) error {
	args := m.Called(ctx, b, now)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateIntervalChecked(ctx context.Context, b *domain.Booking, start, end, now time.Time) error {
	args := m.Called(ctx, b, start, end, now)
	return args.Error(0)
}
func (m *MockBookingRepo) CountConflicts(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64, now time.Time) (int, error) {
	args := m.Called(ctx, vehicleID, start, end, excludeID, now)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ExpireStaleHolds(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookingRepo) ListOverdueActive(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockVehicleRepo) FindAvailable(ctx context.Context, q repository.AvailabilityQuery, now time.Time) ([]domain.Vehicle, error) {
	args := m.Called(ctx, q, now)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

// MockLocationRepo
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}
func (m *MockLocationRepo) List(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Location), args.Error(1)
}

// MockPriceRuleRepo
type MockPriceRuleRepo struct {
	mock.Mock
}

func (m *MockPriceRuleRepo) ListActive(ctx context.Context) ([]domain.PriceRule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PriceRule), args.Error(1)
}
func (m *MockPriceRuleRepo) GetPromoByCode(ctx context.Context, code string) (*domain.PriceRule, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceRule), args.Error(1)
}
func (m *MockPriceRuleRepo) ListAddOns(ctx context.Context, ids []int64) ([]domain.AddOn, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AddOn), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Capture(ctx context.Context, bookingRef string, amount float64) (string, error) {
	args := m.Called(ctx, bookingRef, amount)
	return args.String(0), args.Error(1)
}
func (m *MockGateway) Refund(ctx context.Context, providerRef string, amount float64) error {
	args := m.Called(ctx, providerRef, amount)
	return args.Error(0)
}

// stubEmail satisfies EmailService without any expectations; notification
// sends are best effort and not the subject of these tests.
type stubEmail struct{}

func (stubEmail) SendHoldNotice(ctx context.Context, email, name, reference string, total float64, expiresAt time.Time) error {
	return nil
}
func (stubEmail) SendBookingConfirmation(ctx context.Context, email, name, reference string, total float64) error {
	return nil
}
func (stubEmail) SendPickupReminder(ctx context.Context, email, name, reference string, startAt time.Time) error {
	return nil
}
func (stubEmail) SendCancellationNotice(ctx context.Context, email, name, reference string, fee, refund float64) error {
	return nil
}
func (stubEmail) SendReturnReceipt(ctx context.Context, email, name, reference string, finalTotal float64) error {
	return nil
}
func (stubEmail) SendSOSAlert(ctx context.Context, email, reference string, lat, lng float64, message string) error {
	return nil
}

// stubAudit satisfies AuditRecorder, collecting actions for assertions.
type stubAudit struct {
	actions []string
}

func (s *stubAudit) Record(ctx context.Context, action string, actorID, bookingID int64, details any) {
	s.actions = append(s.actions, action)
}
func (s *stubAudit) Trail(ctx context.Context, bookingID int64) ([]domain.AuditEvent, error) {
	return nil, nil
}
