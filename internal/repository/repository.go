package repository

import (
	"context"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
)

// AvailabilityQuery filters FindAvailable.
type AvailabilityQuery struct {
	Start      time.Time
	End        time.Time
	Category   string
	LocationID int64
}

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error
	// FindAvailable returns vehicles whose catalog status is available and
	// that have no committing reservation overlapping the query interval.
	FindAvailable(ctx context.Context, q AvailabilityQuery, now time.Time) ([]domain.Vehicle, error)
}

type BookingRepository interface {
	// CreateHold inserts the booking as a pending hold inside one
	// transaction that locks the vehicle row and re-checks the committing
	// set, so two overlapping hold requests cannot both succeed. Returns
	// domain.ErrConflict when the interval is taken.
	CreateHold(ctx context.Context, b *domain.Booking, now time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	// UpdateIntervalChecked moves the booking to a new interval under the
	// same vehicle row lock and conflict re-check as CreateHold, excluding
	// the booking itself. Used by modify and extend.
	UpdateIntervalChecked(ctx context.Context, b *domain.Booking, start, end time.Time, now time.Time) error
	CountConflicts(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64, now time.Time) (int, error)
	ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	// ExpireStaleHolds demotes pending holds whose expiry has passed to
	// cancelled. Hygiene only: committing-set queries already exclude them.
	ExpireStaleHolds(ctx context.Context, now time.Time) (int64, error)
	ListOverdueActive(ctx context.Context, now time.Time) ([]domain.Booking, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
}

type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
}

type PriceRuleRepository interface {
	ListActive(ctx context.Context) ([]domain.PriceRule, error)
	GetPromoByCode(ctx context.Context, code string) (*domain.PriceRule, error)
	ListAddOns(ctx context.Context, ids []int64) ([]domain.AddOn, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
}

type AuditRepository interface {
	Create(ctx context.Context, e *domain.AuditEvent) error
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error)
}
