package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository/postgres"
)

var bookingCols = []string{
	"id", "reference", "renter_id", "vehicle_id", "pickup_location_id", "dropoff_location_id",
	"start_at", "end_at", "subtotal", "taxes", "fees", "discount", "total_price",
	"status", "payment_status", "hold_expires_at", "promo_code", "cancel_reason", "stages",
	"created_at", "updated_at",
}

func pendingHold(now time.Time) *domain.Booking {
	expiry := now.Add(15 * time.Minute)
	return &domain.Booking{
		Reference:         "CH-AB12CD34",
		RenterID:          3,
		VehicleID:         7,
		PickupLocationID:  1,
		DropoffLocationID: 1,
		StartAt:           now.AddDate(0, 0, 5),
		EndAt:             now.AddDate(0, 0, 8),
		Subtotal:          150,
		Taxes:             15,
		TotalPrice:        165,
		Status:            domain.BookingStatusPendingHold,
		PaymentStatus:     domain.PaymentStatusPending,
		HoldExpiresAt:     &expiry,
	}
}

func TestBookingRepository_CreateHold(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		booking := pendingHold(now)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(booking.VehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(booking.VehicleID))
		mock.ExpectQuery(`SELECT count\(\*\) FROM bookings`).
			WithArgs(booking.VehicleID, int64(0), booking.StartAt, booking.EndAt, now).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectCommit()

		err := repo.CreateHold(ctx, booking, now)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), booking.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OverlappingCommittedBooking", func(t *testing.T) {
		booking := pendingHold(now)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(booking.VehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(booking.VehicleID))
		mock.ExpectQuery(`SELECT count\(\*\) FROM bookings`).
			WithArgs(booking.VehicleID, int64(0), booking.StartAt, booking.EndAt, now).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.CreateHold(ctx, booking, now)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("VehicleMissing", func(t *testing.T) {
		booking := pendingHold(now)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(booking.VehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.CreateHold(ctx, booking, now)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		stages := []byte(`{"check_in":{"agreement_signed_at":"2025-07-09T08:00:00Z","pickup_code":"ABCD1234","pickup_code_used":false}}`)
		rows := sqlmock.NewRows(bookingCols).
			AddRow(42, "CH-AB12CD34", 3, 7, 1, 1,
				now, now.AddDate(0, 0, 3), 150.0, 15.0, 0.0, 0.0, 165.0,
				"checked_in", "captured", nil, nil, "", stages, now, now)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
			WithArgs(int64(42)).
			WillReturnRows(rows)

		booking, err := repo.GetByID(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCheckedIn, booking.Status)
		if assert.NotNil(t, booking.Stages.CheckIn) {
			assert.Equal(t, "ABCD1234", booking.Stages.CheckIn.PickupCode)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(bookingCols))

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_CountConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()
	start := now.AddDate(0, 0, 5)
	end := now.AddDate(0, 0, 8)

	mock.ExpectQuery(`SELECT count\(\*\) FROM bookings`).
		WithArgs(int64(7), int64(42), start, end, now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountConflicts(ctx, 7, start, end, 42, now)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBookingRepository_ExpireStaleHolds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(string(domain.BookingStatusCancelled), now, string(domain.BookingStatusPendingHold)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.ExpireStaleHolds(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
