package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

const bookingColumns = `id, reference, renter_id, vehicle_id, pickup_location_id, dropoff_location_id,
	start_at, end_at, subtotal, taxes, fees, discount, total_price,
	status, payment_status, hold_expires_at, promo_code, cancel_reason, stages, created_at, updated_at`

// The committing-set predicate. A pending hold only blocks while its expiry
// is in the future; this is the single place that decision lives, reused by
// every availability evaluation. The expiry instant is passed as a bind
// parameter so service time and database time cannot drift.
const committingOverlap = `vehicle_id = $1
	  AND id <> $2
	  AND start_at <= $4 AND end_at >= $3
	  AND (status IN ('confirmed', 'active')
	       OR (status = 'pending_hold' AND hold_expires_at > $5))`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	var stages []byte
	err := row.Scan(
		&b.ID, &b.Reference, &b.RenterID, &b.VehicleID, &b.PickupLocationID, &b.DropoffLocationID,
		&b.StartAt, &b.EndAt, &b.Subtotal, &b.Taxes, &b.Fees, &b.Discount, &b.TotalPrice,
		&b.Status, &b.PaymentStatus, &b.HoldExpiresAt, &b.PromoCode, &b.CancelReason, &stages,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking", domain.ErrNotFound)
		}
		return nil, err
	}
	if len(stages) > 0 {
		if err := json.Unmarshal(stages, &b.Stages); err != nil {
			return nil, fmt.Errorf("decode booking stages: %w", err)
		}
	}
	return b, nil
}

func (r *bookingRepository) CreateHold(ctx context.Context, b *domain.Booking, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Lock the vehicle row so concurrent hold attempts for the same vehicle
	// serialize on the conflict check below.
	var vehicleID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, b.VehicleID).Scan(&vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: vehicle %d", domain.ErrNotFound, b.VehicleID)
		}
		return err
	}

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings WHERE `+committingOverlap,
		b.VehicleID, int64(0), b.StartAt, b.EndAt, now,
	).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return fmt.Errorf("%w: vehicle %d is reserved for an overlapping interval", domain.ErrConflict, b.VehicleID)
	}

	stages, err := json.Marshal(b.Stages)
	if err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO bookings (reference, renter_id, vehicle_id, pickup_location_id, dropoff_location_id,
			start_at, end_at, subtotal, taxes, fees, discount, total_price,
			status, payment_status, hold_expires_at, promo_code, cancel_reason, stages, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING id`,
		b.Reference, b.RenterID, b.VehicleID, b.PickupLocationID, b.DropoffLocationID,
		b.StartAt, b.EndAt, b.Subtotal, b.Taxes, b.Fees, b.Discount, b.TotalPrice,
		b.Status, b.PaymentStatus, b.HoldExpiresAt, b.PromoCode, b.CancelReason, stages, now, now,
	).Scan(&b.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	return scanBooking(row)
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	stages, err := json.Marshal(b.Stages)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE bookings SET start_at=$1, end_at=$2, subtotal=$3, taxes=$4, fees=$5, discount=$6,
			total_price=$7, status=$8, payment_status=$9, hold_expires_at=$10, promo_code=$11,
			cancel_reason=$12, stages=$13, updated_at=$14
		 WHERE id=$15`,
		b.StartAt, b.EndAt, b.Subtotal, b.Taxes, b.Fees, b.Discount,
		b.TotalPrice, b.Status, b.PaymentStatus, b.HoldExpiresAt, b.PromoCode,
		b.CancelReason, stages, time.Now(), b.ID,
	)
	return err
}

func (r *bookingRepository) UpdateIntervalChecked(ctx context.Context, b *domain.Booking, start, end time.Time, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var vehicleID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, b.VehicleID).Scan(&vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: vehicle %d", domain.ErrNotFound, b.VehicleID)
		}
		return err
	}

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings WHERE `+committingOverlap,
		b.VehicleID, b.ID, start, end, now,
	).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return fmt.Errorf("%w: vehicle %d is reserved for an overlapping interval", domain.ErrConflict, b.VehicleID)
	}

	stages, err := json.Marshal(b.Stages)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET start_at=$1, end_at=$2, pickup_location_id=$3, dropoff_location_id=$4,
			subtotal=$5, taxes=$6, fees=$7, discount=$8, total_price=$9, stages=$10, updated_at=$11
		 WHERE id=$12`,
		start, end, b.PickupLocationID, b.DropoffLocationID,
		b.Subtotal, b.Taxes, b.Fees, b.Discount, b.TotalPrice, stages, now, b.ID,
	)
	if err != nil {
		return err
	}
	b.StartAt = start
	b.EndAt = end

	return tx.Commit()
}

func (r *bookingRepository) CountConflicts(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings WHERE `+committingOverlap,
		vehicleID, excludeID, start, end, now,
	).Scan(&count)
	return count, err
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE renter_id = $1`
	args := []any{renterID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := `SELECT count(*) FROM (` + query + `) AS sub`
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ExpireStaleHolds(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1, cancel_reason = 'hold expired', updated_at = $2
		 WHERE status = $3 AND hold_expires_at <= $2`,
		domain.BookingStatusCancelled, now, domain.BookingStatusPendingHold,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *bookingRepository) ListOverdueActive(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE status = $1 AND end_at < $2 ORDER BY end_at`,
		domain.BookingStatusActive, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE status IN ($1, $2, $3) AND start_at >= $4 AND start_at < $5 ORDER BY start_at`,
		domain.BookingStatusConfirmed, domain.BookingStatusReadyForPickup, domain.BookingStatusCheckedIn, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
