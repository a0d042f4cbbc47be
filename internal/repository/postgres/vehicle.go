package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

const vehicleColumns = `id, make, model, year, plate_number, category, location_id,
	base_daily_rate, daily_rate, status, created_at, updated_at`

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func scanVehicle(row interface{ Scan(...any) error }) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := row.Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.PlateNumber, &v.Category, &v.LocationID,
		&v.BaseDailyRate, &v.DailyRate, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: vehicle", domain.ErrNotFound)
		}
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO vehicles (make, model, year, plate_number, category, location_id,
			base_daily_rate, daily_rate, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		v.Make, v.Model, v.Year, v.PlateNumber, v.Category, v.LocationID,
		v.BaseDailyRate, v.DailyRate, v.Status, time.Now(), time.Now(),
	).Scan(&v.ID)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	return scanVehicle(row)
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET make=$1, model=$2, year=$3, plate_number=$4, category=$5,
			location_id=$6, base_daily_rate=$7, daily_rate=$8, status=$9, updated_at=$10
		 WHERE id=$11`,
		v.Make, v.Model, v.Year, v.PlateNumber, v.Category,
		v.LocationID, v.BaseDailyRate, v.DailyRate, v.Status, time.Now(), v.ID,
	)
	return err
}

func (r *vehicleRepository) UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: vehicle %d", domain.ErrNotFound, id)
	}
	return nil
}

// FindAvailable applies the same committing-set predicate as the booking
// repository, as a NOT EXISTS against the interval.
func (r *vehicleRepository) FindAvailable(ctx context.Context, q repository.AvailabilityQuery, now time.Time) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles v
		WHERE v.status = 'available'
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.vehicle_id = v.id
			  AND b.start_at <= $2 AND b.end_at >= $1
			  AND (b.status IN ('confirmed', 'active')
			       OR (b.status = 'pending_hold' AND b.hold_expires_at > $3))
		  )`
	args := []any{q.Start, q.End, now}
	argIdx := 4
	if q.Category != "" {
		query += fmt.Sprintf(" AND v.category = $%d", argIdx)
		args = append(args, q.Category)
		argIdx++
	}
	if q.LocationID != 0 {
		query += fmt.Sprintf(" AND v.location_id = $%d", argIdx)
		args = append(args, q.LocationID)
	}
	query += " ORDER BY v.daily_rate, v.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}
