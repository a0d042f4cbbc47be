package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

const locationColumns = `id, name, address, city, tax_rate, one_way_fee, young_driver_age,
	young_driver_fee_per_day, late_fee_per_hour, mileage_rate, expected_miles_per_day, fuel_price_per_gallon`

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func scanLocation(row interface{ Scan(...any) error }) (*domain.Location, error) {
	l := &domain.Location{}
	err := row.Scan(
		&l.ID, &l.Name, &l.Address, &l.City, &l.TaxRate, &l.OneWayFee, &l.YoungDriverAge,
		&l.YoungDriverFeePerDay, &l.LateFeePerHour, &l.MileageRate, &l.ExpectedMilesPerDay, &l.FuelPricePerGallon,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: location", domain.ErrNotFound)
		}
		return nil, err
	}
	return l, nil
}

func (r *locationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
	return scanLocation(row)
}

func (r *locationRepository) List(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *l)
	}
	return locations, rows.Err()
}
