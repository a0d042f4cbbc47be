package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusReserved    VehicleStatus = "reserved"
	VehicleStatusRented      VehicleStatus = "rented"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

// Vehicle is owned by the catalog; the booking core reads rate/category and
// writes status as a side effect of lifecycle transitions.
type Vehicle struct {
	ID            int64         `json:"id"`
	Make          string        `json:"make"`
	Model         string        `json:"model"`
	Year          int           `json:"year"`
	PlateNumber   string        `json:"plate_number"`
	Category      string        `json:"category"`
	LocationID    int64         `json:"location_id"`
	BaseDailyRate float64       `json:"base_daily_rate"`
	DailyRate     float64       `json:"daily_rate"` // current rate; may differ from base
	Status        VehicleStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
