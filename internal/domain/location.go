package domain

// Location carries the per-market policy knobs consumed by pricing and
// settlement. Nil pointer fields fall back to the configured defaults when
// the policy is resolved by the booking service.
type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`

	TaxRate              *float64 `json:"tax_rate,omitempty"`
	OneWayFee            *float64 `json:"one_way_fee,omitempty"`
	YoungDriverAge       *int     `json:"young_driver_age,omitempty"`
	YoungDriverFeePerDay *float64 `json:"young_driver_fee_per_day,omitempty"`
	LateFeePerHour       *float64 `json:"late_fee_per_hour,omitempty"`
	MileageRate          *float64 `json:"mileage_rate,omitempty"`
	ExpectedMilesPerDay  *float64 `json:"expected_miles_per_day,omitempty"`
	FuelPricePerGallon   *float64 `json:"fuel_price_per_gallon,omitempty"`
}
