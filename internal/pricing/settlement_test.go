package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }

func TestSettle_LateReturn(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	out := Settle(SettlementInput{
		Start:         start,
		End:           end,
		ReturnedAt:    end.Add(2 * time.Hour),
		OriginalTotal: 165.00,
		Policy:        SettlementPolicy{LateFeePerHour: 10},
	})

	assert.Equal(t, 2, out.LateHours)
	assert.Equal(t, 20.00, out.LateFee)
	assert.Equal(t, 185.00, out.FinalTotal)
}

func TestSettle_OnTimeReturn(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	out := Settle(SettlementInput{
		Start:         start,
		End:           end,
		ReturnedAt:    end.Add(-30 * time.Minute),
		OriginalTotal: 165.00,
		Policy:        SettlementPolicy{LateFeePerHour: 10},
	})

	assert.Equal(t, 0, out.LateHours)
	assert.Equal(t, 0.00, out.LateFee)
	assert.Equal(t, 165.00, out.FinalTotal)
}

func TestSettle_MileageOverage(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)
	policy := SettlementPolicy{MileageRate: 0.25, ExpectedMilesPerDay: 100}

	t.Run("over the allowance", func(t *testing.T) {
		out := Settle(SettlementInput{
			Start:          start,
			End:            end,
			ReturnedAt:     end,
			OriginalTotal:  165.00,
			PickupOdometer: intPtr(10000),
			ReturnOdometer: intPtr(10450),
			Policy:         policy,
		})
		assert.Equal(t, 150.00, out.ExtraMiles) // 450 driven, 300 allowed
		assert.Equal(t, 37.50, out.ExtraMileageCost)
		assert.Equal(t, 202.50, out.FinalTotal)
	})

	t.Run("under the allowance", func(t *testing.T) {
		out := Settle(SettlementInput{
			Start:          start,
			End:            end,
			ReturnedAt:     end,
			OriginalTotal:  165.00,
			PickupOdometer: intPtr(10000),
			ReturnOdometer: intPtr(10200),
			Policy:         policy,
		})
		assert.Equal(t, 0.00, out.ExtraMileageCost)
	})

	t.Run("missing reading means no charge", func(t *testing.T) {
		out := Settle(SettlementInput{
			Start:          start,
			End:            end,
			ReturnedAt:     end,
			OriginalTotal:  165.00,
			ReturnOdometer: intPtr(10450),
			Policy:         policy,
		})
		assert.Equal(t, 0.00, out.ExtraMileageCost)
	})
}

func TestSettle_FuelShortfall(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	t.Run("three-quarter tank", func(t *testing.T) {
		out := Settle(SettlementInput{
			Start:           start,
			End:             end,
			ReturnedAt:      end,
			OriginalTotal:   55.00,
			ReturnFuelLevel: floatPtr(0.75),
			Policy:          SettlementPolicy{FuelPricePerGallon: 40},
		})
		assert.Equal(t, 10.00, out.FuelCost) // 0.25 * 40
		assert.Equal(t, 65.00, out.FinalTotal)
	})

	t.Run("full tank", func(t *testing.T) {
		out := Settle(SettlementInput{
			Start:           start,
			End:             end,
			ReturnedAt:      end,
			OriginalTotal:   55.00,
			ReturnFuelLevel: floatPtr(1.0),
			Policy:          SettlementPolicy{FuelPricePerGallon: 40},
		})
		assert.Equal(t, 0.00, out.FuelCost)
	})
}

func TestSettle_Damage(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	t.Run("flagged", func(t *testing.T) {
		out := Settle(SettlementInput{
			Start:         start,
			End:           end,
			ReturnedAt:    end,
			OriginalTotal: 55.00,
			DamageFlagged: true,
			DamageCost:    250.00,
		})
		assert.Equal(t, 250.00, out.DamageCost)
		assert.Equal(t, 305.00, out.FinalTotal)
	})

	t.Run("amount ignored without the flag", func(t *testing.T) {
		out := Settle(SettlementInput{
			Start:         start,
			End:           end,
			ReturnedAt:    end,
			OriginalTotal: 55.00,
			DamageCost:    250.00,
		})
		assert.Equal(t, 0.00, out.DamageCost)
		assert.Equal(t, 55.00, out.FinalTotal)
	})
}

func TestSettle_AllAdjustments(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	out := Settle(SettlementInput{
		Start:           start,
		End:             end,
		ReturnedAt:      end.Add(90 * time.Minute), // rounds up to 2 hours
		OriginalTotal:   198.00,
		PickupOdometer:  intPtr(5000),
		ReturnOdometer:  intPtr(5400),
		ReturnFuelLevel: floatPtr(0.5),
		DamageFlagged:   true,
		DamageCost:      100,
		Policy: SettlementPolicy{
			LateFeePerHour:      10,
			MileageRate:         0.25,
			ExpectedMilesPerDay: 100,
			FuelPricePerGallon:  40,
		},
	})

	assert.Equal(t, 3, out.RentalDays)
	assert.Equal(t, 20.00, out.LateFee)
	assert.Equal(t, 25.00, out.ExtraMileageCost) // 100 extra miles * 0.25
	assert.Equal(t, 20.00, out.FuelCost)
	assert.Equal(t, 100.00, out.DamageCost)
	assert.Equal(t, 363.00, out.FinalTotal)
}

func TestCancellation(t *testing.T) {
	policy := CancellationPolicy{WindowHours: 48, FeePercent: 50}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("inside the window forfeits half", func(t *testing.T) {
		q := Cancellation(200.00, now.Add(24*time.Hour), now, policy)
		assert.Equal(t, 100.00, q.Fee)
		assert.Equal(t, 100.00, q.Refund)
	})

	t.Run("exactly at the window boundary is charged", func(t *testing.T) {
		q := Cancellation(200.00, now.Add(48*time.Hour), now, policy)
		assert.Equal(t, 100.00, q.Fee)
	})

	t.Run("outside the window is free", func(t *testing.T) {
		q := Cancellation(200.00, now.Add(72*time.Hour), now, policy)
		assert.Equal(t, 0.00, q.Fee)
		assert.Equal(t, 200.00, q.Refund)
	})
}
