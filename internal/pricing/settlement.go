package pricing

import (
	"math"
	"time"
)

// SettlementPolicy is the location-resolved rate set for return-time
// adjustments.
type SettlementPolicy struct {
	LateFeePerHour      float64
	MileageRate         float64
	ExpectedMilesPerDay float64
	FuelPricePerGallon  float64
}

// SettlementInput is built from the contracted interval plus pickup and
// return inspection data.
type SettlementInput struct {
	Start          time.Time
	End            time.Time
	ReturnedAt     time.Time
	OriginalTotal  float64
	PickupOdometer *int
	ReturnOdometer *int
	ReturnFuelLevel *float64 // fraction of a full tank, 0..1
	DamageFlagged  bool
	DamageCost     float64
	Policy         SettlementPolicy
}

// Settlement is the final reconciliation folded into the booking total at
// return.
type Settlement struct {
	RentalDays       int
	LateHours        int
	LateFee          float64
	ExtraMiles       float64
	ExtraMileageCost float64
	FuelCost         float64
	DamageCost       float64
	FinalTotal       float64
}

// Settle computes late, mileage, fuel and damage adjustments. Pure: all
// inputs are already fetched, so it may run on any worker.
func Settle(in SettlementInput) Settlement {
	out := Settlement{RentalDays: RentalDays(in.Start, in.End)}

	if in.ReturnedAt.After(in.End) {
		out.LateHours = int(math.Ceil(in.ReturnedAt.Sub(in.End).Hours()))
		out.LateFee = Round2(float64(out.LateHours) * in.Policy.LateFeePerHour)
	}

	// Mileage overage needs both odometer readings; a missing reading means
	// no charge rather than a guess.
	if in.PickupOdometer != nil && in.ReturnOdometer != nil {
		actual := float64(*in.ReturnOdometer - *in.PickupOdometer)
		allowed := float64(out.RentalDays) * in.Policy.ExpectedMilesPerDay
		if actual > allowed {
			out.ExtraMiles = actual - allowed
			out.ExtraMileageCost = Round2(out.ExtraMiles * in.Policy.MileageRate)
		}
	}

	if in.ReturnFuelLevel != nil {
		shortfall := 1.0 - *in.ReturnFuelLevel
		if shortfall > 0 {
			out.FuelCost = Round2(shortfall * in.Policy.FuelPricePerGallon)
		}
	}

	if in.DamageFlagged && in.DamageCost > 0 {
		out.DamageCost = Round2(in.DamageCost)
	}

	out.FinalTotal = Round2(in.OriginalTotal + out.LateFee + out.ExtraMileageCost + out.FuelCost + out.DamageCost)
	return out
}

// CancellationPolicy holds the externally configured cancellation terms.
type CancellationPolicy struct {
	WindowHours int     // cancellations at or inside this window forfeit a share
	FeePercent  float64 // share of the total forfeited, 0..100
}

// CancellationQuote is the fee/refund split for a cancellation.
type CancellationQuote struct {
	Fee    float64
	Refund float64
}

// Cancellation applies the fee policy: at or within the window before the
// contracted start the renter forfeits FeePercent of the total, otherwise
// the cancellation is free and the full amount is refundable.
func Cancellation(total float64, start, now time.Time, p CancellationPolicy) CancellationQuote {
	window := time.Duration(p.WindowHours) * time.Hour
	if start.Sub(now) <= window {
		fee := Round2(total * p.FeePercent / 100)
		return CancellationQuote{Fee: fee, Refund: Round2(total - fee)}
	}
	return CancellationQuote{Fee: 0, Refund: Round2(total)}
}
