package service

import (
	"github.com/Hacnine/CarHiveBackend/internal/config"
	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/pricing"
)

// resolvePricingPolicy layers the pickup location's overrides on top of the
// configured defaults. A nil location (lookup failed or not yet loaded)
// yields pure defaults.
func resolvePricingPolicy(cfg config.BookingConfig, loc *domain.Location) pricing.Policy {
	p := pricing.Policy{
		TaxRate:              cfg.DefaultTaxRate,
		OneWayFee:            cfg.DefaultOneWayFee,
		YoungDriverAge:       cfg.DefaultYoungDriverAge,
		YoungDriverFeePerDay: cfg.DefaultYoungDriverFeePerDay,
	}
	if loc == nil {
		return p
	}
	if loc.TaxRate != nil {
		p.TaxRate = *loc.TaxRate
	}
	if loc.OneWayFee != nil {
		p.OneWayFee = *loc.OneWayFee
	}
	if loc.YoungDriverAge != nil {
		p.YoungDriverAge = *loc.YoungDriverAge
	}
	if loc.YoungDriverFeePerDay != nil {
		p.YoungDriverFeePerDay = *loc.YoungDriverFeePerDay
	}
	return p
}

func resolveSettlementPolicy(cfg config.BookingConfig, loc *domain.Location) pricing.SettlementPolicy {
	p := pricing.SettlementPolicy{
		LateFeePerHour:      cfg.DefaultLateFeePerHour,
		MileageRate:         cfg.DefaultMileageRate,
		ExpectedMilesPerDay: cfg.DefaultExpectedMilesPerDay,
		FuelPricePerGallon:  cfg.DefaultFuelPricePerGallon,
	}
	if loc == nil {
		return p
	}
	if loc.LateFeePerHour != nil {
		p.LateFeePerHour = *loc.LateFeePerHour
	}
	if loc.MileageRate != nil {
		p.MileageRate = *loc.MileageRate
	}
	if loc.ExpectedMilesPerDay != nil {
		p.ExpectedMilesPerDay = *loc.ExpectedMilesPerDay
	}
	if loc.FuelPricePerGallon != nil {
		p.FuelPricePerGallon = *loc.FuelPricePerGallon
	}
	return p
}
