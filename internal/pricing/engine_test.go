package pricing

import (
	"testing"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestPrice_BaseRental(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	in := PriceInput{
		DailyRate: 50,
		Start:     start,
		End:       end,
		Policy:    Policy{TaxRate: 0.10},
	}

	bd := Price(in)
	assert.Equal(t, 3, bd.Days)
	assert.Equal(t, 150.00, bd.Subtotal)
	assert.Equal(t, 15.00, bd.Taxes)
	assert.Equal(t, 165.00, bd.Total)
	assert.Equal(t, 0.00, bd.Discount)
}

func TestPrice_SeasonalMultiplier(t *testing.T) {
	start := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	in := PriceInput{
		DailyRate: 50,
		Start:     start,
		End:       end,
		Rules: []domain.PriceRule{
			{
				Type:       domain.RuleTypeSeasonal,
				StartDate:  datePtr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
				EndDate:    datePtr(time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)),
				Multiplier: 1.2,
			},
		},
		Policy: Policy{TaxRate: 0.10},
	}

	bd := Price(in)
	assert.Equal(t, 180.00, bd.Subtotal)
	assert.Equal(t, 18.00, bd.Taxes)
	assert.Equal(t, 198.00, bd.Total)
}

func TestPrice_MinimumOneDay(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	bd := Price(PriceInput{DailyRate: 40, Start: start, End: start.Add(2 * time.Hour)})
	assert.Equal(t, 1, bd.Days)
	assert.Equal(t, 40.00, bd.Subtotal)
}

func TestPrice_WeekdayRule(t *testing.T) {
	// Fri Jun 6 2025 through Sun, weekend surcharge on Sat+Sun.
	start := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	in := PriceInput{
		DailyRate: 100,
		Start:     start,
		End:       end,
		Rules: []domain.PriceRule{
			{
				Type:       domain.RuleTypeWeekday,
				Weekdays:   []time.Weekday{time.Saturday, time.Sunday},
				Multiplier: 1.5,
			},
		},
	}

	bd := Price(in)
	assert.Equal(t, []float64{100.00, 150.00, 150.00}, bd.DailyRates)
	assert.Equal(t, 400.00, bd.Subtotal)
}

func TestPrice_LengthOfRentalDiscount(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rule := domain.PriceRule{Type: domain.RuleTypeLengthOfRental, MinDays: 7, Multiplier: 0.9}

	t.Run("threshold met", func(t *testing.T) {
		bd := Price(PriceInput{
			DailyRate: 50,
			Start:     start,
			End:       start.Add(7 * 24 * time.Hour),
			Rules:     []domain.PriceRule{rule},
		})
		assert.Equal(t, 315.00, bd.Subtotal) // 7 * 45
	})

	t.Run("below threshold", func(t *testing.T) {
		bd := Price(PriceInput{
			DailyRate: 50,
			Start:     start,
			End:       start.Add(3 * 24 * time.Hour),
			Rules:     []domain.PriceRule{rule},
		})
		assert.Equal(t, 150.00, bd.Subtotal)
	})
}

func TestPrice_OverlappingSeasonalRulesStack(t *testing.T) {
	start := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	season := func(mult float64) domain.PriceRule {
		return domain.PriceRule{
			Type:       domain.RuleTypeSeasonal,
			StartDate:  datePtr(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)),
			EndDate:    datePtr(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)),
			Multiplier: mult,
		}
	}

	bd := Price(PriceInput{
		DailyRate: 100,
		Start:     start,
		End:       end,
		Rules:     []domain.PriceRule{season(1.2), season(1.1)},
	})
	// Cumulative surcharges compose in list order: 100 * 1.2 * 1.1 = 132/day.
	assert.Equal(t, 264.00, bd.Subtotal)
}

func TestPrice_AddOns(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	bd := Price(PriceInput{
		DailyRate: 50,
		Start:     start,
		End:       end,
		AddOns: []AddOnLine{
			{AddOn: domain.AddOn{Name: "Child Seat", UnitPrice: 5, PerDay: true}, Quantity: 2},
			{AddOn: domain.AddOn{Name: "Roadside Kit", UnitPrice: 25, PerDay: false}, Quantity: 1},
		},
		Policy: Policy{TaxRate: 0.10},
	})

	assert.Len(t, bd.AddOnLines, 2)
	assert.Equal(t, 30.00, bd.AddOnLines[0].Total) // 5 * 2 * 3 days
	assert.Equal(t, 25.00, bd.AddOnLines[1].Total)
	assert.Equal(t, 55.00, bd.AddOnsTotal)
	assert.Equal(t, 20.50, bd.Taxes)  // 10% of 205
	assert.Equal(t, 225.50, bd.Total)
}

func TestPrice_Fees(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	t.Run("one-way fee", func(t *testing.T) {
		bd := Price(PriceInput{
			DailyRate: 50,
			Start:     start,
			End:       end,
			OneWay:    true,
			Policy:    Policy{TaxRate: 0.10, OneWayFee: 75},
		})
		assert.Equal(t, 75.00, bd.OneWayFee)
		assert.Equal(t, 17.50, bd.Taxes) // 10% of 175
		assert.Equal(t, 192.50, bd.Total)
	})

	t.Run("young driver surcharge", func(t *testing.T) {
		bd := Price(PriceInput{
			DailyRate: 50,
			Start:     start,
			End:       end,
			RenterAge: 22,
			Policy:    Policy{TaxRate: 0.10, YoungDriverAge: 25, YoungDriverFeePerDay: 15},
		})
		assert.Equal(t, 30.00, bd.YoungDriverFee) // 15 * 2 days
		assert.Equal(t, 13.00, bd.Taxes)          // 10% of 130
		assert.Equal(t, 143.00, bd.Total)
	})

	t.Run("renter at threshold pays nothing extra", func(t *testing.T) {
		bd := Price(PriceInput{
			DailyRate: 50,
			Start:     start,
			End:       end,
			RenterAge: 25,
			Policy:    Policy{YoungDriverAge: 25, YoungDriverFeePerDay: 15},
		})
		assert.Equal(t, 0.00, bd.YoungDriverFee)
	})
}

func TestPrice_Promo(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	base := PriceInput{
		DailyRate: 50,
		Start:     start,
		End:       end,
		Policy:    Policy{TaxRate: 0.10},
	}

	t.Run("flat discount", func(t *testing.T) {
		in := base
		in.Promo = &domain.PriceRule{Type: domain.RuleTypePromo, Code: "SAVE20", FlatAmount: 20}
		bd := Price(in)
		assert.Equal(t, 20.00, bd.Discount)
		assert.Equal(t, 145.00, bd.Total)
	})

	t.Run("multiplier-implied discount", func(t *testing.T) {
		in := base
		in.Promo = &domain.PriceRule{Type: domain.RuleTypePromo, Code: "HALF", Multiplier: 2}
		bd := Price(in)
		assert.Equal(t, 82.50, bd.Discount) // 165 * (1 - 1/2)
		assert.Equal(t, 82.50, bd.Total)
	})

	t.Run("discount never drives the total negative", func(t *testing.T) {
		in := base
		in.Promo = &domain.PriceRule{Type: domain.RuleTypePromo, Code: "BIG", FlatAmount: 500}
		bd := Price(in)
		assert.Equal(t, 0.00, bd.Total)
	})
}

func TestPrice_RoundingCadence(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	// 49.995 * 1.0 stays 49.995 before rounding; each day must round to
	// 50.00 before summing, so the subtotal is 150.00, not 149.99.
	bd := Price(PriceInput{
		DailyRate: 49.995,
		Start:     start,
		End:       end,
		Policy:    Policy{TaxRate: 0.10},
	})
	assert.Equal(t, []float64{50.00, 50.00, 50.00}, bd.DailyRates)
	assert.Equal(t, 150.00, bd.Subtotal)
	assert.Equal(t, 15.00, bd.Taxes)
	assert.Equal(t, 165.00, bd.Total)
}

func TestPrice_Deterministic(t *testing.T) {
	start := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	in := PriceInput{
		DailyRate: 77.77,
		Start:     start,
		End:       start.Add(5 * 24 * time.Hour),
		Rules: []domain.PriceRule{
			{Type: domain.RuleTypeWeekday, Weekdays: []time.Weekday{time.Saturday}, Multiplier: 1.25},
			{Type: domain.RuleTypeLengthOfRental, MinDays: 5, Multiplier: 0.95},
		},
		AddOns: []AddOnLine{{AddOn: domain.AddOn{Name: "GPS", UnitPrice: 7.5, PerDay: true}, Quantity: 1}},
		Policy: Policy{TaxRate: 0.0875},
	}

	first := Price(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Price(in))
	}
}

func TestRentalDays(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		end      time.Time
		expected int
	}{
		{"same instant", start, 1},
		{"under a day", start.Add(6 * time.Hour), 1},
		{"exactly one day", start.Add(24 * time.Hour), 1},
		{"a day and an hour", start.Add(25 * time.Hour), 2},
		{"three days", start.Add(72 * time.Hour), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RentalDays(start, tt.end))
		})
	}
}
