package pricing

import (
	"math"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
)

// Policy is the location-resolved set of fee knobs the engine needs. The
// caller resolves location overrides against configured defaults before
// calling Price, so the engine itself never touches a store.
type Policy struct {
	TaxRate              float64
	OneWayFee            float64
	YoungDriverAge       int
	YoungDriverFeePerDay float64
}

// AddOnLine pairs a catalog add-on with a requested quantity.
type AddOnLine struct {
	AddOn    domain.AddOn
	Quantity int
}

// PriceInput carries everything Price needs. Rules are passed explicitly;
// identical inputs always produce an identical breakdown.
type PriceInput struct {
	DailyRate float64
	Start     time.Time
	End       time.Time
	AddOns    []AddOnLine
	Promo     *domain.PriceRule
	Rules     []domain.PriceRule
	RenterAge int
	OneWay    bool
	Policy    Policy
}

// BreakdownLine is one priced add-on.
type BreakdownLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	PerDay    bool    `json:"per_day"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Breakdown is the full quote. The booking service persists it verbatim
// onto the booking's financial fields.
type Breakdown struct {
	Days            int             `json:"days"`
	DailyRates      []float64       `json:"daily_rates"`
	Subtotal        float64         `json:"subtotal"`
	AddOnLines      []BreakdownLine `json:"addon_lines,omitempty"`
	AddOnsTotal     float64         `json:"addons_total"`
	OneWayFee       float64         `json:"one_way_fee"`
	YoungDriverFee  float64         `json:"young_driver_fee"`
	Fees            float64         `json:"fees"`
	Taxes           float64         `json:"taxes"`
	TotalBeforePromo float64        `json:"total_before_promo"`
	Discount        float64         `json:"discount"`
	Total           float64         `json:"total"`
}

// Round2 rounds to two decimal places. Applied at every accumulation
// boundary, not just the final total, so ledger parity holds bit for bit.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RentalDays is the billable day count for an interval: ceil of the span in
// 24h days, minimum 1.
func RentalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// Price computes the deterministic cost breakdown for a rental quote.
//
// Per-day rates are seeded from the vehicle's current daily rate, then each
// rule in list order adjusts the days it covers. Overlapping seasonal rules
// stack multiplicatively on purpose: cumulative surcharges compose rather
// than deduplicate. The promo is applied last against the taxed total.
func Price(in PriceInput) Breakdown {
	days := RentalDays(in.Start, in.End)

	rates := make([]float64, days)
	for i := range rates {
		rates[i] = in.DailyRate
	}

	for _, rule := range in.Rules {
		switch rule.Type {
		case domain.RuleTypeSeasonal:
			if !rule.OverlapsDates(in.Start, in.End) {
				continue
			}
			for i := range rates {
				if rule.Multiplier > 0 {
					rates[i] *= rule.Multiplier
				}
				rates[i] += rule.FlatAmount
			}
		case domain.RuleTypeWeekday:
			if rule.Multiplier <= 0 {
				continue
			}
			for i := range rates {
				day := in.Start.AddDate(0, 0, i).Weekday()
				if rule.AppliesToWeekday(day) {
					rates[i] *= rule.Multiplier
				}
			}
		case domain.RuleTypeLengthOfRental:
			if rule.Multiplier <= 0 || days < rule.MinDays {
				continue
			}
			for i := range rates {
				rates[i] *= rule.Multiplier
			}
		}
	}

	var subtotal float64
	for i := range rates {
		rates[i] = Round2(rates[i])
		subtotal += rates[i]
	}
	subtotal = Round2(subtotal)

	var addonLines []BreakdownLine
	var addonsTotal float64
	for _, line := range in.AddOns {
		if line.Quantity <= 0 {
			continue
		}
		total := line.AddOn.UnitPrice * float64(line.Quantity)
		if line.AddOn.PerDay {
			total *= float64(days)
		}
		total = Round2(total)
		addonLines = append(addonLines, BreakdownLine{
			Name:      line.AddOn.Name,
			Quantity:  line.Quantity,
			PerDay:    line.AddOn.PerDay,
			UnitPrice: line.AddOn.UnitPrice,
			Total:     total,
		})
		addonsTotal = Round2(addonsTotal + total)
	}

	var oneWayFee float64
	if in.OneWay {
		oneWayFee = Round2(in.Policy.OneWayFee)
	}

	var youngDriverFee float64
	if in.Policy.YoungDriverAge > 0 && in.RenterAge > 0 && in.RenterAge < in.Policy.YoungDriverAge {
		youngDriverFee = Round2(in.Policy.YoungDriverFeePerDay * float64(days))
	}

	fees := Round2(oneWayFee)
	taxes := Round2(in.Policy.TaxRate * (subtotal + addonsTotal + fees + youngDriverFee))
	totalBeforePromo := Round2(subtotal + addonsTotal + fees + youngDriverFee + taxes)

	var discount float64
	if in.Promo != nil && in.Promo.Type == domain.RuleTypePromo {
		if in.Promo.FlatAmount > 0 {
			discount = Round2(in.Promo.FlatAmount)
		} else if in.Promo.Multiplier > 0 {
			discount = Round2(totalBeforePromo * (1 - 1/in.Promo.Multiplier))
		}
	}

	total := Round2(totalBeforePromo - discount)
	if total < 0 {
		total = 0
	}

	return Breakdown{
		Days:             days,
		DailyRates:       rates,
		Subtotal:         subtotal,
		AddOnLines:       addonLines,
		AddOnsTotal:      addonsTotal,
		OneWayFee:        oneWayFee,
		YoungDriverFee:   youngDriverFee,
		Fees:             fees,
		Taxes:            taxes,
		TotalBeforePromo: totalBeforePromo,
		Discount:         discount,
		Total:            total,
	}
}
