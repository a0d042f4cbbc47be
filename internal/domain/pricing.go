package domain

import "time"

type RuleType string

const (
	RuleTypeSeasonal       RuleType = "seasonal"
	RuleTypeWeekday        RuleType = "weekday"
	RuleTypeLengthOfRental RuleType = "length_of_rental"
	RuleTypePromo          RuleType = "promo"
)

// PriceRule is an immutable pricing fact. The engine evaluates rules in
// list order and never mutates them.
type PriceRule struct {
	ID   int64    `json:"id"`
	Type RuleType `json:"type"`
	Name string   `json:"name"`

	// seasonal
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// weekday
	Weekdays []time.Weekday `json:"weekdays,omitempty"`

	// length_of_rental
	MinDays int `json:"min_days,omitempty"`

	// promo
	Code string `json:"code,omitempty"`

	Multiplier float64 `json:"multiplier,omitempty"`
	FlatAmount float64 `json:"flat_amount,omitempty"`
	Active     bool    `json:"active"`
}

// AppliesToWeekday reports whether a weekday rule covers the given day.
func (r PriceRule) AppliesToWeekday(d time.Weekday) bool {
	for _, wd := range r.Weekdays {
		if wd == d {
			return true
		}
	}
	return false
}

// OverlapsDates reports whether a seasonal rule's date range intersects
// [start, end] under closed-interval semantics.
func (r PriceRule) OverlapsDates(start, end time.Time) bool {
	if r.StartDate == nil || r.EndDate == nil {
		return false
	}
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

// AddOn is a catalog extra priced per day or flat for the whole rental.
type AddOn struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	PerDay    bool    `json:"per_day"`
}
