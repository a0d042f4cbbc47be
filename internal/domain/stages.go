package domain

import "time"

// StageData collects the records gathered over a booking's lifetime, one
// field per lifecycle stage. Each stage is written exactly once except the
// append-only lists and the tracking ring, which is capped (see
// AppendTracking). Persisted as a single JSONB column on the booking row.
type StageData struct {
	// AddOns keeps the requested add-on quantities from the original quote
	// so a modification can re-price them.
	AddOns map[int64]int `json:"add_ons,omitempty"`

	Prep            *InspectionRecord `json:"prep,omitempty"`
	CheckIn         *CheckInRecord    `json:"check_in,omitempty"`
	Pickup          *InspectionRecord `json:"pickup,omitempty"`
	Return          *InspectionRecord `json:"return,omitempty"`
	Settlement      *SettlementRecord `json:"settlement,omitempty"`
	Extensions      []ExtensionRecord `json:"extensions,omitempty"`
	Tracking        []TrackingSample  `json:"tracking,omitempty"`
	LocationUpdates []LocationUpdate  `json:"location_updates,omitempty"`
	Incidents       []IncidentRecord  `json:"incidents,omitempty"`
	SOSRequests     []SOSRequest      `json:"sos_requests,omitempty"`
}

// InspectionRecord captures vehicle condition at prep, pickup or return.
type InspectionRecord struct {
	Odometer          *int     `json:"odometer,omitempty"`
	FuelLevel         *float64 `json:"fuel_level,omitempty"` // fraction of a full tank, 0..1
	Notes             string   `json:"notes,omitempty"`
	DamageFlagged     bool     `json:"damage_flagged"`
	DamageDescription string   `json:"damage_description,omitempty"`
	PhotoURLs         []string `json:"photo_urls,omitempty"`
	RecordedBy        int64    `json:"recorded_by"`
	RecordedAt        time.Time `json:"recorded_at"`
}

// CheckInRecord holds online check-in artifacts, including the single-use
// contactless pickup code.
type CheckInRecord struct {
	DocumentURLs      []string  `json:"document_urls,omitempty"`
	AgreementSignedAt time.Time `json:"agreement_signed_at"`
	PickupCode        string    `json:"pickup_code"`
	PickupCodeUsed    bool      `json:"pickup_code_used"`
}

type SettlementRecord struct {
	RentalDays       int       `json:"rental_days"`
	LateHours        int       `json:"late_hours"`
	LateFee          float64   `json:"late_fee"`
	ExtraMiles       float64   `json:"extra_miles"`
	ExtraMileageCost float64   `json:"extra_mileage_cost"`
	FuelCost         float64   `json:"fuel_cost"`
	DamageCost       float64   `json:"damage_cost"`
	FinalTotal       float64   `json:"final_total"`
	SettledAt        time.Time `json:"settled_at"`
}

type ExtensionRecord struct {
	PreviousEndAt time.Time `json:"previous_end_at"`
	NewEndAt      time.Time `json:"new_end_at"`
	ExtraDays     int       `json:"extra_days"`
	Charge        float64   `json:"charge"`
	ExtendedAt    time.Time `json:"extended_at"`
}

type TrackingSample struct {
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	SpeedMPH   float64   `json:"speed_mph,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type LocationUpdate struct {
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type IncidentType string

const (
	IncidentTypeAccident  IncidentType = "accident"
	IncidentTypeBreakdown IncidentType = "breakdown"
	IncidentTypeTheft     IncidentType = "theft"
	IncidentTypeOther     IncidentType = "other"
)

type IncidentSeverity string

const (
	IncidentSeverityMinor IncidentSeverity = "minor"
	IncidentSeverityMajor IncidentSeverity = "major"
)

type IncidentRecord struct {
	Type        IncidentType     `json:"type"`
	Severity    IncidentSeverity `json:"severity"`
	Description string           `json:"description,omitempty"`
	ReportedBy  int64            `json:"reported_by"`
	ReportedAt  time.Time        `json:"reported_at"`
}

// ForcesMaintenance reports whether the incident takes the vehicle out of
// circulation at return/report time.
func (i IncidentRecord) ForcesMaintenance() bool {
	return i.Severity == IncidentSeverityMajor || i.Type == IncidentTypeAccident
}

type SOSRequest struct {
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lng"`
	Message     string    `json:"message,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// AppendTracking appends a sample, evicting the oldest once the ring holds
// maxSamples entries.
func (s *StageData) AppendTracking(sample TrackingSample, maxSamples int) {
	s.Tracking = append(s.Tracking, sample)
	if maxSamples > 0 && len(s.Tracking) > maxSamples {
		s.Tracking = s.Tracking[len(s.Tracking)-maxSamples:]
	}
}
