package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "pending"
	BookingStatusPendingHold    BookingStatus = "pending_hold"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusReadyForPickup BookingStatus = "ready_for_pickup"
	BookingStatusCheckedIn      BookingStatus = "checked_in"
	BookingStatusActive         BookingStatus = "active"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusCancelled      BookingStatus = "cancelled"
)

// CommittingStatuses are the statuses that occupy a vehicle for conflict
// purposes. A pending_hold only commits while its hold_expires_at is in the
// future; every committing-set query carries that predicate.
var CommittingStatuses = []BookingStatus{
	BookingStatusPendingHold,
	BookingStatusConfirmed,
	BookingStatusActive,
}

func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking is the central reservation entity. It is created as a hold by the
// booking service and thereafter mutated only by it; financial fields are
// derived by the pricing engine and the settlement calculator, never edited
// by hand.
type Booking struct {
	ID                int64         `json:"id"`
	Reference         string        `json:"reference"`
	RenterID          int64         `json:"renter_id"`
	VehicleID         int64         `json:"vehicle_id"`
	PickupLocationID  int64         `json:"pickup_location_id"`
	DropoffLocationID int64         `json:"dropoff_location_id"`
	StartAt           time.Time     `json:"start_at"`
	EndAt             time.Time     `json:"end_at"`
	Subtotal          float64       `json:"subtotal"`
	Taxes             float64       `json:"taxes"`
	Fees              float64       `json:"fees"`
	Discount          float64       `json:"discount"`
	TotalPrice        float64       `json:"total_price"`
	Status            BookingStatus `json:"status"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	HoldExpiresAt     *time.Time    `json:"hold_expires_at,omitempty"`
	PromoCode         *string       `json:"promo_code,omitempty"`
	CancelReason      string        `json:"cancel_reason,omitempty"`
	Stages            StageData     `json:"stages"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// HoldExpired reports whether the booking is a hold whose expiry instant has
// passed. Such a hold no longer commits inventory even before the sweep job
// demotes it to cancelled.
func (b *Booking) HoldExpired(now time.Time) bool {
	return b.Status == BookingStatusPendingHold &&
		b.HoldExpiresAt != nil &&
		!b.HoldExpiresAt.After(now)
}
