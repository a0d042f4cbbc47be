package domain

import "time"

// Payment records the outcome of a gateway capture. Only the provider
// reference and amount are persisted, never instrument data.
type Payment struct {
	ID          int64         `json:"id"`
	BookingID   int64         `json:"booking_id"`
	Amount      float64       `json:"amount"`
	Status      PaymentStatus `json:"status"`
	ProviderRef string        `json:"provider_ref"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
