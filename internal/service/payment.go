package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Hacnine/CarHiveBackend/internal/logger"
)

// simulatedGateway stands in for the card processor in development and
// test environments. Captures always succeed and return a synthetic
// provider reference.
type simulatedGateway struct{}

func NewSimulatedGateway() PaymentGateway {
	return &simulatedGateway{}
}

func (g *simulatedGateway) Capture(ctx context.Context, bookingRef string, amount float64) (string, error) {
	if amount < 0 {
		return "", fmt.Errorf("cannot capture negative amount %.2f", amount)
	}
	ref := "sim_" + uuid.NewString()
	logger.InfoContext(ctx, "payment captured", "booking_ref", bookingRef, "amount", amount, "provider_ref", ref)
	return ref, nil
}

func (g *simulatedGateway) Refund(ctx context.Context, providerRef string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("cannot refund negative amount %.2f", amount)
	}
	logger.InfoContext(ctx, "payment refunded", "provider_ref", providerRef, "amount", amount)
	return nil
}
