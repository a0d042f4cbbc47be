package jobs

import (
	"context"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/logger"
)

// ExpireStaleHolds demotes pending holds whose expiry has passed to
// cancelled. Availability queries already exclude expired holds, so this is
// row hygiene rather than a correctness requirement.
func (jr *JobRunner) ExpireStaleHolds() {
	jr.runWithRecovery("ExpireStaleHolds", func() {
		ctx := context.Background()

		count, err := jr.store.ExpireStaleHolds(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to expire stale holds", "error", err)
			return
		}
		if count > 0 {
			logger.Info("Expired stale holds", "count", count)
		}
	})
}

// MarkOverdueReturns logs active rentals past their contracted end. The
// booking stays active and the late fee accrues hour by hour until return;
// this job exists so operations can chase the vehicle.
func (jr *JobRunner) MarkOverdueReturns() {
	jr.runWithRecovery("MarkOverdueReturns", func() {
		ctx := context.Background()

		overdue, err := jr.store.ListOverdueActive(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}
		if len(overdue) == 0 {
			return
		}

		logger.Info("Active rentals past contracted end", "count", len(overdue))
		for _, b := range overdue {
			logger.Warn("Rental overdue",
				"booking_id", b.ID,
				"reference", b.Reference,
				"renter_id", b.RenterID,
				"vehicle_id", b.VehicleID,
				"end_at", b.EndAt)
		}
	})
}

// SendPickupReminders emails renters whose bookings start within the next
// 24 hours.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		ctx := context.Background()
		now := time.Now()

		upcoming, err := jr.store.ListStartingBetween(ctx, now, now.Add(24*time.Hour))
		if err != nil {
			logger.Error("Failed to list upcoming bookings", "error", err)
			return
		}

		sent := 0
		for _, b := range upcoming {
			switch b.Status {
			case domain.BookingStatusConfirmed, domain.BookingStatusReadyForPickup, domain.BookingStatusCheckedIn:
			default:
				continue
			}

			renter, err := jr.store.UserRepository.GetByID(ctx, b.RenterID)
			if err != nil {
				logger.Error("Failed to load renter for reminder", "booking_id", b.ID, "error", err)
				continue
			}
			if err := jr.email.SendPickupReminder(ctx, renter.Email, renter.Name, b.Reference, b.StartAt); err != nil {
				logger.Error("Failed to send pickup reminder", "booking_id", b.ID, "error", err)
				continue
			}
			sent++
		}

		if sent > 0 {
			logger.Info("Sent pickup reminders", "count", sent)
		}
	})
}
