package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hacnine/CarHiveBackend/internal/config"
	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/pricing"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

type bookingService struct {
	bookingRepo   repository.BookingRepository
	vehicleRepo   repository.VehicleRepository
	locationRepo  repository.LocationRepository
	priceRuleRepo repository.PriceRuleRepository
	userRepo      repository.UserRepository
	paymentRepo   repository.PaymentRepository
	gateway       PaymentGateway
	emailSvc      EmailService
	audit         AuditRecorder
	cfg           config.BookingConfig
	now           func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	locationRepo repository.LocationRepository,
	priceRuleRepo repository.PriceRuleRepository,
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	gateway PaymentGateway,
	emailSvc EmailService,
	audit AuditRecorder,
	cfg config.BookingConfig,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		vehicleRepo:   vehicleRepo,
		locationRepo:  locationRepo,
		priceRuleRepo: priceRuleRepo,
		userRepo:      userRepo,
		paymentRepo:   paymentRepo,
		gateway:       gateway,
		emailSvc:      emailSvc,
		audit:         audit,
		cfg:           cfg,
		now:           time.Now,
	}
}

func newBookingReference() string {
	return "CH-" + strings.ToUpper(uuid.NewString()[:8])
}

func newPickupCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// buildQuote resolves the vehicle, location policy, rule set, add-ons and
// promo for a quote request and runs the pricing engine.
func (s *bookingService) buildQuote(ctx context.Context, actor Actor, req QuoteRequest) (*pricing.Breakdown, *domain.Vehicle, error) {
	if err := validateInterval(req.Start, req.End); err != nil {
		return nil, nil, err
	}
	if req.DropoffLocationID == 0 {
		req.DropoffLocationID = req.PickupLocationID
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, nil, err
	}

	loc, err := s.locationRepo.GetByID(ctx, req.PickupLocationID)
	if err != nil {
		return nil, nil, err
	}

	rules, err := s.priceRuleRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}

	var addonLines []pricing.AddOnLine
	if len(req.AddOns) > 0 {
		ids := make([]int64, 0, len(req.AddOns))
		for id := range req.AddOns {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		addons, err := s.priceRuleRepo.ListAddOns(ctx, ids)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: unknown add-on", domain.ErrValidation)
			}
			return nil, nil, err
		}
		byID := make(map[int64]domain.AddOn, len(addons))
		for _, a := range addons {
			byID[a.ID] = a
		}
		for _, id := range ids {
			addonLines = append(addonLines, pricing.AddOnLine{AddOn: byID[id], Quantity: req.AddOns[id]})
		}
	}

	var promo *domain.PriceRule
	if req.PromoCode != "" {
		promo, err = s.priceRuleRepo.GetPromoByCode(ctx, req.PromoCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: invalid promo code %q", domain.ErrValidation, req.PromoCode)
			}
			return nil, nil, err
		}
	}

	renterAge := 0
	if renter, err := s.userRepo.GetByID(ctx, actor.UserID); err == nil {
		renterAge = renter.AgeAt(req.Start)
	}

	breakdown := pricing.Price(pricing.PriceInput{
		DailyRate: vehicle.DailyRate,
		Start:     req.Start,
		End:       req.End,
		AddOns:    addonLines,
		Promo:     promo,
		Rules:     rules,
		RenterAge: renterAge,
		OneWay:    req.PickupLocationID != req.DropoffLocationID,
		Policy:    resolvePricingPolicy(s.cfg, loc),
	})
	return &breakdown, vehicle, nil
}

func (s *bookingService) Quote(ctx context.Context, actor Actor, req QuoteRequest) (*pricing.Breakdown, error) {
	breakdown, _, err := s.buildQuote(ctx, actor, req)
	return breakdown, err
}

// PlaceHold quotes the rental and creates the booking as a pending hold.
// The conflict re-check and insert happen in a single transaction under the
// vehicle row lock, so two overlapping requests cannot both win.
func (s *bookingService) PlaceHold(ctx context.Context, actor Actor, req HoldRequest) (*domain.Booking, error) {
	breakdown, vehicle, err := s.buildQuote(ctx, actor, req.QuoteRequest)
	if err != nil {
		return nil, err
	}
	if vehicle.Status != domain.VehicleStatusAvailable {
		return nil, fmt.Errorf("%w: vehicle %d is %s", domain.ErrConflict, vehicle.ID, vehicle.Status)
	}

	now := s.now()
	expiry := now.Add(s.cfg.HoldDuration())
	booking := &domain.Booking{
		Reference:         newBookingReference(),
		RenterID:          actor.UserID,
		VehicleID:         req.VehicleID,
		PickupLocationID:  req.PickupLocationID,
		DropoffLocationID: req.DropoffLocationID,
		StartAt:           req.Start,
		EndAt:             req.End,
		Subtotal:          breakdown.Subtotal + breakdown.AddOnsTotal,
		Taxes:             breakdown.Taxes,
		Fees:              pricing.Round2(breakdown.Fees + breakdown.YoungDriverFee),
		Discount:          breakdown.Discount,
		TotalPrice:        breakdown.Total,
		Status:            domain.BookingStatusPendingHold,
		PaymentStatus:     domain.PaymentStatusPending,
		HoldExpiresAt:     &expiry,
	}
	if req.PromoCode != "" {
		code := req.PromoCode
		booking.PromoCode = &code
	}
	if len(req.AddOns) > 0 {
		booking.Stages.AddOns = req.AddOns
	}

	if err := s.bookingRepo.CreateHold(ctx, booking, now); err != nil {
		return nil, err
	}

	if renter, err := s.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		_ = s.emailSvc.SendHoldNotice(ctx, renter.Email, renter.Name, booking.Reference, booking.TotalPrice, expiry)
	}

	s.audit.Record(ctx, domain.AuditHoldCreated, actor.UserID, booking.ID, map[string]any{
		"vehicle_id": booking.VehicleID,
		"start_at":   booking.StartAt,
		"end_at":     booking.EndAt,
		"total":      booking.TotalPrice,
	})
	return booking, nil
}

func (s *bookingService) load(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(booking.RenterID) {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrForbidden, bookingID)
	}
	return booking, nil
}

// Confirm captures payment and promotes the hold. Idempotent: confirming an
// already-confirmed booking returns the stored payment without a second
// charge. Confirming an expired hold cancels the booking and reports
// ErrHoldExpired.
func (s *bookingService) Confirm(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, *domain.Payment, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, nil, err
	}

	if booking.Status == domain.BookingStatusConfirmed {
		payment, err := s.paymentRepo.GetByBookingID(ctx, booking.ID)
		if err != nil {
			return nil, nil, err
		}
		return booking, payment, nil
	}

	now := s.now()
	if booking.HoldExpired(now) {
		booking.Status = domain.BookingStatusCancelled
		booking.CancelReason = "hold expired"
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return nil, nil, err
		}
		s.audit.Record(ctx, domain.AuditHoldExpired, actor.UserID, booking.ID, nil)
		return nil, nil, fmt.Errorf("%w: booking %d", domain.ErrHoldExpired, booking.ID)
	}

	if booking.Status != domain.BookingStatusPendingHold {
		return nil, nil, fmt.Errorf("%w: cannot confirm booking in status %s", domain.ErrInvalidState, booking.Status)
	}

	providerRef, err := s.gateway.Capture(ctx, booking.Reference, booking.TotalPrice)
	if err != nil {
		return nil, nil, fmt.Errorf("payment capture failed: %w", err)
	}

	payment := &domain.Payment{
		BookingID:   booking.ID,
		Amount:      booking.TotalPrice,
		Status:      domain.PaymentStatusCaptured,
		ProviderRef: providerRef,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, nil, err
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.PaymentStatus = domain.PaymentStatusCaptured
	booking.HoldExpiresAt = nil
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, nil, err
	}

	_ = s.vehicleRepo.UpdateStatus(ctx, booking.VehicleID, domain.VehicleStatusReserved)

	if renter, err := s.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		_ = s.emailSvc.SendBookingConfirmation(ctx, renter.Email, renter.Name, booking.Reference, booking.TotalPrice)
	}

	s.audit.Record(ctx, domain.AuditConfirmed, actor.UserID, booking.ID, map[string]any{
		"provider_ref": providerRef,
		"amount":       payment.Amount,
	})
	return booking, payment, nil
}

// PrepareVehicle records the staff prep inspection. Staff only.
func (s *bookingService) PrepareVehicle(ctx context.Context, actor Actor, bookingID int64, insp InspectionInput) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: staff operation", domain.ErrForbidden)
	}
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: cannot prepare booking in status %s", domain.ErrInvalidState, booking.Status)
	}

	booking.Stages.Prep = s.inspectionRecord(actor, insp)
	booking.Status = domain.BookingStatusReadyForPickup
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, domain.AuditPrepared, actor.UserID, booking.ID, nil)
	return booking, nil
}

// CheckInOnline lets the renter complete paperwork ahead of pickup and
// issues the single-use contactless pickup code.
func (s *bookingService) CheckInOnline(ctx context.Context, actor Actor, bookingID int64, documentURLs []string) (*domain.Booking, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusConfirmed && booking.Status != domain.BookingStatusReadyForPickup {
		return nil, fmt.Errorf("%w: cannot check in booking in status %s", domain.ErrInvalidState, booking.Status)
	}

	booking.Stages.CheckIn = &domain.CheckInRecord{
		DocumentURLs:      documentURLs,
		AgreementSignedAt: s.now(),
		PickupCode:        newPickupCode(),
	}
	booking.Status = domain.BookingStatusCheckedIn
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, domain.AuditCheckedIn, actor.UserID, booking.ID, nil)
	return booking, nil
}

// RecordPickup is the staff-assisted handover: inspection recorded, rental
// goes active, vehicle marked rented.
func (s *bookingService) RecordPickup(ctx context.Context, actor Actor, bookingID int64, insp InspectionInput) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: staff operation", domain.ErrForbidden)
	}
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case domain.BookingStatusConfirmed, domain.BookingStatusReadyForPickup, domain.BookingStatusCheckedIn:
	default:
		return nil, fmt.Errorf("%w: cannot pick up booking in status %s", domain.ErrInvalidState, booking.Status)
	}

	booking.Stages.Pickup = s.inspectionRecord(actor, insp)
	return s.activate(ctx, actor, booking)
}

// ContactlessPickup activates the rental when the renter presents the code
// issued at online check-in. The code is single use.
func (s *bookingService) ContactlessPickup(ctx context.Context, actor Actor, bookingID int64, code string) (*domain.Booking, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusCheckedIn {
		return nil, fmt.Errorf("%w: contactless pickup requires online check-in", domain.ErrInvalidState)
	}
	checkIn := booking.Stages.CheckIn
	if checkIn == nil || checkIn.PickupCodeUsed || checkIn.PickupCode != code {
		return nil, fmt.Errorf("%w: invalid pickup code", domain.ErrConflict)
	}

	checkIn.PickupCodeUsed = true
	return s.activate(ctx, actor, booking)
}

func (s *bookingService) activate(ctx context.Context, actor Actor, booking *domain.Booking) (*domain.Booking, error) {
	booking.Status = domain.BookingStatusActive
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	_ = s.vehicleRepo.UpdateStatus(ctx, booking.VehicleID, domain.VehicleStatusRented)
	s.audit.Record(ctx, domain.AuditPickedUp, actor.UserID, booking.ID, nil)
	return booking, nil
}

// RecordReturn closes the rental: the settlement calculator reconciles late
// hours, mileage, fuel and damage against the contracted terms, the booking
// completes, and the vehicle returns to circulation unless damage or an
// incident takes it to maintenance.
func (s *bookingService) RecordReturn(ctx context.Context, actor Actor, bookingID int64, ret ReturnInput) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: staff operation", domain.ErrForbidden)
	}
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusActive {
		return nil, fmt.Errorf("%w: cannot return booking in status %s", domain.ErrInvalidState, booking.Status)
	}

	returnedAt := ret.ReturnedAt
	if returnedAt.IsZero() {
		returnedAt = s.now()
	}

	// Settlement rates come from the dropoff market.
	var loc *domain.Location
	if l, err := s.locationRepo.GetByID(ctx, booking.DropoffLocationID); err == nil {
		loc = l
	}

	var pickupOdometer *int
	if booking.Stages.Pickup != nil {
		pickupOdometer = booking.Stages.Pickup.Odometer
	}

	settlement := pricing.Settle(pricing.SettlementInput{
		Start:           booking.StartAt,
		End:             booking.EndAt,
		ReturnedAt:      returnedAt,
		OriginalTotal:   booking.TotalPrice,
		PickupOdometer:  pickupOdometer,
		ReturnOdometer:  ret.Odometer,
		ReturnFuelLevel: ret.FuelLevel,
		DamageFlagged:   ret.DamageFlagged,
		DamageCost:      ret.DamageCost,
		Policy:          resolveSettlementPolicy(s.cfg, loc),
	})

	booking.Stages.Return = s.inspectionRecord(actor, ret.InspectionInput)
	booking.Stages.Settlement = &domain.SettlementRecord{
		RentalDays:       settlement.RentalDays,
		LateHours:        settlement.LateHours,
		LateFee:          settlement.LateFee,
		ExtraMiles:       settlement.ExtraMiles,
		ExtraMileageCost: settlement.ExtraMileageCost,
		FuelCost:         settlement.FuelCost,
		DamageCost:       settlement.DamageCost,
		FinalTotal:       settlement.FinalTotal,
		SettledAt:        returnedAt,
	}
	booking.TotalPrice = settlement.FinalTotal
	booking.Status = domain.BookingStatusCompleted
	booking.PaymentStatus = domain.PaymentStatusPaid
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	vehicleStatus := domain.VehicleStatusAvailable
	if ret.DamageFlagged || s.hasMaintenanceIncident(booking) {
		vehicleStatus = domain.VehicleStatusMaintenance
	}
	_ = s.vehicleRepo.UpdateStatus(ctx, booking.VehicleID, vehicleStatus)

	if renter, err := s.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		_ = s.emailSvc.SendReturnReceipt(ctx, renter.Email, renter.Name, booking.Reference, settlement.FinalTotal)
	}

	s.audit.Record(ctx, domain.AuditReturned, actor.UserID, booking.ID, map[string]any{
		"final_total": settlement.FinalTotal,
		"late_hours":  settlement.LateHours,
	})
	return booking, nil
}

func (s *bookingService) hasMaintenanceIncident(booking *domain.Booking) bool {
	for _, inc := range booking.Stages.Incidents {
		if inc.ForcesMaintenance() {
			return true
		}
	}
	return false
}

// Modify moves the booking to a new interval and re-prices it. Allowed
// before pickup only. The new interval is conflict-checked under the vehicle
// row lock, excluding the booking itself.
func (s *bookingService) Modify(ctx context.Context, actor Actor, bookingID int64, newStart, newEnd time.Time) (*domain.Booking, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case domain.BookingStatusPending, domain.BookingStatusPendingHold, domain.BookingStatusConfirmed:
	default:
		return nil, fmt.Errorf("%w: cannot modify booking in status %s", domain.ErrInvalidState, booking.Status)
	}
	now := s.now()
	if booking.HoldExpired(now) {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrHoldExpired, booking.ID)
	}

	promoCode := ""
	if booking.PromoCode != nil {
		promoCode = *booking.PromoCode
	}
	breakdown, _, err := s.buildQuote(ctx, Actor{UserID: booking.RenterID, Role: domain.RoleRenter}, QuoteRequest{
		VehicleID:         booking.VehicleID,
		PickupLocationID:  booking.PickupLocationID,
		DropoffLocationID: booking.DropoffLocationID,
		Start:             newStart,
		End:               newEnd,
		AddOns:            booking.Stages.AddOns,
		PromoCode:         promoCode,
	})
	if err != nil {
		return nil, err
	}

	previous := map[string]any{
		"start_at": booking.StartAt,
		"end_at":   booking.EndAt,
		"total":    booking.TotalPrice,
	}
	booking.Subtotal = breakdown.Subtotal + breakdown.AddOnsTotal
	booking.Taxes = breakdown.Taxes
	booking.Fees = pricing.Round2(breakdown.Fees + breakdown.YoungDriverFee)
	booking.Discount = breakdown.Discount
	booking.TotalPrice = breakdown.Total
	if err := s.bookingRepo.UpdateIntervalChecked(ctx, booking, newStart, newEnd, now); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditModified, actor.UserID, booking.ID, previous)
	return booking, nil
}

// Extend adds whole days to an active rental at the vehicle's current daily
// rate, subject to the same conflict check as any interval change.
func (s *bookingService) Extend(ctx context.Context, actor Actor, bookingID int64, extraDays int) (*domain.Booking, error) {
	if extraDays <= 0 {
		return nil, fmt.Errorf("%w: extra days must be positive", domain.ErrValidation)
	}
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusActive {
		return nil, fmt.Errorf("%w: cannot extend booking in status %s", domain.ErrInvalidState, booking.Status)
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, booking.VehicleID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	previousEnd := booking.EndAt
	newEnd := booking.EndAt.AddDate(0, 0, extraDays)
	charge := pricing.Round2(vehicle.DailyRate * float64(extraDays))

	booking.Stages.Extensions = append(booking.Stages.Extensions, domain.ExtensionRecord{
		PreviousEndAt: previousEnd,
		NewEndAt:      newEnd,
		ExtraDays:     extraDays,
		Charge:        charge,
		ExtendedAt:    now,
	})
	booking.TotalPrice = pricing.Round2(booking.TotalPrice + charge)
	if err := s.bookingRepo.UpdateIntervalChecked(ctx, booking, booking.StartAt, newEnd, now); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditExtended, actor.UserID, booking.ID, map[string]any{
		"extra_days": extraDays,
		"charge":     charge,
		"new_end_at": newEnd,
	})
	return booking, nil
}

// Cancel ends a booking before pickup. Holds cancel free; paid bookings at
// or inside the cancellation window forfeit the configured share, refunding
// the rest.
func (s *bookingService) Cancel(ctx context.Context, actor Actor, bookingID int64, reason string) (*domain.Booking, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case domain.BookingStatusPending, domain.BookingStatusPendingHold, domain.BookingStatusConfirmed,
		domain.BookingStatusReadyForPickup, domain.BookingStatusCheckedIn:
	default:
		return nil, fmt.Errorf("%w: cannot cancel booking in status %s", domain.ErrInvalidState, booking.Status)
	}

	now := s.now()
	wasHold := booking.Status == domain.BookingStatusPendingHold

	var quote pricing.CancellationQuote
	if !wasHold && booking.PaymentStatus == domain.PaymentStatusCaptured {
		quote = pricing.Cancellation(booking.TotalPrice, booking.StartAt, now, pricing.CancellationPolicy{
			WindowHours: s.cfg.CancellationWindowHours,
			FeePercent:  s.cfg.CancellationFeePercent,
		})
		if payment, err := s.paymentRepo.GetByBookingID(ctx, booking.ID); err == nil {
			if quote.Refund > 0 {
				if err := s.gateway.Refund(ctx, payment.ProviderRef, quote.Refund); err != nil {
					return nil, fmt.Errorf("refund failed: %w", err)
				}
			}
			payment.Status = domain.PaymentStatusRefunded
			_ = s.paymentRepo.Update(ctx, payment)
		}
		booking.PaymentStatus = domain.PaymentStatusRefunded
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelReason = reason
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if !wasHold {
		_ = s.vehicleRepo.UpdateStatus(ctx, booking.VehicleID, domain.VehicleStatusAvailable)
		if renter, err := s.userRepo.GetByID(ctx, booking.RenterID); err == nil {
			_ = s.emailSvc.SendCancellationNotice(ctx, renter.Email, renter.Name, booking.Reference, quote.Fee, quote.Refund)
		}
	}

	s.audit.Record(ctx, domain.AuditCancelled, actor.UserID, booking.ID, map[string]any{
		"reason": reason,
		"fee":    quote.Fee,
		"refund": quote.Refund,
	})
	return booking, nil
}

// ReportIncident appends an incident to an active rental. A major incident
// or an accident takes the vehicle to maintenance immediately.
func (s *bookingService) ReportIncident(ctx context.Context, actor Actor, bookingID int64, incident domain.IncidentRecord) (*domain.Booking, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusActive {
		return nil, fmt.Errorf("%w: incidents require an active rental", domain.ErrInvalidState)
	}

	incident.ReportedBy = actor.UserID
	incident.ReportedAt = s.now()
	booking.Stages.Incidents = append(booking.Stages.Incidents, incident)
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if incident.ForcesMaintenance() {
		_ = s.vehicleRepo.UpdateStatus(ctx, booking.VehicleID, domain.VehicleStatusMaintenance)
	}

	s.audit.Record(ctx, domain.AuditIncidentReported, actor.UserID, booking.ID, map[string]any{
		"type":     incident.Type,
		"severity": incident.Severity,
	})
	return booking, nil
}

// RecordTracking appends a telemetry sample to the capped ring. High
// frequency, so no audit entry is written.
func (s *bookingService) RecordTracking(ctx context.Context, actor Actor, bookingID int64, sample domain.TrackingSample) error {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != domain.BookingStatusActive {
		return fmt.Errorf("%w: tracking requires an active rental", domain.ErrInvalidState)
	}

	sample.RecordedAt = s.now()
	booking.Stages.AppendTracking(sample, s.cfg.TrackingRingSize)
	return s.bookingRepo.Update(ctx, booking)
}

// RequestSOS records an emergency request and alerts staff.
func (s *bookingService) RequestSOS(ctx context.Context, actor Actor, bookingID int64, req domain.SOSRequest) (*domain.Booking, error) {
	booking, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusActive {
		return nil, fmt.Errorf("%w: SOS requires an active rental", domain.ErrInvalidState)
	}

	req.RequestedAt = s.now()
	booking.Stages.SOSRequests = append(booking.Stages.SOSRequests, req)
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if renter, err := s.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		_ = s.emailSvc.SendSOSAlert(ctx, renter.Email, booking.Reference, req.Latitude, req.Longitude, req.Message)
	}

	s.audit.Record(ctx, domain.AuditSOSRequested, actor.UserID, booking.ID, map[string]any{
		"lat": req.Latitude,
		"lng": req.Longitude,
	})
	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, error) {
	return s.load(ctx, actor, bookingID)
}

func (s *bookingService) List(ctx context.Context, actor Actor, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if renterID == 0 {
		renterID = actor.UserID
	}
	if !actor.CanAccess(renterID) {
		return nil, 0, fmt.Errorf("%w: cannot list another renter's bookings", domain.ErrForbidden)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.bookingRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *bookingService) inspectionRecord(actor Actor, insp InspectionInput) *domain.InspectionRecord {
	return &domain.InspectionRecord{
		Odometer:          insp.Odometer,
		FuelLevel:         insp.FuelLevel,
		Notes:             insp.Notes,
		DamageFlagged:     insp.DamageFlagged,
		DamageDescription: insp.DamageDescription,
		PhotoURLs:         insp.PhotoURLs,
		RecordedBy:        actor.UserID,
		RecordedAt:        s.now(),
	}
}
