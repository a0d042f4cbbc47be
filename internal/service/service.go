package service

import (
	"context"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/pricing"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

// Actor identifies the authenticated caller on every service operation.
// Admins may act on any booking; renters only on their own.
type Actor struct {
	UserID int64
	Role   domain.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// CanAccess reports whether the actor may operate on a booking owned by
// renterID.
func (a Actor) CanAccess(renterID int64) bool {
	return a.IsAdmin() || a.UserID == renterID
}

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password, licenseNumber string, dateOfBirth time.Time) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type AvailabilityService interface {
	FindAvailable(ctx context.Context, q repository.AvailabilityQuery) ([]domain.Vehicle, error)
	IsAvailable(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error)
}

// QuoteRequest is the input to Quote and PlaceHold pricing.
type QuoteRequest struct {
	VehicleID         int64
	PickupLocationID  int64
	DropoffLocationID int64
	Start             time.Time
	End               time.Time
	AddOns            map[int64]int // addon id -> quantity
	PromoCode         string
}

// HoldRequest creates a pending hold for the actor.
type HoldRequest struct {
	QuoteRequest
}

type InspectionInput struct {
	Odometer          *int
	FuelLevel         *float64
	Notes             string
	DamageFlagged     bool
	DamageDescription string
	PhotoURLs         []string
}

type ReturnInput struct {
	InspectionInput
	ReturnedAt time.Time
	DamageCost float64
}

type BookingService interface {
	Quote(ctx context.Context, actor Actor, req QuoteRequest) (*pricing.Breakdown, error)
	PlaceHold(ctx context.Context, actor Actor, req HoldRequest) (*domain.Booking, error)
	Confirm(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, *domain.Payment, error)
	PrepareVehicle(ctx context.Context, actor Actor, bookingID int64, insp InspectionInput) (*domain.Booking, error)
	CheckInOnline(ctx context.Context, actor Actor, bookingID int64, documentURLs []string) (*domain.Booking, error)
	RecordPickup(ctx context.Context, actor Actor, bookingID int64, insp InspectionInput) (*domain.Booking, error)
	ContactlessPickup(ctx context.Context, actor Actor, bookingID int64, code string) (*domain.Booking, error)
	RecordReturn(ctx context.Context, actor Actor, bookingID int64, ret ReturnInput) (*domain.Booking, error)
	Modify(ctx context.Context, actor Actor, bookingID int64, newStart, newEnd time.Time) (*domain.Booking, error)
	Extend(ctx context.Context, actor Actor, bookingID int64, extraDays int) (*domain.Booking, error)
	Cancel(ctx context.Context, actor Actor, bookingID int64, reason string) (*domain.Booking, error)
	ReportIncident(ctx context.Context, actor Actor, bookingID int64, incident domain.IncidentRecord) (*domain.Booking, error)
	RecordTracking(ctx context.Context, actor Actor, bookingID int64, sample domain.TrackingSample) error
	RequestSOS(ctx context.Context, actor Actor, bookingID int64, req domain.SOSRequest) (*domain.Booking, error)
	Get(ctx context.Context, actor Actor, bookingID int64) (*domain.Booking, error)
	List(ctx context.Context, actor Actor, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type VehicleService interface {
	AddVehicle(ctx context.Context, actor Actor, v *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, actor Actor, v *domain.Vehicle) error
	SetVehicleStatus(ctx context.Context, actor Actor, id int64, status domain.VehicleStatus) error
	ListLocations(ctx context.Context) ([]domain.Location, error)
}

type EmailService interface {
	SendHoldNotice(ctx context.Context, email, name, reference string, total float64, expiresAt time.Time) error
	SendBookingConfirmation(ctx context.Context, email, name, reference string, total float64) error
	SendPickupReminder(ctx context.Context, email, name, reference string, startAt time.Time) error
	SendCancellationNotice(ctx context.Context, email, name, reference string, fee, refund float64) error
	SendReturnReceipt(ctx context.Context, email, name, reference string, finalTotal float64) error
	SendSOSAlert(ctx context.Context, email, reference string, lat, lng float64, message string) error
}

// PaymentGateway abstracts the card processor. Capture is called once per
// booking at confirm; Refund at cancel when money moves back.
type PaymentGateway interface {
	Capture(ctx context.Context, bookingRef string, amount float64) (providerRef string, err error)
	Refund(ctx context.Context, providerRef string, amount float64) error
}

// AuditRecorder writes trail entries. Best effort: implementations log and
// swallow failures.
type AuditRecorder interface {
	Record(ctx context.Context, action string, actorID, bookingID int64, details any)
	Trail(ctx context.Context, bookingID int64) ([]domain.AuditEvent, error)
}
