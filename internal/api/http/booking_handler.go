package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
	audit      service.AuditRecorder
}

func NewBookingHandler(bookingSvc service.BookingService, audit service.AuditRecorder) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, audit: audit}
}

type quoteRequest struct {
	VehicleID         int64         `json:"vehicle_id"`
	PickupLocationID  int64         `json:"pickup_location_id"`
	DropoffLocationID int64         `json:"dropoff_location_id"`
	StartAt           time.Time     `json:"start_at"`
	EndAt             time.Time     `json:"end_at"`
	AddOns            map[int64]int `json:"add_ons,omitempty"`
	PromoCode         string        `json:"promo_code,omitempty"`
}

func (q quoteRequest) toService() service.QuoteRequest {
	return service.QuoteRequest{
		VehicleID:         q.VehicleID,
		PickupLocationID:  q.PickupLocationID,
		DropoffLocationID: q.DropoffLocationID,
		Start:             q.StartAt,
		End:               q.EndAt,
		AddOns:            q.AddOns,
		PromoCode:         q.PromoCode,
	}
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var req quoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	breakdown, err := h.bookingSvc.Quote(r.Context(), actor, req.toService())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *BookingHandler) PlaceHold(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var req quoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.PlaceHold(r.Context(), actor, service.HoldRequest{QuoteRequest: req.toService()})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	booking, payment, err := h.bookingSvc.Confirm(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking, "payment": payment})
}

type inspectionRequest struct {
	Odometer          *int     `json:"odometer,omitempty"`
	FuelLevel         *float64 `json:"fuel_level,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	DamageFlagged     bool     `json:"damage_flagged"`
	DamageDescription string   `json:"damage_description,omitempty"`
	PhotoURLs         []string `json:"photo_urls,omitempty"`
}

func (i inspectionRequest) toService() service.InspectionInput {
	return service.InspectionInput{
		Odometer:          i.Odometer,
		FuelLevel:         i.FuelLevel,
		Notes:             i.Notes,
		DamageFlagged:     i.DamageFlagged,
		DamageDescription: i.DamageDescription,
		PhotoURLs:         i.PhotoURLs,
	}
}

func (h *BookingHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req inspectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.PrepareVehicle(r.Context(), actor, id, req.toService())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		DocumentURLs []string `json:"document_urls,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.CheckInOnline(r.Context(), actor, id, req.DocumentURLs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req inspectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.RecordPickup(r.Context(), actor, id, req.toService())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) ContactlessPickup(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.ContactlessPickup(r.Context(), actor, id, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Return(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		inspectionRequest
		ReturnedAt *time.Time `json:"returned_at,omitempty"`
		DamageCost float64    `json:"damage_cost,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ret := service.ReturnInput{
		InspectionInput: req.inspectionRequest.toService(),
		DamageCost:      req.DamageCost,
	}
	if req.ReturnedAt != nil {
		ret.ReturnedAt = *req.ReturnedAt
	}

	booking, err := h.bookingSvc.RecordReturn(r.Context(), actor, id, ret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Modify(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		StartAt time.Time `json:"start_at"`
		EndAt   time.Time `json:"end_at"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.Modify(r.Context(), actor, id, req.StartAt, req.EndAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Extend(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		ExtraDays int `json:"extra_days"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.Extend(r.Context(), actor, id, req.ExtraDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.Cancel(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) ReportIncident(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var incident domain.IncidentRecord
	if err := decodeBody(r, &incident); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.ReportIncident(r.Context(), actor, id, incident)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) RecordTracking(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var sample domain.TrackingSample
	if err := decodeBody(r, &sample); err != nil {
		writeError(w, err)
		return
	}

	if err := h.bookingSvc.RecordTracking(r.Context(), actor, id, sample); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"recorded": true})
}

func (h *BookingHandler) RequestSOS(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req domain.SOSRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.RequestSOS(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.bookingSvc.Get(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var renterID int64
	if v := r.URL.Query().Get("renter_id"); v != "" {
		renterID, _ = strconv.ParseInt(v, 10, 64)
	}
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32)

	bookings, total, err := h.bookingSvc.List(r.Context(), actor, renterID, r.URL.Query().Get("status"), int32(page), int32(pageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings, "total": total})
}

// AuditTrail returns the booking's append-only event trail. Staff only.
func (h *BookingHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	events, err := h.audit.Trail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
