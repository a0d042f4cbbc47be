package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
	"github.com/Hacnine/CarHiveBackend/internal/service"
)

type VehicleHandler struct {
	vehicleSvc      service.VehicleService
	availabilitySvc service.AvailabilityService
}

func NewVehicleHandler(vehicleSvc service.VehicleService, availabilitySvc service.AvailabilityService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc, availabilitySvc: availabilitySvc}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation
	}
	return id, nil
}

func queryTime(r *http.Request, name string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, r.URL.Query().Get(name))
	if err != nil {
		return time.Time{}, domain.ErrValidation
	}
	return t, nil
}

// FindAvailable lists vehicles free over [start, end], optionally filtered
// by category and location.
func (h *VehicleHandler) FindAvailable(w http.ResponseWriter, r *http.Request) {
	start, err := queryTime(r, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := queryTime(r, "end")
	if err != nil {
		writeError(w, err)
		return
	}

	q := repository.AvailabilityQuery{
		Start:    start,
		End:      end,
		Category: r.URL.Query().Get("category"),
	}
	if loc := r.URL.Query().Get("location_id"); loc != "" {
		q.LocationID, _ = strconv.ParseInt(loc, 10, 64)
	}

	vehicles, err := h.availabilitySvc.FindAvailable(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

func (h *VehicleHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := queryTime(r, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := queryTime(r, "end")
	if err != nil {
		writeError(w, err)
		return
	}

	available, err := h.availabilitySvc.IsAvailable(r.Context(), id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle_id": id, "available": available})
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	vehicle, err := h.vehicleSvc.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())

	var vehicle domain.Vehicle
	if err := decodeBody(r, &vehicle); err != nil {
		writeError(w, err)
		return
	}
	if err := h.vehicleSvc.AddVehicle(r.Context(), actor, &vehicle); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var vehicle domain.Vehicle
	if err := decodeBody(r, &vehicle); err != nil {
		writeError(w, err)
		return
	}
	vehicle.ID = id
	if err := h.vehicleSvc.UpdateVehicle(r.Context(), actor, &vehicle); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Status domain.VehicleStatus `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.vehicleSvc.SetVehicleStatus(r.Context(), actor, id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle_id": id, "status": req.Status})
}

func (h *VehicleHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.vehicleSvc.ListLocations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
}
