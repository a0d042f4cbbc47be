package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hacnine/CarHiveBackend/internal/security"
)

// NewRouter wires all handlers onto a mux router. Auth endpoints are
// public; everything else requires a bearer token, and staff routes add the
// admin check on top.
func NewRouter(
	tokens security.TokenManager,
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	bookingHandler *BookingHandler,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/api/v1/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/auth/login", authHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	// Catalog and availability
	api.HandleFunc("/vehicles/available", vehicleHandler.FindAvailable).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicleHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/availability", vehicleHandler.CheckAvailability).Methods(http.MethodGet)
	api.HandleFunc("/locations", vehicleHandler.ListLocations).Methods(http.MethodGet)

	// Booking lifecycle
	api.HandleFunc("/bookings/quote", bookingHandler.Quote).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bookingHandler.PlaceHold).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bookingHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", bookingHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", bookingHandler.Modify).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{id:[0-9]+}/confirm", bookingHandler.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/checkin", bookingHandler.CheckIn).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/contactless-pickup", bookingHandler.ContactlessPickup).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/extend", bookingHandler.Extend).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", bookingHandler.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/incidents", bookingHandler.ReportIncident).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/tracking", bookingHandler.RecordTracking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/sos", bookingHandler.RequestSOS).Methods(http.MethodPost)

	// Staff operations
	staff := api.NewRoute().Subrouter()
	staff.Use(AdminOnly)
	staff.HandleFunc("/vehicles", vehicleHandler.Create).Methods(http.MethodPost)
	staff.HandleFunc("/vehicles/{id:[0-9]+}", vehicleHandler.Update).Methods(http.MethodPut)
	staff.HandleFunc("/vehicles/{id:[0-9]+}/status", vehicleHandler.SetStatus).Methods(http.MethodPut)
	staff.HandleFunc("/bookings/{id:[0-9]+}/prepare", bookingHandler.Prepare).Methods(http.MethodPost)
	staff.HandleFunc("/bookings/{id:[0-9]+}/pickup", bookingHandler.Pickup).Methods(http.MethodPost)
	staff.HandleFunc("/bookings/{id:[0-9]+}/return", bookingHandler.Return).Methods(http.MethodPost)
	staff.HandleFunc("/bookings/{id:[0-9]+}/audit", bookingHandler.AuditTrail).Methods(http.MethodGet)

	return r
}
