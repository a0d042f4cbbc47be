package postgres

import (
	"database/sql"

	"github.com/Hacnine/CarHiveBackend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.VehicleRepository
	repository.BookingRepository
	repository.LocationRepository
	repository.PriceRuleRepository
	repository.UserRepository
	repository.PaymentRepository
	repository.AuditRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                  db,
		VehicleRepository:   NewVehicleRepository(db),
		BookingRepository:   NewBookingRepository(db),
		LocationRepository:  NewLocationRepository(db),
		PriceRuleRepository: NewPriceRuleRepository(db),
		UserRepository:      NewUserRepository(db),
		PaymentRepository:   NewPaymentRepository(db),
		AuditRepository:     NewAuditRepository(db),
	}
}
