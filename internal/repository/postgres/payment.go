package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO payments (booking_id, amount, status, provider_ref, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.BookingID, p.Amount, p.Status, p.ProviderRef, time.Now(), time.Now(),
	).Scan(&p.ID)
}

func (r *paymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_id, amount, status, provider_ref, created_at, updated_at
		 FROM payments WHERE booking_id = $1 ORDER BY created_at DESC LIMIT 1`,
		bookingID,
	).Scan(&p.ID, &p.BookingID, &p.Amount, &p.Status, &p.ProviderRef, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment for booking %d", domain.ErrNotFound, bookingID)
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET amount=$1, status=$2, provider_ref=$3, updated_at=$4 WHERE id=$5`,
		p.Amount, p.Status, p.ProviderRef, time.Now(), p.ID,
	)
	return err
}
