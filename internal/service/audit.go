package service

import (
	"context"
	"encoding/json"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/logger"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

type auditRecorder struct {
	repo repository.AuditRepository
}

func NewAuditRecorder(repo repository.AuditRepository) AuditRecorder {
	return &auditRecorder{repo: repo}
}

// Record writes a booking trail entry. Failures are logged and swallowed so
// the trail never blocks a state transition.
func (r *auditRecorder) Record(ctx context.Context, action string, actorID, bookingID int64, details any) {
	event := &domain.AuditEvent{
		EntityType: "booking",
		EntityID:   bookingID,
		Action:     action,
		ActorID:    actorID,
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			event.ContextData = data
		}
	}
	if err := r.repo.Create(ctx, event); err != nil {
		logger.WarnContext(ctx, "audit write failed", "action", action, "booking_id", bookingID, "error", err)
	}
}

func (r *auditRecorder) Trail(ctx context.Context, bookingID int64) ([]domain.AuditEvent, error) {
	return r.repo.ListByEntity(ctx, "booking", bookingID)
}
