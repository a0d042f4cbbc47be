package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, e *domain.AuditEvent) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO audit_events (entity_type, entity_id, action, actor_id, context_data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		e.EntityType, e.EntityID, e.Action, e.ActorID, []byte(e.ContextData), time.Now(),
	).Scan(&e.ID)
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, action, actor_id, context_data, created_at
		 FROM audit_events WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at`,
		entityType, entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var contextData []byte
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.ActorID, &contextData, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ContextData = contextData
		events = append(events, e)
	}
	return events, rows.Err()
}
