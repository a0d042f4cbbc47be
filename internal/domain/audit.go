package domain

import (
	"encoding/json"
	"time"
)

// AuditEvent is an append-only trail entry emitted for every booking state
// transition. Recording is fire-and-forget; a failed write is logged, never
// surfaced to the caller.
type AuditEvent struct {
	ID          int64           `json:"id"`
	EntityType  string          `json:"entity_type"`
	EntityID    int64           `json:"entity_id"`
	Action      string          `json:"action"`
	ActorID     int64           `json:"actor_id"`
	ContextData json.RawMessage `json:"context_data,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Audit actions for bookings.
const (
	AuditHoldCreated      = "hold_created"
	AuditHoldExpired      = "hold_expired"
	AuditConfirmed        = "confirmed"
	AuditPrepared         = "prepared"
	AuditCheckedIn        = "checked_in"
	AuditPickedUp         = "picked_up"
	AuditExtended         = "extended"
	AuditModified         = "modified"
	AuditCancelled        = "cancelled"
	AuditReturned         = "returned"
	AuditIncidentReported = "incident_reported"
	AuditSOSRequested     = "sos_requested"
)
