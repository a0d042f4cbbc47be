package domain

import "errors"

// Error taxonomy shared across services and handlers. Services wrap these
// with fmt.Errorf("%w: ...") so callers can branch with errors.Is while the
// HTTP layer maps each sentinel to a status code.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state for this operation")
	ErrHoldExpired  = errors.New("hold has expired")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
)
