package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidStatus      = errors.New("invalid status transition")
	ErrNoEligibleSegments = errors.New("no eligible segments to reschedule")
)

// ValidationError names the offending field. Surfaced as a 422 by the
// HTTP layer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConflictError is a business conflict, distinct from malformed input:
// the truck already has a run at the same pickup time.
type ConflictError struct {
	TruckID  uuid.UUID
	PickupAt time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("truck %s already has a schedule at %s", e.TruckID, e.PickupAt.Format(time.RFC3339))
}
