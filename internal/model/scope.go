package model

import "github.com/google/uuid"

type ScopeType string

const (
	ScopeAll    ScopeType = "ALL"
	ScopeDriver ScopeType = "DRIVER"
)

// Scope narrows what runs a caller may read or mutate. Admins and
// dispatchers see everything; drivers only their own runs.
type Scope struct {
	Type     ScopeType
	DriverID *uuid.UUID
}

func (s Scope) AllowsDriver(driverID uuid.UUID) bool {
	if s.Type == ScopeAll {
		return true
	}
	return s.DriverID != nil && *s.DriverID == driverID
}
