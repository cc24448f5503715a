package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleDispatcher UserRole = "DISPATCHER"
	UserRoleDriver     UserRole = "DRIVER"
)

// Principal is the authenticated caller, threaded explicitly into every
// service operation.
type Principal struct {
	UserID   uuid.UUID
	Role     UserRole
	DriverID *uuid.UUID
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsDispatcher() bool {
	return p.Role == UserRoleDispatcher
}

func (p Principal) IsDriver() bool {
	return p.Role == UserRoleDriver
}

// CanDispatch reports whether the caller may create schedules and
// reschedules or act on someone else's legs.
func (p Principal) CanDispatch() bool {
	return p.Role == UserRoleAdmin || p.Role == UserRoleDispatcher
}
