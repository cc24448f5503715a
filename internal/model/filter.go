package model

import (
	"time"

	"github.com/google/uuid"
)

// RunFilter narrows schedule and reschedule listings.
type RunFilter struct {
	Scope      Scope
	Statuses   []ScheduleStatus
	TruckID    *uuid.UUID
	DriverID   *uuid.UUID
	BarangayID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// SegmentFilter narrows leg listings, used by the missed-leg feed.
type SegmentFilter struct {
	Statuses     []SegmentStatus
	UnviewedOnly bool
	ScheduleID   *uuid.UUID
	Limit        int
	Offset       int
}
