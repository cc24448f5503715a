package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SegmentStatus string

const (
	SegmentStatusPending     SegmentStatus = "pending"
	SegmentStatusCompleted   SegmentStatus = "completed"
	SegmentStatusMissed      SegmentStatus = "missed"
	SegmentStatusRescheduled SegmentStatus = "rescheduled"
)

// RouteSegment is one from→to leg of a pickup run.
//
// Ownership is encoded by RescheduleID: when nil the leg belongs to the
// schedule in ScheduleID; when set the leg belongs to that reschedule and
// ScheduleID holds the origin schedule it was cloned from (lineage, must
// never be lost).
type RouteSegment struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ScheduleID   uuid.UUID     `gorm:"type:uuid;not null" json:"schedule_id"`
	RescheduleID *uuid.UUID    `gorm:"type:uuid" json:"reschedule_id,omitempty"`
	FromZoneID   *uuid.UUID    `gorm:"type:uuid" json:"from_zone_id,omitempty"`
	ToZoneID     *uuid.UUID    `gorm:"type:uuid" json:"to_zone_id,omitempty"`
	FromTermID   *uuid.UUID    `gorm:"column:from_terminal_id;type:uuid" json:"from_terminal_id,omitempty"`
	ToTermID     *uuid.UUID    `gorm:"column:to_terminal_id;type:uuid" json:"to_terminal_id,omitempty"`
	DistanceKm   float64       `gorm:"column:distance_km" json:"distance_km"`
	PlannedMins  int           `gorm:"column:planned_minutes" json:"planned_minutes"`
	SpeedKph     float64       `gorm:"column:speed_kph" json:"speed_kph"`
	Status       SegmentStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	StartTime    *time.Time    `json:"start_time"`
	CompletedAt  *time.Time    `json:"completed_at"`
	Remarks      string        `gorm:"type:text" json:"remarks"`
	IsViewed     bool          `gorm:"not null;default:false" json:"is_viewed"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RouteSegment) TableName() string {
	return "route_segments"
}

func (s *RouteSegment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// OwnedBySchedule reports whether the leg belongs to its schedule directly,
// as opposed to being a reschedule child.
func (s *RouteSegment) OwnedBySchedule() bool {
	return s.RescheduleID == nil
}

// SegmentStatusLog records every status change of a leg, including the
// flips performed by the reschedule reconciler.
type SegmentStatusLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	SegmentID uuid.UUID      `gorm:"type:uuid;not null" json:"segment_id"`
	OldStatus *SegmentStatus `gorm:"type:varchar(16)" json:"old_status"`
	NewStatus SegmentStatus  `gorm:"type:varchar(16);not null" json:"new_status"`
	Note      string         `gorm:"type:text" json:"note"`
	ChangedBy *uuid.UUID     `gorm:"type:uuid" json:"changed_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SegmentStatusLog) TableName() string {
	return "segment_status_log"
}

func (l *SegmentStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
