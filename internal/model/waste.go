package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WasteCollection is a sack tally attached to exactly one leg: either a
// schedule-owned leg (RouteDetailID) or a reschedule child
// (RescheduleDetailID). Never both, never neither. The same rule is a
// CHECK constraint on the table.
type WasteCollection struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	RouteDetailID      *uuid.UUID `gorm:"type:uuid" json:"route_detail_id,omitempty"`
	RescheduleDetailID *uuid.UUID `gorm:"type:uuid" json:"reschedule_detail_id,omitempty"`
	BiodegradableSacks int        `gorm:"not null;default:0" json:"biodegradable_sacks"`
	NonBioSacks        int        `gorm:"column:non_biodegradable_sacks;not null;default:0" json:"non_biodegradable_sacks"`
	RecyclableSacks    int        `gorm:"not null;default:0" json:"recyclable_sacks"`
	RecordedBy         *uuid.UUID `gorm:"type:uuid" json:"recorded_by"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (WasteCollection) TableName() string {
	return "waste_collections"
}

func (w *WasteCollection) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// SegmentID returns the leg this tally is attributed to. A row with both
// parents set (possible only if the CHECK constraint is bypassed) is
// attributed to the route detail so it still counts exactly once.
func (w *WasteCollection) SegmentID() *uuid.UUID {
	if w.RouteDetailID != nil {
		return w.RouteDetailID
	}
	return w.RescheduleDetailID
}

// RouteSummary is the cached per-schedule rollup, refreshed when the
// schedule completes and read-mostly afterward.
type RouteSummary struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ScheduleID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"schedule_id"`
	CompletedCount int       `gorm:"not null;default:0" json:"completed_count"`
	MissedCount    int       `gorm:"not null;default:0" json:"missed_count"`
	TotalSeconds   int64     `gorm:"column:total_duration_seconds;not null;default:0" json:"total_duration_seconds"`
	MissedReasons  string    `gorm:"type:text" json:"missed_reasons"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RouteSummary) TableName() string {
	return "route_summaries"
}

func (r *RouteSummary) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
