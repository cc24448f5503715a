package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusDeleted   ScheduleStatus = "deleted"
)

// Schedule is an original planned pickup run for a truck/driver/barangay.
// Rows are never physically deleted; removal is the "deleted" status.
type Schedule struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	TruckID     uuid.UUID      `gorm:"type:uuid;not null" json:"truck_id"`
	DriverID    uuid.UUID      `gorm:"type:uuid;not null" json:"driver_id"`
	BarangayID  uuid.UUID      `gorm:"type:uuid;not null" json:"barangay_id"`
	PickupAt    time.Time      `gorm:"column:pickup_at;not null" json:"pickup_at"`
	Status      ScheduleStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Remarks     string         `gorm:"type:text" json:"remarks"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Segments []RouteSegment `gorm:"foreignKey:ScheduleID" json:"segments,omitempty"`
	Truck    *Truck         `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
	Driver   *Driver        `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	Barangay *Barangay      `gorm:"foreignKey:BarangayID" json:"barangay,omitempty"`
}

func (Schedule) TableName() string {
	return "schedules"
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ReSchedule is a pickup run spawned from missed legs of one or more
// schedules. Its own segments live in route_segments with reschedule_id
// set; each keeps schedule_id pointing at the origin run.
type ReSchedule struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	TruckID    uuid.UUID      `gorm:"type:uuid;not null" json:"truck_id"`
	DriverID   uuid.UUID      `gorm:"type:uuid;not null" json:"driver_id"`
	BarangayID uuid.UUID      `gorm:"type:uuid;not null" json:"barangay_id"`
	PickupAt   time.Time      `gorm:"column:pickup_at;not null" json:"pickup_at"`
	Status     ScheduleStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Remarks    string         `gorm:"type:text" json:"remarks"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Segments []RouteSegment `gorm:"foreignKey:RescheduleID" json:"segments,omitempty"`
	Truck    *Truck         `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
	Driver   *Driver        `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	Barangay *Barangay      `gorm:"foreignKey:BarangayID" json:"barangay,omitempty"`
}

func (ReSchedule) TableName() string {
	return "reschedules"
}

func (r *ReSchedule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
