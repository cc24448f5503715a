package model

import (
	"time"

	"github.com/google/uuid"
)

// LegTiming is the time-window classification of a single leg.
type LegTiming string

const (
	LegOnTime  LegTiming = "on_time"
	LegDelayed LegTiming = "delayed"
	LegUnknown LegTiming = "unknown"
)

// LegTimingEntry is one line of the per-leg log returned by driver stats.
type LegTimingEntry struct {
	SegmentID      uuid.UUID  `json:"segment_id"`
	ScheduleID     uuid.UUID  `json:"schedule_id"`
	RescheduleID   *uuid.UUID `json:"reschedule_id,omitempty"`
	PlannedMinutes int        `json:"planned_minutes"`
	StartTime      *time.Time `json:"start_time"`
	CompletedAt    *time.Time `json:"completed_at"`
	ElapsedSeconds *int64     `json:"elapsed_seconds"`
	Timing         LegTiming  `json:"timing"`
}

type DriverStats struct {
	DriverID     uuid.UUID        `json:"driver_id"`
	OnTimeCount  int              `json:"on_time_count"`
	DelayedCount int              `json:"delayed_count"`
	UnknownCount int              `json:"unknown_count"`
	Legs         []LegTimingEntry `json:"legs"`
}

// WasteTotals is the category rollup produced by the tally aggregator.
type WasteTotals struct {
	Biodegradable    int `json:"biodegradable"`
	NonBiodegradable int `json:"non_biodegradable"`
	Recyclable       int `json:"recyclable"`
	Total            int `json:"total"`
}

// ScheduleSummary is the projector output for one schedule.
type ScheduleSummary struct {
	ScheduleID     uuid.UUID `json:"schedule_id"`
	CompletedCount int       `json:"completed_count"`
	MissedCount    int       `json:"missed_count"`
	TotalSeconds   int64     `json:"total_duration_seconds"`
	MissedReasons  []string  `json:"missed_reasons"`
}
