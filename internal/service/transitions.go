package service

import (
	"time"

	"github.com/google/uuid"

	"route-service/internal/model"
)

// remarksSegmentDone is stamped on completion when the caller left
// remarks empty. Caller-provided remarks are never overwritten.
const remarksSegmentDone = "Route already done"

// segmentTransitions is the full transition table. rescheduled is only
// reachable through the reconciler, never via Advance.
var segmentTransitions = map[model.SegmentStatus][]model.SegmentStatus{
	model.SegmentStatusPending: {model.SegmentStatusCompleted, model.SegmentStatusMissed},
	model.SegmentStatusMissed:  {model.SegmentStatusRescheduled},
}

func canTransition(from, to model.SegmentStatus) bool {
	for _, allowed := range segmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Classify compares a leg's actual elapsed time against its planned
// duration. The comparison is seconds-precision elapsed against a
// minute-precision plan, with no rounding: exactly on the boundary is
// on time.
func Classify(plannedMinutes int, startTime, completedAt *time.Time) model.LegTiming {
	if startTime == nil || completedAt == nil {
		return model.LegUnknown
	}
	elapsed := completedAt.Sub(*startTime)
	if elapsed <= time.Duration(plannedMinutes)*time.Minute {
		return model.LegOnTime
	}
	return model.LegDelayed
}

func elapsedSeconds(startTime, completedAt *time.Time) *int64 {
	if startTime == nil || completedAt == nil {
		return nil
	}
	secs := int64(completedAt.Sub(*startTime) / time.Second)
	return &secs
}

// ProjectSummary rolls up a schedule's own legs. Total duration spans
// min(start_time) to max(completed_at) across the set rather than summing
// per-leg durations, since legs can overlap or run out of order. Legs in
// rescheduled state were missed before being superseded and count as
// missed, keeping their miss reasons.
func ProjectSummary(scheduleID uuid.UUID, segments []model.RouteSegment) model.ScheduleSummary {
	summary := model.ScheduleSummary{
		ScheduleID:    scheduleID,
		MissedReasons: []string{},
	}

	var minStart, maxDone *time.Time
	for i := range segments {
		seg := &segments[i]
		switch seg.Status {
		case model.SegmentStatusCompleted:
			summary.CompletedCount++
		case model.SegmentStatusMissed, model.SegmentStatusRescheduled:
			summary.MissedCount++
			if seg.Remarks != "" {
				summary.MissedReasons = append(summary.MissedReasons, seg.Remarks)
			}
		}
		if seg.StartTime != nil && (minStart == nil || seg.StartTime.Before(*minStart)) {
			minStart = seg.StartTime
		}
		if seg.CompletedAt != nil && (maxDone == nil || seg.CompletedAt.After(*maxDone)) {
			maxDone = seg.CompletedAt
		}
	}

	if minStart != nil && maxDone != nil && maxDone.After(*minStart) {
		summary.TotalSeconds = int64(maxDone.Sub(*minStart) / time.Second)
	}

	return summary
}
