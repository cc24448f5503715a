package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"route-service/internal/model"
)

// ReportService serves the read side: on-time/delay stats per driver and
// the per-schedule summary projection.
type ReportService struct {
	scheduleRepo ScheduleRepository
	segmentRepo  SegmentRepository
}

func NewReportService(scheduleRepo ScheduleRepository, segmentRepo SegmentRepository) *ReportService {
	return &ReportService{
		scheduleRepo: scheduleRepo,
		segmentRepo:  segmentRepo,
	}
}

// DriverStats classifies every leg assigned to the driver and rolls the
// classifications up. scheduleID optionally narrows to legs that
// originate from one schedule, which includes its reschedule clones.
func (s *ReportService) DriverStats(ctx context.Context, principal model.Principal, driverID uuid.UUID, scheduleID *uuid.UUID) (*model.DriverStats, error) {
	if !resolveScope(principal).AllowsDriver(driverID) {
		return nil, ErrPermissionDenied
	}

	segments, err := s.segmentRepo.ListByDriver(ctx, driverID, scheduleID)
	if err != nil {
		return nil, err
	}

	stats := &model.DriverStats{
		DriverID: driverID,
		Legs:     make([]model.LegTimingEntry, 0, len(segments)),
	}
	for i := range segments {
		seg := &segments[i]
		timing := Classify(seg.PlannedMins, seg.StartTime, seg.CompletedAt)
		switch timing {
		case model.LegOnTime:
			stats.OnTimeCount++
		case model.LegDelayed:
			stats.DelayedCount++
		default:
			stats.UnknownCount++
		}
		stats.Legs = append(stats.Legs, model.LegTimingEntry{
			SegmentID:      seg.ID,
			ScheduleID:     seg.ScheduleID,
			RescheduleID:   seg.RescheduleID,
			PlannedMinutes: seg.PlannedMins,
			StartTime:      seg.StartTime,
			CompletedAt:    seg.CompletedAt,
			ElapsedSeconds: elapsedSeconds(seg.StartTime, seg.CompletedAt),
			Timing:         timing,
		})
	}

	return stats, nil
}

// Summarize scans the schedule's own legs and projects the rollup fresh;
// the cached route_summaries row is only a completion-time snapshot.
func (s *ReportService) Summarize(ctx context.Context, principal model.Principal, scheduleID uuid.UUID) (*model.ScheduleSummary, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !resolveScope(principal).AllowsDriver(schedule.DriverID) {
		return nil, ErrPermissionDenied
	}

	segments, err := s.segmentRepo.ListOwnedBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	summary := ProjectSummary(scheduleID, segments)
	return &summary, nil
}
