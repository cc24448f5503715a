package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"route-service/internal/model"
)

// SegmentService owns the per-leg lifecycle: pending → completed | missed.
// The missed → rescheduled flip belongs to the reconciler alone.
type SegmentService struct {
	segmentRepo SegmentRepository
}

func NewSegmentService(segmentRepo SegmentRepository) *SegmentService {
	return &SegmentService{segmentRepo: segmentRepo}
}

type AdvanceInput struct {
	Status      model.SegmentStatus
	StartTime   *time.Time
	CompletedAt *time.Time
	Remarks     string
}

// Advance moves a leg to the requested status. Marking a leg missed
// requires a non-empty reason; everything else about the transition is
// optional and defaulted.
func (s *SegmentService) Advance(ctx context.Context, principal model.Principal, segmentID uuid.UUID, input AdvanceInput) (*model.RouteSegment, error) {
	segment, err := s.segmentRepo.GetByID(ctx, segmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if principal.IsDriver() {
		ownerDriver, err := s.segmentRepo.OwnerDriverID(ctx, segment)
		if err != nil {
			return nil, err
		}
		if !resolveScope(principal).AllowsDriver(ownerDriver) {
			return nil, ErrPermissionDenied
		}
	}

	// rescheduled is reconciler-only; a bare status update fails closed.
	if input.Status == model.SegmentStatusRescheduled {
		return nil, ErrInvalidStatus
	}
	if !canTransition(segment.Status, input.Status) {
		return nil, ErrInvalidStatus
	}

	remarks := strings.TrimSpace(input.Remarks)

	switch input.Status {
	case model.SegmentStatusMissed:
		if remarks == "" {
			return nil, &ValidationError{Field: "remarks", Reason: "a reason is required when marking a leg missed"}
		}
		segment.Remarks = remarks
	case model.SegmentStatusCompleted:
		if remarks != "" {
			segment.Remarks = remarks
		} else if segment.Remarks == "" {
			segment.Remarks = remarksSegmentDone
		}
	}

	if input.CompletedAt != nil {
		segment.CompletedAt = input.CompletedAt
	} else {
		now := time.Now()
		segment.CompletedAt = &now
	}
	if input.StartTime != nil {
		segment.StartTime = input.StartTime
	}

	oldStatus := segment.Status
	segment.Status = input.Status

	logEntry := &model.SegmentStatusLog{
		SegmentID: segment.ID,
		OldStatus: &oldStatus,
		NewStatus: segment.Status,
		Note:      remarks,
		ChangedBy: &principal.UserID,
	}

	if err := s.segmentRepo.Update(ctx, segment, logEntry); err != nil {
		return nil, err
	}

	return segment, nil
}

type ListSegmentsOptions struct {
	Statuses     []model.SegmentStatus
	UnviewedOnly bool
	ScheduleID   *uuid.UUID
	Limit        int
	Offset       int
}

// List backs the missed-leg feed on the dispatch side.
func (s *SegmentService) List(ctx context.Context, principal model.Principal, opts ListSegmentsOptions) ([]model.RouteSegment, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	return s.segmentRepo.List(ctx, model.SegmentFilter{
		Statuses:     opts.Statuses,
		UnviewedOnly: opts.UnviewedOnly,
		ScheduleID:   opts.ScheduleID,
		Limit:        opts.Limit,
		Offset:       opts.Offset,
	})
}

// MarkViewed flips the notification dedup flag on a leg.
func (s *SegmentService) MarkViewed(ctx context.Context, principal model.Principal, segmentID uuid.UUID) error {
	if !principal.CanDispatch() {
		return ErrPermissionDenied
	}
	if _, err := s.segmentRepo.GetByID(ctx, segmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.segmentRepo.MarkViewed(ctx, segmentID)
}
