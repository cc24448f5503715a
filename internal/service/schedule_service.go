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

type ScheduleService struct {
	scheduleRepo ScheduleRepository
	segmentRepo  SegmentRepository
}

func NewScheduleService(scheduleRepo ScheduleRepository, segmentRepo SegmentRepository) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		segmentRepo:  segmentRepo,
	}
}

type SegmentInput struct {
	FromZoneID     *uuid.UUID
	ToZoneID       *uuid.UUID
	FromTerminalID *uuid.UUID
	ToTerminalID   *uuid.UUID
	DistanceKm     float64
	PlannedMinutes int
	SpeedKph       float64
}

type CreateScheduleInput struct {
	TruckID    uuid.UUID
	DriverID   uuid.UUID
	BarangayID uuid.UUID
	PickupAt   time.Time
	Remarks    string
	Segments   []SegmentInput
}

type UpdateScheduleInput struct {
	TruckID    *uuid.UUID
	DriverID   *uuid.UUID
	BarangayID *uuid.UUID
	PickupAt   *time.Time
	Remarks    *string
}

type ListSchedulesOptions struct {
	Statuses   []model.ScheduleStatus
	TruckID    *uuid.UUID
	DriverID   *uuid.UUID
	BarangayID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

func (s *ScheduleService) Create(ctx context.Context, principal model.Principal, input CreateScheduleInput) (*model.Schedule, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}

	if err := validateSegmentInputs(input.Segments); err != nil {
		return nil, err
	}

	// Pre-check keeps the common case friendly; the unique index on
	// (truck_id, pickup_at) is the authoritative guard under races.
	exists, err := s.scheduleRepo.ExistsAtTime(ctx, input.TruckID, input.PickupAt, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ConflictError{TruckID: input.TruckID, PickupAt: input.PickupAt}
	}

	schedule := &model.Schedule{
		TruckID:    input.TruckID,
		DriverID:   input.DriverID,
		BarangayID: input.BarangayID,
		PickupAt:   input.PickupAt,
		Status:     model.ScheduleStatusPending,
		Remarks:    input.Remarks,
	}
	for _, seg := range input.Segments {
		schedule.Segments = append(schedule.Segments, model.RouteSegment{
			FromZoneID:  seg.FromZoneID,
			ToZoneID:    seg.ToZoneID,
			FromTermID:  seg.FromTerminalID,
			ToTermID:    seg.ToTerminalID,
			DistanceKm:  seg.DistanceKm,
			PlannedMins: seg.PlannedMinutes,
			SpeedKph:    seg.SpeedKph,
			Status:      model.SegmentStatusPending,
		})
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{TruckID: input.TruckID, PickupAt: input.PickupAt}
		}
		return nil, err
	}

	return s.scheduleRepo.GetByID(ctx, schedule.ID)
}

func (s *ScheduleService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateScheduleInput) (*model.Schedule, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if schedule.Status == model.ScheduleStatusDeleted {
		return nil, ErrNotFound
	}

	if input.TruckID != nil {
		schedule.TruckID = *input.TruckID
	}
	if input.DriverID != nil {
		schedule.DriverID = *input.DriverID
	}
	if input.BarangayID != nil {
		schedule.BarangayID = *input.BarangayID
	}
	if input.PickupAt != nil {
		schedule.PickupAt = *input.PickupAt
	}
	if input.Remarks != nil {
		schedule.Remarks = *input.Remarks
	}

	exists, err := s.scheduleRepo.ExistsAtTime(ctx, schedule.TruckID, schedule.PickupAt, &schedule.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ConflictError{TruckID: schedule.TruckID, PickupAt: schedule.PickupAt}
	}

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{TruckID: schedule.TruckID, PickupAt: schedule.PickupAt}
		}
		return nil, err
	}

	return s.scheduleRepo.GetByID(ctx, schedule.ID)
}

func (s *ScheduleService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if schedule.Status == model.ScheduleStatusDeleted && !principal.CanDispatch() {
		return nil, ErrNotFound
	}
	if !resolveScope(principal).AllowsDriver(schedule.DriverID) {
		return nil, ErrPermissionDenied
	}
	return schedule, nil
}

func (s *ScheduleService) List(ctx context.Context, principal model.Principal, opts ListSchedulesOptions) ([]model.Schedule, error) {
	scope := resolveScope(principal)

	filter := model.RunFilter{
		Scope:      scope,
		Statuses:   opts.Statuses,
		TruckID:    opts.TruckID,
		DriverID:   opts.DriverID,
		BarangayID: opts.BarangayID,
		DateFrom:   opts.DateFrom,
		DateTo:     opts.DateTo,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	}
	if scope.Type == model.ScopeDriver {
		filter.DriverID = scope.DriverID
	}

	return s.scheduleRepo.List(ctx, filter)
}

// UpdateStatus completes or soft-deletes a schedule. Completion stamps
// completed_at and refreshes the cached route summary.
func (s *ScheduleService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, target model.ScheduleStatus, remarks string) error {
	if !principal.CanDispatch() {
		return ErrPermissionDenied
	}
	if target != model.ScheduleStatusCompleted && target != model.ScheduleStatusDeleted {
		return ErrInvalidStatus
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if schedule.Status != model.ScheduleStatusPending {
		return ErrInvalidStatus
	}

	if remarks == "" {
		remarks = schedule.Remarks
	}

	var completedAt *time.Time
	if target == model.ScheduleStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	if err := s.scheduleRepo.UpdateStatus(ctx, schedule.ID, target, remarks, completedAt); err != nil {
		return err
	}

	if target == model.ScheduleStatusCompleted {
		segments, err := s.segmentRepo.ListOwnedBySchedule(ctx, schedule.ID)
		if err != nil {
			return err
		}
		summary := ProjectSummary(schedule.ID, segments)
		cached := &model.RouteSummary{
			ScheduleID:     summary.ScheduleID,
			CompletedCount: summary.CompletedCount,
			MissedCount:    summary.MissedCount,
			TotalSeconds:   summary.TotalSeconds,
			MissedReasons:  strings.Join(summary.MissedReasons, "; "),
		}
		if err := s.scheduleRepo.UpsertSummary(ctx, cached); err != nil {
			return err
		}
	}

	return nil
}

func validateSegmentInputs(segments []SegmentInput) error {
	for _, seg := range segments {
		if seg.FromZoneID == nil && seg.FromTerminalID == nil {
			return &ValidationError{Field: "segments", Reason: "each leg needs a from zone or terminal"}
		}
		if seg.ToZoneID == nil && seg.ToTerminalID == nil {
			return &ValidationError{Field: "segments", Reason: "each leg needs a to zone or terminal"}
		}
		if seg.PlannedMinutes <= 0 {
			return &ValidationError{Field: "planned_minutes", Reason: "must be positive"}
		}
		if seg.DistanceKm < 0 {
			return &ValidationError{Field: "distance_km", Reason: "must not be negative"}
		}
	}
	return nil
}

func resolveScope(principal model.Principal) model.Scope {
	if principal.IsDriver() {
		return model.Scope{Type: model.ScopeDriver, DriverID: principal.DriverID}
	}
	return model.Scope{Type: model.ScopeAll}
}
