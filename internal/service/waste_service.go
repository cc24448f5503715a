package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"route-service/internal/model"
)

// WasteService records sack tallies against legs and sums them per
// driver without double counting. Mutual exclusivity of the two parent
// references is enforced here, at write time, on top of the table's
// CHECK constraint.
type WasteService struct {
	segmentRepo SegmentRepository
	wasteRepo   WasteRepository
}

func NewWasteService(segmentRepo SegmentRepository, wasteRepo WasteRepository) *WasteService {
	return &WasteService{
		segmentRepo: segmentRepo,
		wasteRepo:   wasteRepo,
	}
}

type RecordWasteInput struct {
	RouteDetailID      *uuid.UUID
	RescheduleDetailID *uuid.UUID
	BiodegradableSacks int
	NonBioSacks        int
	RecyclableSacks    int
}

func (s *WasteService) Record(ctx context.Context, principal model.Principal, input RecordWasteInput) (*model.WasteCollection, error) {
	if input.RouteDetailID != nil && input.RescheduleDetailID != nil {
		return nil, &ValidationError{Field: "reschedule_detail_id", Reason: "a tally belongs to exactly one leg"}
	}
	if input.RouteDetailID == nil && input.RescheduleDetailID == nil {
		return nil, &ValidationError{Field: "route_detail_id", Reason: "a tally belongs to exactly one leg"}
	}
	if input.BiodegradableSacks < 0 || input.NonBioSacks < 0 || input.RecyclableSacks < 0 {
		return nil, &ValidationError{Field: "sacks", Reason: "sack counts must not be negative"}
	}

	parentID := input.RouteDetailID
	if parentID == nil {
		parentID = input.RescheduleDetailID
	}
	segment, err := s.segmentRepo.GetByID(ctx, *parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// The reference must match the leg's kind: route_detail_id for a
	// schedule-owned leg, reschedule_detail_id for a reschedule child.
	if input.RouteDetailID != nil && !segment.OwnedBySchedule() {
		return nil, &ValidationError{Field: "route_detail_id", Reason: "leg belongs to a reschedule"}
	}
	if input.RescheduleDetailID != nil && segment.OwnedBySchedule() {
		return nil, &ValidationError{Field: "reschedule_detail_id", Reason: "leg belongs to a schedule"}
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

	record := &model.WasteCollection{
		RouteDetailID:      input.RouteDetailID,
		RescheduleDetailID: input.RescheduleDetailID,
		BiodegradableSacks: input.BiodegradableSacks,
		NonBioSacks:        input.NonBioSacks,
		RecyclableSacks:    input.RecyclableSacks,
		RecordedBy:         &principal.UserID,
	}
	if err := s.wasteRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// SumByCategory totals the driver's tallies across both leg kinds.
// scheduleID optionally narrows to legs originating from one schedule.
func (s *WasteService) SumByCategory(ctx context.Context, principal model.Principal, driverID uuid.UUID, scheduleID *uuid.UUID) (*model.WasteTotals, error) {
	if !resolveScope(principal).AllowsDriver(driverID) {
		return nil, ErrPermissionDenied
	}

	segments, err := s.segmentRepo.ListByDriver(ctx, driverID, scheduleID)
	if err != nil {
		return nil, err
	}

	routeSet := make(map[uuid.UUID]bool)
	reschedSet := make(map[uuid.UUID]bool)
	segmentIDs := make([]uuid.UUID, 0, len(segments))
	for i := range segments {
		seg := &segments[i]
		segmentIDs = append(segmentIDs, seg.ID)
		if seg.OwnedBySchedule() {
			routeSet[seg.ID] = true
		} else {
			reschedSet[seg.ID] = true
		}
	}

	rows, err := s.wasteRepo.ListBySegmentIDs(ctx, segmentIDs)
	if err != nil {
		return nil, err
	}

	totals := SumWaste(rows, routeSet, reschedSet)
	return &totals, nil
}

// SumWaste attributes each tally row to exactly one leg set and totals
// the sack categories. A row referencing legs in both sets still counts
// once, through its route detail.
func SumWaste(rows []model.WasteCollection, routeSet, reschedSet map[uuid.UUID]bool) model.WasteTotals {
	var totals model.WasteTotals
	for i := range rows {
		row := &rows[i]
		counted := false
		if row.RouteDetailID != nil && routeSet[*row.RouteDetailID] {
			counted = true
		} else if row.RescheduleDetailID != nil && reschedSet[*row.RescheduleDetailID] {
			counted = true
		}
		if !counted {
			continue
		}
		totals.Biodegradable += row.BiodegradableSacks
		totals.NonBiodegradable += row.NonBioSacks
		totals.Recyclable += row.RecyclableSacks
	}
	totals.Total = totals.Biodegradable + totals.NonBiodegradable + totals.Recyclable
	return totals
}
