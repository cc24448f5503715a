package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"route-service/internal/model"
)

// In-memory stand-ins for the gorm repositories. Lookups miss with
// gorm.ErrRecordNotFound, matching the real implementations.

type memStore struct {
	schedules   map[uuid.UUID]*model.Schedule
	reschedules map[uuid.UUID]*model.ReSchedule
	segments    map[uuid.UUID]*model.RouteSegment
	wastes      []model.WasteCollection
	logs        []model.SegmentStatusLog
	summaries   map[uuid.UUID]*model.RouteSummary
}

func newMemStore() *memStore {
	return &memStore{
		schedules:   make(map[uuid.UUID]*model.Schedule),
		reschedules: make(map[uuid.UUID]*model.ReSchedule),
		segments:    make(map[uuid.UUID]*model.RouteSegment),
		summaries:   make(map[uuid.UUID]*model.RouteSummary),
	}
}

func (s *memStore) addSchedule(schedule model.Schedule) *model.Schedule {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	s.schedules[schedule.ID] = &schedule
	return &schedule
}

func (s *memStore) addSegment(segment model.RouteSegment) *model.RouteSegment {
	if segment.ID == uuid.Nil {
		segment.ID = uuid.New()
	}
	s.segments[segment.ID] = &segment
	return &segment
}

type fakeScheduleRepo struct {
	store *memStore
}

func (r *fakeScheduleRepo) Create(_ context.Context, schedule *model.Schedule) error {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	for i := range schedule.Segments {
		seg := &schedule.Segments[i]
		if seg.ID == uuid.Nil {
			seg.ID = uuid.New()
		}
		seg.ScheduleID = schedule.ID
		copy := *seg
		r.store.segments[seg.ID] = &copy
	}
	copy := *schedule
	r.store.schedules[schedule.ID] = &copy
	return nil
}

func (r *fakeScheduleRepo) Update(_ context.Context, schedule *model.Schedule) error {
	stored, ok := r.store.schedules[schedule.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.TruckID = schedule.TruckID
	stored.DriverID = schedule.DriverID
	stored.BarangayID = schedule.BarangayID
	stored.PickupAt = schedule.PickupAt
	stored.Remarks = schedule.Remarks
	return nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Schedule, error) {
	stored, ok := r.store.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *stored
	return &copy, nil
}

func (r *fakeScheduleRepo) List(_ context.Context, filter model.RunFilter) ([]model.Schedule, error) {
	var out []model.Schedule
	for _, schedule := range r.store.schedules {
		if filter.Scope.Type == model.ScopeDriver && !filter.Scope.AllowsDriver(schedule.DriverID) {
			continue
		}
		if filter.DriverID != nil && schedule.DriverID != *filter.DriverID {
			continue
		}
		out = append(out, *schedule)
	}
	return out, nil
}

func (r *fakeScheduleRepo) ExistsAtTime(_ context.Context, truckID uuid.UUID, pickupAt time.Time, excludeID *uuid.UUID) (bool, error) {
	for _, schedule := range r.store.schedules {
		if excludeID != nil && schedule.ID == *excludeID {
			continue
		}
		if schedule.Status == model.ScheduleStatusDeleted {
			continue
		}
		if schedule.TruckID == truckID && schedule.PickupAt.Equal(pickupAt) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeScheduleRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.ScheduleStatus, remarks string, completedAt *time.Time) error {
	stored, ok := r.store.schedules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	stored.Remarks = remarks
	if completedAt != nil {
		stored.CompletedAt = completedAt
	}
	return nil
}

func (r *fakeScheduleRepo) UpsertSummary(_ context.Context, summary *model.RouteSummary) error {
	copy := *summary
	r.store.summaries[summary.ScheduleID] = &copy
	return nil
}

type fakeSegmentRepo struct {
	store *memStore
}

func (r *fakeSegmentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.RouteSegment, error) {
	stored, ok := r.store.segments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *stored
	return &copy, nil
}

func (r *fakeSegmentRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]model.RouteSegment, error) {
	var out []model.RouteSegment
	for _, id := range ids {
		if stored, ok := r.store.segments[id]; ok {
			out = append(out, *stored)
		}
	}
	return out, nil
}

func (r *fakeSegmentRepo) ListOwnedBySchedule(_ context.Context, scheduleID uuid.UUID) ([]model.RouteSegment, error) {
	var out []model.RouteSegment
	for _, seg := range r.store.segments {
		if seg.ScheduleID == scheduleID && seg.RescheduleID == nil {
			out = append(out, *seg)
		}
	}
	return out, nil
}

func (r *fakeSegmentRepo) List(_ context.Context, filter model.SegmentFilter) ([]model.RouteSegment, error) {
	var out []model.RouteSegment
	for _, seg := range r.store.segments {
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if seg.Status == status {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if filter.UnviewedOnly && seg.IsViewed {
			continue
		}
		if filter.ScheduleID != nil && seg.ScheduleID != *filter.ScheduleID {
			continue
		}
		out = append(out, *seg)
	}
	return out, nil
}

func (r *fakeSegmentRepo) ListByDriver(_ context.Context, driverID uuid.UUID, scheduleID *uuid.UUID) ([]model.RouteSegment, error) {
	var out []model.RouteSegment
	for _, seg := range r.store.segments {
		owner, err := r.ownerDriver(seg)
		if err != nil {
			continue
		}
		if owner != driverID {
			continue
		}
		if scheduleID != nil && seg.ScheduleID != *scheduleID {
			continue
		}
		out = append(out, *seg)
	}
	return out, nil
}

func (r *fakeSegmentRepo) OwnerDriverID(_ context.Context, segment *model.RouteSegment) (uuid.UUID, error) {
	return r.ownerDriver(segment)
}

func (r *fakeSegmentRepo) ownerDriver(segment *model.RouteSegment) (uuid.UUID, error) {
	if segment.RescheduleID != nil {
		resched, ok := r.store.reschedules[*segment.RescheduleID]
		if !ok {
			return uuid.Nil, gorm.ErrRecordNotFound
		}
		return resched.DriverID, nil
	}
	schedule, ok := r.store.schedules[segment.ScheduleID]
	if !ok {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	if schedule.Status == model.ScheduleStatusDeleted {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return schedule.DriverID, nil
}

func (r *fakeSegmentRepo) Update(_ context.Context, segment *model.RouteSegment, logEntry *model.SegmentStatusLog) error {
	stored, ok := r.store.segments[segment.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = segment.Status
	stored.Remarks = segment.Remarks
	stored.StartTime = segment.StartTime
	stored.CompletedAt = segment.CompletedAt
	if logEntry != nil {
		r.store.logs = append(r.store.logs, *logEntry)
	}
	return nil
}

func (r *fakeSegmentRepo) MarkViewed(_ context.Context, id uuid.UUID) error {
	stored, ok := r.store.segments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.IsViewed = true
	return nil
}

type fakeRescheduleRepo struct {
	store *memStore
}

func (r *fakeRescheduleRepo) GetByID(_ context.Context, id uuid.UUID) (*model.ReSchedule, error) {
	stored, ok := r.store.reschedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *stored
	for _, seg := range r.store.segments {
		if seg.RescheduleID != nil && *seg.RescheduleID == id {
			copy.Segments = append(copy.Segments, *seg)
		}
	}
	return &copy, nil
}

func (r *fakeRescheduleRepo) List(_ context.Context, filter model.RunFilter) ([]model.ReSchedule, error) {
	var out []model.ReSchedule
	for _, resched := range r.store.reschedules {
		if filter.Scope.Type == model.ScopeDriver && !filter.Scope.AllowsDriver(resched.DriverID) {
			continue
		}
		out = append(out, *resched)
	}
	return out, nil
}

func (r *fakeRescheduleRepo) ExistsAtTime(_ context.Context, truckID uuid.UUID, pickupAt time.Time) (bool, error) {
	for _, resched := range r.store.reschedules {
		if resched.Status == model.ScheduleStatusDeleted {
			continue
		}
		if resched.TruckID == truckID && resched.PickupAt.Equal(pickupAt) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRescheduleRepo) CreateWithClones(_ context.Context, resched *model.ReSchedule, clones []model.RouteSegment, flipIDs []uuid.UUID, logs []model.SegmentStatusLog) error {
	// Mirrors the transactional guard: every original must still be
	// missed or nothing happens.
	for _, id := range flipIDs {
		stored, ok := r.store.segments[id]
		if !ok || stored.Status != model.SegmentStatusMissed {
			return fmt.Errorf("segment %s is not missed", id)
		}
	}

	if resched.ID == uuid.Nil {
		resched.ID = uuid.New()
	}
	copy := *resched
	r.store.reschedules[resched.ID] = &copy

	for i := range clones {
		clones[i].RescheduleID = &resched.ID
		if clones[i].ID == uuid.Nil {
			clones[i].ID = uuid.New()
		}
		clone := clones[i]
		r.store.segments[clone.ID] = &clone
	}
	for _, id := range flipIDs {
		r.store.segments[id].Status = model.SegmentStatusRescheduled
	}
	r.store.logs = append(r.store.logs, logs...)
	return nil
}

type fakeWasteRepo struct {
	store *memStore
}

func (r *fakeWasteRepo) Create(_ context.Context, record *model.WasteCollection) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.store.wastes = append(r.store.wastes, *record)
	return nil
}

func (r *fakeWasteRepo) ListBySegmentIDs(_ context.Context, segmentIDs []uuid.UUID) ([]model.WasteCollection, error) {
	wanted := make(map[uuid.UUID]bool, len(segmentIDs))
	for _, id := range segmentIDs {
		wanted[id] = true
	}
	var out []model.WasteCollection
	for _, row := range r.store.wastes {
		if (row.RouteDetailID != nil && wanted[*row.RouteDetailID]) ||
			(row.RescheduleDetailID != nil && wanted[*row.RescheduleDetailID]) {
			out = append(out, row)
		}
	}
	return out, nil
}
