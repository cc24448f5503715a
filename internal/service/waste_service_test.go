package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"route-service/internal/model"
)

func newWasteFixture() (*memStore, *WasteService) {
	store := newMemStore()
	svc := NewWasteService(&fakeSegmentRepo{store: store}, &fakeWasteRepo{store: store})
	return store, svc
}

func addReschedule(store *memStore, driverID uuid.UUID) *model.ReSchedule {
	resched := &model.ReSchedule{
		ID:         uuid.New(),
		TruckID:    uuid.New(),
		DriverID:   driverID,
		BarangayID: uuid.New(),
		PickupAt:   time.Date(2025, 3, 12, 5, 30, 0, 0, time.UTC),
		Status:     model.ScheduleStatusPending,
	}
	store.reschedules[resched.ID] = resched
	return resched
}

func TestRecordWasteRequiresExactlyOneParent(t *testing.T) {
	store, svc := newWasteFixture()
	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusPending,
	})
	segment := store.addSegment(model.RouteSegment{
		ScheduleID:  schedule.ID,
		PlannedMins: 30,
		Status:      model.SegmentStatusCompleted,
	})

	var validationErr *ValidationError
	_, err := svc.Record(context.Background(), dispatcher(), RecordWasteInput{
		RouteDetailID:      &segment.ID,
		RescheduleDetailID: &segment.ID,
		BiodegradableSacks: 2,
	})
	if !errors.As(err, &validationErr) {
		t.Fatalf("both parents set: expected validation error, got %v", err)
	}

	_, err = svc.Record(context.Background(), dispatcher(), RecordWasteInput{
		BiodegradableSacks: 2,
	})
	if !errors.As(err, &validationErr) {
		t.Fatalf("no parent set: expected validation error, got %v", err)
	}
	if len(store.wastes) != 0 {
		t.Errorf("tallies persisted = %d, want 0", len(store.wastes))
	}
}

func TestRecordWasteRejectsWrongParentKind(t *testing.T) {
	store, svc := newWasteFixture()
	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusPending,
	})
	owned := store.addSegment(model.RouteSegment{
		ScheduleID:  schedule.ID,
		PlannedMins: 30,
		Status:      model.SegmentStatusCompleted,
	})
	resched := addReschedule(store, schedule.DriverID)
	child := store.addSegment(model.RouteSegment{
		ScheduleID:   schedule.ID,
		RescheduleID: &resched.ID,
		PlannedMins:  30,
		Status:       model.SegmentStatusCompleted,
	})

	var validationErr *ValidationError
	_, err := svc.Record(context.Background(), dispatcher(), RecordWasteInput{
		RescheduleDetailID: &owned.ID,
		BiodegradableSacks: 1,
	})
	if !errors.As(err, &validationErr) {
		t.Fatalf("schedule-owned leg via reschedule_detail_id: expected validation error, got %v", err)
	}

	_, err = svc.Record(context.Background(), dispatcher(), RecordWasteInput{
		RouteDetailID:      &child.ID,
		BiodegradableSacks: 1,
	})
	if !errors.As(err, &validationErr) {
		t.Fatalf("reschedule child via route_detail_id: expected validation error, got %v", err)
	}
}

func TestRecordWasteRejectsNegativeSacks(t *testing.T) {
	store, svc := newWasteFixture()
	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusPending,
	})
	segment := store.addSegment(model.RouteSegment{
		ScheduleID:  schedule.ID,
		PlannedMins: 30,
		Status:      model.SegmentStatusCompleted,
	})

	var validationErr *ValidationError
	_, err := svc.Record(context.Background(), dispatcher(), RecordWasteInput{
		RouteDetailID: &segment.ID,
		NonBioSacks:   -1,
	})
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordWasteDriverScope(t *testing.T) {
	store, svc := newWasteFixture()
	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusPending,
	})
	segment := store.addSegment(model.RouteSegment{
		ScheduleID:  schedule.ID,
		PlannedMins: 30,
		Status:      model.SegmentStatusCompleted,
	})

	otherDriver := uuid.New()
	foreign := model.Principal{UserID: uuid.New(), Role: model.UserRoleDriver, DriverID: &otherDriver}
	_, err := svc.Record(context.Background(), foreign, RecordWasteInput{
		RouteDetailID:      &segment.ID,
		BiodegradableSacks: 3,
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	assigned := store.schedules[schedule.ID].DriverID
	own := model.Principal{UserID: uuid.New(), Role: model.UserRoleDriver, DriverID: &assigned}
	record, err := svc.Record(context.Background(), own, RecordWasteInput{
		RouteDetailID:      &segment.ID,
		BiodegradableSacks: 3,
		RecyclableSacks:    1,
	})
	if err != nil {
		t.Fatalf("assigned driver should record on own leg: %v", err)
	}
	if record.RecordedBy == nil || *record.RecordedBy != own.UserID {
		t.Error("recorded_by not set to the caller")
	}
}

func TestSumWasteCountsEachRowOnce(t *testing.T) {
	routeLeg := uuid.New()
	reschedLeg := uuid.New()
	strayLeg := uuid.New()

	routeSet := map[uuid.UUID]bool{routeLeg: true}
	reschedSet := map[uuid.UUID]bool{reschedLeg: true}

	rows := []model.WasteCollection{
		{RouteDetailID: &routeLeg, BiodegradableSacks: 2, NonBioSacks: 1},
		{RescheduleDetailID: &reschedLeg, BiodegradableSacks: 1, RecyclableSacks: 4},
		{RouteDetailID: &strayLeg, BiodegradableSacks: 100},
	}

	totals := SumWaste(rows, routeSet, reschedSet)

	if totals.Biodegradable != 3 {
		t.Errorf("biodegradable = %d, want 3", totals.Biodegradable)
	}
	if totals.NonBiodegradable != 1 {
		t.Errorf("non-biodegradable = %d, want 1", totals.NonBiodegradable)
	}
	if totals.Recyclable != 4 {
		t.Errorf("recyclable = %d, want 4", totals.Recyclable)
	}
	if totals.Total != 8 {
		t.Errorf("total = %d, want 8", totals.Total)
	}
}

func TestSumByCategorySpansBothLegKinds(t *testing.T) {
	store, svc := newWasteFixture()

	driverID := uuid.New()
	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: driverID,
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusPending,
	})
	owned := store.addSegment(model.RouteSegment{
		ScheduleID:  schedule.ID,
		PlannedMins: 30,
		Status:      model.SegmentStatusCompleted,
	})
	resched := addReschedule(store, driverID)
	child := store.addSegment(model.RouteSegment{
		ScheduleID:   schedule.ID,
		RescheduleID: &resched.ID,
		PlannedMins:  30,
		Status:       model.SegmentStatusCompleted,
	})

	// A tally on another driver's leg must not leak into the totals.
	otherSchedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusPending,
	})
	otherLeg := store.addSegment(model.RouteSegment{
		ScheduleID:  otherSchedule.ID,
		PlannedMins: 30,
		Status:      model.SegmentStatusCompleted,
	})

	store.wastes = append(store.wastes,
		model.WasteCollection{RouteDetailID: &owned.ID, BiodegradableSacks: 2, NonBioSacks: 1},
		model.WasteCollection{RescheduleDetailID: &child.ID, RecyclableSacks: 3},
		model.WasteCollection{RouteDetailID: &otherLeg.ID, BiodegradableSacks: 50},
	)

	totals, err := svc.SumByCategory(context.Background(), dispatcher(), driverID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if totals.Biodegradable != 2 || totals.NonBiodegradable != 1 || totals.Recyclable != 3 {
		t.Errorf("totals = %+v", totals)
	}
	if totals.Total != 6 {
		t.Errorf("total = %d, want 6", totals.Total)
	}
}
