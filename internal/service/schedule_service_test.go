package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"route-service/internal/model"
)

func newScheduleFixture() (*memStore, *ScheduleService) {
	store := newMemStore()
	svc := NewScheduleService(&fakeScheduleRepo{store: store}, &fakeSegmentRepo{store: store})
	return store, svc
}

func segmentInput() SegmentInput {
	from := uuid.New()
	to := uuid.New()
	return SegmentInput{
		FromZoneID:     &from,
		ToZoneID:       &to,
		DistanceKm:     3.5,
		PlannedMinutes: 30,
		SpeedKph:       20,
	}
}

func TestCreateScheduleWithSegments(t *testing.T) {
	store, svc := newScheduleFixture()

	pickupAt := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	schedule, err := svc.Create(context.Background(), dispatcher(), CreateScheduleInput{
		TruckID:    uuid.New(),
		DriverID:   uuid.New(),
		BarangayID: uuid.New(),
		PickupAt:   pickupAt,
		Segments:   []SegmentInput{segmentInput(), segmentInput()},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if schedule.Status != model.ScheduleStatusPending {
		t.Errorf("status = %s, want pending", schedule.Status)
	}
	if len(store.segments) != 2 {
		t.Errorf("segments persisted = %d, want 2", len(store.segments))
	}
	for _, seg := range store.segments {
		if seg.ScheduleID != schedule.ID {
			t.Error("leg not attached to the new schedule")
		}
		if seg.Status != model.SegmentStatusPending {
			t.Errorf("leg status = %s, want pending", seg.Status)
		}
	}
}

func TestCreateScheduleRejectsTruckTimeConflict(t *testing.T) {
	store, svc := newScheduleFixture()

	truckID := uuid.New()
	pickupAt := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	store.addSchedule(model.Schedule{
		TruckID:  truckID,
		DriverID: uuid.New(),
		PickupAt: pickupAt,
		Status:   model.ScheduleStatusPending,
	})

	_, err := svc.Create(context.Background(), dispatcher(), CreateScheduleInput{
		TruckID:    truckID,
		DriverID:   uuid.New(),
		BarangayID: uuid.New(),
		PickupAt:   pickupAt,
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if conflict.TruckID != truckID {
		t.Errorf("conflict names truck %s, want %s", conflict.TruckID, truckID)
	}
	if len(store.schedules) != 1 {
		t.Errorf("schedules = %d, the conflicting create must not persist", len(store.schedules))
	}
}

func TestCreateScheduleIgnoresDeletedConflict(t *testing.T) {
	store, svc := newScheduleFixture()

	truckID := uuid.New()
	pickupAt := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	store.addSchedule(model.Schedule{
		TruckID:  truckID,
		DriverID: uuid.New(),
		PickupAt: pickupAt,
		Status:   model.ScheduleStatusDeleted,
	})

	if _, err := svc.Create(context.Background(), dispatcher(), CreateScheduleInput{
		TruckID:    truckID,
		DriverID:   uuid.New(),
		BarangayID: uuid.New(),
		PickupAt:   pickupAt,
	}); err != nil {
		t.Fatalf("a deleted schedule must not block the slot: %v", err)
	}
}

func TestCreateScheduleValidatesSegments(t *testing.T) {
	_, svc := newScheduleFixture()

	bad := segmentInput()
	bad.PlannedMinutes = 0
	_, err := svc.Create(context.Background(), dispatcher(), CreateScheduleInput{
		TruckID:    uuid.New(),
		DriverID:   uuid.New(),
		BarangayID: uuid.New(),
		PickupAt:   time.Now(),
		Segments:   []SegmentInput{bad},
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Field != "planned_minutes" {
		t.Errorf("offending field = %q, want planned_minutes", validationErr.Field)
	}

	noEnds := segmentInput()
	noEnds.FromZoneID = nil
	noEnds.FromTerminalID = nil
	_, err = svc.Create(context.Background(), dispatcher(), CreateScheduleInput{
		TruckID:    uuid.New(),
		DriverID:   uuid.New(),
		BarangayID: uuid.New(),
		PickupAt:   time.Now(),
		Segments:   []SegmentInput{noEnds},
	})
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error for missing endpoints, got %v", err)
	}
}

func TestCreateScheduleRequiresDispatchRole(t *testing.T) {
	_, svc := newScheduleFixture()

	driverID := uuid.New()
	driver := model.Principal{UserID: uuid.New(), Role: model.UserRoleDriver, DriverID: &driverID}
	_, err := svc.Create(context.Background(), driver, CreateScheduleInput{
		TruckID:    uuid.New(),
		DriverID:   driverID,
		BarangayID: uuid.New(),
		PickupAt:   time.Now(),
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestUpdateScheduleExcludesSelfFromConflictCheck(t *testing.T) {
	store, svc := newScheduleFixture()

	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
		Status:   model.ScheduleStatusPending,
	})

	// Keeping the same truck and time must not conflict with itself.
	remarks := "confirmed with the barangay"
	updated, err := svc.Update(context.Background(), dispatcher(), schedule.ID, UpdateScheduleInput{
		Remarks: &remarks,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Remarks != remarks {
		t.Errorf("remarks = %q", updated.Remarks)
	}
}

func TestUpdateScheduleDetectsConflictWithOtherRun(t *testing.T) {
	store, svc := newScheduleFixture()

	truckID := uuid.New()
	takenAt := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	store.addSchedule(model.Schedule{
		TruckID:  truckID,
		DriverID: uuid.New(),
		PickupAt: takenAt,
		Status:   model.ScheduleStatusPending,
	})
	other := store.addSchedule(model.Schedule{
		TruckID:  truckID,
		DriverID: uuid.New(),
		PickupAt: takenAt.Add(2 * time.Hour),
		Status:   model.ScheduleStatusPending,
	})

	_, err := svc.Update(context.Background(), dispatcher(), other.ID, UpdateScheduleInput{
		PickupAt: &takenAt,
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateStatusCompletionProjectsSummary(t *testing.T) {
	store, svc := newScheduleFixture()

	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
		Status:   model.ScheduleStatusPending,
	})
	store.addSegment(model.RouteSegment{
		ScheduleID:  schedule.ID,
		PlannedMins: 30,
		Status:      model.SegmentStatusCompleted,
		StartTime:   timePtr(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)),
		CompletedAt: timePtr(time.Date(2025, 3, 10, 6, 25, 0, 0, time.UTC)),
	})
	store.addSegment(model.RouteSegment{
		ScheduleID:  schedule.ID,
		PlannedMins: 20,
		Status:      model.SegmentStatusMissed,
		Remarks:     "blocked access road",
	})

	err := svc.UpdateStatus(context.Background(), dispatcher(), schedule.ID, model.ScheduleStatusCompleted, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.schedules[schedule.ID].Status != model.ScheduleStatusCompleted {
		t.Errorf("status = %s, want completed", store.schedules[schedule.ID].Status)
	}
	if store.schedules[schedule.ID].CompletedAt == nil {
		t.Error("completed_at was not stamped")
	}

	summary, ok := store.summaries[schedule.ID]
	if !ok {
		t.Fatal("no cached summary after completion")
	}
	if summary.CompletedCount != 1 || summary.MissedCount != 1 {
		t.Errorf("summary counts = %d/%d, want 1/1", summary.CompletedCount, summary.MissedCount)
	}
	if summary.MissedReasons != "blocked access road" {
		t.Errorf("missed reasons = %q", summary.MissedReasons)
	}
}

func TestUpdateStatusRejectsNonPendingOrigin(t *testing.T) {
	store, svc := newScheduleFixture()

	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusCompleted,
	})

	err := svc.UpdateStatus(context.Background(), dispatcher(), schedule.ID, model.ScheduleStatusDeleted, "")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatusRejectsPendingTarget(t *testing.T) {
	store, svc := newScheduleFixture()

	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusPending,
	})

	err := svc.UpdateStatus(context.Background(), dispatcher(), schedule.ID, model.ScheduleStatusPending, "")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestGetScheduleScope(t *testing.T) {
	store, svc := newScheduleFixture()

	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: uuid.New(),
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusPending,
	})

	otherDriver := uuid.New()
	foreign := model.Principal{UserID: uuid.New(), Role: model.UserRoleDriver, DriverID: &otherDriver}
	if _, err := svc.Get(context.Background(), foreign, schedule.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for foreign driver, got %v", err)
	}

	assigned := store.schedules[schedule.ID].DriverID
	own := model.Principal{UserID: uuid.New(), Role: model.UserRoleDriver, DriverID: &assigned}
	if _, err := svc.Get(context.Background(), own, schedule.ID); err != nil {
		t.Fatalf("assigned driver should read own schedule: %v", err)
	}
}

func TestGetDeletedScheduleHiddenFromDrivers(t *testing.T) {
	store, svc := newScheduleFixture()

	driverID := uuid.New()
	schedule := store.addSchedule(model.Schedule{
		TruckID:  uuid.New(),
		DriverID: driverID,
		PickupAt: time.Now(),
		Status:   model.ScheduleStatusDeleted,
	})

	driver := model.Principal{UserID: uuid.New(), Role: model.UserRoleDriver, DriverID: &driverID}
	if _, err := svc.Get(context.Background(), driver, schedule.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted schedule, got %v", err)
	}

	if _, err := svc.Get(context.Background(), dispatcher(), schedule.ID); err != nil {
		t.Fatalf("dispatch should still read a deleted schedule: %v", err)
	}
}
