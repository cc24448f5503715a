package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"route-service/internal/model"
)

// Repository contracts consumed by the services. The gorm implementations
// live in internal/repository; tests substitute in-memory fakes. Not-found
// lookups return gorm.ErrRecordNotFound.

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	Update(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	List(ctx context.Context, filter model.RunFilter) ([]model.Schedule, error)
	// ExistsAtTime reports whether a non-deleted schedule other than
	// excludeID books the truck at the exact pickup time.
	ExistsAtTime(ctx context.Context, truckID uuid.UUID, pickupAt time.Time, excludeID *uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ScheduleStatus, remarks string, completedAt *time.Time) error
	UpsertSummary(ctx context.Context, summary *model.RouteSummary) error
}

type SegmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.RouteSegment, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.RouteSegment, error)
	// ListOwnedBySchedule returns the schedule's own legs, excluding
	// reschedule children that merely trace lineage to it.
	ListOwnedBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.RouteSegment, error)
	List(ctx context.Context, filter model.SegmentFilter) ([]model.RouteSegment, error)
	// ListByDriver returns every leg whose owning run (schedule or
	// reschedule) is assigned to the driver, optionally narrowed to legs
	// whose schedule_id matches.
	ListByDriver(ctx context.Context, driverID uuid.UUID, scheduleID *uuid.UUID) ([]model.RouteSegment, error)
	// OwnerDriverID resolves the driver assigned to the leg's owning run.
	OwnerDriverID(ctx context.Context, segment *model.RouteSegment) (uuid.UUID, error)
	Update(ctx context.Context, segment *model.RouteSegment, logEntry *model.SegmentStatusLog) error
	MarkViewed(ctx context.Context, id uuid.UUID) error
}

type RescheduleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.ReSchedule, error)
	List(ctx context.Context, filter model.RunFilter) ([]model.ReSchedule, error)
	ExistsAtTime(ctx context.Context, truckID uuid.UUID, pickupAt time.Time) (bool, error)
	// CreateWithClones atomically creates the reschedule, inserts the
	// cloned legs under it, flips the original legs to rescheduled and
	// appends the status-log rows. All or nothing.
	CreateWithClones(ctx context.Context, resched *model.ReSchedule, clones []model.RouteSegment, flipIDs []uuid.UUID, logs []model.SegmentStatusLog) error
}

type WasteRepository interface {
	Create(ctx context.Context, record *model.WasteCollection) error
	ListBySegmentIDs(ctx context.Context, segmentIDs []uuid.UUID) ([]model.WasteCollection, error)
}
