package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"route-service/internal/model"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *ScheduleRepository) Update(ctx context.Context, schedule *model.Schedule) error {
	return r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("id = ?", schedule.ID).
		Updates(map[string]interface{}{
			"truck_id":    schedule.TruckID,
			"driver_id":   schedule.DriverID,
			"barangay_id": schedule.BarangayID,
			"pickup_at":   schedule.PickupAt,
			"remarks":     schedule.Remarks,
		}).Error
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Where("reschedule_id IS NULL").Order("created_at ASC")
		}).
		Preload("Truck").
		Preload("Driver").
		Preload("Barangay").
		First(&schedule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *ScheduleRepository) List(ctx context.Context, filter model.RunFilter) ([]model.Schedule, error) {
	query := r.db.WithContext(ctx).Model(&model.Schedule{})
	query = applyRunFilter(query, filter)

	var schedules []model.Schedule
	err := query.
		Order("pickup_at DESC").
		Preload("Truck").
		Preload("Driver").
		Preload("Barangay").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleRepository) ExistsAtTime(ctx context.Context, truckID uuid.UUID, pickupAt time.Time, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("truck_id = ? AND pickup_at = ? AND status <> ?", truckID, pickupAt, model.ScheduleStatusDeleted)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ScheduleStatus, remarks string, completedAt *time.Time) error {
	updates := map[string]interface{}{
		"status":  status,
		"remarks": remarks,
	}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	return r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *ScheduleRepository) UpsertSummary(ctx context.Context, summary *model.RouteSummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "schedule_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"completed_count", "missed_count", "total_duration_seconds", "missed_reasons", "updated_at",
			}),
		}).
		Create(summary).Error
}

func applyRunFilter(query *gorm.DB, filter model.RunFilter) *gorm.DB {
	if filter.Scope.Type == model.ScopeDriver {
		if filter.Scope.DriverID == nil {
			return query.Where("1=0")
		}
		query = query.Where("driver_id = ?", *filter.Scope.DriverID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	} else {
		query = query.Where("status <> ?", model.ScheduleStatusDeleted)
	}
	if filter.TruckID != nil {
		query = query.Where("truck_id = ?", *filter.TruckID)
	}
	if filter.DriverID != nil {
		query = query.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.BarangayID != nil {
		query = query.Where("barangay_id = ?", *filter.BarangayID)
	}
	if filter.DateFrom != nil {
		query = query.Where("pickup_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("pickup_at <= ?", *filter.DateTo)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}
	return query
}
