package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"route-service/internal/model"
)

type SegmentRepository struct {
	db *gorm.DB
}

func NewSegmentRepository(db *gorm.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

func (r *SegmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RouteSegment, error) {
	var segment model.RouteSegment
	if err := r.db.WithContext(ctx).First(&segment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &segment, nil
}

func (r *SegmentRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.RouteSegment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var segments []model.RouteSegment
	if err := r.db.WithContext(ctx).Find(&segments, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return segments, nil
}

func (r *SegmentRepository) ListOwnedBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.RouteSegment, error) {
	var segments []model.RouteSegment
	err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND reschedule_id IS NULL", scheduleID).
		Order("created_at ASC").
		Find(&segments).Error
	if err != nil {
		return nil, err
	}
	return segments, nil
}

func (r *SegmentRepository) List(ctx context.Context, filter model.SegmentFilter) ([]model.RouteSegment, error) {
	query := r.db.WithContext(ctx).Model(&model.RouteSegment{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.UnviewedOnly {
		query = query.Where("is_viewed = ?", false)
	}
	if filter.ScheduleID != nil {
		query = query.Where("schedule_id = ?", *filter.ScheduleID)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var segments []model.RouteSegment
	if err := query.Order("updated_at DESC").Find(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}

func (r *SegmentRepository) ListByDriver(ctx context.Context, driverID uuid.UUID, scheduleID *uuid.UUID) ([]model.RouteSegment, error) {
	query := r.db.WithContext(ctx).
		Model(&model.RouteSegment{}).
		Joins("LEFT JOIN schedules s ON s.id = route_segments.schedule_id AND route_segments.reschedule_id IS NULL").
		Joins("LEFT JOIN reschedules rs ON rs.id = route_segments.reschedule_id").
		Where("(rs.id IS NOT NULL AND rs.driver_id = ?) OR (rs.id IS NULL AND s.driver_id = ? AND s.status <> ?)",
			driverID, driverID, model.ScheduleStatusDeleted)

	if scheduleID != nil {
		query = query.Where("route_segments.schedule_id = ?", *scheduleID)
	}

	var segments []model.RouteSegment
	if err := query.Order("route_segments.created_at ASC").Find(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}

func (r *SegmentRepository) OwnerDriverID(ctx context.Context, segment *model.RouteSegment) (uuid.UUID, error) {
	var row struct {
		DriverID uuid.UUID
	}
	query := r.db.WithContext(ctx)
	if segment.RescheduleID != nil {
		query = query.Table("reschedules").Select("driver_id").Where("id = ?", *segment.RescheduleID)
	} else {
		query = query.Table("schedules").Select("driver_id").Where("id = ?", segment.ScheduleID)
	}
	if err := query.Take(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return row.DriverID, nil
}

func (r *SegmentRepository) Update(ctx context.Context, segment *model.RouteSegment, logEntry *model.SegmentStatusLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.RouteSegment{}).
			Where("id = ?", segment.ID).
			Updates(map[string]interface{}{
				"status":       segment.Status,
				"remarks":      segment.Remarks,
				"start_time":   segment.StartTime,
				"completed_at": segment.CompletedAt,
			}).Error
		if err != nil {
			return err
		}
		if logEntry != nil {
			if err := tx.Create(logEntry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SegmentRepository) MarkViewed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.RouteSegment{}).
		Where("id = ?", id).
		Update("is_viewed", true).Error
}
