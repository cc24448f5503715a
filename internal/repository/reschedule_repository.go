package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"route-service/internal/model"
)

type RescheduleRepository struct {
	db *gorm.DB
}

func NewRescheduleRepository(db *gorm.DB) *RescheduleRepository {
	return &RescheduleRepository{db: db}
}

func (r *RescheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ReSchedule, error) {
	var resched model.ReSchedule
	err := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Truck").
		Preload("Driver").
		Preload("Barangay").
		First(&resched, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &resched, nil
}

func (r *RescheduleRepository) List(ctx context.Context, filter model.RunFilter) ([]model.ReSchedule, error) {
	query := r.db.WithContext(ctx).Model(&model.ReSchedule{})
	query = applyRunFilter(query, filter)

	var rescheds []model.ReSchedule
	err := query.
		Order("pickup_at DESC").
		Preload("Truck").
		Preload("Driver").
		Preload("Barangay").
		Find(&rescheds).Error
	if err != nil {
		return nil, err
	}
	return rescheds, nil
}

func (r *RescheduleRepository) ExistsAtTime(ctx context.Context, truckID uuid.UUID, pickupAt time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReSchedule{}).
		Where("truck_id = ? AND pickup_at = ? AND status <> ?", truckID, pickupAt, model.ScheduleStatusDeleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithClones runs the clone-and-flip in a single transaction so a
// failure midway can never leave originals rescheduled without their
// clones. The flip is guarded on the missed status; a concurrent flip of
// any leg aborts the whole batch.
func (r *RescheduleRepository) CreateWithClones(ctx context.Context, resched *model.ReSchedule, clones []model.RouteSegment, flipIDs []uuid.UUID, logs []model.SegmentStatusLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resched).Error; err != nil {
			return err
		}

		for i := range clones {
			clones[i].RescheduleID = &resched.ID
		}
		if err := tx.Create(&clones).Error; err != nil {
			return err
		}

		result := tx.Model(&model.RouteSegment{}).
			Where("id IN ? AND status = ?", flipIDs, model.SegmentStatusMissed).
			Update("status", model.SegmentStatusRescheduled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(flipIDs)) {
			return fmt.Errorf("flip affected %d of %d segments", result.RowsAffected, len(flipIDs))
		}

		if len(logs) > 0 {
			if err := tx.Create(&logs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
