package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"route-service/internal/model"
)

type WasteRepository struct {
	db *gorm.DB
}

func NewWasteRepository(db *gorm.DB) *WasteRepository {
	return &WasteRepository{db: db}
}

func (r *WasteRepository) Create(ctx context.Context, record *model.WasteCollection) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *WasteRepository) ListBySegmentIDs(ctx context.Context, segmentIDs []uuid.UUID) ([]model.WasteCollection, error) {
	if len(segmentIDs) == 0 {
		return nil, nil
	}
	var rows []model.WasteCollection
	err := r.db.WithContext(ctx).
		Where("route_detail_id IN ? OR reschedule_detail_id IN ?", segmentIDs, segmentIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
