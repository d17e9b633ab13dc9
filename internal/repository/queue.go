package repository

import (
	"context"

	"github.com/qconnect/clinic-api/internal/model"
	"gorm.io/gorm"
)

type QueueRepository struct {
	db *gorm.DB
}

func NewQueueRepository(db *gorm.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

func (r *QueueRepository) GetByID(ctx context.Context, id uint) (*model.Queue, error) {
	var queue model.Queue
	if err := r.db.WithContext(ctx).First(&queue, id).Error; err != nil {
		return nil, err
	}
	return &queue, nil
}

func (r *QueueRepository) GetAll(ctx context.Context, limit, offset int, doctorID uint) ([]model.Queue, int64, error) {
	var queues []model.Queue
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Queue{})
	if doctorID != 0 {
		query = query.Where("doctor_id = ?", doctorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Limit(limit).Offset(offset).Order("date DESC").Find(&queues).Error; err != nil {
		return nil, 0, err
	}

	return queues, total, nil
}

func (r *QueueRepository) Create(ctx context.Context, queue *model.Queue) error {
	return r.db.WithContext(ctx).Create(queue).Error
}

func (r *QueueRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&model.Queue{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
