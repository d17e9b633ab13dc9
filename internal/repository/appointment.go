package repository

import (
	"context"

	"github.com/qconnect/clinic-api/internal/model"
	"github.com/qconnect/clinic-api/pkg/logger"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type AppointmentFilter struct {
	QueueID uint
	UserID  uint
	Status  string
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.db.WithContext(ctx).First(&appointment, id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *AppointmentRepository) GetAll(ctx context.Context, limit, offset int, filter AppointmentFilter) ([]model.Appointment, int64, error) {
	var appointments []model.Appointment
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Appointment{})
	if filter.QueueID != 0 {
		query = query.Where("queue_id = ?", filter.QueueID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Limit(limit).Offset(offset).Order("id DESC").Find(&appointments).Error; err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

// Book creates an appointment and increments the queue's token counter in
// one transaction. The row lock taken by the update keeps concurrent
// bookings from allocating the same token number.
func (r *AppointmentRepository) Book(ctx context.Context, queueID, userID uint, notes []byte) (*model.Appointment, error) {
	var appointment *model.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var queue model.Queue
		if err := tx.First(&queue, queueID).Error; err != nil {
			return err
		}

		result := tx.Model(&model.Queue{}).
			Where("id = ?", queueID).
			Update("current_no", gorm.Expr("current_no + 1"))
		if result.Error != nil {
			return result.Error
		}

		if err := tx.First(&queue, queueID).Error; err != nil {
			return err
		}

		appointment = &model.Appointment{
			TokenNo: queue.CurrentNo,
			Status:  model.StatusPending,
			UserID:  userID,
			QueueID: queueID,
			Notes:   notes,
		}
		return tx.Create(appointment).Error
	})

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to book appointment").
			Uint("queue_id", queueID).
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, err
	}

	return appointment, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
