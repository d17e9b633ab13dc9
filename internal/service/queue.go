package service

import (
	"context"
	"time"

	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/qconnect/clinic-api/internal/repository"
	"github.com/qconnect/clinic-api/pkg/logger"
)

type QueueService struct {
	queueRepo  *repository.QueueRepository
	doctorRepo *repository.DoctorRepository
}

func NewQueueService(queueRepo *repository.QueueRepository, doctorRepo *repository.DoctorRepository) *QueueService {
	return &QueueService{queueRepo: queueRepo, doctorRepo: doctorRepo}
}

func (s *QueueService) GetByID(ctx context.Context, id uint) (*dto.QueueResponse, error) {
	queue, err := s.queueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrQueueNotFound)
	}
	resp := toQueueResponse(queue)
	return &resp, nil
}

func (s *QueueService) GetAll(ctx context.Context, limit, offset int, doctorID uint) ([]dto.QueueResponse, int64, error) {
	queues, total, err := s.queueRepo.GetAll(ctx, limit, offset, doctorID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.QueueResponse, 0, len(queues))
	for i := range queues {
		responses = append(responses, toQueueResponse(&queues[i]))
	}
	return responses, total, nil
}

// Create opens a queue for a doctor on a given day. The date accepts
// RFC 3339 or a bare YYYY-MM-DD.
func (s *QueueService) Create(ctx context.Context, req *dto.CreateQueueRequest) (*dto.QueueResponse, error) {
	if _, err := s.doctorRepo.GetByID(ctx, req.DoctorID); err != nil {
		return nil, mapNotFound(err, apperrors.ErrDoctorNotFound)
	}

	date, err := parseQueueDate(req.Date)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidInput, err)
	}

	queue := &model.Queue{
		DoctorID: req.DoctorID,
		Date:     date,
	}

	if err := s.queueRepo.Create(ctx, queue); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "queue opened").
		Uint("queue_id", queue.ID).
		Uint("doctor_id", queue.DoctorID).
		Log()

	resp := toQueueResponse(queue)
	return &resp, nil
}

func (s *QueueService) Delete(ctx context.Context, id uint) error {
	return mapNotFound(s.queueRepo.Delete(ctx, id), apperrors.ErrQueueNotFound)
}

func parseQueueDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func toQueueResponse(queue *model.Queue) dto.QueueResponse {
	return dto.QueueResponse{
		ID:        queue.ID,
		DoctorID:  queue.DoctorID,
		Date:      queue.Date,
		CurrentNo: queue.CurrentNo,
	}
}
