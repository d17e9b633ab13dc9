package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/qconnect/clinic-api/internal/repository"
	"github.com/qconnect/clinic-api/pkg/logger"
)

// Mailer is the slice of the email service the appointment flow needs.
type Mailer interface {
	SendTemplate(ctx context.Context, to, subject, templateName string, data map[string]any) error
}

type AppointmentService struct {
	appointmentRepo *repository.AppointmentRepository
	queueRepo       *repository.QueueRepository
	userRepo        *repository.UserRepository
	mailer          Mailer
}

func NewAppointmentService(
	appointmentRepo *repository.AppointmentRepository,
	queueRepo *repository.QueueRepository,
	userRepo *repository.UserRepository,
	mailer Mailer,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		queueRepo:       queueRepo,
		userRepo:        userRepo,
		mailer:          mailer,
	}
}

func (s *AppointmentService) GetByID(ctx context.Context, id uint) (*dto.AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrAppointmentNotFound)
	}
	resp := toAppointmentResponse(appointment)
	return &resp, nil
}

func (s *AppointmentService) GetAll(ctx context.Context, limit, offset int, filter repository.AppointmentFilter) ([]dto.AppointmentResponse, int64, error) {
	appointments, total, err := s.appointmentRepo.GetAll(ctx, limit, offset, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, toAppointmentResponse(&appointments[i]))
	}
	return responses, total, nil
}

// Book reserves the next token number in a queue. The increment and the
// appointment insert run in one transaction, so two concurrent bookings can
// never receive the same token. A confirmation email is dispatched
// asynchronously and never blocks or fails the booking.
func (s *AppointmentService) Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrUserNotFound)
	}

	appointment, err := s.appointmentRepo.Book(ctx, req.QueueID, req.UserID, []byte(req.Notes))
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrQueueNotFound)
	}

	logger.InfoWithContext(ctx, "appointment booked").
		Uint("appointment_id", appointment.ID).
		Uint("queue_id", appointment.QueueID).
		Int("token_no", appointment.TokenNo).
		Log()

	if s.mailer != nil {
		go s.sendConfirmation(user, appointment)
	}

	resp := toAppointmentResponse(appointment)
	return &resp, nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := s.appointmentRepo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, mapNotFound(err, apperrors.ErrAppointmentNotFound)
	}
	return s.GetByID(ctx, id)
}

func (s *AppointmentService) sendConfirmation(user *model.User, appointment *model.Appointment) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	data := map[string]any{
		"Name":    user.Name,
		"TokenNo": appointment.TokenNo,
		"QueueID": appointment.QueueID,
	}

	if err := s.mailer.SendTemplate(ctx, user.Email, "Your appointment is booked", "appointment_confirmation", data); err != nil {
		logger.WarnWithContext(ctx, "confirmation email not sent").
			Uint("appointment_id", appointment.ID).
			Err(err).
			Log()
	}
}

func toAppointmentResponse(appointment *model.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:        appointment.ID,
		TokenNo:   appointment.TokenNo,
		Status:    appointment.Status,
		UserID:    appointment.UserID,
		QueueID:   appointment.QueueID,
		Notes:     json.RawMessage(appointment.Notes),
		CreatedAt: appointment.CreatedAt,
	}
}
