package service

import (
	"context"

	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/qconnect/clinic-api/internal/repository"
	"github.com/qconnect/clinic-api/pkg/logger"
)

type DoctorService struct {
	doctorRepo *repository.DoctorRepository
}

func NewDoctorService(doctorRepo *repository.DoctorRepository) *DoctorService {
	return &DoctorService{doctorRepo: doctorRepo}
}

func (s *DoctorService) GetByID(ctx context.Context, id uint) (*dto.DoctorResponse, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrDoctorNotFound)
	}
	resp := toDoctorResponse(doctor)
	return &resp, nil
}

func (s *DoctorService) GetAll(ctx context.Context, limit, offset int, search string) ([]dto.DoctorResponse, int64, error) {
	doctors, total, err := s.doctorRepo.GetAll(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		responses = append(responses, toDoctorResponse(&doctors[i]))
	}
	return responses, total, nil
}

func (s *DoctorService) Create(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor := &model.Doctor{
		Name:      req.Name,
		Specialty: req.Specialty,
		RoomNo:    req.RoomNo,
	}

	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "doctor created").
		Uint("doctor_id", doctor.ID).
		String("specialty", doctor.Specialty).
		Log()

	resp := toDoctorResponse(doctor)
	return &resp, nil
}

func (s *DoctorService) Update(ctx context.Context, id uint, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Specialty != "" {
		updates["specialty"] = req.Specialty
	}
	if req.RoomNo != "" {
		updates["room_no"] = req.RoomNo
	}

	if len(updates) > 0 {
		if err := s.doctorRepo.Update(ctx, id, updates); err != nil {
			return nil, mapNotFound(err, apperrors.ErrDoctorNotFound)
		}
	}

	return s.GetByID(ctx, id)
}

func (s *DoctorService) Delete(ctx context.Context, id uint) error {
	if _, err := s.doctorRepo.GetByID(ctx, id); err != nil {
		return mapNotFound(err, apperrors.ErrDoctorNotFound)
	}
	return mapNotFound(s.doctorRepo.Delete(ctx, id), apperrors.ErrDoctorNotFound)
}

func toDoctorResponse(doctor *model.Doctor) dto.DoctorResponse {
	return dto.DoctorResponse{
		ID:        doctor.ID,
		Name:      doctor.Name,
		Specialty: doctor.Specialty,
		RoomNo:    doctor.RoomNo,
		CreatedAt: doctor.CreatedAt,
	}
}
