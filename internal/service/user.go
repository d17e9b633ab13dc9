package service

import (
	"context"

	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/repository"
	"github.com/qconnect/clinic-api/pkg/logger"
)

// UserService handles account management beyond the auth lifecycle.
type UserService struct {
	userRepo  *repository.UserRepository
	tokenRepo *repository.RefreshTokenRepository
}

func NewUserService(userRepo *repository.UserRepository, tokenRepo *repository.RefreshTokenRepository) *UserService {
	return &UserService{userRepo: userRepo, tokenRepo: tokenRepo}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrUserNotFound)
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) GetAll(ctx context.Context, limit, offset int, search string) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userRepo.GetAll(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *UserService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, id, updates); err != nil {
			return nil, mapNotFound(err, apperrors.ErrUserNotFound)
		}
	}

	return s.GetByID(ctx, id)
}

// UpdatePassword changes the user's password after verifying the current
// one, then revokes every refresh token so stolen sessions die with the
// old credential.
func (s *UserService) UpdatePassword(ctx context.Context, id uint, req *dto.UpdatePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, apperrors.ErrUserNotFound)
	}

	if !CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrIncorrectPassword
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.userRepo.UpdatePassword(ctx, id, hashed); err != nil {
		return mapNotFound(err, apperrors.ErrUserNotFound)
	}

	if err := s.tokenRepo.RevokeAll(ctx, id); err != nil {
		logger.WarnWithContext(ctx, "failed to revoke sessions after password change").
			Uint("user_id", id).
			Err(err).
			Log()
	}

	return nil
}

// Delete removes a user account. Admins cannot delete themselves, so the
// deployment always keeps at least the acting admin.
func (s *UserService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return apperrors.ErrSelfDeletion
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return mapNotFound(err, apperrors.ErrUserNotFound)
	}

	if err := s.tokenRepo.RevokeAll(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return mapNotFound(err, apperrors.ErrUserNotFound)
	}

	logger.InfoWithContext(ctx, "user deleted").
		Uint("user_id", id).
		Uint("actor_id", actorID).
		Log()
	return nil
}
