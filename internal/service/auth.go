package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/qconnect/clinic-api/internal/repository"
	"github.com/qconnect/clinic-api/pkg/logger"
)

// AuthService owns the credential and session lifecycle: signup, login,
// refresh rotation, and logout. Access tokens are stateless JWTs;
// refresh tokens are opaque, stored hash-only, and strictly single-use.
type AuthService struct {
	userRepo  *repository.UserRepository
	tokenRepo *repository.RefreshTokenRepository
	tokens    *TokenService
}

func NewAuthService(userRepo *repository.UserRepository, tokenRepo *repository.RefreshTokenRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
	}
}

// Signup registers a new patient account. Role is always patient here;
// elevated roles are assigned by an admin through the user endpoints.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.ErrEmailExists
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hashed,
		Role:     model.RolePatient,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "user registered").
		Uint("user_id", user.ID).
		String("email", user.Email).
		Log()

	resp := ToUserResponse(user)
	return &resp, nil
}

// Login verifies credentials and issues a fresh token pair. A lookup miss
// and a password mismatch are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.LogAuth("", "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	if !CheckPassword(user.Password, req.Password) {
		logger.LogAuth(strconv.FormatUint(uint64(user.ID), 10), "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	resp, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WarnWithContext(ctx, "failed to record last login").
			Uint("user_id", user.ID).
			Err(err).
			Log()
	}

	logger.LogAuth(strconv.FormatUint(uint64(user.ID), 10), "login", true)
	return resp, nil
}

// Refresh consumes a refresh token and rotates the full pair. Consumption
// is atomic: under concurrent use of the same token exactly one caller
// receives a new pair, all others get an invalid-token error.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*dto.LoginResponse, error) {
	if rawToken == "" {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.tokenRepo.Consume(ctx, HashRefreshToken(rawToken))
	if err != nil {
		logger.WarnWithContext(ctx, "refresh token rejected").Err(err).Log()
		return nil, err
	}

	resp, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.LogAuth(strconv.FormatUint(uint64(user.ID), 10), "refresh", true)
	return resp, nil
}

// Logout revokes every refresh token the user holds, ending all sessions.
// Outstanding access tokens remain honored until their short expiry.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.tokenRepo.RevokeAll(ctx, userID); err != nil {
		return err
	}
	logger.LogAuth(strconv.FormatUint(uint64(userID), 10), "logout", true)
	return nil
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrUserNotFound)
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// issueTokenPair mints an access token and persists a refresh token. If the
// refresh token cannot be persisted no pair is issued at all; a pair whose
// refresh half does not exist server-side would strand the client at expiry.
func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) (*dto.LoginResponse, error) {
	accessToken, expiresAt, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	raw, hash, refreshExpiry, err := s.tokens.NewRefreshToken()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.tokenRepo.Create(ctx, user.ID, hash, refreshExpiry); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, fmt.Errorf("failed to persist refresh token: %w", err))
	}

	return &dto.LoginResponse{
		User:         ToUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: raw,
		ExpiresAt:    expiresAt,
	}, nil
}

// ToUserResponse maps a user model to its public representation.
func ToUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
