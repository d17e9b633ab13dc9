package repository

import (
	"context"
	"time"

	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/qconnect/clinic-api/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefreshTokenRepository persists refresh-token hashes. Lookup is keyed by
// the unique hash; consumption is a single conditional delete so two
// concurrent presentations of the same token cannot both succeed.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create persists a refresh-token hash for a user.
func (r *RefreshTokenRepository) Create(ctx context.Context, userID uint, tokenHash string, expiresAt time.Time) error {
	record := model.RefreshToken{
		TokenHash: tokenHash,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to persist refresh token").
			Uint("user_id", userID).
			Err(err).
			Log()
		return err
	}

	return nil
}

// Consume atomically deletes the record matching the hash and returns the
// owning user. The delete-returning statement is the rotation race guard:
// of two concurrent consumes only one observes the row, the other gets
// ErrInvalidRefreshToken. An expired record is also deleted but reported as
// invalid (lazy expiry cleanup).
func (r *RefreshTokenRepository) Consume(ctx context.Context, tokenHash string) (*model.User, error) {
	var deleted []model.RefreshToken
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("token_hash = ?", tokenHash).
		Delete(&deleted)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to consume refresh token").
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	if result.RowsAffected == 0 || len(deleted) == 0 {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	record := deleted[0]
	if time.Now().After(record.ExpiresAt) {
		logger.DebugWithContext(ctx, "Expired refresh token presented and purged").
			Uint("user_id", record.UserID).
			Log()
		return nil, apperrors.ErrInvalidRefreshToken
	}

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, record.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Owner deleted since issuance; the token is gone either way.
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}

	return &user, nil
}

// RevokeAll deletes every refresh token belonging to a user. Used on logout
// and on suspected compromise.
func (r *RefreshTokenRepository) RevokeAll(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.RefreshToken{})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke refresh tokens").
			Uint("user_id", userID).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Refresh tokens revoked").
		Uint("user_id", userID).
		Int64("revoked_count", result.RowsAffected).
		Log()

	return nil
}

// CleanupExpired removes expired refresh tokens in one batch.
func (r *RefreshTokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.RefreshToken{})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to cleanup expired refresh tokens").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// CountForUser returns the number of live refresh tokens a user holds.
func (r *RefreshTokenRepository) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// FindByHash looks a record up without consuming it (logout needs the owner
// before revoking).
func (r *RefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var record model.RefreshToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}
	return &record, nil
}
