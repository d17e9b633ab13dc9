package model

import "time"

// RefreshToken holds the one-way hash of an opaque refresh secret. The raw
// value is never persisted, so a database compromise does not yield usable
// credentials. Rows are deleted on use (rotation), on lazy expiry cleanup,
// and in bulk on logout/revocation.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	TokenHash string    `gorm:"column:token_hash;uniqueIndex;not null"`
	UserID    uint      `gorm:"column:user_id;index;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index:idx_refresh_tokens_cleanup"`
	CreatedAt time.Time `gorm:"column:created_at"`
}
