package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken stores the SHA-256 hash of the refresh token, never the
// plaintext.
type RefreshToken struct {
	RefreshTokenID     uuid.UUID `gorm:"column:refresh_token_id;type:uuid;default:gen_random_uuid();primaryKey" json:"refresh_token_id"`
	RefreshTokenUserID uuid.UUID `gorm:"column:refresh_token_user_id;type:uuid;not null;index" json:"refresh_token_user_id"`

	RefreshTokenHash []byte `gorm:"column:refresh_token_hash;type:bytea;not null" json:"-"`

	RefreshTokenExpiresAt time.Time  `gorm:"column:refresh_token_expires_at;type:timestamptz;not null" json:"refresh_token_expires_at"`
	RefreshTokenRevokedAt *time.Time `gorm:"column:refresh_token_revoked_at;type:timestamptz" json:"refresh_token_revoked_at,omitempty"`

	RefreshTokenUserAgent *string `gorm:"column:refresh_token_user_agent" json:"refresh_token_user_agent,omitempty"`
	RefreshTokenIP        *string `gorm:"column:refresh_token_ip;type:inet" json:"refresh_token_ip,omitempty"`

	RefreshTokenCreatedAt time.Time `gorm:"column:refresh_token_created_at;type:timestamptz;autoCreateTime" json:"refresh_token_created_at"`
	RefreshTokenUpdatedAt time.Time `gorm:"column:refresh_token_updated_at;type:timestamptz;autoUpdateTime" json:"refresh_token_updated_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
