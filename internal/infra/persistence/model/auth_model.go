package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthenticationModel maps the 'user_authentications' table: one row per
// credential, keyed by provider plus the provider's user ID. PasswordHash is
// only set for email credentials.
type AuthenticationModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID         uuid.UUID `gorm:"type:uuid;not null"`
	Provider       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_auth_provider_provider_user_id"`
	ProviderUserID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_auth_provider_provider_user_id"`
	PasswordHash   string    `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
}

// TableName pins the table name for GORM.
func (AuthenticationModel) TableName() string {
	return "user_authentications"
}

// RefreshTokenModel maps the 'refresh_tokens' table: one row per live
// session, holding only the sha256 of the token.
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	TokenHash string    `gorm:"type:varchar(255);unique;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// TableName pins the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
