package model

import (
	"time"

	"github.com/google/uuid"
)

// FactorModel mirrors the 'mfa_factors' table. One row per enrolled second factor.
type FactorModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Type         string    `gorm:"type:varchar(20);not null"`
	FriendlyName string    `gorm:"type:varchar(100)"`
	Secret       string    `gorm:"type:varchar(255);not null"`
	Status       string    `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (FactorModel) TableName() string {
	return "mfa_factors"
}

// ChallengeModel mirrors the 'mfa_challenges' table. Rows are short-lived; the
// sweeper deletes anything past its expiry.
type ChallengeModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	FactorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Attempts  int       `gorm:"not null;default:0"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ChallengeModel) TableName() string {
	return "mfa_challenges"
}
