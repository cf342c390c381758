package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email     string    `gorm:"type:varchar(255);unique;not null"`
	Name      string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`

	UserProfile     *UserProfileModel     `gorm:"foreignKey:UserID"`
	Authentications []AuthenticationModel `gorm:"foreignKey:UserID"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:UserID"`
	Factors         []FactorModel         `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// UserProfileModel mirrors the 'user_profiles' table. UserID references users.id (UUID).
// The favorites partitions are jsonb arrays of provider media IDs; GORM's json
// serializer handles the conversion in both directions.
type UserProfileModel struct {
	UserID         uuid.UUID `gorm:"primaryKey"`
	AvatarURL      string    `gorm:"type:varchar(512)"`
	Bio            string    `gorm:"type:text"`
	FavoriteMovies []int64   `gorm:"type:jsonb;serializer:json;not null;default:'[]'"`
	FavoriteTV     []int64   `gorm:"type:jsonb;serializer:json;not null;default:'[]';column:favorite_tv"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserProfileModel) TableName() string {
	return "user_profiles"
}
