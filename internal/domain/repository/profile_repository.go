// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"cinevault/internal/domain/entity"
	"cinevault/internal/errors"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when a user profile row does not exist yet.
var ErrProfileNotFound = errors.New("user profile not found")

// ProfileRepository defines the interface for user profile persistence,
// including the per-kind favorites partitions stored on the profile row.
type ProfileRepository interface {
	// CreateProfile persists a new, empty profile row for a user.
	CreateProfile(ctx context.Context, profile *entity.UserProfile) error

	// FindProfileByUserID retrieves the profile row for a user.
	// Returns ErrProfileNotFound if the row does not exist.
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)

	// UpdateProfile updates the free-form profile fields (avatar, bio).
	UpdateProfile(ctx context.Context, profile *entity.UserProfile) error

	// UpdateFavorites replaces one favorites partition with the given list.
	// Only the column for the given kind is written.
	UpdateFavorites(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, ids []int64) error
}
