package usecase

import (
	"context"

	"cinevault/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput defines the editable profile fields.
type UpdateProfileInput struct {
	AvatarURL *string
	Bio       *string
}

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	// EnsureProfile creates the profile row for a user if it does not exist yet.
	// It is idempotent: a second call is a no-op returning the existing row.
	EnsureProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)

	// GetProfile returns the user's profile row.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)

	// UpdateProfile applies the non-nil fields of the input to the profile.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.UserProfile, error)
}
