package usecase

import (
	"context"

	"cinevault/internal/domain/entity"

	"github.com/google/uuid"
)

// FavoritesOutput carries one favorites partition after an operation.
type FavoritesOutput struct {
	Kind entity.MediaKind
	IDs  []int64
}

// FavoritesUsecase defines the interface for favorites-related business operations.
// Each partition (movie, tv) is a set: every media ID appears at most once, and
// operations on one partition never touch the other. All mutations return the
// updated partition so clients can reconcile their local view.
type FavoritesUsecase interface {
	// Fetch returns the current partition for the given kind.
	Fetch(ctx context.Context, userID uuid.UUID, kind entity.MediaKind) (*FavoritesOutput, error)

	// Toggle removes the ID if present, adds it otherwise.
	Toggle(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, mediaID int64) (*FavoritesOutput, error)

	// Add inserts the ID if absent; adding a present ID is a no-op.
	Add(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, mediaID int64) (*FavoritesOutput, error)

	// Remove deletes the ID if present; removing an absent ID is a no-op.
	Remove(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, mediaID int64) (*FavoritesOutput, error)
}
