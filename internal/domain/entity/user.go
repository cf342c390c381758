// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// It contains only the most fundamental identity information.
type User struct {
	ID          uuid.UUID    // The Global Unique Identifier (GUID) for the user.
	Email       string       // The user's primary contact email, used as a login identifier.
	Name        string       // The user's display name.
	UserProfile *UserProfile // A pointer to the profile row. Nil until EnsureProfile has run.
	CreatedAt   time.Time    // Timestamp of when this user account was created.
	UpdatedAt   time.Time    // Timestamp of the last modification to this user's data.
}

// UserProfile holds the per-user discovery data: free-form profile fields and the
// two favorites partitions. Each partition is a set represented as a list; every
// media ID appears at most once. Insertion order carries no meaning.
type UserProfile struct {
	UserID         uuid.UUID // Foreign Key that links this profile to a core User entity.
	AvatarURL      string    // URL of the user's avatar image.
	Bio            string    // Free-form profile text.
	FavoriteMovies []int64   // TMDB movie IDs the user has saved.
	FavoriteTV     []int64   // TMDB TV show IDs the user has saved.
	UpdatedAt      time.Time // Timestamp of the last modification to this profile.
}

// Favorites returns the partition for the given media kind.
func (p *UserProfile) Favorites(kind MediaKind) []int64 {
	if kind == MediaKindMovie {
		return p.FavoriteMovies
	}

	return p.FavoriteTV
}

// SetFavorites replaces the partition for the given media kind.
func (p *UserProfile) SetFavorites(kind MediaKind, ids []int64) {
	if kind == MediaKindMovie {
		p.FavoriteMovies = ids

		return
	}
	p.FavoriteTV = ids
}
