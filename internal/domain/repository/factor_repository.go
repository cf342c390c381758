// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"time"

	"cinevault/internal/domain/entity"
	"cinevault/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for second-factor persistence.
var (
	// ErrFactorNotFound is returned when an enrolled factor is not found.
	ErrFactorNotFound = errors.New("factor not found")
	// ErrChallengeNotFound is returned when a challenge is not found.
	ErrChallengeNotFound = errors.New("challenge not found")
)

// FactorRepository defines the interface for second-factor and challenge persistence.
// Factors carry the enrollment state machine (unverified -> verified); challenges
// are short-lived verification windows bound to a factor.
type FactorRepository interface {
	// CreateFactor persists a newly enrolled factor in the unverified state.
	CreateFactor(ctx context.Context, factor *entity.Factor) error

	// FindFactorByID retrieves a factor by its unique ID.
	FindFactorByID(ctx context.Context, id uuid.UUID) (*entity.Factor, error)

	// FindFactorsByUserID retrieves all factors enrolled by a user, newest first.
	FindFactorsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Factor, error)

	// UpdateFactor updates an existing factor record (status transitions).
	UpdateFactor(ctx context.Context, factor *entity.Factor) error

	// DeleteFactor removes a factor by its ID.
	DeleteFactor(ctx context.Context, id uuid.UUID) error

	// DeleteUnverifiedFactorsByUserID removes every factor of the user that never
	// completed verification. Called before a fresh enrollment so abandoned
	// attempts do not pile up.
	DeleteUnverifiedFactorsByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteFactorsByUserID removes all factors for a user. Used during account deletion.
	DeleteFactorsByUserID(ctx context.Context, userID uuid.UUID) error

	// CreateChallenge persists a new challenge window.
	CreateChallenge(ctx context.Context, challenge *entity.Challenge) error

	// FindChallengeByID retrieves a challenge by its unique ID.
	FindChallengeByID(ctx context.Context, id uuid.UUID) (*entity.Challenge, error)

	// UpdateChallenge updates an existing challenge record (attempt counter).
	UpdateChallenge(ctx context.Context, challenge *entity.Challenge) error

	// DeleteChallenge removes a challenge by its ID.
	DeleteChallenge(ctx context.Context, id uuid.UUID) error

	// DeleteExpiredChallenges removes all challenges that expired before the cutoff.
	// Called periodically by the sweeper.
	DeleteExpiredChallenges(ctx context.Context, cutoff time.Time) (int64, error)
}
