// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"cinevault/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for authentication persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAuthNotFound is returned when an authentication method is not found.
	ErrAuthNotFound = errors.New("authentication method not found")
	// ErrTokenNotFound is returned when a refresh token is not found.
	ErrTokenNotFound = errors.New("refresh token not found")
)

// AuthRepository defines the standard operations for authentication-related persistence.
type AuthRepository interface {
	// CreateAuthentication persists a new authentication method (e.g., email/password, social login).
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthentication retrieves an authentication method by its provider and provider-specific ID.
	FindAuthentication(ctx context.Context, provider string, providerUserID string) (*entity.Authentication, error)

	// FindAuthenticationsByUserID retrieves every authentication method linked to a user.
	FindAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Authentication, error)

	// UpdatePasswordHash replaces the stored password hash of one credential.
	// Returns ErrAuthNotFound if the credential does not exist.
	UpdatePasswordHash(ctx context.Context, authID uuid.UUID, passwordHash string) error

	// DeleteAuthenticationsByUserID removes all authentication methods for a user.
	// Used during account deletion.
	DeleteAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) error
}
