// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"cinevault/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterUserInput defines the data required to register a new user.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// GoogleCallbackInput carries the ID token returned by Google Sign-In.
type GoogleCallbackInput struct {
	IDToken string
}

// RefreshTokenInput carries the refresh token presented for renewal.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token of the session being ended.
type LogoutInput struct {
	RefreshToken string
}

// ChangePasswordInput carries the current and the replacement password of an
// authenticated user.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
// Sessions always start at aal1; step-up happens through the MFA usecase.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the renewed access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterUser(ctx context.Context, input *RegisterUserInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	GoogleCallback(ctx context.Context, input *GoogleCallbackInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	LogoutAllDevices(ctx context.Context, userID uuid.UUID) error
	GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)
	RevokeSession(ctx context.Context, userID, tokenID uuid.UUID) error

	// ChangePassword rewrites the email credential's hash after checking the
	// current password and the strength of the new one.
	ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error

	// DeleteAccount revokes every session, removes credentials and second
	// factors, and soft-deletes the user row.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}
