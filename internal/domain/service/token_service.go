package service

import (
	"time"

	"cinevault/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims for the JWT tokens.
// Level carries the assurance level the session has reached; access tokens
// minted after a successful second-factor verification carry aal2.
type Claims struct {
	UserID uuid.UUID
	Level  entity.AssuranceLevel
	Type   string // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user
	// at the given assurance level.
	GenerateTokens(userID uuid.UUID, level entity.AssuranceLevel) (accessToken string, refreshToken string, err error)

	// ValidateToken checks the validity of a token string.
	ValidateToken(tokenString string) (*Claims, error)

	// HashToken produces the storage hash for a raw refresh token.
	HashToken(token string) string

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}
