// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"cinevault/config"
	"cinevault/internal/domain/entity"
	"cinevault/internal/domain/service"
)

const (
	accessTokenTTL  = time.Minute * 15
	refreshTokenTTL = time.Hour * 24 * 7
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  string        // Secret key for signing access tokens.
	refreshSecret string        // Secret key for signing refresh tokens.
	accessTTL     time.Duration // Time-to-live for access tokens.
	refreshTTL    time.Duration // Time-to-live for refresh tokens.
}

// jwtClaims is the wire shape of the token payload.
type jwtClaims struct {
	Level string `json:"aal,omitempty"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     accessTokenTTL,
		refreshTTL:    refreshTokenTTL,
	}, nil
}

// GenerateTokens creates a new access token and refresh token for a given user
// at the given assurance level. The refresh token carries the level too, so a
// refresh preserves the session's assurance.
func (s *jwtService) GenerateTokens(userID uuid.UUID, level entity.AssuranceLevel) (accessToken string, refreshToken string, err error) {
	accessToken, err = s.generateToken(userID, level, s.accessTTL, s.accessSecret, "access")
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.generateToken(userID, level, s.refreshTTL, s.refreshSecret, "refresh")
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateToken checks the validity of a token string. It tries the access
// secret first and falls back to the refresh secret, then verifies the type
// claim matches the secret that validated.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims, err := s.parseWithSecret(tokenString, s.accessSecret)
	if err != nil {
		claims, err = s.parseWithSecret(tokenString, s.refreshSecret)
		if err != nil {
			return nil, errors.Wrap(err, "token validation failed")
		}
		if claims.Type != "refresh" {
			return nil, errors.New("token type does not match signing key")
		}
	}

	return claims, nil
}

// HashToken produces the storage hash for a raw refresh token. Only the hash is
// persisted, so a database leak never exposes usable tokens.
func (s *jwtService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// GetRefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) GetRefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// parseWithSecret parses and verifies a token against one secret, mapping the
// wire claims onto the domain Claims shape.
func (s *jwtService) parseWithSecret(tokenString, secret string) (*service.Claims, error) {
	var wire jwtClaims
	token, err := jwt.ParseWithClaims(tokenString, &wire, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, err := uuid.Parse(wire.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject claim")
	}

	level := entity.AssuranceLevel(wire.Level)
	if !level.IsValid() {
		level = entity.AAL1
	}

	return &service.Claims{
		UserID:           userID,
		Level:            level,
		Type:             wire.Type,
		RegisteredClaims: wire.RegisteredClaims,
	}, nil
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uuid.UUID, level entity.AssuranceLevel, ttl time.Duration, secret, tokenType string) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Level: level.String(),
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}
