package auth

import (
	"testing"
	"time"

	"cinevault/config"
	"cinevault/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	userID := uuid.New()

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID, entity.AAL1)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	// Validate access token
	accessClaims, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, entity.AAL1, accessClaims.Level)
	assert.Equal(t, "access", accessClaims.Type)

	// Validate refresh token
	refreshClaims, err := jwtService.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, entity.AAL1, refreshClaims.Level)
	assert.Equal(t, "refresh", refreshClaims.Type)
}

func TestJWTService_RefreshTokenCarriesAssuranceLevel(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	userID := uuid.New()

	// A stepped-up session mints aal2 on both tokens, so a later refresh
	// can preserve the level without re-verifying a factor.
	accessToken, refreshToken, err := jwtService.GenerateTokens(userID, entity.AAL2)
	require.NoError(t, err)

	accessClaims, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.AAL2, accessClaims.Level)

	refreshClaims, err := jwtService.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, entity.AAL2, refreshClaims.Level)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	// Test invalid token - using clearly non-JWT format
	invalidToken := "clearly-not-a-jwt-token-format"
	claims, err := jwtService.ValidateToken(invalidToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ForeignSignature(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	otherCfg := newTestJWTConfig()
	otherCfg.SecretKey.Access = "another_access_secret_entirely_different"
	otherCfg.SecretKey.Refresh = "another_refresh_secret_entirely_different"
	otherService, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	accessToken, _, err := otherService.GenerateTokens(uuid.New(), entity.AAL1)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	cfg := &config.Config{}

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_GetRefreshTokenDuration(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	duration := jwtService.GetRefreshTokenDuration()
	expectedDuration := time.Hour * 24 * 7 // 7 days
	assert.Equal(t, expectedDuration, duration)
}

func TestJWTService_HashToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	hash := jwtService.HashToken("some-refresh-token")

	// Deterministic, hex-encoded SHA-256
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, jwtService.HashToken("some-refresh-token"))
	assert.NotEqual(t, hash, jwtService.HashToken("another-refresh-token"))
}
