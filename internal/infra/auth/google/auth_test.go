package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"cinevault/config"
	"cinevault/internal/domain/entity"
	"cinevault/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(t *testing.T) service.OAuthAuthService {
	t.Helper()

	cfg := &config.Config{
		GoogleOAuth: &config.GoogleOAuthConfig{ClientID: "test_client_id"},
	}

	return NewAuthService(cfg, newDiscardTestLogger())
}

// buildIDToken assembles an unsigned JWT from the claims. Signature
// verification is Google's job; this service only checks the claims.
func buildIDToken(t *testing.T, claims IDTokenClaims) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".invalid_signature"
}

func validClaims() IDTokenClaims {
	return IDTokenClaims{
		Iss:           "https://accounts.google.com",
		Sub:           "google-sub-123",
		Aud:           "test_client_id",
		Exp:           time.Now().Add(time.Hour).Unix(),
		Iat:           time.Now().Unix(),
		Email:         "test@example.com",
		EmailVerified: true,
		Name:          "Test User",
		Picture:       "https://example.com/avatar.png",
	}
}

func TestAuthService_VerifyIDToken(t *testing.T) {
	authService := newTestAuthService(t)

	oauthUser, err := authService.VerifyIDToken(context.Background(), buildIDToken(t, validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "google-sub-123", oauthUser.ID)
	assert.Equal(t, "test@example.com", oauthUser.Email)
	assert.Equal(t, "Test User", oauthUser.Name)
	assert.Equal(t, "https://example.com/avatar.png", oauthUser.AvatarURL)
	assert.Equal(t, entity.ProviderTypeGoogle, oauthUser.Provider)
	assert.True(t, oauthUser.EmailVerified)
}

func TestAuthService_VerifyIDToken_RejectsBadClaims(t *testing.T) {
	authService := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*IDTokenClaims)
	}{
		{"wrong issuer", func(c *IDTokenClaims) { c.Iss = "https://evil.example.com" }},
		{"wrong audience", func(c *IDTokenClaims) { c.Aud = "another_client_id" }},
		{"expired", func(c *IDTokenClaims) { c.Exp = time.Now().Add(-time.Hour).Unix() }},
		{"unverified email", func(c *IDTokenClaims) { c.EmailVerified = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			tt.mutate(&claims)

			oauthUser, err := authService.VerifyIDToken(ctx, buildIDToken(t, claims))
			assert.Error(t, err)
			assert.Nil(t, oauthUser)
		})
	}
}

func TestAuthService_InvalidJWT(t *testing.T) {
	authService := newTestAuthService(t)

	oauthUser, err := authService.VerifyIDToken(context.Background(), "invalid_token_format")
	assert.Error(t, err)
	assert.Nil(t, oauthUser)
	assert.Contains(t, err.Error(), "invalid JWT format")
}

func TestAuthService_GetProvider(t *testing.T) {
	authService := newTestAuthService(t)

	assert.Equal(t, entity.ProviderTypeGoogle, authService.GetProvider())
}

func TestAuthService_ParseIDToken(t *testing.T) {
	authService := newTestAuthService(t)

	// Cast to concrete type to test internal method
	authServiceImpl := authService.(*AuthServiceImpl)
	claims, err := authServiceImpl.parseIDToken(buildIDToken(t, validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "google-sub-123", claims.Sub)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "test_client_id", claims.Aud)
	assert.Equal(t, "https://accounts.google.com", claims.Iss)
	assert.True(t, claims.EmailVerified)
}
