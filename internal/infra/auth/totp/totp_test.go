package totp

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"cinevault/config"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTPService_GenerateKey(t *testing.T) {
	service := NewTOTPService(nil)

	key, err := service.GenerateKey("user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, key.Secret)
	assert.True(t, strings.HasPrefix(key.URI, "otpauth://totp/"))

	parsed, err := url.Parse(key.URI)
	require.NoError(t, err)
	params := parsed.Query()
	assert.Equal(t, defaultIssuer, params.Get("issuer"))
	assert.Equal(t, "SHA1", params.Get("algorithm"))
	assert.Equal(t, "6", params.Get("digits"))
	assert.Equal(t, "30", params.Get("period"))
}

func TestTOTPService_GenerateKey_ConfiguredIssuer(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			MFA: &config.MFAConfig{Issuer: "CineVault Staging"},
		},
	}
	service := NewTOTPService(cfg)

	key, err := service.GenerateKey("user@example.com")
	require.NoError(t, err)

	parsed, err := url.Parse(key.URI)
	require.NoError(t, err)
	assert.Equal(t, "CineVault Staging", parsed.Query().Get("issuer"))
}

func TestTOTPService_GenerateKey_UniqueSecrets(t *testing.T) {
	service := NewTOTPService(nil)

	first, err := service.GenerateKey("user@example.com")
	require.NoError(t, err)
	second, err := service.GenerateKey("user@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.Secret, second.Secret)
}

func TestTOTPService_Validate(t *testing.T) {
	service := NewTOTPService(nil)

	key, err := service.GenerateKey("user@example.com")
	require.NoError(t, err)

	// A code computed for the current window must validate.
	code, err := totp.GenerateCode(key.Secret, time.Now())
	require.NoError(t, err)
	assert.True(t, service.Validate(code, key.Secret))

	// Garbage and stale codes must not.
	assert.False(t, service.Validate("000000", key.Secret))
	assert.False(t, service.Validate("not-a-code", key.Secret))

	staleCode, err := totp.GenerateCode(key.Secret, time.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	assert.False(t, service.Validate(staleCode, key.Secret))
}

func TestTOTPService_NormalizeURI(t *testing.T) {
	service := NewTOTPService(nil)

	// A URI with non-interoperable parameters gets them rewritten.
	raw := "otpauth://totp/CineVault:user@example.com?secret=ABC123&issuer=CineVault&algorithm=SHA512&digits=8&period=60"
	normalized, err := service.NormalizeURI(raw)
	require.NoError(t, err)

	parsed, err := url.Parse(normalized)
	require.NoError(t, err)
	params := parsed.Query()
	assert.Equal(t, "SHA1", params.Get("algorithm"))
	assert.Equal(t, "6", params.Get("digits"))
	assert.Equal(t, "30", params.Get("period"))

	// Unrelated parameters survive untouched.
	assert.Equal(t, "ABC123", params.Get("secret"))
	assert.Equal(t, "CineVault", params.Get("issuer"))
}

func TestTOTPService_NormalizeURI_RejectsNonProvisioningURI(t *testing.T) {
	service := NewTOTPService(nil)

	_, err := service.NormalizeURI("https://example.com/not-a-provisioning-uri")
	assert.Error(t, err)
}
