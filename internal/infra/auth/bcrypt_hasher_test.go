package auth

import (
	"strings"
	"testing"

	"cinevault/config"
	domainerrors "cinevault/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func strictStrengthConfig() *config.Config {
	return &config.Config{
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:        8,
			MaxLength:        72,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireNumbers:   true,
			RequireSpecial:   true,
		},
	}
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasher(nil)

	password := "StrongPass123!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasher(nil)
	password := "StrongPass123!"

	hash, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("WrongPassword123!", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher(strictStrengthConfig())

	validPasswords := []string{
		"StrongPass123!",
		"MySecure@Pass1",
		"Complex#Secret9",
		"Valid$Phrase2024",
	}

	for _, password := range validPasswords {
		err := hasher.ValidatePasswordStrength(password)
		assert.NoError(t, err, "Expected no error for valid password: %s", password)
	}

	testCases := []struct {
		password    string
		expectedErr string
	}{
		{"123", "too short"},
		{"PASSWORD123!", "lowercase"},
		{"password123!", "uppercase"},
		{"PasswordABC!", "digit"},
		{"Password1234", "special character"},
	}

	for _, tc := range testCases {
		err := hasher.ValidatePasswordStrength(tc.password)
		assert.Error(t, err, "Expected error for password: %s", tc.password)
		assert.Contains(t, err.Error(), tc.expectedErr, "Error message should contain: %s", tc.expectedErr)
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
	}
}

func TestBcryptHasher_ValidatePasswordStrength_Defaults(t *testing.T) {
	// With no policy configured, only the length bounds apply.
	hasher := NewBcryptHasher(nil)

	assert.NoError(t, hasher.ValidatePasswordStrength("lowercaseonly"))
	assert.Error(t, hasher.ValidatePasswordStrength("short"))

	// bcrypt silently truncates past 72 bytes, so longer input is refused.
	overlong := strings.Repeat("a", 73)
	err := hasher.ValidatePasswordStrength(overlong)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "too long")
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: customCost},
	}
	hasher := NewBcryptHasher(cfg)

	password := "StrongPass123!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Verify the hash uses the configured cost
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, customCost, cost)

	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_UnicodePasswords(t *testing.T) {
	hasher := NewBcryptHasher(strictStrengthConfig())

	// Unicode letters satisfy the case requirements
	unicodePassword := "Pässphräse123!"
	assert.NoError(t, hasher.ValidatePasswordStrength(unicodePassword))

	hash, err := hasher.Hash(unicodePassword)
	assert.NoError(t, err)
	assert.True(t, hasher.Check(unicodePassword, hash))
}
