// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"cinevault/config"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/service"
)

const (
	defaultMinPasswordLength = 8
	defaultMaxPasswordLength = 72 // bcrypt truncates input beyond 72 bytes
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	var strength *config.PasswordStrengthConfig
	if cfg != nil {
		if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
			cost = cfg.Auth.BcryptCost
		}
		strength = cfg.PasswordStrength
	}

	return &bcryptHasher{
		cost:     cost,
		strength: strength,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength verifies the plaintext password satisfies the
// configured strength policy before it is ever hashed.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	minLength := defaultMinPasswordLength
	maxLength := defaultMaxPasswordLength
	requireUpper, requireLower, requireNumber, requireSpecial := false, false, false, false

	if h.strength != nil {
		if h.strength.MinLength > 0 {
			minLength = h.strength.MinLength
		}
		if h.strength.MaxLength > 0 {
			maxLength = h.strength.MaxLength
		}
		requireUpper = h.strength.RequireUppercase
		requireLower = h.strength.RequireLowercase
		requireNumber = h.strength.RequireNumbers
		requireSpecial = h.strength.RequireSpecial
	}

	if len(password) < minLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password is too short")
	}
	if len(password) > maxLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password is too long")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsNumber(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if requireUpper && !hasUpper {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs an uppercase letter")
	}
	if requireLower && !hasLower {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs a lowercase letter")
	}
	if requireNumber && !hasNumber {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs a digit")
	}
	if requireSpecial && !hasSpecial {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs a special character")
	}

	return nil
}
