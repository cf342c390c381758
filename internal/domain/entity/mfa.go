// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AssuranceLevel describes how strongly a session's identity has been verified.
type AssuranceLevel string

const (
	// AAL1 means only a primary factor (password or OAuth) has been verified.
	AAL1 AssuranceLevel = "aal1"
	// AAL2 means a second factor (TOTP) has also been verified.
	AAL2 AssuranceLevel = "aal2"
)

// String returns the string representation of the AssuranceLevel.
func (l AssuranceLevel) String() string {
	return string(l)
}

// IsValid checks if the AssuranceLevel is a valid value.
func (l AssuranceLevel) IsValid() bool {
	switch l {
	case AAL1, AAL2:
		return true
	default:
		return false
	}
}

// AssuranceState pairs the level the current session has reached with the level
// the account can reach. A session needs step-up exactly when the current level
// is aal1 and a stronger level is available.
type AssuranceState struct {
	CurrentLevel AssuranceLevel
	NextLevel    AssuranceLevel
}

// StepUpRequired reports whether the session must complete a second-factor
// challenge before sensitive operations are allowed.
func (s AssuranceState) StepUpRequired() bool {
	return s.CurrentLevel == AAL1 && s.CurrentLevel != s.NextLevel
}

// FactorStatus tracks whether an enrolled factor has completed its first
// successful verification.
type FactorStatus string

const (
	// FactorStatusUnverified marks a factor that has been enrolled but never verified.
	FactorStatusUnverified FactorStatus = "unverified"
	// FactorStatusVerified marks a factor that has passed at least one challenge.
	FactorStatusVerified FactorStatus = "verified"
)

// FactorTypeTOTP is the only second-factor type currently supported.
const FactorTypeTOTP = "totp"

// Factor represents an enrolled second-factor descriptor.
type Factor struct {
	ID           uuid.UUID    // The unique ID for this factor record.
	UserID       uuid.UUID    // Links this factor to the User it belongs to.
	Type         string       // Factor type; currently always "totp".
	FriendlyName string       // Label chosen at enrollment, shown in factor lists.
	Secret       string       // Base32 TOTP secret. Never exposed after enrollment.
	Status       FactorStatus // verified | unverified.
	CreatedAt    time.Time    // Timestamp of enrollment.
	UpdatedAt    time.Time    // Timestamp of the last status change.
}

// Challenge represents a pending second-factor verification window. A challenge
// accepts codes until it expires or its attempt budget is exhausted.
type Challenge struct {
	ID        uuid.UUID // The unique ID for this challenge.
	FactorID  uuid.UUID // The factor this challenge is bound to.
	UserID    uuid.UUID // The user who requested the challenge.
	Attempts  int       // Failed code submissions so far.
	ExpiresAt time.Time // After this instant the challenge no longer accepts codes.
	CreatedAt time.Time // Timestamp of issuance.
}

// Expired reports whether the challenge window has closed.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
