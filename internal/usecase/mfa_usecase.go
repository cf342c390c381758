package usecase

import (
	"context"

	"cinevault/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// EnrollInput defines the data for enrolling a new TOTP factor.
type EnrollInput struct {
	FriendlyName string
}

// VerifyInput carries one code submission against an open challenge.
type VerifyInput struct {
	FactorID    uuid.UUID
	ChallengeID uuid.UUID
	Code        string
}

// ChallengeAndVerifyInput collapses challenge issuance and code submission into
// one call for clients that already have a code ready.
type ChallengeAndVerifyInput struct {
	FactorID uuid.UUID
	Code     string
}

// --- Output DTOs ---

// EnrollOutput returns the new factor with its provisioning material. Secret
// and URI are shown exactly once, at enrollment.
type EnrollOutput struct {
	FactorID     uuid.UUID
	FactorType   string
	Secret       string
	URI          string
	QRCodePNG    []byte
	FriendlyName string
}

// ChallengeOutput returns the issued challenge window.
type ChallengeOutput struct {
	ChallengeID uuid.UUID
	ExpiresAt   int64 // Unix seconds after which the challenge stops accepting codes.
}

// VerifyOutput returns the upgraded session tokens after a successful
// second-factor verification.
type VerifyOutput struct {
	AccessToken  string
	RefreshToken string
	Level        entity.AssuranceLevel
}

// MFAUsecase defines the interface for second-factor business operations.
// A session that verified only a primary factor sits at aal1; completing a
// TOTP challenge upgrades it to aal2.
type MFAUsecase interface {
	// GetAssuranceLevel reports the session's current level and the level the
	// account can reach given its verified factors.
	GetAssuranceLevel(ctx context.Context, userID uuid.UUID, currentLevel entity.AssuranceLevel) (*entity.AssuranceState, error)

	// ListFactors returns the user's enrolled factors, secrets stripped.
	ListFactors(ctx context.Context, userID uuid.UUID) ([]*entity.Factor, error)

	// Enroll provisions a new unverified TOTP factor, discarding any earlier
	// unverified enrollments first.
	Enroll(ctx context.Context, userID uuid.UUID, input *EnrollInput) (*EnrollOutput, error)

	// Challenge opens a verification window against one factor.
	Challenge(ctx context.Context, userID, factorID uuid.UUID) (*ChallengeOutput, error)

	// Verify checks a code against an open challenge. On success the factor is
	// marked verified and aal2 tokens are issued.
	Verify(ctx context.Context, userID uuid.UUID, input *VerifyInput) (*VerifyOutput, error)

	// ChallengeAndVerify issues a challenge and verifies the code in one step.
	ChallengeAndVerify(ctx context.Context, userID uuid.UUID, input *ChallengeAndVerifyInput) (*VerifyOutput, error)

	// Unenroll removes a factor. The session drops back to aal1 semantics once
	// no verified factor remains.
	Unenroll(ctx context.Context, userID, factorID uuid.UUID) error
}
