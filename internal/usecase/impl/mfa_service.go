package impl

import (
	"context"
	"log/slog"
	"time"

	"cinevault/config"
	deliverycontext "cinevault/internal/delivery/context"
	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/repository"
	"cinevault/internal/domain/service"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultChallengeTTL = 5 * time.Minute
	defaultMaxAttempts  = 5
)

// mfaService implements the MFAUsecase interface.
type mfaService struct {
	txManager    repository.TransactionManager
	factorRepo   repository.FactorRepository
	totpService  service.TOTPService
	qrService    service.QRCodeService
	tokenService service.TokenService
	challengeTTL time.Duration
	maxAttempts  int
	logger       *slog.Logger
}

// MFAServiceParams holds dependencies for MFAService, injected by Fx.
type MFAServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	FactorRepo   repository.FactorRepository
	TOTPService  service.TOTPService
	QRService    service.QRCodeService
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewMFAService is the constructor for mfaService.
func NewMFAService(params MFAServiceParams) usecase.MFAUsecase {
	ttl := defaultChallengeTTL
	maxAttempts := defaultMaxAttempts
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.MFA != nil {
		if params.Config.Auth.MFA.ChallengeTTL > 0 {
			ttl = params.Config.Auth.MFA.ChallengeTTL
		}
		if params.Config.Auth.MFA.MaxAttempts > 0 {
			maxAttempts = params.Config.Auth.MFA.MaxAttempts
		}
	}

	return &mfaService{
		txManager:    params.TxManager,
		factorRepo:   params.FactorRepo,
		totpService:  params.TOTPService,
		qrService:    params.QRService,
		tokenService: params.TokenService,
		challengeTTL: ttl,
		maxAttempts:  maxAttempts,
		logger:       params.Logger,
	}
}

func (srv *mfaService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetAssuranceLevel reports the session's current level and the level the
// account can reach. The next level is aal2 exactly when a verified factor
// exists; step-up is required when the current level sits below the next.
func (srv *mfaService) GetAssuranceLevel(ctx context.Context, userID uuid.UUID, currentLevel entity.AssuranceLevel) (*entity.AssuranceState, error) {
	if !currentLevel.IsValid() {
		currentLevel = entity.AAL1
	}

	factors, err := srv.factorRepo.FindFactorsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load factors for assurance level")
	}

	next := entity.AAL1
	for _, f := range factors {
		if f.Status == entity.FactorStatusVerified {
			next = entity.AAL2

			break
		}
	}
	if currentLevel == entity.AAL2 {
		// A session that already stepped up never falls below aal2.
		next = entity.AAL2
	}

	return &entity.AssuranceState{
		CurrentLevel: currentLevel,
		NextLevel:    next,
	}, nil
}

// ListFactors returns the user's enrolled factors with secrets stripped.
func (srv *mfaService) ListFactors(ctx context.Context, userID uuid.UUID) ([]*entity.Factor, error) {
	factors, err := srv.factorRepo.FindFactorsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list factors")
	}

	for _, f := range factors {
		f.Secret = ""
	}

	return factors, nil
}

// Enroll provisions a new unverified TOTP factor. Earlier unverified
// enrollments are discarded first so abandoned attempts never accumulate.
func (srv *mfaService) Enroll(ctx context.Context, userID uuid.UUID, input *usecase.EnrollInput) (*usecase.EnrollOutput, error) {
	srv.log(ctx).Info("Enrolling TOTP factor", slog.Any("userID", userID))

	key, err := srv.totpService.GenerateKey(userID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate TOTP key")
	}

	factor := &entity.Factor{
		UserID:       userID,
		Type:         entity.FactorTypeTOTP,
		FriendlyName: input.FriendlyName,
		Secret:       key.Secret,
		Status:       entity.FactorStatusUnverified,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		factorRepo := repoFactory.FactorRepo()

		if err := factorRepo.DeleteUnverifiedFactorsByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to discard stale enrollments")
		}

		return errors.Wrap(factorRepo.CreateFactor(ctx, factor), "failed to create factor")
	})
	if err != nil {
		srv.log(ctx).Error("Enrollment failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute enrollment transaction")
	}

	qrPNG, err := srv.qrService.GenerateProvisioningQR(key.URI)
	if err != nil {
		// The factor is usable without the image; clients still get the URI.
		srv.log(ctx).Warn("Failed to render provisioning QR", slog.Any("userID", userID), slog.Any("error", err))
		qrPNG = nil
	}

	return &usecase.EnrollOutput{
		FactorID:     factor.ID,
		FactorType:   factor.Type,
		Secret:       key.Secret,
		URI:          key.URI,
		QRCodePNG:    qrPNG,
		FriendlyName: factor.FriendlyName,
	}, nil
}

// Challenge opens a verification window against one factor.
func (srv *mfaService) Challenge(ctx context.Context, userID, factorID uuid.UUID) (*usecase.ChallengeOutput, error) {
	factor, err := srv.loadOwnedFactor(ctx, userID, factorID)
	if err != nil {
		return nil, err
	}

	challenge := &entity.Challenge{
		FactorID:  factor.ID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(srv.challengeTTL),
	}

	if err := srv.factorRepo.CreateChallenge(ctx, challenge); err != nil {
		return nil, errors.Wrap(err, "failed to create challenge")
	}

	srv.log(ctx).Debug("Challenge issued",
		slog.Any("userID", userID),
		slog.Any("factorID", factorID),
		slog.Any("challengeID", challenge.ID))

	return &usecase.ChallengeOutput{
		ChallengeID: challenge.ID,
		ExpiresAt:   challenge.ExpiresAt.Unix(),
	}, nil
}

// Verify checks a code against an open challenge. On success the factor is
// marked verified, the challenge is consumed, and aal2 tokens are issued.
func (srv *mfaService) Verify(ctx context.Context, userID uuid.UUID, input *usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	factor, err := srv.loadOwnedFactor(ctx, userID, input.FactorID)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(userID, entity.AAL2)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue step-up tokens")
	}

	// Business rejections are returned through rejectErr so the transaction
	// still commits: a counted attempt or a consumed window must survive the
	// failed verification.
	var rejectErr error

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		factorRepo := repoFactory.FactorRepo()

		challenge, err := factorRepo.FindChallengeByID(ctx, input.ChallengeID)
		if err != nil {
			if errors.Is(err, repository.ErrChallengeNotFound) {
				rejectErr = errors.Wrap(domainerrors.ErrChallengeNotFound, "challenge not found")

				return nil
			}

			return errors.Wrap(err, "failed to load challenge")
		}
		if challenge.UserID != userID || challenge.FactorID != factor.ID {
			rejectErr = errors.Wrap(domainerrors.ErrChallengeNotFound, "challenge does not match factor")

			return nil
		}
		if challenge.Expired(time.Now()) {
			// Consume the dead window so retries get a clean error.
			if err := factorRepo.DeleteChallenge(ctx, challenge.ID); err != nil {
				return errors.Wrap(err, "failed to consume expired challenge")
			}
			rejectErr = errors.Wrap(domainerrors.ErrChallengeExpired, "challenge window closed")

			return nil
		}
		if challenge.Attempts >= srv.maxAttempts {
			if err := factorRepo.DeleteChallenge(ctx, challenge.ID); err != nil {
				return errors.Wrap(err, "failed to consume exhausted challenge")
			}
			rejectErr = errors.Wrap(domainerrors.ErrTooManyAttempts, "challenge attempt budget exhausted")

			return nil
		}

		if !srv.totpService.Validate(input.Code, factor.Secret) {
			challenge.Attempts++
			if err := factorRepo.UpdateChallenge(ctx, challenge); err != nil {
				return errors.Wrap(err, "failed to record failed attempt")
			}
			rejectErr = errors.Wrap(domainerrors.ErrCodeInvalid, "code rejected")

			return nil
		}

		// First successful verification promotes the factor.
		if factor.Status != entity.FactorStatusVerified {
			factor.Status = entity.FactorStatusVerified
			if err := factorRepo.UpdateFactor(ctx, factor); err != nil {
				return errors.Wrap(err, "failed to promote factor")
			}
		}

		if err := factorRepo.DeleteChallenge(ctx, challenge.ID); err != nil {
			return errors.Wrap(err, "failed to consume challenge")
		}

		// The stepped-up session gets its own refresh credential; the hash is
		// what the refresh endpoint looks up later.
		newSession := &entity.RefreshToken{
			UserID:    userID,
			TokenHash: srv.tokenService.HashToken(refreshToken),
			ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
		}

		return errors.Wrap(repoFactory.RefreshTokenRepo().CreateRefreshToken(ctx, newSession), "failed to persist step-up session")
	})
	if err == nil {
		err = rejectErr
	}
	if err != nil {
		srv.log(ctx).Warn("Verification failed",
			slog.Any("userID", userID),
			slog.Any("factorID", input.FactorID),
			slog.Any("error", err))

		return nil, errors.Wrap(err, "verification failed")
	}

	srv.log(ctx).Info("Session stepped up", slog.Any("userID", userID), slog.Any("factorID", factor.ID))

	return &usecase.VerifyOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Level:        entity.AAL2,
	}, nil
}

// ChallengeAndVerify issues a challenge and verifies the code in one step, for
// clients that already have a code ready.
func (srv *mfaService) ChallengeAndVerify(ctx context.Context, userID uuid.UUID, input *usecase.ChallengeAndVerifyInput) (*usecase.VerifyOutput, error) {
	challenge, err := srv.Challenge(ctx, userID, input.FactorID)
	if err != nil {
		return nil, err
	}

	return srv.Verify(ctx, userID, &usecase.VerifyInput{
		FactorID:    input.FactorID,
		ChallengeID: challenge.ChallengeID,
		Code:        input.Code,
	})
}

// Unenroll removes a factor the user owns.
func (srv *mfaService) Unenroll(ctx context.Context, userID, factorID uuid.UUID) error {
	factor, err := srv.loadOwnedFactor(ctx, userID, factorID)
	if err != nil {
		return err
	}

	if err := srv.factorRepo.DeleteFactor(ctx, factor.ID); err != nil {
		return errors.Wrap(err, "failed to delete factor")
	}

	srv.log(ctx).Info("Factor unenrolled", slog.Any("userID", userID), slog.Any("factorID", factorID))

	return nil
}

// loadOwnedFactor fetches a factor and confirms it belongs to the user.
// Ownership failures deliberately look identical to missing factors.
func (srv *mfaService) loadOwnedFactor(ctx context.Context, userID, factorID uuid.UUID) (*entity.Factor, error) {
	factor, err := srv.factorRepo.FindFactorByID(ctx, factorID)
	if err != nil {
		if errors.Is(err, repository.ErrFactorNotFound) {
			return nil, domainerrors.ErrFactorNotFound
		}

		return nil, errors.Wrap(err, "failed to load factor")
	}
	if factor.UserID != userID {
		return nil, domainerrors.ErrFactorNotFound
	}

	return factor, nil
}
