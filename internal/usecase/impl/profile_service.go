package impl

import (
	"context"
	"log/slog"

	deliverycontext "cinevault/internal/delivery/context"
	"cinevault/internal/domain/entity"
	"cinevault/internal/domain/repository"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager   repository.TransactionManager
	profileRepo repository.ProfileRepository
	logger      *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProfileRepo repository.ProfileRepository
	Logger      *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager:   params.TxManager,
		profileRepo: params.ProfileRepo,
		logger:      params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// EnsureProfile creates the profile row for a user if it does not exist yet.
// It is idempotent: a second call is a no-op returning the existing row.
func (srv *profileService) EnsureProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	var profile *entity.UserProfile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		existing, err := profileRepo.FindProfileByUserID(ctx, userID)
		if err == nil {
			profile = existing

			return nil
		}
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return errors.Wrap(err, "failed to look up profile")
		}

		fresh := &entity.UserProfile{
			UserID:         userID,
			FavoriteMovies: []int64{},
			FavoriteTV:     []int64{},
		}
		if err := profileRepo.CreateProfile(ctx, fresh); err != nil {
			return errors.Wrap(err, "failed to create profile")
		}

		// Re-read in case a concurrent call won the insert race.
		profile, err = profileRepo.FindProfileByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to load profile after create")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to ensure profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute ensure profile transaction")
	}

	return profile, nil
}

// GetProfile returns the user's profile row.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	profile, err := srv.profileRepo.FindProfileByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Warn("Failed to get profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to get profile")
	}

	return profile, nil
}

// UpdateProfile applies the non-nil fields of the input to the profile.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.UserProfile, error) {
	var updated *entity.UserProfile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		profile, err := profileRepo.FindProfileByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to load profile for update")
		}

		if input.AvatarURL != nil {
			profile.AvatarURL = *input.AvatarURL
		}
		if input.Bio != nil {
			profile.Bio = *input.Bio
		}

		if err := profileRepo.UpdateProfile(ctx, profile); err != nil {
			return errors.Wrap(err, "failed to update profile")
		}

		updated = profile

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to update profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute profile update transaction")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("userID", userID))

	return updated, nil
}
