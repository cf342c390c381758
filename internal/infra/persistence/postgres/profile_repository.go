package postgres

import (
	"context"

	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/repository"
	"cinevault/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// profileRepository implements the domain.ProfileRepository interface using GORM.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// CreateProfile persists a new, empty profile row for a user.
func (repo *profileRepository) CreateProfile(ctx context.Context, profile *entity.UserProfile) error {
	profileM := fromUserProfileDomain(profile)
	if profileM.FavoriteMovies == nil {
		profileM.FavoriteMovies = []int64{}
	}
	if profileM.FavoriteTV == nil {
		profileM.FavoriteTV = []int64{}
	}

	if err := repo.db.WithContext(ctx).Create(profileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// Row already exists; EnsureProfile treats this as success.
			return nil
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("profile references missing user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create profile")
	}

	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

// FindProfileByUserID retrieves the profile row for a user.
func (repo *profileRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	var profileM model.UserProfileModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profileM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile by user id")
	}

	return toUserProfileDomain(&profileM), nil
}

// UpdateProfile updates the free-form profile fields (avatar, bio).
func (repo *profileRepository) UpdateProfile(ctx context.Context, profile *entity.UserProfile) error {
	res := repo.db.WithContext(ctx).
		Model(&model.UserProfileModel{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]any{
			"avatar_url": profile.AvatarURL,
			"bio":        profile.Bio,
		})

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update profile")
	}
	if res.RowsAffected == 0 {
		return repository.ErrProfileNotFound
	}

	return nil
}

// UpdateFavorites replaces one favorites partition. Only the column for the
// given kind is written, so the other partition can never be clobbered.
func (repo *profileRepository) UpdateFavorites(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}

	column := "favorite_movies"
	if kind == entity.MediaKindTV {
		column = "favorite_tv"
	}

	res := repo.db.WithContext(ctx).
		Model(&model.UserProfileModel{}).
		Where("user_id = ?", userID).
		Update(column, model.FavoritesColumn(ids))

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update favorites")
	}
	if res.RowsAffected == 0 {
		return repository.ErrProfileNotFound
	}

	return nil
}
