// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/repository"
	"cinevault/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID, preloading their profile.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("UserProfile").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&userM).Error

	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		// Otherwise, return the original database error.
		return nil, errors.Wrap(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading their profile.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("UserProfile").
		Where("email = ? AND deleted_at IS NULL", email).
		First(&userM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity, including its associated profile, to the database.
// GORM's Create with associations inserts into users and user_profiles together.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	// Map the pure domain entity to a GORM persistence model.
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid foreign key reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	if user.UserProfile != nil && userM.UserProfile != nil {
		user.UserProfile.UserID = userM.UserProfile.UserID
		user.UserProfile.UpdatedAt = userM.UserProfile.UpdatedAt
	}

	return nil
}

// Update modifies an existing user entity in the database.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt
	if user.UserProfile != nil && userM.UserProfile != nil {
		user.UserProfile.UpdatedAt = userM.UserProfile.UpdatedAt
	}

	return nil
}

// Delete soft-deletes a user by stamping deleted_at. The row is kept for audit.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete user")
	}
	if res.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// AcquireSessionMutex takes a row-level lock on the user, serializing
// session-count checks within the surrounding transaction.
func (repo *userRepository) AcquireSessionMutex(ctx context.Context, id uuid.UUID) error {
	var locked model.UserModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&locked).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to lock user row")
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:          data.ID,
		Email:       data.Email,
		Name:        data.Name,
		UserProfile: toUserProfileDomain(data.UserProfile),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:          data.ID,
		Email:       data.Email,
		Name:        data.Name,
		UserProfile: fromUserProfileDomain(data.UserProfile),
	}
}

// toUserProfileDomain converts a GORM UserProfileModel to a domain UserProfile entity.
func toUserProfileDomain(data *model.UserProfileModel) *entity.UserProfile {
	if data == nil {
		return nil
	}

	return &entity.UserProfile{
		UserID:         data.UserID,
		AvatarURL:      data.AvatarURL,
		Bio:            data.Bio,
		FavoriteMovies: data.FavoriteMovies,
		FavoriteTV:     data.FavoriteTV,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromUserProfileDomain converts a domain UserProfile entity to a GORM UserProfileModel.
func fromUserProfileDomain(data *entity.UserProfile) *model.UserProfileModel {
	if data == nil {
		return nil
	}

	return &model.UserProfileModel{
		UserID:         data.UserID,
		AvatarURL:      data.AvatarURL,
		Bio:            data.Bio,
		FavoriteMovies: data.FavoriteMovies,
		FavoriteTV:     data.FavoriteTV,
		UpdatedAt:      data.UpdatedAt,
	}
}
