// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
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

// authRepository implements the domain.AuthRepository interface using GORM.
type authRepository struct {
	db *gorm.DB
}

// NewAuthRepository is the constructor for authRepository.
func NewAuthRepository(db *gorm.DB) repository.AuthRepository {
	return &authRepository{db: db}
}

// CreateAuthentication persists a new authentication method (e.g., email/password, social login).
func (repo *authRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	authM := fromAuthenticationDomain(auth)

	if err := repo.db.WithContext(ctx).Create(authM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("authentication method already registered")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create authentication")
	}

	auth.ID = authM.ID
	auth.CreatedAt = authM.CreatedAt

	return nil
}

// FindAuthentication retrieves an authentication method by its provider and provider-specific ID.
func (repo *authRepository) FindAuthentication(ctx context.Context, provider string, providerUserID string) (*entity.Authentication, error) {
	var authM model.AuthenticationModel
	err := repo.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&authM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAuthNotFound
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	return toAuthenticationDomain(&authM), nil
}

// FindAuthenticationsByUserID retrieves every authentication method linked to a user.
func (repo *authRepository) FindAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Authentication, error) {
	var authModels []model.AuthenticationModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&authModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to find authentications by user id")
	}

	auths := make([]*entity.Authentication, 0, len(authModels))
	for i := range authModels {
		auths = append(auths, toAuthenticationDomain(&authModels[i]))
	}

	return auths, nil
}

// UpdatePasswordHash replaces the stored password hash of one credential.
func (repo *authRepository) UpdatePasswordHash(ctx context.Context, authID uuid.UUID, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AuthenticationModel{}).
		Where("id = ?", authID).
		Update("password_hash", passwordHash)

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update password hash")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAuthNotFound
	}

	return nil
}

// DeleteAuthenticationsByUserID removes all authentication methods for a user.
func (repo *authRepository) DeleteAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.AuthenticationModel{}).Error

	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete authentications by user id")
	}

	return nil
}

// --- Mapper Functions ---

// toAuthenticationDomain converts a GORM AuthenticationModel to a domain Authentication entity.
func toAuthenticationDomain(data *model.AuthenticationModel) *entity.Authentication {
	if data == nil {
		return nil
	}

	return &entity.Authentication{
		ID:             data.ID,
		UserID:         data.UserID,
		Provider:       data.Provider,
		ProviderUserID: data.ProviderUserID,
		PasswordHash:   data.PasswordHash,
		CreatedAt:      data.CreatedAt,
	}
}

// fromAuthenticationDomain converts a domain Authentication entity to a GORM AuthenticationModel.
func fromAuthenticationDomain(data *entity.Authentication) *model.AuthenticationModel {
	if data == nil {
		return nil
	}

	return &model.AuthenticationModel{
		ID:             data.ID,
		UserID:         data.UserID,
		Provider:       data.Provider,
		ProviderUserID: data.ProviderUserID,
		PasswordHash:   data.PasswordHash,
		CreatedAt:      data.CreatedAt,
	}
}
