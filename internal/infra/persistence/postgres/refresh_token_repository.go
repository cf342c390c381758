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
)

// refreshTokenRepository implements the domain.RefreshTokenRepository interface.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// CreateRefreshToken persists a new refresh token, representing a user session.
func (repo *refreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	tokenM := fromRefreshTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInternalError.WrapMessage("missing required token information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	// Update the entity with generated values
	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindRefreshTokenByHash retrieves a refresh token record by its securely stored hash.
func (repo *refreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&tokenM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	token := toRefreshTokenDomain(&tokenM)

	// Check if token has expired
	if token.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrRefreshTokenExpired
	}

	return token, nil
}

// FindRefreshTokenByID retrieves a refresh token record by its unique ID.
func (repo *refreshTokenRepository) FindRefreshTokenByID(ctx context.Context, id uuid.UUID) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tokenM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	token := toRefreshTokenDomain(&tokenM)

	// Check if token has expired
	if token.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrRefreshTokenExpired
	}

	return token, nil
}

// FindRefreshTokensByUserID retrieves all active refresh tokens for a specific user.
func (repo *refreshTokenRepository) FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	var tokenModels []model.RefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&tokenModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to find refresh tokens by user id")
	}

	tokens := make([]*entity.RefreshToken, 0, len(tokenModels))
	for i := range tokenModels {
		tokens = append(tokens, toRefreshTokenDomain(&tokenModels[i]))
	}

	return tokens, nil
}

// DeleteRefreshToken removes a refresh token by its ID, effectively ending a session.
func (repo *refreshTokenRepository) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.RefreshTokenModel{})

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete refresh token")
	}
	if res.RowsAffected == 0 {
		return repository.ErrRefreshTokenNotFound
	}

	return nil
}

// DeleteRefreshTokenByHash deletes a refresh token by its hash, effectively ending a session.
func (repo *refreshTokenRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	res := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&model.RefreshTokenModel{})

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete refresh token by hash")
	}
	if res.RowsAffected == 0 {
		return repository.ErrRefreshTokenNotFound
	}

	return nil
}

// DeleteRefreshTokensByUserID removes all refresh tokens for a specific user.
func (repo *refreshTokenRepository) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.RefreshTokenModel{}).Error

	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete refresh tokens by user id")
	}

	return nil
}

// DeleteExpiredRefreshTokens removes all expired refresh tokens from the database.
func (repo *refreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context) error {
	err := repo.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.RefreshTokenModel{}).Error

	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete expired refresh tokens")
	}

	return nil
}

// CountActiveSessionsByUserID returns the number of active (non-expired) sessions for a user.
func (repo *refreshTokenRepository) CountActiveSessionsByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Count(&count).Error

	if err != nil {
		return 0, errors.Wrap(err, "failed to count active sessions")
	}

	return int(count), nil
}

// --- Mapper Functions ---

// toRefreshTokenDomain converts a GORM RefreshTokenModel to a domain RefreshToken entity.
func toRefreshTokenDomain(data *model.RefreshTokenModel) *entity.RefreshToken {
	if data == nil {
		return nil
	}

	return &entity.RefreshToken{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromRefreshTokenDomain converts a domain RefreshToken entity to a GORM RefreshTokenModel.
func fromRefreshTokenDomain(data *entity.RefreshToken) *model.RefreshTokenModel {
	if data == nil {
		return nil
	}

	return &model.RefreshTokenModel{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}
