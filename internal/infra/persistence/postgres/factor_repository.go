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

// factorRepository implements the domain.FactorRepository interface using GORM.
type factorRepository struct {
	db *gorm.DB
}

// NewFactorRepository is the constructor for factorRepository.
func NewFactorRepository(db *gorm.DB) repository.FactorRepository {
	return &factorRepository{db: db}
}

// CreateFactor persists a newly enrolled factor in the unverified state.
func (repo *factorRepository) CreateFactor(ctx context.Context, factor *entity.Factor) error {
	factorM := fromFactorDomain(factor)

	if err := repo.db.WithContext(ctx).Create(factorM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInternalError.WrapMessage("missing required factor information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create factor")
	}

	factor.ID = factorM.ID
	factor.CreatedAt = factorM.CreatedAt
	factor.UpdatedAt = factorM.UpdatedAt

	return nil
}

// FindFactorByID retrieves a factor by its unique ID.
func (repo *factorRepository) FindFactorByID(ctx context.Context, id uuid.UUID) (*entity.Factor, error) {
	var factorM model.FactorModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&factorM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFactorNotFound
		}

		return nil, errors.Wrap(err, "failed to find factor by id")
	}

	return toFactorDomain(&factorM), nil
}

// FindFactorsByUserID retrieves all factors enrolled by a user, newest first.
func (repo *factorRepository) FindFactorsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Factor, error) {
	var factorModels []model.FactorModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&factorModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to find factors by user id")
	}

	factors := make([]*entity.Factor, 0, len(factorModels))
	for i := range factorModels {
		factors = append(factors, toFactorDomain(&factorModels[i]))
	}

	return factors, nil
}

// UpdateFactor updates an existing factor record (status transitions).
func (repo *factorRepository) UpdateFactor(ctx context.Context, factor *entity.Factor) error {
	res := repo.db.WithContext(ctx).
		Model(&model.FactorModel{}).
		Where("id = ?", factor.ID).
		Updates(map[string]any{
			"status":        string(factor.Status),
			"friendly_name": factor.FriendlyName,
		})

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update factor")
	}
	if res.RowsAffected == 0 {
		return repository.ErrFactorNotFound
	}

	return nil
}

// DeleteFactor removes a factor by its ID.
func (repo *factorRepository) DeleteFactor(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.FactorModel{})

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete factor")
	}
	if res.RowsAffected == 0 {
		return repository.ErrFactorNotFound
	}

	return nil
}

// DeleteUnverifiedFactorsByUserID removes every factor of the user that never
// completed verification.
func (repo *factorRepository) DeleteUnverifiedFactorsByUserID(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(entity.FactorStatusUnverified)).
		Delete(&model.FactorModel{}).Error

	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete unverified factors")
	}

	return nil
}

// DeleteFactorsByUserID removes all factors for a user.
func (repo *factorRepository) DeleteFactorsByUserID(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.FactorModel{}).Error

	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete factors by user id")
	}

	return nil
}

// CreateChallenge persists a new challenge window.
func (repo *factorRepository) CreateChallenge(ctx context.Context, challenge *entity.Challenge) error {
	challengeM := fromChallengeDomain(challenge)

	if err := repo.db.WithContext(ctx).Create(challengeM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrFactorNotFound.WrapMessage("invalid factor reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create challenge")
	}

	challenge.ID = challengeM.ID
	challenge.CreatedAt = challengeM.CreatedAt

	return nil
}

// FindChallengeByID retrieves a challenge by its unique ID.
func (repo *factorRepository) FindChallengeByID(ctx context.Context, id uuid.UUID) (*entity.Challenge, error) {
	var challengeM model.ChallengeModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&challengeM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrChallengeNotFound
		}

		return nil, errors.Wrap(err, "failed to find challenge by id")
	}

	return toChallengeDomain(&challengeM), nil
}

// UpdateChallenge updates an existing challenge record (attempt counter).
func (repo *factorRepository) UpdateChallenge(ctx context.Context, challenge *entity.Challenge) error {
	res := repo.db.WithContext(ctx).
		Model(&model.ChallengeModel{}).
		Where("id = ?", challenge.ID).
		Update("attempts", challenge.Attempts)

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update challenge")
	}
	if res.RowsAffected == 0 {
		return repository.ErrChallengeNotFound
	}

	return nil
}

// DeleteChallenge removes a challenge by its ID.
func (repo *factorRepository) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ChallengeModel{})

	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete challenge")
	}
	if res.RowsAffected == 0 {
		return repository.ErrChallengeNotFound
	}

	return nil
}

// DeleteExpiredChallenges removes all challenges that expired before the cutoff.
func (repo *factorRepository) DeleteExpiredChallenges(ctx context.Context, cutoff time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).
		Where("expires_at <= ?", cutoff).
		Delete(&model.ChallengeModel{})

	if res.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete expired challenges")
	}

	return res.RowsAffected, nil
}

// --- Mapper Functions ---

// toFactorDomain converts a GORM FactorModel to a domain Factor entity.
func toFactorDomain(data *model.FactorModel) *entity.Factor {
	if data == nil {
		return nil
	}

	return &entity.Factor{
		ID:           data.ID,
		UserID:       data.UserID,
		Type:         data.Type,
		FriendlyName: data.FriendlyName,
		Secret:       data.Secret,
		Status:       entity.FactorStatus(data.Status),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromFactorDomain converts a domain Factor entity to a GORM FactorModel.
func fromFactorDomain(data *entity.Factor) *model.FactorModel {
	if data == nil {
		return nil
	}

	return &model.FactorModel{
		ID:           data.ID,
		UserID:       data.UserID,
		Type:         data.Type,
		FriendlyName: data.FriendlyName,
		Secret:       data.Secret,
		Status:       string(data.Status),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// toChallengeDomain converts a GORM ChallengeModel to a domain Challenge entity.
func toChallengeDomain(data *model.ChallengeModel) *entity.Challenge {
	if data == nil {
		return nil
	}

	return &entity.Challenge{
		ID:        data.ID,
		FactorID:  data.FactorID,
		UserID:    data.UserID,
		Attempts:  data.Attempts,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromChallengeDomain converts a domain Challenge entity to a GORM ChallengeModel.
func fromChallengeDomain(data *entity.Challenge) *model.ChallengeModel {
	if data == nil {
		return nil
	}

	return &model.ChallengeModel{
		ID:        data.ID,
		FactorID:  data.FactorID,
		UserID:    data.UserID,
		Attempts:  data.Attempts,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}
