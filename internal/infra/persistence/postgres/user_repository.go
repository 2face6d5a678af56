package postgres

import (
	"context"

	"bloom/internal/domain/entity"
	"bloom/internal/domain/repository"
	"bloom/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by ID")
	}

	return toUserDomain(&userM), nil
}

// FindByIDForUpdate retrieves a user while holding a row-level lock.
func (repo *userRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to lock user by ID")
	}

	return toUserDomain(&userM), nil
}

// UpdateLoyaltyProgress writes the user's new lifetime points and recomputed tier.
func (repo *userRepository) UpdateLoyaltyProgress(ctx context.Context, id uuid.UUID, lifetimePoints int, tier entity.Tier) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_lifetime_points": lifetimePoints,
			"loyalty_tier":          tier.String(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update loyalty progress")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// SetReferralCode assigns the user's default referral code.
func (repo *userRepository) SetReferralCode(ctx context.Context, id uuid.UUID, code string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("referral_code", code)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set referral code")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:                  data.ID,
		Email:               data.Email,
		Name:                data.Name,
		ReferralCode:        data.ReferralCode,
		LoyaltyTier:         entity.Tier(data.LoyaltyTier),
		TotalLifetimePoints: data.TotalLifetimePoints,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}
