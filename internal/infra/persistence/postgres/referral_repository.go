package postgres

import (
	"context"

	"bloom/internal/domain/entity"
	domainerrors "bloom/internal/domain/errors"
	"bloom/internal/domain/repository"
	"bloom/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// referralRepository implements the repository.ReferralRepository interface.
type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository is the constructor for referralRepository.
func NewReferralRepository(db *gorm.DB) repository.ReferralRepository {
	return &referralRepository{
		db: db,
	}
}

// CreateCode persists a new referral code.
func (repo *referralRepository) CreateCode(ctx context.Context, code *entity.ReferralCode) error {
	codeM := fromReferralCodeDomain(code)

	if err := repo.db.WithContext(ctx).Create(codeM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCode
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid code owner reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create referral code")
	}

	// Update the entity with generated values
	code.ID = codeM.ID
	code.CreatedAt = codeM.CreatedAt
	code.UpdatedAt = codeM.UpdatedAt

	return nil
}

// FindCodeByCode retrieves a referral code by its normalized code value.
func (repo *referralRepository) FindCodeByCode(ctx context.Context, code string) (*entity.ReferralCode, error) {
	var codeM model.ReferralCodeModel

	if err := repo.db.WithContext(ctx).
		Where("code = ?", code).
		First(&codeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReferralCodeNotFound
		}

		return nil, errors.Wrap(err, "failed to find referral code")
	}

	return toReferralCodeDomain(&codeM), nil
}

// FindCodeByID retrieves a referral code by its unique ID.
func (repo *referralRepository) FindCodeByID(ctx context.Context, id uuid.UUID) (*entity.ReferralCode, error) {
	var codeM model.ReferralCodeModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&codeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReferralCodeNotFound
		}

		return nil, errors.Wrap(err, "failed to find referral code by ID")
	}

	return toReferralCodeDomain(&codeM), nil
}

// CodeExists reports whether a referral code with the given value exists.
func (repo *referralRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.ReferralCodeModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check referral code existence")
	}

	return count > 0, nil
}

// IncrementCodeUsage bumps the code's usage counter by one.
func (repo *referralRepository) IncrementCodeUsage(ctx context.Context, codeID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReferralCodeModel{}).
		Where("id = ?", codeID).
		Update("usage_count", gorm.Expr("usage_count + 1"))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment code usage")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReferralCodeNotFound
	}

	return nil
}

// CreateReferral persists a new referral.
func (repo *referralRepository) CreateReferral(ctx context.Context, referral *entity.Referral) error {
	referralM := fromReferralDomain(referral)

	if err := repo.db.WithContext(ctx).Create(referralM).Error; err != nil {
		// The unique referee index means a conflict here is a second referral
		// for the same user.
		if isUniqueConstraintViolation(err) {
			return repository.ErrRefereeAlreadyReferred
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid referrer or referee reference")
		}
		return domainerrors.NewDatabaseExecuteError(err, "failed to create referral")
	}

	// Update the entity with generated values
	referral.ID = referralM.ID
	referral.CreatedAt = referralM.CreatedAt
	referral.UpdatedAt = referralM.UpdatedAt

	return nil
}

// FindReferralByReferee retrieves the referral row for a referee, if any.
func (repo *referralRepository) FindReferralByReferee(ctx context.Context, refereeID uuid.UUID) (*entity.Referral, error) {
	var referralM model.ReferralModel

	if err := repo.db.WithContext(ctx).
		Where("referee_id = ?", refereeID).
		First(&referralM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReferralNotFound
		}

		return nil, errors.Wrap(err, "failed to find referral by referee")
	}

	return toReferralDomain(&referralM), nil
}

// UpdateReferral writes the referral's status, reward and completion stamps.
func (repo *referralRepository) UpdateReferral(ctx context.Context, referral *entity.Referral) error {
	referralM := fromReferralDomain(referral)

	result := repo.db.WithContext(ctx).
		Model(&model.ReferralModel{}).
		Where("id = ?", referral.ID).
		Updates(map[string]interface{}{
			"status":           referralM.Status,
			"reward_points":    referralM.RewardPoints,
			"discount_applied": referralM.DiscountApplied,
			"referee_order_id": referralM.RefereeOrderID,
			"completed_at":     referralM.CompletedAt,
			"rewarded_at":      referralM.RewardedAt,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update referral")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReferralNotFound
	}

	return nil
}

// FindReferralsByReferrer lists all referrals initiated with the referrer's codes.
func (repo *referralRepository) FindReferralsByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entity.Referral, error) {
	var referralModels []*model.ReferralModel

	if err := repo.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&referralModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find referrals by referrer")
	}

	referrals := make([]*entity.Referral, 0, len(referralModels))
	for _, referralM := range referralModels {
		referrals = append(referrals, toReferralDomain(referralM))
	}

	return referrals, nil
}

// --- Mapper Functions ---

// toReferralCodeDomain converts a GORM ReferralCodeModel to a domain entity.
func toReferralCodeDomain(data *model.ReferralCodeModel) *entity.ReferralCode {
	if data == nil {
		return nil
	}

	return &entity.ReferralCode{
		ID:              data.ID,
		Code:            data.Code,
		OwnerID:         data.OwnerID,
		IsActive:        data.IsActive,
		DiscountPercent: data.DiscountPercent,
		UsageLimit:      data.UsageLimit,
		UsageCount:      data.UsageCount,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromReferralCodeDomain converts a domain ReferralCode entity to a GORM model.
func fromReferralCodeDomain(data *entity.ReferralCode) *model.ReferralCodeModel {
	if data == nil {
		return nil
	}

	return &model.ReferralCodeModel{
		ID:              data.ID,
		Code:            data.Code,
		OwnerID:         data.OwnerID,
		IsActive:        data.IsActive,
		DiscountPercent: data.DiscountPercent,
		UsageLimit:      data.UsageLimit,
		UsageCount:      data.UsageCount,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// toReferralDomain converts a GORM ReferralModel to a domain entity.
func toReferralDomain(data *model.ReferralModel) *entity.Referral {
	if data == nil {
		return nil
	}

	refereeOrderID := ""
	if data.RefereeOrderID != nil {
		refereeOrderID = *data.RefereeOrderID
	}

	return &entity.Referral{
		ID:              data.ID,
		ReferrerID:      data.ReferrerID,
		RefereeID:       data.RefereeID,
		ReferralCodeID:  data.ReferralCodeID,
		Status:          entity.ReferralStatus(data.Status),
		RewardPoints:    data.RewardPoints,
		DiscountApplied: data.DiscountApplied,
		RefereeOrderID:  refereeOrderID,
		CompletedAt:     data.CompletedAt,
		RewardedAt:      data.RewardedAt,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromReferralDomain converts a domain Referral entity to a GORM model.
func fromReferralDomain(data *entity.Referral) *model.ReferralModel {
	if data == nil {
		return nil
	}

	var refereeOrderID *string
	if data.RefereeOrderID != "" {
		refereeOrderID = &data.RefereeOrderID
	}

	return &model.ReferralModel{
		ID:              data.ID,
		ReferrerID:      data.ReferrerID,
		RefereeID:       data.RefereeID,
		ReferralCodeID:  data.ReferralCodeID,
		Status:          data.Status.String(),
		RewardPoints:    data.RewardPoints,
		DiscountApplied: data.DiscountApplied,
		RefereeOrderID:  refereeOrderID,
		CompletedAt:     data.CompletedAt,
		RewardedAt:      data.RewardedAt,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
