package postgres

import (
	"context"
	"time"

	"bloom/internal/domain/entity"
	domainerrors "bloom/internal/domain/errors"
	"bloom/internal/domain/repository"
	"bloom/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// loyaltyRepository implements the repository.LoyaltyRepository interface.
type loyaltyRepository struct {
	db *gorm.DB
}

// NewLoyaltyRepository is the constructor for loyaltyRepository.
func NewLoyaltyRepository(db *gorm.DB) repository.LoyaltyRepository {
	return &loyaltyRepository{
		db: db,
	}
}

// CreateEarning appends an earn event. The (user_id, source, reference)
// unique index is the dedup barrier; a conflict surfaces as ErrDuplicateEarning.
func (repo *loyaltyRepository) CreateEarning(ctx context.Context, earning *entity.LoyaltyEarning) error {
	earningM := fromLoyaltyEarningDomain(earning)

	if err := repo.db.WithContext(ctx).Create(earningM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEarning
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create loyalty earning")
	}

	// Update the entity with generated values
	earning.ID = earningM.ID
	earning.EarnedAt = earningM.EarnedAt

	return nil
}

// HasEarning reports whether an earn event already exists for the keyed event.
func (repo *loyaltyRepository) HasEarning(ctx context.Context, userID uuid.UUID, source entity.PointSource, reference string) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.LoyaltyEarningModel{}).
		Where("user_id = ? AND source = ? AND reference = ?", userID, source.String(), reference).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check loyalty earning existence")
	}

	return count > 0, nil
}

// SumActivePoints sums all earned points that have not expired as of now.
func (repo *loyaltyRepository) SumActivePoints(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var total int64

	if err := repo.db.WithContext(ctx).
		Model(&model.LoyaltyEarningModel{}).
		Where("user_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, now).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum active loyalty points")
	}

	return total, nil
}

// SumRedeemedPoints sums all points used by applied redemptions.
func (repo *loyaltyRepository) SumRedeemedPoints(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64

	if err := repo.db.WithContext(ctx).
		Model(&model.LoyaltyRedemptionModel{}).
		Where("user_id = ? AND status = ?", userID, entity.RedemptionStatusApplied).
		Select("COALESCE(SUM(points_used), 0)").
		Scan(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum redeemed loyalty points")
	}

	return total, nil
}

// CreateRedemption appends a redemption record.
func (repo *loyaltyRepository) CreateRedemption(ctx context.Context, redemption *entity.LoyaltyRedemption) error {
	redemptionM := fromLoyaltyRedemptionDomain(redemption)

	if err := repo.db.WithContext(ctx).Create(redemptionM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}
		return domainerrors.NewDatabaseExecuteError(err, "failed to create loyalty redemption")
	}

	// Update the entity with generated values
	redemption.ID = redemptionM.ID
	redemption.RedeemedAt = redemptionM.RedeemedAt

	return nil
}

// --- Mapper Functions ---

// fromLoyaltyEarningDomain converts a domain LoyaltyEarning entity to a GORM model.
func fromLoyaltyEarningDomain(data *entity.LoyaltyEarning) *model.LoyaltyEarningModel {
	if data == nil {
		return nil
	}

	var orderID, reviewID *string
	if data.OrderID != "" {
		orderID = &data.OrderID
	}
	if data.ReviewID != "" {
		reviewID = &data.ReviewID
	}

	return &model.LoyaltyEarningModel{
		ID:         data.ID,
		UserID:     data.UserID,
		Points:     data.Points,
		Source:     data.Source.String(),
		Reference:  data.Reference,
		OrderID:    orderID,
		ReviewID:   reviewID,
		ReferralID: data.ReferralID,
		ExpiresAt:  data.ExpiresAt,
		EarnedAt:   data.EarnedAt,
	}
}

// fromLoyaltyRedemptionDomain converts a domain LoyaltyRedemption entity to a GORM model.
func fromLoyaltyRedemptionDomain(data *entity.LoyaltyRedemption) *model.LoyaltyRedemptionModel {
	if data == nil {
		return nil
	}

	var orderID *string
	if data.OrderID != "" {
		orderID = &data.OrderID
	}

	return &model.LoyaltyRedemptionModel{
		ID:             data.ID,
		UserID:         data.UserID,
		PointsUsed:     data.PointsUsed,
		DiscountAmount: data.DiscountAmount,
		OrderID:        orderID,
		Status:         data.Status,
		RedeemedAt:     data.RedeemedAt,
	}
}
