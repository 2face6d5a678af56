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
	"gorm.io/gorm/clause"
)

// giftCardRepository implements the repository.GiftCardRepository interface.
type giftCardRepository struct {
	db *gorm.DB
}

// NewGiftCardRepository is the constructor for giftCardRepository.
func NewGiftCardRepository(db *gorm.DB) repository.GiftCardRepository {
	return &giftCardRepository{
		db: db,
	}
}

// CreateCard persists a new gift card.
func (repo *giftCardRepository) CreateCard(ctx context.Context, card *entity.GiftCard) error {
	cardM := fromGiftCardDomain(card)

	if err := repo.db.WithContext(ctx).Create(cardM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCode
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required gift card information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create gift card")
	}

	// Update the entity with generated values
	card.ID = cardM.ID
	card.CreatedAt = cardM.CreatedAt
	card.UpdatedAt = cardM.UpdatedAt

	return nil
}

// CreateTransaction appends an entry to the card's transaction log.
func (repo *giftCardRepository) CreateTransaction(ctx context.Context, txn *entity.GiftCardTransaction) error {
	txnM := fromGiftCardTransactionDomain(txn)

	if err := repo.db.WithContext(ctx).Create(txnM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrGiftCardNotFound.WrapMessage("invalid gift card reference")
		}
		return domainerrors.NewDatabaseExecuteError(err, "failed to create gift card transaction")
	}

	// Update the entity with generated values
	txn.ID = txnM.ID
	txn.CreatedAt = txnM.CreatedAt

	return nil
}

// FindByCode retrieves a gift card by its normalized code.
func (repo *giftCardRepository) FindByCode(ctx context.Context, code string) (*entity.GiftCard, error) {
	var cardM model.GiftCardModel

	if err := repo.db.WithContext(ctx).
		Where("code = ?", code).
		First(&cardM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGiftCardNotFound
		}

		return nil, errors.Wrap(err, "failed to find gift card by code")
	}

	return toGiftCardDomain(&cardM), nil
}

// FindByCodeForUpdate retrieves a gift card by code while holding a row-level lock.
func (repo *giftCardRepository) FindByCodeForUpdate(ctx context.Context, code string) (*entity.GiftCard, error) {
	var cardM model.GiftCardModel

	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&cardM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGiftCardNotFound
		}

		return nil, errors.Wrap(err, "failed to lock gift card by code")
	}

	return toGiftCardDomain(&cardM), nil
}

// FindByIDForUpdate retrieves a gift card by ID while holding a row-level lock.
func (repo *giftCardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.GiftCard, error) {
	var cardM model.GiftCardModel

	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&cardM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGiftCardNotFound
		}

		return nil, errors.Wrap(err, "failed to lock gift card by ID")
	}

	return toGiftCardDomain(&cardM), nil
}

// ExistsByCode reports whether a gift card with the given normalized code exists.
func (repo *giftCardRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.GiftCardModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check gift card code existence")
	}

	return count > 0, nil
}

// UpdateBalanceAndStatus writes the card's new balance and status.
func (repo *giftCardRepository) UpdateBalanceAndStatus(ctx context.Context, id uuid.UUID, balance float64, status entity.GiftCardStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.GiftCardModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_balance": balance,
			"status":          status.String(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update gift card balance")
	}

	if result.RowsAffected == 0 {
		return repository.ErrGiftCardNotFound
	}

	return nil
}

// FindTransactionsByCard lists the card's ledger entries, oldest first.
func (repo *giftCardRepository) FindTransactionsByCard(ctx context.Context, cardID uuid.UUID) ([]*entity.GiftCardTransaction, error) {
	var txnModels []*model.GiftCardTransactionModel

	if err := repo.db.WithContext(ctx).
		Where("gift_card_id = ?", cardID).
		Order("created_at ASC").
		Find(&txnModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find gift card transactions")
	}

	txns := make([]*entity.GiftCardTransaction, 0, len(txnModels))
	for _, txnM := range txnModels {
		txns = append(txns, toGiftCardTransactionDomain(txnM))
	}

	return txns, nil
}

// FindRedemptionByOrder retrieves the REDEMPTION entry recorded for the given card and order, if any.
func (repo *giftCardRepository) FindRedemptionByOrder(ctx context.Context, cardID uuid.UUID, orderID string) (*entity.GiftCardTransaction, error) {
	var txnM model.GiftCardTransactionModel

	if err := repo.db.WithContext(ctx).
		Where("gift_card_id = ? AND order_id = ? AND type = ?", cardID, orderID, entity.GiftCardTxnRedemption.String()).
		First(&txnM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGiftCardTransactionNotFound
		}

		return nil, errors.Wrap(err, "failed to find redemption by order")
	}

	return toGiftCardTransactionDomain(&txnM), nil
}

// ExpireActiveBefore flips all ACTIVE cards whose expiration passed to EXPIRED in one bulk update.
func (repo *giftCardRepository) ExpireActiveBefore(ctx context.Context, now time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.GiftCardModel{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", entity.GiftCardStatusActive.String(), now).
		Update("status", entity.GiftCardStatusExpired.String())

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to expire gift cards")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toGiftCardDomain converts a GORM GiftCardModel to a domain GiftCard entity.
func toGiftCardDomain(data *model.GiftCardModel) *entity.GiftCard {
	if data == nil {
		return nil
	}

	return &entity.GiftCard{
		ID:             data.ID,
		Code:           data.Code,
		InitialBalance: data.InitialBalance,
		CurrentBalance: data.CurrentBalance,
		Status:         entity.GiftCardStatus(data.Status),
		ExpiresAt:      data.ExpiresAt,
		PurchaserID:    data.PurchaserID,
		RecipientEmail: data.RecipientEmail,
		RecipientName:  data.RecipientName,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromGiftCardDomain converts a domain GiftCard entity to a GORM GiftCardModel.
func fromGiftCardDomain(data *entity.GiftCard) *model.GiftCardModel {
	if data == nil {
		return nil
	}

	return &model.GiftCardModel{
		ID:             data.ID,
		Code:           data.Code,
		InitialBalance: data.InitialBalance,
		CurrentBalance: data.CurrentBalance,
		Status:         data.Status.String(),
		ExpiresAt:      data.ExpiresAt,
		PurchaserID:    data.PurchaserID,
		RecipientEmail: data.RecipientEmail,
		RecipientName:  data.RecipientName,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// toGiftCardTransactionDomain converts a GORM GiftCardTransactionModel to a domain entity.
func toGiftCardTransactionDomain(data *model.GiftCardTransactionModel) *entity.GiftCardTransaction {
	if data == nil {
		return nil
	}

	orderID := ""
	if data.OrderID != nil {
		orderID = *data.OrderID
	}

	return &entity.GiftCardTransaction{
		ID:          data.ID,
		GiftCardID:  data.GiftCardID,
		Amount:      data.Amount,
		Type:        entity.GiftCardTransactionType(data.Type),
		OrderID:     orderID,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
	}
}

// fromGiftCardTransactionDomain converts a domain entity to a GORM GiftCardTransactionModel.
func fromGiftCardTransactionDomain(data *entity.GiftCardTransaction) *model.GiftCardTransactionModel {
	if data == nil {
		return nil
	}

	var orderID *string
	if data.OrderID != "" {
		orderID = &data.OrderID
	}

	return &model.GiftCardTransactionModel{
		ID:          data.ID,
		GiftCardID:  data.GiftCardID,
		Amount:      data.Amount,
		Type:        data.Type.String(),
		OrderID:     orderID,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
	}
}
