// Package impl contains the concrete implementations of the use case interfaces.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bloom/config"
	"bloom/internal/domain/entity"
	domainerrors "bloom/internal/domain/errors"
	"bloom/internal/domain/repository"
	"bloom/internal/domain/service"
	"bloom/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// maxCodeGenerationAttempts bounds every retry-with-lookup loop against the
// unique code indexes. Exhaustion signals a charset/length misconfiguration
// or pathological collision rate, not a user error.
const maxCodeGenerationAttempts = 10

type giftCardService struct {
	txManager    repository.TransactionManager
	giftCardRepo repository.GiftCardRepository
	codeGen      service.CodeGenerator
	qrcode       service.QRCodeService
	publisher    service.EventPublisher
	config       *config.Config
	logger       *slog.Logger
}

// NewGiftCardService creates a new gift card ledger service instance
func NewGiftCardService(
	txManager repository.TransactionManager,
	giftCardRepo repository.GiftCardRepository,
	codeGen service.CodeGenerator,
	qrcode service.QRCodeService,
	publisher service.EventPublisher,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.GiftCardUsecase {
	return &giftCardService{
		txManager:    txManager,
		giftCardRepo: giftCardRepo,
		codeGen:      codeGen,
		qrcode:       qrcode,
		publisher:    publisher,
		config:       cfg,
		logger:       logger,
	}
}

// CreateGiftCard issues a new card and its founding PURCHASE transaction in
// one transaction. A partially created card is never observable.
func (s *giftCardService) CreateGiftCard(ctx context.Context, input *usecase.CreateGiftCardInput) (*entity.GiftCard, error) {
	if !s.isAllowedAmount(input.Amount) {
		return nil, domainerrors.ErrAmountOutOfRange.WithDetails(
			fmt.Sprintf("amount %.2f is not a preset and is outside the custom range [%.2f, %.2f]",
				input.Amount, s.config.GiftCard.MinCustomAmount, s.config.GiftCard.MaxCustomAmount))
	}

	var expiresAt *time.Time
	if days := s.config.GiftCard.ExpiresInDays; days > 0 {
		t := time.Now().AddDate(0, 0, days)
		expiresAt = &t
	}

	for attempt := 0; attempt < maxCodeGenerationAttempts; attempt++ {
		code, err := s.codeGen.Generate(service.CodeCharset, s.config.GiftCard.CodeLength)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate gift card code")
		}

		card := &entity.GiftCard{
			Code:           code,
			InitialBalance: input.Amount,
			CurrentBalance: input.Amount,
			Status:         entity.GiftCardStatusActive,
			ExpiresAt:      expiresAt,
			PurchaserID:    input.PurchaserID,
			RecipientEmail: input.RecipientEmail,
			RecipientName:  input.RecipientName,
		}

		err = s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
			repo := f.NewGiftCardRepository()

			if err := repo.CreateCard(ctx, card); err != nil {
				return err
			}

			// Founding PURCHASE entry equal to the full issued amount.
			txn := &entity.GiftCardTransaction{
				GiftCardID:  card.ID,
				Amount:      input.Amount,
				Type:        entity.GiftCardTxnPurchase,
				Description: "Gift card purchase",
			}

			return repo.CreateTransaction(ctx, txn)
		})
		if errors.Is(err, repository.ErrDuplicateCode) {
			// Collision against the unique index: draw a fresh code.
			continue
		}
		if err != nil {
			return nil, err
		}

		return card, nil
	}

	s.logger.Error("gift card code generation exhausted",
		slog.Int("attempts", maxCodeGenerationAttempts),
		slog.Int("codeLength", s.config.GiftCard.CodeLength),
	)

	return nil, domainerrors.ErrCodeGenerationExhausted
}

// RedeemGiftCard applies balance to an order inside a single transaction with
// a row lock on the card. Redemption never overdraws: the applied amount is
// capped at the current balance.
func (s *giftCardService) RedeemGiftCard(ctx context.Context, code string, amount float64, orderID string) (*usecase.RedeemGiftCardResult, error) {
	if amount <= 0 {
		return &usecase.RedeemGiftCardResult{Success: false, Error: "redemption amount must be positive"}, nil
	}

	normalized := entity.NormalizeCode(code)
	result := &usecase.RedeemGiftCardResult{}

	var event *service.RewardEvent

	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		repo := f.NewGiftCardRepository()

		card, err := repo.FindByCodeForUpdate(ctx, normalized)
		if err != nil {
			if errors.Is(err, repository.ErrGiftCardNotFound) {
				result.Success = false
				result.Error = "gift card not found"

				return nil
			}

			return errors.Wrap(err, "failed to lock gift card")
		}

		// Replayed order: return the prior application instead of redeeming twice.
		if orderID != "" {
			prior, err := repo.FindRedemptionByOrder(ctx, card.ID, orderID)
			if err != nil && !errors.Is(err, repository.ErrGiftCardTransactionNotFound) {
				return errors.Wrap(err, "failed to check prior redemption")
			}
			if prior != nil {
				result.Success = true
				result.AmountApplied = -prior.Amount
				result.RemainingBalance = card.CurrentBalance

				return nil
			}
		}

		if ok, reason := card.ValidateForUse(time.Now()); !ok {
			result.Success = false
			result.Error = reason

			return nil
		}

		amountToApply := amount
		if amountToApply > card.CurrentBalance {
			amountToApply = card.CurrentBalance
		}
		newBalance := card.CurrentBalance - amountToApply

		newStatus := entity.GiftCardStatusActive
		if newBalance <= 0 {
			newStatus = entity.GiftCardStatusRedeemed
		}

		if err := repo.UpdateBalanceAndStatus(ctx, card.ID, newBalance, newStatus); err != nil {
			return errors.Wrap(err, "failed to update gift card balance")
		}

		txn := &entity.GiftCardTransaction{
			GiftCardID:  card.ID,
			Amount:      -amountToApply,
			Type:        entity.GiftCardTxnRedemption,
			OrderID:     orderID,
			Description: "Gift card redemption",
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return errors.Wrap(err, "failed to record redemption")
		}

		result.Success = true
		result.AmountApplied = amountToApply
		result.RemainingBalance = newBalance

		event = &service.RewardEvent{
			Type:    service.EventGiftCardRedeemed,
			OrderID: orderID,
			Amount:  amountToApply,
		}
		if card.PurchaserID != nil {
			event.UserID = card.PurchaserID.String()
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, event)

	return result, nil
}

// RefundGiftCard restores balance, capped at the issued amount, and reverts
// the card to ACTIVE.
func (s *giftCardService) RefundGiftCard(ctx context.Context, giftCardID uuid.UUID, amount float64, orderID string) (*usecase.RefundGiftCardResult, error) {
	if amount <= 0 {
		return &usecase.RefundGiftCardResult{Success: false, Error: "refund amount must be positive"}, nil
	}

	result := &usecase.RefundGiftCardResult{}

	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		repo := f.NewGiftCardRepository()

		card, err := repo.FindByIDForUpdate(ctx, giftCardID)
		if err != nil {
			if errors.Is(err, repository.ErrGiftCardNotFound) {
				result.Success = false
				result.Error = "gift card not found"

				return nil
			}

			return errors.Wrap(err, "failed to lock gift card")
		}

		// A refund can never push balance above the issued amount.
		newBalance := card.CurrentBalance + amount
		if newBalance > card.InitialBalance {
			newBalance = card.InitialBalance
		}
		applied := newBalance - card.CurrentBalance

		if err := repo.UpdateBalanceAndStatus(ctx, card.ID, newBalance, entity.GiftCardStatusActive); err != nil {
			return errors.Wrap(err, "failed to update gift card balance")
		}

		txn := &entity.GiftCardTransaction{
			GiftCardID:  card.ID,
			Amount:      applied,
			Type:        entity.GiftCardTxnRefund,
			OrderID:     orderID,
			Description: "Gift card refund",
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return errors.Wrap(err, "failed to record refund")
		}

		result.Success = true
		result.NewBalance = newBalance

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetGiftCardByCode retrieves a card and its transaction history for display.
func (s *giftCardService) GetGiftCardByCode(ctx context.Context, code string) (*usecase.GiftCardDetails, error) {
	normalized := entity.NormalizeCode(code)

	card, err := s.giftCardRepo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrGiftCardNotFound) {
			return nil, domainerrors.ErrGiftCardNotFound
		}

		return nil, errors.Wrap(err, "failed to find gift card")
	}

	txns, err := s.giftCardRepo.FindTransactionsByCard(ctx, card.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load gift card transactions")
	}

	return &usecase.GiftCardDetails{
		Card:          card,
		FormattedCode: entity.FormatGiftCardCode(card.Code),
		Transactions:  txns,
	}, nil
}

// GenerateGiftCardQR renders the card's code as a PNG QR image.
func (s *giftCardService) GenerateGiftCardQR(ctx context.Context, code string) ([]byte, error) {
	normalized := entity.NormalizeCode(code)

	exists, err := s.giftCardRepo.ExistsByCode(ctx, normalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check gift card existence")
	}
	if !exists {
		return nil, domainerrors.ErrGiftCardNotFound
	}

	png, err := s.qrcode.GenerateGiftCardQR(normalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate gift card QR")
	}

	return png, nil
}

// UpdateExpiredGiftCards flips all overdue ACTIVE cards to EXPIRED in one
// bulk update. Idempotent; driven by an external periodic trigger.
func (s *giftCardService) UpdateExpiredGiftCards(ctx context.Context) (int64, error) {
	count, err := s.giftCardRepo.ExpireActiveBefore(ctx, time.Now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to expire gift cards")
	}

	if count > 0 {
		s.logger.Info("expired gift cards", slog.Int64("count", count))
	}

	return count, nil
}

// isAllowedAmount accepts preset amounts and anything within the custom range.
func (s *giftCardService) isAllowedAmount(amount float64) bool {
	for _, preset := range s.config.GiftCard.PresetAmounts {
		if amount == preset {
			return true
		}
	}

	return amount >= s.config.GiftCard.MinCustomAmount && amount <= s.config.GiftCard.MaxCustomAmount
}

// publishEvent emits a reward event after the owning transaction committed.
// Delivery is best-effort; the ledger never depends on it.
func (s *giftCardService) publishEvent(ctx context.Context, event *service.RewardEvent) {
	if event == nil || s.publisher == nil {
		return
	}

	if err := s.publisher.PublishRewardEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish reward event",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}
