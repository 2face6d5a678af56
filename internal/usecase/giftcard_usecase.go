// Package usecase defines the application-layer interfaces and the DTOs they
// exchange with the delivery layer.
package usecase

import (
	"context"

	"bloom/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateGiftCardInput carries the issuance request.
type CreateGiftCardInput struct {
	Amount         float64
	PurchaserID    *uuid.UUID
	RecipientEmail string
	RecipientName  string
}

// RedeemGiftCardResult is the discriminated redemption outcome. Business
// rejections come back as Success=false with a reason, never as an error.
type RedeemGiftCardResult struct {
	Success          bool
	Error            string
	AmountApplied    float64
	RemainingBalance float64
}

// RefundGiftCardResult is the discriminated refund outcome.
type RefundGiftCardResult struct {
	Success    bool
	Error      string
	NewBalance float64
}

// GiftCardDetails bundles a card with its transaction history for display.
type GiftCardDetails struct {
	Card          *entity.GiftCard
	FormattedCode string
	Transactions  []*entity.GiftCardTransaction
}

// GiftCardUsecase defines the interface for the gift card ledger use cases
type GiftCardUsecase interface {
	// CreateGiftCard issues a new card with its founding PURCHASE transaction
	// in one atomic unit.
	CreateGiftCard(ctx context.Context, input *CreateGiftCardInput) (*entity.GiftCard, error)

	// RedeemGiftCard applies balance to an order, capping at the available
	// balance. When orderID is non-empty and a redemption for (card, order)
	// already exists, the call is a no-op returning the prior application.
	RedeemGiftCard(ctx context.Context, code string, amount float64, orderID string) (*RedeemGiftCardResult, error)

	// RefundGiftCard restores balance, capped at the initial amount, and
	// reverts the card to ACTIVE.
	RefundGiftCard(ctx context.Context, giftCardID uuid.UUID, amount float64, orderID string) (*RefundGiftCardResult, error)

	// GetGiftCardByCode retrieves a card and its transaction history.
	GetGiftCardByCode(ctx context.Context, code string) (*GiftCardDetails, error)

	// GenerateGiftCardQR renders the card's code as a PNG QR image.
	GenerateGiftCardQR(ctx context.Context, code string) ([]byte, error)

	// UpdateExpiredGiftCards flips all overdue ACTIVE cards to EXPIRED and
	// returns the count affected. Driven by an external periodic trigger.
	UpdateExpiredGiftCards(ctx context.Context) (int64, error)
}
