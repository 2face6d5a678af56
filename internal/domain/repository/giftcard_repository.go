// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"bloom/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrGiftCardNotFound is a domain-specific error returned when a gift card is not found.
var ErrGiftCardNotFound = errors.New("gift card not found")

// ErrGiftCardTransactionNotFound is returned when no matching ledger entry exists.
var ErrGiftCardTransactionNotFound = errors.New("gift card transaction not found")

// ErrDuplicateCode is returned when an insert collides with the unique code index.
// Code issuance retry loops treat it as a collision and draw a fresh code.
var ErrDuplicateCode = errors.New("code already exists")

// GiftCardRepository defines the standard operations for gift card persistence.
// The application layer will depend on this interface, not the concrete implementation.
type GiftCardRepository interface {
	// CreateCard persists a new gift card.
	CreateCard(ctx context.Context, card *entity.GiftCard) error

	// CreateTransaction appends an entry to the card's transaction log.
	CreateTransaction(ctx context.Context, txn *entity.GiftCardTransaction) error

	// FindByCode retrieves a gift card by its normalized code.
	FindByCode(ctx context.Context, code string) (*entity.GiftCard, error)

	// FindByCodeForUpdate retrieves a gift card by code while holding a
	// row-level lock. Must be called inside TransactionManager.Execute.
	FindByCodeForUpdate(ctx context.Context, code string) (*entity.GiftCard, error)

	// FindByIDForUpdate retrieves a gift card by ID while holding a
	// row-level lock. Must be called inside TransactionManager.Execute.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.GiftCard, error)

	// ExistsByCode reports whether a gift card with the given normalized code exists.
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// UpdateBalanceAndStatus writes the card's new balance and status.
	UpdateBalanceAndStatus(ctx context.Context, id uuid.UUID, balance float64, status entity.GiftCardStatus) error

	// FindTransactionsByCard lists the card's ledger entries, oldest first.
	FindTransactionsByCard(ctx context.Context, cardID uuid.UUID) ([]*entity.GiftCardTransaction, error)

	// FindRedemptionByOrder retrieves the REDEMPTION entry recorded for the
	// given card and order, if any. Used for redemption deduplication.
	FindRedemptionByOrder(ctx context.Context, cardID uuid.UUID, orderID string) (*entity.GiftCardTransaction, error)

	// ExpireActiveBefore flips all ACTIVE cards whose expiration passed before
	// the given time to EXPIRED in one bulk update, returning the count affected.
	ExpireActiveBefore(ctx context.Context, now time.Time) (int64, error)
}
