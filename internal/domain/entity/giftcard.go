// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// GiftCardStatus represents the lifecycle state of a gift card.
type GiftCardStatus string

const (
	// GiftCardStatusActive indicates the card holds spendable balance.
	GiftCardStatusActive GiftCardStatus = "ACTIVE"
	// GiftCardStatusRedeemed indicates the balance has been fully spent.
	GiftCardStatusRedeemed GiftCardStatus = "REDEEMED"
	// GiftCardStatusExpired indicates the card passed its expiration date.
	GiftCardStatusExpired GiftCardStatus = "EXPIRED"
	// GiftCardStatusCancelled indicates the card was administratively voided.
	GiftCardStatusCancelled GiftCardStatus = "CANCELLED"
)

// String returns the string representation of the GiftCardStatus.
func (s GiftCardStatus) String() string {
	return string(s)
}

// IsValid checks if the GiftCardStatus is a valid value.
func (s GiftCardStatus) IsValid() bool {
	switch s {
	case GiftCardStatusActive, GiftCardStatusRedeemed, GiftCardStatusExpired, GiftCardStatusCancelled:
		return true
	default:
		return false
	}
}

// GiftCardTransactionType classifies an entry in a gift card's transaction log.
type GiftCardTransactionType string

const (
	// GiftCardTxnPurchase is the founding entry recorded when the card is issued.
	GiftCardTxnPurchase GiftCardTransactionType = "PURCHASE"
	// GiftCardTxnRedemption records balance spent against an order (negative amount).
	GiftCardTxnRedemption GiftCardTransactionType = "REDEMPTION"
	// GiftCardTxnRefund records balance restored after an order refund (positive amount).
	GiftCardTxnRefund GiftCardTransactionType = "REFUND"
)

// String returns the string representation of the GiftCardTransactionType.
func (t GiftCardTransactionType) String() string {
	return string(t)
}

// GiftCard represents stored value issued at purchase time. The cached
// CurrentBalance is mutated only by redeem/refund, always together with an
// appended GiftCardTransaction, and never leaves [0, InitialBalance].
type GiftCard struct {
	ID             uuid.UUID      // The Global Unique Identifier (GUID) for the gift card.
	Code           string         // Unique code, stored normalized: uppercase, no separators.
	InitialBalance float64        // The amount the card was issued with. Never changes.
	CurrentBalance float64        // Remaining spendable balance.
	Status         GiftCardStatus // Lifecycle state. Refunds can revert terminal states to ACTIVE.
	ExpiresAt      *time.Time     // Expiration timestamp. Nil means the card never expires.
	PurchaserID    *uuid.UUID     // The user who bought the card. Nil for anonymous purchases.
	RecipientEmail string         // Optional delivery email for gifted cards.
	RecipientName  string         // Optional recipient display name.
	CreatedAt      time.Time      // Timestamp of issuance.
	UpdatedAt      time.Time      // Timestamp of the last balance/status change.
}

// ValidateForUse is the pure redemption predicate. It performs no I/O and
// reports whether the card can currently fund an order, with a human-readable
// reason when it cannot. Callers use it to preview validity without mutating
// state; the redeem path runs it again inside the transaction.
func (g *GiftCard) ValidateForUse(now time.Time) (bool, string) {
	switch g.Status {
	case GiftCardStatusRedeemed:
		return false, "gift card has already been fully redeemed"
	case GiftCardStatusExpired:
		return false, "gift card has expired"
	case GiftCardStatusCancelled:
		return false, "gift card has been cancelled"
	case GiftCardStatusActive:
		// fall through to expiry and balance checks
	default:
		return false, "gift card is not active"
	}

	if g.ExpiresAt != nil && now.After(*g.ExpiresAt) {
		return false, "gift card has expired"
	}

	if g.CurrentBalance <= 0 {
		return false, "gift card has no remaining balance"
	}

	return true, ""
}

// GiftCardTransaction is an append-only record explaining a balance change.
// Amounts are signed: negative for redemptions, positive for the founding
// purchase and for refunds. Rows are never updated or deleted.
type GiftCardTransaction struct {
	ID          uuid.UUID
	GiftCardID  uuid.UUID
	Amount      float64
	Type        GiftCardTransactionType
	OrderID     string // External order reference. Empty when not order-driven.
	Description string
	CreatedAt   time.Time
}
