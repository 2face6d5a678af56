package entity

import (
	"time"

	"github.com/google/uuid"
)

// PointSource identifies the event category that produced a loyalty earning.
type PointSource string

const (
	// PointSourcePurchase is earned on a completed order.
	PointSourcePurchase PointSource = "PURCHASE"
	// PointSourceReview is a one-time bonus per product review.
	PointSourceReview PointSource = "REVIEW"
	// PointSourceReferral is a one-time bonus per rewarded referral.
	PointSourceReferral PointSource = "REFERRAL"
	// PointSourceSignup is a one-time bonus per user account.
	PointSourceSignup PointSource = "SIGNUP"
)

// String returns the string representation of the PointSource.
func (s PointSource) String() string {
	return string(s)
}

// IsValid checks if the PointSource is a valid value.
func (s PointSource) IsValid() bool {
	switch s {
	case PointSourcePurchase, PointSourceReview, PointSourceReferral, PointSourceSignup:
		return true
	default:
		return false
	}
}

// LoyaltyEarning is an append-only earn event. Unlike gift cards there is no
// cached point balance: available points are always re-derived by summing
// non-expired earnings minus redemptions.
type LoyaltyEarning struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Points     int         // Always positive.
	Source     PointSource // What produced the points.
	Reference  string      // Dedup key scoped to (UserID, Source): order ID, review ID, referral ID, or a fixed marker for signup.
	OrderID    string      // External order reference for PURCHASE earnings.
	ReviewID   string      // External review reference for REVIEW bonuses.
	ReferralID *uuid.UUID  // Referral row reference for REFERRAL bonuses.
	ExpiresAt  *time.Time  // Points past this timestamp no longer count as available. Nil means they never expire.
	EarnedAt   time.Time
}

// Expired reports whether the earning no longer counts toward available points.
func (e *LoyaltyEarning) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

// RedemptionStatusApplied is the only redemption status the ledger produces.
const RedemptionStatusApplied = "applied"

// LoyaltyRedemption is an append-only record of points converted into an
// order discount. There is no reverse operation; refunding a points-discounted
// order is out of scope.
type LoyaltyRedemption struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	PointsUsed     int
	DiscountAmount float64
	OrderID        string // External order reference. Empty when not yet attached to an order.
	Status         string
	RedeemedAt     time.Time
}

// SignupReference is the fixed Reference marker for signup bonuses, which
// have no external key beyond the user itself.
const SignupReference = "signup"
