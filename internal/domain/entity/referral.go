package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReferralStatus represents the lifecycle state of a referral.
type ReferralStatus string

const (
	// ReferralStatusPending is set when a referee applies a code at signup.
	ReferralStatusPending ReferralStatus = "PENDING"
	// ReferralStatusCompleted is modeled but currently never produced: the
	// completion path transitions PENDING directly to REWARDED.
	ReferralStatusCompleted ReferralStatus = "COMPLETED"
	// ReferralStatusRewarded is set exactly once, at the referee's first
	// completed order.
	ReferralStatusRewarded ReferralStatus = "REWARDED"
	// ReferralStatusExpired marks referrals abandoned before completion.
	ReferralStatusExpired ReferralStatus = "EXPIRED"
)

// String returns the string representation of the ReferralStatus.
func (s ReferralStatus) String() string {
	return string(s)
}

// IsValid checks if the ReferralStatus is a valid value.
func (s ReferralStatus) IsValid() bool {
	switch s {
	case ReferralStatusPending, ReferralStatusCompleted, ReferralStatusRewarded, ReferralStatusExpired:
		return true
	default:
		return false
	}
}

// ReferralCode is a user's shareable code. Each user gets at most one default
// code, generated lazily on first request.
type ReferralCode struct {
	ID              uuid.UUID
	Code            string // Unique, normalized uppercase.
	OwnerID         uuid.UUID
	IsActive        bool
	DiscountPercent float64 // Discount granted to the referee's first order.
	UsageLimit      *int    // Nil means unlimited.
	UsageCount      int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UsageExceeded reports whether the code has reached its usage limit.
func (c *ReferralCode) UsageExceeded() bool {
	return c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit
}

// Referral links a referrer to a referee. RefereeID is globally unique: a
// user can be referred at most once, ever.
type Referral struct {
	ID              uuid.UUID
	ReferrerID      uuid.UUID
	RefereeID       uuid.UUID
	ReferralCodeID  uuid.UUID
	Status          ReferralStatus
	RewardPoints    int      // Points the referrer earns when the referral is rewarded.
	DiscountApplied *float64 // Discount granted on the referee's first order. Nil until rewarded.
	RefereeOrderID  string   // The referee's first order. Empty until rewarded.
	CompletedAt     *time.Time
	RewardedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
