package usecase

import (
	"context"

	"github.com/google/uuid"
)

// ValidateReferralCodeResult is the discriminated validation outcome.
// Business rejections set Valid=false with a reason, never an error.
type ValidateReferralCodeResult struct {
	Valid           bool
	Error           string
	Code            string
	ReferrerID      uuid.UUID
	DiscountPercent float64
}

// ApplyReferralCodeResult reports the referral created at signup.
type ApplyReferralCodeResult struct {
	Success         bool
	Error           string
	ReferralID      uuid.UUID
	DiscountPercent float64
}

// CompleteReferralResult reports the reward granted at the referee's first
// order. PointsAwarded is returned for the caller to apply via the loyalty
// engine; completion never awards points itself.
type CompleteReferralResult struct {
	Success         bool
	ReferralID      *uuid.UUID
	ReferrerID      *uuid.UUID
	PointsAwarded   *int
	DiscountApplied *float64
}

// ReferralStats is the read-only aggregate for a referrer's dashboard.
type ReferralStats struct {
	Code           string
	TotalReferrals int
	PendingCount   int
	RewardedCount  int
	PointsEarned   int
	UsageCount     int
}

// ReferralUsecase defines the interface for the referral engine use cases
type ReferralUsecase interface {
	// GetUserReferralCode returns the user's default code, generating it
	// lazily at most once.
	GetUserReferralCode(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateReferralCode checks existence, activity, usage limit,
	// self-referral and prior referral, in that order.
	ValidateReferralCode(ctx context.Context, code string, currentUserID *uuid.UUID) (*ValidateReferralCodeResult, error)

	// ApplyReferralCode re-validates and creates a PENDING referral while
	// incrementing the code's usage count, atomically.
	ApplyReferralCode(ctx context.Context, code string, refereeID uuid.UUID) (*ApplyReferralCodeResult, error)

	// CompleteReferral rewards the PENDING referral for the referee's first
	// order. Safe to call repeatedly; repeat calls are success no-ops.
	CompleteReferral(ctx context.Context, refereeID uuid.UUID, orderID string, orderAmount float64) (*CompleteReferralResult, error)

	// GetReferralStats returns read-only referral counts and code usage.
	GetReferralStats(ctx context.Context, userID uuid.UUID) (*ReferralStats, error)
}
