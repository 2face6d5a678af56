package usecase

import (
	"context"

	"bloom/internal/domain/entity"

	"github.com/google/uuid"
)

// AwardPointsInput carries a generic point award.
type AwardPointsInput struct {
	UserID     uuid.UUID
	Points     int
	Source     entity.PointSource
	Reference  string // Dedup key scoped to (UserID, Source).
	OrderID    string
	ReviewID   string
	ReferralID *uuid.UUID
}

// AwardPointsOutput reports the award and any tier transition it caused.
type AwardPointsOutput struct {
	Success             bool
	PointsAwarded       int
	TotalLifetimePoints int
	Tier                entity.Tier
	TierChanged         bool
}

// RedeemPointsResult is the discriminated point redemption outcome.
type RedeemPointsResult struct {
	Success        bool
	Error          string
	PointsUsed     int
	DiscountAmount float64
}

// LoyaltySummary is the read-only aggregate for display.
type LoyaltySummary struct {
	UserID              uuid.UUID
	Tier                entity.Tier
	TierBenefits        []string
	Multiplier          float64
	TotalLifetimePoints int
	AvailablePoints     int
	NextTier            *entity.Tier
	PointsToNextTier    *int
}

// LoyaltyUsecase defines the interface for the loyalty engine use cases
type LoyaltyUsecase interface {
	// AwardPoints appends an earn event and recomputes the user's tier from
	// the new lifetime total, both in one transaction.
	AwardPoints(ctx context.Context, input *AwardPointsInput) (*AwardPointsOutput, error)

	// AwardPurchasePoints awards floor(orderTotal * pointsPerDollar * tier
	// multiplier). Zero computed points is a success no-op.
	AwardPurchasePoints(ctx context.Context, userID uuid.UUID, orderID string, orderTotal float64) (*AwardPointsOutput, error)

	// AwardSignupBonus grants the one-time signup bonus. Awarding twice for
	// the same user leaves exactly one earn event.
	AwardSignupBonus(ctx context.Context, userID uuid.UUID) (*AwardPointsOutput, error)

	// AwardReviewBonus grants the one-time bonus for a product review.
	AwardReviewBonus(ctx context.Context, userID uuid.UUID, reviewID string) (*AwardPointsOutput, error)

	// AwardReferralBonus grants the one-time bonus for a rewarded referral.
	AwardReferralBonus(ctx context.Context, userID uuid.UUID, referralID uuid.UUID, points int) (*AwardPointsOutput, error)

	// GetUserAvailablePoints derives the spendable balance from the two
	// append-only logs, floored at zero.
	GetUserAvailablePoints(ctx context.Context, userID uuid.UUID) (int, error)

	// RedeemPoints converts points into an order discount.
	RedeemPoints(ctx context.Context, userID uuid.UUID, points int, orderID string) (*RedeemPointsResult, error)

	// GetUserLoyaltySummary returns the read-only aggregate for display.
	GetUserLoyaltySummary(ctx context.Context, userID uuid.UUID) (*LoyaltySummary, error)
}
