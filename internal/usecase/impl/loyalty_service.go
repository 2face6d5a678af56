package impl

import (
	"context"
	"log/slog"
	"math"
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

type loyaltyService struct {
	txManager   repository.TransactionManager
	loyaltyRepo repository.LoyaltyRepository
	userRepo    repository.UserRepository
	publisher   service.EventPublisher
	config      *config.Config
	logger      *slog.Logger
}

// NewLoyaltyService creates a new loyalty engine service instance
func NewLoyaltyService(
	txManager repository.TransactionManager,
	loyaltyRepo repository.LoyaltyRepository,
	userRepo repository.UserRepository,
	publisher service.EventPublisher,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.LoyaltyUsecase {
	return &loyaltyService{
		txManager:   txManager,
		loyaltyRepo: loyaltyRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		config:      cfg,
		logger:      logger,
	}
}

// AwardPoints appends an earn event and recomputes the user's tier from the
// new lifetime total, both in one transaction. The tier is never trusted from
// the caller; it is always recomputed from lifetime points.
func (s *loyaltyService) AwardPoints(ctx context.Context, input *usecase.AwardPointsInput) (*usecase.AwardPointsOutput, error) {
	if input.Points <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("points must be positive")
	}
	if !input.Source.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown point source")
	}

	output := &usecase.AwardPointsOutput{}

	var event *service.RewardEvent

	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		userRepo := f.NewUserRepository()
		loyaltyRepo := f.NewLoyaltyRepository()

		user, err := userRepo.FindByIDForUpdate(ctx, input.UserID)
		if err != nil {
			return err
		}

		earning := &entity.LoyaltyEarning{
			UserID:     input.UserID,
			Points:     input.Points,
			Source:     input.Source,
			Reference:  input.Reference,
			OrderID:    input.OrderID,
			ReviewID:   input.ReviewID,
			ReferralID: input.ReferralID,
			ExpiresAt:  s.earningExpiry(),
		}
		if err := loyaltyRepo.CreateEarning(ctx, earning); err != nil {
			// ErrDuplicateEarning propagates so the caller can treat the
			// award as already granted.
			return err
		}

		newLifetime := user.TotalLifetimePoints + input.Points
		newTier := entity.CalculateTier(newLifetime)

		if err := userRepo.UpdateLoyaltyProgress(ctx, user.ID, newLifetime, newTier); err != nil {
			return err
		}

		output.Success = true
		output.PointsAwarded = input.Points
		output.TotalLifetimePoints = newLifetime
		output.Tier = newTier
		output.TierChanged = newTier != user.LoyaltyTier

		if output.TierChanged {
			event = &service.RewardEvent{
				Type:   service.EventTierChanged,
				UserID: user.ID.String(),
				Points: input.Points,
				Tier:   newTier.String(),
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEarning) {
			return s.alreadyAwardedOutput(ctx, input.UserID)
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, err
	}

	s.publishEvent(ctx, event)

	return output, nil
}

// AwardPurchasePoints awards floor(orderTotal * pointsPerDollar * tier
// multiplier). Zero computed points is a success no-op with no ledger row.
func (s *loyaltyService) AwardPurchasePoints(ctx context.Context, userID uuid.UUID, orderID string, orderTotal float64) (*usecase.AwardPointsOutput, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	multiplier := entity.CalculateTier(user.TotalLifetimePoints).Multiplier()
	points := int(math.Floor(orderTotal * s.config.Loyalty.PointsPerDollar * multiplier))

	if points <= 0 {
		return &usecase.AwardPointsOutput{
			Success:             true,
			PointsAwarded:       0,
			TotalLifetimePoints: user.TotalLifetimePoints,
			Tier:                user.LoyaltyTier,
			TierChanged:         false,
		}, nil
	}

	return s.AwardPoints(ctx, &usecase.AwardPointsInput{
		UserID:    userID,
		Points:    points,
		Source:    entity.PointSourcePurchase,
		Reference: orderID,
		OrderID:   orderID,
	})
}

// AwardSignupBonus grants the one-time signup bonus. The check-then-act guard
// is backed by the unique (user, source, reference) index, so a lost race
// still leaves exactly one earn event.
func (s *loyaltyService) AwardSignupBonus(ctx context.Context, userID uuid.UUID) (*usecase.AwardPointsOutput, error) {
	granted, err := s.loyaltyRepo.HasEarning(ctx, userID, entity.PointSourceSignup, entity.SignupReference)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check signup bonus")
	}
	if granted {
		return s.alreadyAwardedOutput(ctx, userID)
	}

	return s.AwardPoints(ctx, &usecase.AwardPointsInput{
		UserID:    userID,
		Points:    s.config.Loyalty.SignupBonusPoints,
		Source:    entity.PointSourceSignup,
		Reference: entity.SignupReference,
	})
}

// AwardReviewBonus grants the one-time bonus for a product review.
func (s *loyaltyService) AwardReviewBonus(ctx context.Context, userID uuid.UUID, reviewID string) (*usecase.AwardPointsOutput, error) {
	if reviewID == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("review ID is required")
	}

	granted, err := s.loyaltyRepo.HasEarning(ctx, userID, entity.PointSourceReview, reviewID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check review bonus")
	}
	if granted {
		return s.alreadyAwardedOutput(ctx, userID)
	}

	return s.AwardPoints(ctx, &usecase.AwardPointsInput{
		UserID:    userID,
		Points:    s.config.Loyalty.ReviewBonusPoints,
		Source:    entity.PointSourceReview,
		Reference: reviewID,
		ReviewID:  reviewID,
	})
}

// AwardReferralBonus grants the one-time bonus for a rewarded referral.
func (s *loyaltyService) AwardReferralBonus(ctx context.Context, userID uuid.UUID, referralID uuid.UUID, points int) (*usecase.AwardPointsOutput, error) {
	granted, err := s.loyaltyRepo.HasEarning(ctx, userID, entity.PointSourceReferral, referralID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to check referral bonus")
	}
	if granted {
		return s.alreadyAwardedOutput(ctx, userID)
	}

	return s.AwardPoints(ctx, &usecase.AwardPointsInput{
		UserID:     userID,
		Points:     points,
		Source:     entity.PointSourceReferral,
		Reference:  referralID.String(),
		ReferralID: &referralID,
	})
}

// GetUserAvailablePoints derives the spendable balance from the append-only
// logs: non-expired earnings minus applied redemptions, floored at zero.
// There is no cached point balance, unlike gift cards.
func (s *loyaltyService) GetUserAvailablePoints(ctx context.Context, userID uuid.UUID) (int, error) {
	earned, err := s.loyaltyRepo.SumActivePoints(ctx, userID, time.Now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum earned points")
	}

	redeemed, err := s.loyaltyRepo.SumRedeemedPoints(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum redeemed points")
	}

	available := earned - redeemed
	if available < 0 {
		available = 0
	}

	return int(available), nil
}

// RedeemPoints converts points into an order discount at the configured rate.
// The request is validated against a freshly summed total inside the
// transaction; over-redemption is a typed failure.
func (s *loyaltyService) RedeemPoints(ctx context.Context, userID uuid.UUID, points int, orderID string) (*usecase.RedeemPointsResult, error) {
	if points <= 0 {
		return &usecase.RedeemPointsResult{Success: false, Error: "points to redeem must be positive"}, nil
	}

	result := &usecase.RedeemPointsResult{}

	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		userRepo := f.NewUserRepository()
		loyaltyRepo := f.NewLoyaltyRepository()

		// Lock the user row so concurrent redemptions serialize.
		user, err := userRepo.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		now := time.Now()
		earned, err := loyaltyRepo.SumActivePoints(ctx, user.ID, now)
		if err != nil {
			return errors.Wrap(err, "failed to sum earned points")
		}
		redeemed, err := loyaltyRepo.SumRedeemedPoints(ctx, user.ID)
		if err != nil {
			return errors.Wrap(err, "failed to sum redeemed points")
		}

		available := earned - redeemed
		if available < 0 {
			available = 0
		}

		if int64(points) > available {
			result.Success = false
			result.Error = "insufficient points"

			return nil
		}

		discount := float64(points) / float64(s.config.Loyalty.PointsPerDollarDiscount)

		redemption := &entity.LoyaltyRedemption{
			UserID:         user.ID,
			PointsUsed:     points,
			DiscountAmount: discount,
			OrderID:        orderID,
			Status:         entity.RedemptionStatusApplied,
		}
		if err := loyaltyRepo.CreateRedemption(ctx, redemption); err != nil {
			return errors.Wrap(err, "failed to record redemption")
		}

		result.Success = true
		result.PointsUsed = points
		result.DiscountAmount = discount

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, err
	}

	return result, nil
}

// GetUserLoyaltySummary returns the read-only aggregate for display.
func (s *loyaltyService) GetUserLoyaltySummary(ctx context.Context, userID uuid.UUID) (*usecase.LoyaltySummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	available, err := s.GetUserAvailablePoints(ctx, userID)
	if err != nil {
		return nil, err
	}

	tier := entity.CalculateTier(user.TotalLifetimePoints)

	summary := &usecase.LoyaltySummary{
		UserID:              user.ID,
		Tier:                tier,
		TierBenefits:        tier.Benefits(),
		Multiplier:          tier.Multiplier(),
		TotalLifetimePoints: user.TotalLifetimePoints,
		AvailablePoints:     available,
	}

	if next, delta, ok := entity.PointsToNextTier(user.TotalLifetimePoints); ok {
		summary.NextTier = &next
		summary.PointsToNextTier = &delta
	}

	return summary, nil
}

// earningExpiry computes the expiration stamp for new earnings, nil when
// points are configured to never expire.
func (s *loyaltyService) earningExpiry() *time.Time {
	days := s.config.Loyalty.PointsExpireInDays
	if days <= 0 {
		return nil
	}

	t := time.Now().AddDate(0, 0, days)

	return &t
}

// alreadyAwardedOutput reports an idempotent no-op for a bonus that was
// already granted, carrying the user's current standing.
func (s *loyaltyService) alreadyAwardedOutput(ctx context.Context, userID uuid.UUID) (*usecase.AwardPointsOutput, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return &usecase.AwardPointsOutput{
		Success:             true,
		PointsAwarded:       0,
		TotalLifetimePoints: user.TotalLifetimePoints,
		Tier:                user.LoyaltyTier,
		TierChanged:         false,
	}, nil
}

// publishEvent emits a reward event after the owning transaction committed.
func (s *loyaltyService) publishEvent(ctx context.Context, event *service.RewardEvent) {
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
