package impl

import (
	"context"
	"testing"
	"time"

	"bloom/internal/domain/entity"
	"bloom/internal/domain/service"
	"bloom/internal/infra/persistence/memory"
	"bloom/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoyaltyService(f *fixture) usecase.LoyaltyUsecase {
	return NewLoyaltyService(
		memory.NewTransactionManager(f.store),
		memory.NewLoyaltyRepository(f.store),
		memory.NewUserRepository(f.store),
		f.publisher,
		f.cfg,
		newTestLogger(),
	)
}

func TestAwardPurchasePoints_TierFlip(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	// 450 lifetime points, 50 short of SPROUT.
	user := f.seedUser("Jane Doe", 450)

	out, err := svc.AwardPurchasePoints(ctx, user.ID, "order_1", 60)
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, 60, out.PointsAwarded)
	assert.Equal(t, 510, out.TotalLifetimePoints)
	assert.Equal(t, entity.TierSprout, out.Tier)
	assert.True(t, out.TierChanged)

	// Tier flip publishes a notification event.
	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, service.EventTierChanged, events[0].Type)
	assert.Equal(t, entity.TierSprout.String(), events[0].Tier)
}

func TestAwardPurchasePoints_AppliesTierMultiplier(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	// FLOURISH carries a 1.5x multiplier: floor(100 * 1 * 1.5) = 150.
	user := f.seedUser("Kai", 3200)

	out, err := svc.AwardPurchasePoints(ctx, user.ID, "order_1", 100)
	require.NoError(t, err)
	assert.Equal(t, 150, out.PointsAwarded)
	assert.False(t, out.TierChanged)
}

func TestAwardPurchasePoints_ZeroIsNoOp(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	user := f.seedUser("Jane Doe", 0)

	out, err := svc.AwardPurchasePoints(ctx, user.ID, "order_1", 0.4)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 0, out.PointsAwarded)

	// No zero-point ledger rows.
	available, err := svc.GetUserAvailablePoints(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}

func TestAwardSignupBonus_AtMostOnce(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	user := f.seedUser("Jane Doe", 0)

	first, err := svc.AwardSignupBonus(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, first.PointsAwarded)
	assert.Equal(t, 100, first.TotalLifetimePoints)

	// The second grant is an idempotent no-op.
	second, err := svc.AwardSignupBonus(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.PointsAwarded)
	assert.Equal(t, 100, second.TotalLifetimePoints)

	available, err := svc.GetUserAvailablePoints(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, available)
}

func TestAwardReviewBonus_PerReview(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	user := f.seedUser("Jane Doe", 0)

	out, err := svc.AwardReviewBonus(ctx, user.ID, "review_1")
	require.NoError(t, err)
	assert.Equal(t, 25, out.PointsAwarded)

	// Same review: no-op. Different review: a fresh bonus.
	out, err = svc.AwardReviewBonus(ctx, user.ID, "review_1")
	require.NoError(t, err)
	assert.Equal(t, 0, out.PointsAwarded)

	out, err = svc.AwardReviewBonus(ctx, user.ID, "review_2")
	require.NoError(t, err)
	assert.Equal(t, 25, out.PointsAwarded)
}

func TestGetUserAvailablePoints_ExcludesExpiredAndFloorsAtZero(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()
	repo := memory.NewLoyaltyRepository(f.store)

	user := f.seedUser("Jane Doe", 0)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.CreateEarning(ctx, &entity.LoyaltyEarning{
		UserID: user.ID, Points: 500, Source: entity.PointSourcePurchase,
		Reference: "order_old", ExpiresAt: &past,
	}))
	require.NoError(t, repo.CreateEarning(ctx, &entity.LoyaltyEarning{
		UserID: user.ID, Points: 200, Source: entity.PointSourcePurchase,
		Reference: "order_new",
	}))

	available, err := svc.GetUserAvailablePoints(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 200, available)

	// Redemptions beyond remaining earnings still floor the result at zero.
	require.NoError(t, repo.CreateRedemption(ctx, &entity.LoyaltyRedemption{
		UserID: user.ID, PointsUsed: 300, DiscountAmount: 3,
		Status: entity.RedemptionStatusApplied,
	}))

	available, err = svc.GetUserAvailablePoints(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}

func TestRedeemPoints_Discount(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	user := f.seedUser("Jane Doe", 0)

	_, err := svc.AwardPoints(ctx, &usecase.AwardPointsInput{
		UserID: user.ID, Points: 400, Source: entity.PointSourcePurchase, Reference: "order_1",
	})
	require.NoError(t, err)

	// 250 points at 100 points per dollar is a $2.50 discount.
	res, err := svc.RedeemPoints(ctx, user.ID, 250, "order_2")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 250, res.PointsUsed)
	assert.InDelta(t, 2.5, res.DiscountAmount, 1e-9)

	available, err := svc.GetUserAvailablePoints(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, available)
}

func TestRedeemPoints_InsufficientPoints(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	user := f.seedUser("Jane Doe", 0)

	res, err := svc.RedeemPoints(ctx, user.ID, 100, "order_1")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "insufficient points", res.Error)

	// Lifetime points are untouched by redemption attempts.
	summary, err := svc.GetUserLoyaltySummary(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalLifetimePoints)
}

func TestRedeemPoints_DoesNotReduceLifetimePoints(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	user := f.seedUser("Jane Doe", 0)

	_, err := svc.AwardPoints(ctx, &usecase.AwardPointsInput{
		UserID: user.ID, Points: 600, Source: entity.PointSourcePurchase, Reference: "order_1",
	})
	require.NoError(t, err)

	res, err := svc.RedeemPoints(ctx, user.ID, 600, "order_2")
	require.NoError(t, err)
	require.True(t, res.Success)

	summary, err := svc.GetUserLoyaltySummary(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 600, summary.TotalLifetimePoints)
	assert.Equal(t, entity.TierSprout, summary.Tier)
	assert.Equal(t, 0, summary.AvailablePoints)
}

func TestGetUserLoyaltySummary_NextTier(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	user := f.seedUser("Jane Doe", 1200)

	summary, err := svc.GetUserLoyaltySummary(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.TierSprout, summary.Tier)
	assert.Equal(t, 1.1, summary.Multiplier)
	require.NotNil(t, summary.NextTier)
	assert.Equal(t, entity.TierBloom, *summary.NextTier)
	require.NotNil(t, summary.PointsToNextTier)
	assert.Equal(t, 300, *summary.PointsToNextTier)
}

func TestGetUserLoyaltySummary_TopTierHasNoNext(t *testing.T) {
	f := newFixture()
	svc := newLoyaltyService(f)
	ctx := context.Background()

	user := f.seedUser("Jane Doe", 5000)

	summary, err := svc.GetUserLoyaltySummary(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.TierFlourish, summary.Tier)
	assert.Nil(t, summary.NextTier)
	assert.Nil(t, summary.PointsToNextTier)
}
