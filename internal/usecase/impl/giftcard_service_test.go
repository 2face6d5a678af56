package impl

import (
	"context"
	"testing"
	"time"

	"bloom/internal/domain/entity"
	domainerrors "bloom/internal/domain/errors"
	"bloom/internal/infra/persistence/memory"
	"bloom/internal/infra/qrcode"
	"bloom/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGiftCardService(f *fixture) usecase.GiftCardUsecase {
	return NewGiftCardService(
		memory.NewTransactionManager(f.store),
		memory.NewGiftCardRepository(f.store),
		f.generator,
		qrcode.NewQRCodeService(256, "M"),
		f.publisher,
		f.cfg,
		newTestLogger(),
	)
}

func TestCreateGiftCard_PresetAmount(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: 50})
	require.NoError(t, err)

	assert.Len(t, card.Code, 16)
	assert.Equal(t, 50.0, card.InitialBalance)
	assert.Equal(t, 50.0, card.CurrentBalance)
	assert.Equal(t, entity.GiftCardStatusActive, card.Status)
	assert.Nil(t, card.ExpiresAt)

	// The founding PURCHASE entry must exist alongside the card.
	txns, err := memory.NewGiftCardRepository(f.store).FindTransactionsByCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, entity.GiftCardTxnPurchase, txns[0].Type)
	assert.Equal(t, 50.0, txns[0].Amount)
}

func TestCreateGiftCard_CustomAmountWithExpiry(t *testing.T) {
	f := newFixture()
	f.cfg.GiftCard.ExpiresInDays = 365
	svc := newGiftCardService(f)

	card, err := svc.CreateGiftCard(context.Background(), &usecase.CreateGiftCardInput{Amount: 73.5})
	require.NoError(t, err)

	require.NotNil(t, card.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 365), *card.ExpiresAt, time.Minute)
}

func TestCreateGiftCard_AmountOutOfRange(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	for _, amount := range []float64{0, -5, 5, 750} {
		_, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: amount})
		require.Error(t, err, "amount %v should be rejected", amount)

		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "AMOUNT_OUT_OF_RANGE", appErr.ErrorCode())
	}
}

func TestRedeemGiftCard_CapsAtBalance(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: 50})
	require.NoError(t, err)

	// $30 against order_1 leaves $20 on an ACTIVE card.
	res, err := svc.RedeemGiftCard(ctx, card.Code, 30, "order_1")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 30.0, res.AmountApplied)
	assert.Equal(t, 20.0, res.RemainingBalance)

	details, err := svc.GetGiftCardByCode(ctx, card.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.GiftCardStatusActive, details.Card.Status)

	// A second $25 redemption is capped at the $20 available and exhausts the card.
	res, err = svc.RedeemGiftCard(ctx, card.Code, 25, "order_2")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 20.0, res.AmountApplied)
	assert.Equal(t, 0.0, res.RemainingBalance)

	details, err = svc.GetGiftCardByCode(ctx, card.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.GiftCardStatusRedeemed, details.Card.Status)
	assert.Equal(t, 0.0, details.Card.CurrentBalance)
}

func TestRedeemGiftCard_LedgerInvariant(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: 100})
	require.NoError(t, err)

	_, err = svc.RedeemGiftCard(ctx, card.Code, 40, "order_1")
	require.NoError(t, err)
	_, err = svc.RefundGiftCard(ctx, card.ID, 15, "order_1")
	require.NoError(t, err)
	_, err = svc.RedeemGiftCard(ctx, card.Code, 60, "order_2")
	require.NoError(t, err)

	details, err := svc.GetGiftCardByCode(ctx, card.Code)
	require.NoError(t, err)

	// currentBalance == initialBalance + sum of non-PURCHASE amounts.
	var delta float64
	for _, txn := range details.Transactions {
		if txn.Type != entity.GiftCardTxnPurchase {
			delta += txn.Amount
		}
	}
	assert.InDelta(t, details.Card.CurrentBalance, details.Card.InitialBalance+delta, 1e-9)
	assert.GreaterOrEqual(t, details.Card.CurrentBalance, 0.0)
	assert.LessOrEqual(t, details.Card.CurrentBalance, details.Card.InitialBalance)
}

func TestRedeemGiftCard_NotFound(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)

	res, err := svc.RedeemGiftCard(context.Background(), "AAAA-BBBB-CCCC-DDDD", 10, "order_1")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "gift card not found", res.Error)
}

func TestRedeemGiftCard_NormalizesCode(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: 25})
	require.NoError(t, err)

	formatted := entity.FormatGiftCardCode(card.Code)
	res, err := svc.RedeemGiftCard(ctx, "  "+formatted+" ", 10, "order_1")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 10.0, res.AmountApplied)
}

func TestRedeemGiftCard_DeduplicatesByOrder(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: 50})
	require.NoError(t, err)

	first, err := svc.RedeemGiftCard(ctx, card.Code, 30, "order_1")
	require.NoError(t, err)
	require.True(t, first.Success)

	// A retried call for the same order returns the prior application
	// without moving the balance again.
	second, err := svc.RedeemGiftCard(ctx, card.Code, 30, "order_1")
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, 30.0, second.AmountApplied)
	assert.Equal(t, 20.0, second.RemainingBalance)

	details, err := svc.GetGiftCardByCode(ctx, card.Code)
	require.NoError(t, err)
	assert.Equal(t, 20.0, details.Card.CurrentBalance)

	var redemptions int
	for _, txn := range details.Transactions {
		if txn.Type == entity.GiftCardTxnRedemption {
			redemptions++
		}
	}
	assert.Equal(t, 1, redemptions)
}

func TestRedeemGiftCard_ExpiredCard(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	card := &entity.GiftCard{
		Code:           "EXPIREDCARD12345",
		InitialBalance: 50,
		CurrentBalance: 50,
		Status:         entity.GiftCardStatusActive,
		ExpiresAt:      &expired,
	}
	require.NoError(t, memory.NewGiftCardRepository(f.store).CreateCard(ctx, card))

	res, err := svc.RedeemGiftCard(ctx, card.Code, 10, "order_1")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "gift card has expired", res.Error)
}

func TestRefundGiftCard_CapsAtInitialBalance(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: 50})
	require.NoError(t, err)

	// Fully redeem, then refund more than was spent.
	res, err := svc.RedeemGiftCard(ctx, card.Code, 50, "order_1")
	require.NoError(t, err)
	require.True(t, res.Success)

	refund, err := svc.RefundGiftCard(ctx, card.ID, 80, "order_1")
	require.NoError(t, err)
	assert.True(t, refund.Success)
	assert.Equal(t, 50.0, refund.NewBalance)

	details, err := svc.GetGiftCardByCode(ctx, card.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.GiftCardStatusActive, details.Card.Status)
	assert.Equal(t, 50.0, details.Card.CurrentBalance)
}

func TestRefundGiftCard_RevertsRedeemedToActive(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: 25})
	require.NoError(t, err)

	_, err = svc.RedeemGiftCard(ctx, card.Code, 25, "order_1")
	require.NoError(t, err)

	refund, err := svc.RefundGiftCard(ctx, card.ID, 10, "order_1")
	require.NoError(t, err)
	assert.True(t, refund.Success)
	assert.Equal(t, 10.0, refund.NewBalance)

	details, err := svc.GetGiftCardByCode(ctx, card.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.GiftCardStatusActive, details.Card.Status)
}

func TestUpdateExpiredGiftCards(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()
	repo := memory.NewGiftCardRepository(f.store)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)

	overdue := &entity.GiftCard{Code: "OVERDUE234567890", InitialBalance: 25, CurrentBalance: 25, Status: entity.GiftCardStatusActive, ExpiresAt: &past}
	current := &entity.GiftCard{Code: "CURRENT234567890", InitialBalance: 25, CurrentBalance: 25, Status: entity.GiftCardStatusActive, ExpiresAt: &future}
	require.NoError(t, repo.CreateCard(ctx, overdue))
	require.NoError(t, repo.CreateCard(ctx, current))

	count, err := svc.UpdateExpiredGiftCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Re-running matches nothing: the sweep is idempotent.
	count, err = svc.UpdateExpiredGiftCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	got, err := repo.FindByCode(ctx, overdue.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.GiftCardStatusExpired, got.Status)
}

func TestGetGiftCardByCode_FormatsCode(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: 25})
	require.NoError(t, err)

	details, err := svc.GetGiftCardByCode(ctx, card.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.FormatGiftCardCode(card.Code), details.FormattedCode)
	assert.Equal(t, card.Code, entity.NormalizeCode(details.FormattedCode))
}

func TestGenerateGiftCardQR(t *testing.T) {
	f := newFixture()
	svc := newGiftCardService(f)
	ctx := context.Background()

	card, err := svc.CreateGiftCard(ctx, &usecase.CreateGiftCardInput{Amount: 25})
	require.NoError(t, err)

	png, err := svc.GenerateGiftCardQR(ctx, card.Code)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	_, err = svc.GenerateGiftCardQR(ctx, "NOSUCHCODE123456")
	assert.Error(t, err)
}
