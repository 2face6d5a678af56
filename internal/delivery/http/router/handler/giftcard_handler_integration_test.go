package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bloom/config"
	"bloom/internal/delivery/http/validator"
	"bloom/internal/infra/codegen"
	"bloom/internal/infra/persistence/memory"
	"bloom/internal/infra/qrcode"
	"bloom/internal/usecase"
	"bloom/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGiftCardUsecase() usecase.GiftCardUsecase {
	store := memory.NewStore()
	cfg := &config.Config{
		GiftCard: &config.GiftCardConfig{
			PresetAmounts:   []float64{25, 50, 100, 200},
			MinCustomAmount: 10,
			MaxCustomAmount: 500,
			CodeLength:      16,
		},
	}

	return impl.NewGiftCardService(
		memory.NewTransactionManager(store),
		memory.NewGiftCardRepository(store),
		codegen.New(),
		qrcode.NewQRCodeService(256, "M"),
		nil,
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	return e
}

func TestGiftCardHandler_CreateGiftCard_Integration(t *testing.T) {
	handler := &GiftCardHandler{
		giftCardUC: newTestGiftCardUsecase(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/giftcards", strings.NewReader(`{"amount": 50}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.CreateGiftCard(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"success":true`)
	assert.Contains(t, body, `"formatted_code"`)
	assert.Contains(t, body, `"gift_card"`)
}

func TestGiftCardHandler_CreateGiftCard_ValidationError(t *testing.T) {
	handler := &GiftCardHandler{
		giftCardUC: newTestGiftCardUsecase(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/giftcards", strings.NewReader(`{"amount": 0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.CreateGiftCard(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestGiftCardHandler_CreateGiftCard_AmountOutOfRange(t *testing.T) {
	handler := &GiftCardHandler{
		giftCardUC: newTestGiftCardUsecase(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/giftcards", strings.NewReader(`{"amount": 750}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.CreateGiftCard(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "AMOUNT_OUT_OF_RANGE")
}

func TestGiftCardHandler_RedeemGiftCard_NotFound(t *testing.T) {
	handler := &GiftCardHandler{
		giftCardUC: newTestGiftCardUsecase(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/giftcards/redeem",
		strings.NewReader(`{"code": "NOSUCHCODE123456", "amount": 10, "order_id": "order_1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.RedeemGiftCard(c))

	// A well-formed request the ledger rejected, not a protocol error.
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "REDEMPTION_REJECTED")
}
