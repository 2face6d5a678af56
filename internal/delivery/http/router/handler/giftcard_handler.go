package handler

import (
	"log/slog"
	"net/http"

	"bloom/internal/delivery/http/response"
	"bloom/internal/domain/entity"
	"bloom/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// GiftCardHandlerParams holds dependencies for GiftCardHandler, injected by Fx.
type GiftCardHandlerParams struct {
	fx.In

	GiftCardUC usecase.GiftCardUsecase
	Logger     *slog.Logger
}

// GiftCardHandler holds dependencies for gift card endpoints.
type GiftCardHandler struct {
	giftCardUC usecase.GiftCardUsecase
	logger     *slog.Logger
}

// NewGiftCardHandler is the constructor for GiftCardHandler
func NewGiftCardHandler(params GiftCardHandlerParams) *GiftCardHandler {
	return &GiftCardHandler{
		giftCardUC: params.GiftCardUC,
		logger:     params.Logger,
	}
}

// CreateGiftCardRequest represents the request body for issuing a gift card
type CreateGiftCardRequest struct {
	Amount         float64    `json:"amount" validate:"required,gt=0"`
	PurchaserID    *uuid.UUID `json:"purchaser_id,omitempty"`
	RecipientEmail string     `json:"recipient_email,omitempty" validate:"omitempty,email"`
	RecipientName  string     `json:"recipient_name,omitempty"`
}

// RedeemGiftCardRequest represents the request body for redeeming a gift card
type RedeemGiftCardRequest struct {
	Code    string  `json:"code" validate:"required"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	OrderID string  `json:"order_id,omitempty"`
}

// RefundGiftCardRequest represents the request body for refunding to a gift card
type RefundGiftCardRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	OrderID string  `json:"order_id,omitempty"`
}

// CreateGiftCard handles issuing a new gift card
func (h *GiftCardHandler) CreateGiftCard(c echo.Context) error {
	var req CreateGiftCardRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid gift card input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	card, err := h.giftCardUC.CreateGiftCard(c.Request().Context(), &usecase.CreateGiftCardInput{
		Amount:         req.Amount,
		PurchaserID:    req.PurchaserID,
		RecipientEmail: req.RecipientEmail,
		RecipientName:  req.RecipientName,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, map[string]any{
		"gift_card":      card,
		"formatted_code": entity.FormatGiftCardCode(card.Code),
	}, "Gift card created successfully")
}

// RedeemGiftCard handles applying gift card balance to an order
func (h *GiftCardHandler) RedeemGiftCard(c echo.Context) error {
	var req RedeemGiftCardRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid redemption input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.giftCardUC.RedeemGiftCard(c.Request().Context(), req.Code, req.Amount, req.OrderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if !result.Success {
		return response.Rejected(c, "REDEMPTION_REJECTED", result.Error)
	}

	return response.Success(c, http.StatusOK, result, "Gift card redeemed successfully")
}

// RefundGiftCard handles restoring balance to a gift card
func (h *GiftCardHandler) RefundGiftCard(c echo.Context) error {
	giftCardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid gift card ID")
	}

	var req RefundGiftCardRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refund input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.giftCardUC.RefundGiftCard(c.Request().Context(), giftCardID, req.Amount, req.OrderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if !result.Success {
		return response.Rejected(c, "REFUND_REJECTED", result.Error)
	}

	return response.Success(c, http.StatusOK, result, "Gift card refunded successfully")
}

// GetGiftCard handles retrieving a gift card with its transaction history
func (h *GiftCardHandler) GetGiftCard(c echo.Context) error {
	details, err := h.giftCardUC.GetGiftCardByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, details, "Gift card retrieved successfully")
}

// GenerateGiftCardQR handles rendering the card code as a QR image
func (h *GiftCardHandler) GenerateGiftCardQR(c echo.Context) error {
	qrCode, err := h.giftCardUC.GenerateGiftCardQR(c.Request().Context(), c.Param("code"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	// Return QR code as PNG image
	c.Response().Header().Set("Content-Disposition", "inline; filename=gift-card-qr.png")

	return c.Blob(http.StatusOK, "image/png", qrCode)
}

// ExpireGiftCards handles the periodic expiration sweep
func (h *GiftCardHandler) ExpireGiftCards(c echo.Context) error {
	count, err := h.giftCardUC.UpdateExpiredGiftCards(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"expired_count": count}, "Expired gift cards updated successfully")
}
