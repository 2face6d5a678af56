package handler

import (
	"log/slog"
	"net/http"

	"bloom/internal/delivery/http/response"
	"bloom/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReferralHandlerParams holds dependencies for ReferralHandler, injected by Fx.
type ReferralHandlerParams struct {
	fx.In

	ReferralUC usecase.ReferralUsecase
	LoyaltyUC  usecase.LoyaltyUsecase
	Logger     *slog.Logger
}

// ReferralHandler holds dependencies for referral endpoints. It composes the
// referral and loyalty engines: completing a referral yields the reward
// points, and this layer turns them into an actual loyalty earning.
type ReferralHandler struct {
	referralUC usecase.ReferralUsecase
	loyaltyUC  usecase.LoyaltyUsecase
	logger     *slog.Logger
}

// NewReferralHandler is the constructor for ReferralHandler
func NewReferralHandler(params ReferralHandlerParams) *ReferralHandler {
	return &ReferralHandler{
		referralUC: params.ReferralUC,
		loyaltyUC:  params.LoyaltyUC,
		logger:     params.Logger,
	}
}

// ValidateReferralCodeRequest represents the request body for code validation
type ValidateReferralCodeRequest struct {
	Code   string     `json:"code" validate:"required"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// ApplyReferralCodeRequest represents the request body for applying a code
type ApplyReferralCodeRequest struct {
	Code      string    `json:"code" validate:"required"`
	RefereeID uuid.UUID `json:"referee_id" validate:"required"`
}

// CompleteReferralRequest represents the request body for rewarding a referral
type CompleteReferralRequest struct {
	RefereeID   uuid.UUID `json:"referee_id" validate:"required"`
	OrderID     string    `json:"order_id" validate:"required"`
	OrderAmount float64   `json:"order_amount" validate:"required,gt=0"`
}

// GetReferralCode handles retrieving (and lazily issuing) a user's code
func (h *ReferralHandler) GetReferralCode(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	code, err := h.referralUC.GetUserReferralCode(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"code": code}, "Referral code retrieved successfully")
}

// ValidateReferralCode handles checking whether a code can be applied
func (h *ReferralHandler) ValidateReferralCode(c echo.Context) error {
	var req ValidateReferralCodeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid validation input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.referralUC.ValidateReferralCode(c.Request().Context(), req.Code, req.UserID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Referral code validated")
}

// ApplyReferralCode handles recording a referral at signup
func (h *ReferralHandler) ApplyReferralCode(c echo.Context) error {
	var req ApplyReferralCodeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid referral input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.referralUC.ApplyReferralCode(c.Request().Context(), req.Code, req.RefereeID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if !result.Success {
		return response.Rejected(c, "REFERRAL_REJECTED", result.Error)
	}

	return response.Success(c, http.StatusCreated, result, "Referral code applied successfully")
}

// CompleteReferral handles rewarding a referral at the referee's first order.
// When the completion yields reward points, they are credited to the referrer
// through the loyalty engine; the referral bonus is deduplicated there, so a
// retried request cannot double-award.
func (h *ReferralHandler) CompleteReferral(c echo.Context) error {
	var req CompleteReferralRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid completion input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	ctx := c.Request().Context()

	result, err := h.referralUC.CompleteReferral(ctx, req.RefereeID, req.OrderID, req.OrderAmount)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if result.ReferrerID != nil && result.ReferralID != nil && result.PointsAwarded != nil {
		if _, err := h.loyaltyUC.AwardReferralBonus(ctx, *result.ReferrerID, *result.ReferralID, *result.PointsAwarded); err != nil {
			h.logger.Error("failed to award referral bonus",
				slog.String("referrer_id", result.ReferrerID.String()),
				slog.String("referral_id", result.ReferralID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return response.Success(c, http.StatusOK, result, "Referral completion processed successfully")
}

// GetReferralStats handles retrieving a referrer's aggregate stats
func (h *ReferralHandler) GetReferralStats(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	stats, err := h.referralUC.GetReferralStats(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, stats, "Referral stats retrieved successfully")
}
