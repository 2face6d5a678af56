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

// LoyaltyHandlerParams holds dependencies for LoyaltyHandler, injected by Fx.
type LoyaltyHandlerParams struct {
	fx.In

	LoyaltyUC usecase.LoyaltyUsecase
	Logger    *slog.Logger
}

// LoyaltyHandler holds dependencies for loyalty endpoints.
type LoyaltyHandler struct {
	loyaltyUC usecase.LoyaltyUsecase
	logger    *slog.Logger
}

// NewLoyaltyHandler is the constructor for LoyaltyHandler
func NewLoyaltyHandler(params LoyaltyHandlerParams) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyUC: params.LoyaltyUC,
		logger:    params.Logger,
	}
}

// AwardPurchasePointsRequest represents the request body for purchase awards
type AwardPurchasePointsRequest struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	OrderID    string    `json:"order_id" validate:"required"`
	OrderTotal float64   `json:"order_total" validate:"required,gt=0"`
}

// AwardSignupBonusRequest represents the request body for the signup bonus
type AwardSignupBonusRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// AwardReviewBonusRequest represents the request body for a review bonus
type AwardReviewBonusRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	ReviewID string    `json:"review_id" validate:"required"`
}

// RedeemPointsRequest represents the request body for redeeming points
type RedeemPointsRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	Points  int       `json:"points" validate:"required,gt=0"`
	OrderID string    `json:"order_id,omitempty"`
}

// AwardPurchasePoints handles awarding points for a completed order
func (h *LoyaltyHandler) AwardPurchasePoints(c echo.Context) error {
	var req AwardPurchasePointsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid purchase award input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.loyaltyUC.AwardPurchasePoints(c.Request().Context(), req.UserID, req.OrderID, req.OrderTotal)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output, "Purchase points awarded successfully")
}

// AwardSignupBonus handles granting the one-time signup bonus
func (h *LoyaltyHandler) AwardSignupBonus(c echo.Context) error {
	var req AwardSignupBonusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup bonus input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.loyaltyUC.AwardSignupBonus(c.Request().Context(), req.UserID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output, "Signup bonus processed successfully")
}

// AwardReviewBonus handles granting the per-review bonus
func (h *LoyaltyHandler) AwardReviewBonus(c echo.Context) error {
	var req AwardReviewBonusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review bonus input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.loyaltyUC.AwardReviewBonus(c.Request().Context(), req.UserID, req.ReviewID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output, "Review bonus processed successfully")
}

// RedeemPoints handles converting points into an order discount
func (h *LoyaltyHandler) RedeemPoints(c echo.Context) error {
	var req RedeemPointsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid redemption input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.loyaltyUC.RedeemPoints(c.Request().Context(), req.UserID, req.Points, req.OrderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if !result.Success {
		return response.Rejected(c, "POINTS_REDEMPTION_REJECTED", result.Error)
	}

	return response.Success(c, http.StatusOK, result, "Points redeemed successfully")
}

// GetAvailablePoints handles retrieving a user's spendable balance
func (h *LoyaltyHandler) GetAvailablePoints(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	points, err := h.loyaltyUC.GetUserAvailablePoints(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"available_points": points}, "Available points retrieved successfully")
}

// GetLoyaltySummary handles retrieving a user's loyalty standing
func (h *LoyaltyHandler) GetLoyaltySummary(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	summary, err := h.loyaltyUC.GetUserLoyaltySummary(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, summary, "Loyalty summary retrieved successfully")
}
