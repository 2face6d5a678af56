// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bloom/internal/delivery/http/middleware"
	"bloom/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	GiftCardHandler *handler.GiftCardHandler
	LoyaltyHandler  *handler.LoyaltyHandler
	ReferralHandler *handler.ReferralHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	giftCardHandler *handler.GiftCardHandler
	loyaltyHandler  *handler.LoyaltyHandler
	referralHandler *handler.ReferralHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		giftCardHandler: params.GiftCardHandler,
		loyaltyHandler:  params.LoyaltyHandler,
		referralHandler: params.ReferralHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// All ledger routes require an authenticated service caller.
	giftCardGroup := e.Group("/giftcards")
	giftCardGroup.Use(r.authMiddleware.Authenticate)
	{
		giftCardGroup.POST("", r.giftCardHandler.CreateGiftCard)
		giftCardGroup.POST("/redeem", r.giftCardHandler.RedeemGiftCard)
		giftCardGroup.POST("/:id/refund", r.giftCardHandler.RefundGiftCard)
		giftCardGroup.GET("/:code", r.giftCardHandler.GetGiftCard)
		giftCardGroup.GET("/:code/qr", r.giftCardHandler.GenerateGiftCardQR)
		// Periodic maintenance, driven by an external scheduler.
		giftCardGroup.POST("/expire-overdue", r.giftCardHandler.ExpireGiftCards)
	}

	loyaltyGroup := e.Group("/loyalty")
	loyaltyGroup.Use(r.authMiddleware.Authenticate)
	{
		loyaltyGroup.POST("/points/purchase", r.loyaltyHandler.AwardPurchasePoints)
		loyaltyGroup.POST("/points/signup", r.loyaltyHandler.AwardSignupBonus)
		loyaltyGroup.POST("/points/review", r.loyaltyHandler.AwardReviewBonus)
		loyaltyGroup.POST("/points/redeem", r.loyaltyHandler.RedeemPoints)
		loyaltyGroup.GET("/users/:userId/points", r.loyaltyHandler.GetAvailablePoints)
		loyaltyGroup.GET("/users/:userId/summary", r.loyaltyHandler.GetLoyaltySummary)
	}

	referralGroup := e.Group("/referrals")
	referralGroup.Use(r.authMiddleware.Authenticate)
	{
		referralGroup.GET("/users/:userId/code", r.referralHandler.GetReferralCode)
		referralGroup.GET("/users/:userId/stats", r.referralHandler.GetReferralStats)
		referralGroup.POST("/validate", r.referralHandler.ValidateReferralCode)
		referralGroup.POST("/apply", r.referralHandler.ApplyReferralCode)
		referralGroup.POST("/complete", r.referralHandler.CompleteReferral)
	}
}
