package service

import (
	"context"
)

// Reward event types published to the message queue. Consumers (mail,
// push, analytics) react to them; the ledger never depends on delivery.
const (
	EventTierChanged      = "loyalty.tier_changed"
	EventGiftCardRedeemed = "giftcard.redeemed"
	EventReferralRewarded = "referral.rewarded"
)

// RewardEvent represents a ledger-side fact worth broadcasting, emitted after
// the owning transaction has committed.
type RewardEvent struct {
	RequestID  string  `json:"request_id,omitempty"` // For distributed tracing
	Type       string  `json:"type"`
	UserID     string  `json:"user_id"`
	OrderID    string  `json:"order_id,omitempty"`
	Amount     float64 `json:"amount,omitempty"` // Monetary amount involved, when applicable.
	Points     int     `json:"points,omitempty"`
	Tier       string  `json:"tier,omitempty"` // New tier for tier-change events.
	ReferralID string  `json:"referral_id,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishRewardEvent publishes a reward event for async processing
	PublishRewardEvent(ctx context.Context, event *RewardEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
